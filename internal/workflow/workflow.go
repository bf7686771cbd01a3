// Package workflow runs a verification submission: one photo goes to the
// single-verify endpoint, several go to the batch endpoint.
package workflow

import (
	"context"

	"github.com/samber/lo"

	"github.com/Veraticus/phonecdp/internal/api"
	"github.com/Veraticus/phonecdp/internal/common"
	"github.com/Veraticus/phonecdp/internal/model"
)

// Verifier is the part of the API client a submission needs.
type Verifier interface {
	Verify(ctx context.Context, req api.VerifyRequest, file api.Upload) (model.VerificationResult, error)
	VerifyBatch(ctx context.Context, req api.VerifyRequest, files []api.Upload) (model.BatchResponse, error)
}

// Selection is everything the operator chose before submitting.
type Selection struct {
	PrintSizeMM *int
	Notes       string
	Files       []string
	PatternID   int
}

// CanSubmit reports whether at least one file is pending.
func (s Selection) CanSubmit() bool {
	return len(s.Files) > 0
}

// Outcome is the result of a submission: either Single or Batch.
type Outcome interface {
	outcome()
}

// Single is the outcome of a one-file submission.
type Single struct {
	Result model.VerificationResult
}

// Batch is the outcome of a multi-file submission.
type Batch struct {
	Items []model.BatchItem
}

func (Single) outcome() {}
func (Batch) outcome()  {}

// Submit sends the selection. Files are read from disk when the request is
// built.
func Submit(ctx context.Context, v Verifier, sel Selection) (Outcome, error) {
	return SubmitUploads(ctx, v, sel, lo.Map(sel.Files, func(p string, _ int) api.Upload {
		return api.FileUpload(p)
	}))
}

// SubmitUploads sends already prepared uploads with the selection's fields.
func SubmitUploads(ctx context.Context, v Verifier, sel Selection, uploads []api.Upload) (Outcome, error) {
	if len(uploads) == 0 {
		return nil, common.ErrNoFiles
	}

	req := api.VerifyRequest{
		PatternID:   sel.PatternID,
		PrintSizeMM: sel.PrintSizeMM,
		Notes:       sel.Notes,
	}

	if len(uploads) == 1 {
		res, err := v.Verify(ctx, req, uploads[0])
		if err != nil {
			return nil, err
		}
		return Single{Result: res}, nil
	}

	resp, err := v.VerifyBatch(ctx, req, uploads)
	if err != nil {
		return nil, err
	}
	return Batch{Items: resp.Results}, nil
}

// Summary counts a batch outcome.
type Summary struct {
	Passed int
	Failed int
	Total  int
}

// Summarize counts authentic and failed items of a batch.
func Summarize(items []model.BatchItem) Summary {
	return Summary{
		Passed: lo.CountBy(items, func(it model.BatchItem) bool { return it.Verdict == model.VerdictAuthentic }),
		Failed: lo.CountBy(items, func(it model.BatchItem) bool { return it.Failed() }),
		Total:  len(items),
	}
}
