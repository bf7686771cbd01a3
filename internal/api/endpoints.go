package api

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/Veraticus/phonecdp/internal/model"
)

// Form field names expected by the verification endpoints.
const (
	FieldCaptured      = "captured"
	FieldCapturedFiles = "captured_files"
	FieldPatternID     = "pattern_id"
	FieldPrintSize     = "print_size_mm"
	FieldNotes         = "notes"
)

// ImageKind selects one of the three comparison images of a result.
type ImageKind string

// Comparison images.
const (
	ImageOriginal ImageKind = "original"
	ImageCaptured ImageKind = "captured"
	ImageAligned  ImageKind = "aligned"
)

// ImageKinds lists the comparison images in display order.
var ImageKinds = []ImageKind{ImageOriginal, ImageCaptured, ImageAligned}

// PDFSizes are the print sizes offered for pattern PDFs, in millimeters.
var PDFSizes = []float64{15, 7.5}

// ResultQuery filters GET /api/results.
type ResultQuery struct {
	Verdict   model.Verdict
	Limit     int
	Offset    int
	PatternID int
}

func (q ResultQuery) encode() string {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Verdict != "" {
		v.Set("verdict", string(q.Verdict))
	}
	if q.PatternID > 0 {
		v.Set("pattern_id", strconv.Itoa(q.PatternID))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// VerifyRequest carries the non-file fields of a verification submission.
type VerifyRequest struct {
	PrintSizeMM *int
	Notes       string
	PatternID   int
}

func (r VerifyRequest) form() *Form {
	f := NewForm().AddField(FieldPatternID, strconv.Itoa(r.PatternID))
	if r.PrintSizeMM != nil {
		f.AddField(FieldPrintSize, strconv.Itoa(*r.PrintSizeMM))
	}
	if r.Notes != "" {
		f.AddField(FieldNotes, r.Notes)
	}
	return f
}

// Paths of resources that are displayed or downloaded rather than decoded.

// PatternPreviewPath is the preview image of a pattern.
func PatternPreviewPath(id int) string {
	return fmt.Sprintf("/api/patterns/%d/preview", id)
}

// PatternDownloadPath is the raw pattern image.
func PatternDownloadPath(id int) string {
	return fmt.Sprintf("/api/patterns/%d/download", id)
}

// PatternPDFPath is the print-ready PDF of a pattern at sizeMM.
func PatternPDFPath(id int, sizeMM float64) string {
	return fmt.Sprintf("/api/patterns/%d/pdf?size_mm=%s", id, strconv.FormatFloat(sizeMM, 'f', -1, 64))
}

// ResultImagePath is one of the comparison images of a result.
func ResultImagePath(id int, kind ImageKind) string {
	return fmt.Sprintf("/api/verify/%d/images/%s", id, kind)
}

// ExportPath is the CSV export of all results.
const ExportPath = "/api/results/export"

// Health checks the service.
func (c *Client) Health(ctx context.Context) (model.Health, error) {
	var h model.Health
	err := c.FetchJSON(ctx, "/api/health", &h)
	return h, err
}

// Stats returns the aggregate counters.
func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var s model.Stats
	err := c.FetchJSON(ctx, "/api/results/stats", &s)
	return s, err
}

// ListResults returns stored results, newest first.
func (c *Client) ListResults(ctx context.Context, q ResultQuery) (model.ResultList, error) {
	var l model.ResultList
	err := c.FetchJSON(ctx, "/api/results"+q.encode(), &l)
	return l, err
}

// ListPatterns returns the pattern gallery, newest first.
func (c *Client) ListPatterns(ctx context.Context) ([]model.Pattern, error) {
	var p []model.Pattern
	if err := c.FetchJSON(ctx, "/api/patterns", &p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPattern returns one pattern.
func (c *Client) GetPattern(ctx context.Context, id int) (model.Pattern, error) {
	var p model.Pattern
	err := c.FetchJSON(ctx, fmt.Sprintf("/api/patterns/%d", id), &p)
	return p, err
}

// DeletePattern removes a pattern and its verifications.
func (c *Client) DeletePattern(ctx context.Context, id int) error {
	return c.DeleteResource(ctx, fmt.Sprintf("/api/patterns/%d", id), nil)
}

// GeneratePattern asks the service to create a new pattern.
func (c *Client) GeneratePattern(ctx context.Context, req model.GenerateRequest) (model.Pattern, error) {
	var p model.Pattern
	err := c.PostJSON(ctx, "/api/patterns/generate", req, &p)
	return p, err
}

// Verify submits a single captured photo.
func (c *Client) Verify(ctx context.Context, req VerifyRequest, file Upload) (model.VerificationResult, error) {
	form := req.form().AddFile(FieldCaptured, file)

	var r model.VerificationResult
	err := c.PostForm(ctx, "/api/verify", form, &r)
	return r, err
}

// VerifyBatch submits several captured photos in one request. Each file
// succeeds or fails on its own.
func (c *Client) VerifyBatch(ctx context.Context, req VerifyRequest, files []Upload) (model.BatchResponse, error) {
	form := req.form()
	for _, f := range files {
		form.AddFile(FieldCapturedFiles, f)
	}

	var r model.BatchResponse
	err := c.PostForm(ctx, "/api/verify/batch", form, &r)
	return r, err
}

// GetResult returns one verification result. id is passed through as given.
func (c *Client) GetResult(ctx context.Context, id string) (model.VerificationResult, error) {
	var r model.VerificationResult
	err := c.FetchJSON(ctx, "/api/verify/"+url.PathEscape(id), &r)
	return r, err
}

// UpdateNotes replaces the notes of a result.
func (c *Client) UpdateNotes(ctx context.Context, id int, notes string) (model.Message, error) {
	var m model.Message
	err := c.PatchJSON(ctx, fmt.Sprintf("/api/results/%d/notes", id), model.NotesUpdate{Notes: notes}, &m)
	return m, err
}

// DeleteResult removes a result.
func (c *Client) DeleteResult(ctx context.Context, id int) error {
	return c.DeleteResource(ctx, fmt.Sprintf("/api/results/%d", id), nil)
}

// ExportCSV streams the CSV export into w.
func (c *Client) ExportCSV(ctx context.Context, w io.Writer, progress func(total int64) io.Writer) (int64, error) {
	return c.Download(ctx, ExportPath, w, progress)
}
