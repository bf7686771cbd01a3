package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/phonecdp/internal/api"
	"github.com/Veraticus/phonecdp/internal/common"
	"github.com/Veraticus/phonecdp/internal/model"
)

type fakeVerifier struct {
	err         error
	single      model.VerificationResult
	batch       model.BatchResponse
	lastReq     api.VerifyRequest
	singleCalls int
	batchCalls  int
	batchFiles  int
}

func (f *fakeVerifier) Verify(_ context.Context, req api.VerifyRequest, _ api.Upload) (model.VerificationResult, error) {
	f.singleCalls++
	f.lastReq = req
	return f.single, f.err
}

func (f *fakeVerifier) VerifyBatch(_ context.Context, req api.VerifyRequest, files []api.Upload) (model.BatchResponse, error) {
	f.batchCalls++
	f.lastReq = req
	f.batchFiles = len(files)
	return f.batch, f.err
}

func intPtr(i int) *int { return &i }

func TestSelection_CanSubmit(t *testing.T) {
	assert.False(t, Selection{PatternID: 1}.CanSubmit())
	assert.True(t, Selection{PatternID: 1, Files: []string{"a.jpg"}}.CanSubmit())
}

func TestSubmitUploads(t *testing.T) {
	id1, id2 := 1, 2
	tests := []struct {
		name       string
		uploads    int
		wantSingle int
		wantBatch  int
		check      func(t *testing.T, out Outcome)
	}{
		{
			name:       "one file uses single endpoint",
			uploads:    1,
			wantSingle: 1,
			check: func(t *testing.T, out Outcome) {
				single, ok := out.(Single)
				require.True(t, ok)
				assert.Equal(t, 12, single.Result.ID)
			},
		},
		{
			name:      "several files use batch endpoint",
			uploads:   3,
			wantBatch: 1,
			check: func(t *testing.T, out Outcome) {
				batch, ok := out.(Batch)
				require.True(t, ok)
				assert.Len(t, batch.Items, 3)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &fakeVerifier{
				single: model.VerificationResult{ID: 12},
				batch: model.BatchResponse{Results: []model.BatchItem{
					{ID: &id1, Verdict: model.VerdictAuthentic},
					{ID: &id2, Verdict: model.VerdictSuspicious},
					{Verdict: model.VerdictError, Error: "no markers"},
				}},
			}

			uploads := make([]api.Upload, tt.uploads)
			for i := range uploads {
				uploads[i] = api.BytesUpload("f.jpg", []byte("x"))
			}

			sel := Selection{PatternID: 4, PrintSizeMM: intPtr(15), Notes: "n"}
			out, err := SubmitUploads(context.Background(), v, sel, uploads)
			require.NoError(t, err)
			tt.check(t, out)

			assert.Equal(t, tt.wantSingle, v.singleCalls)
			assert.Equal(t, tt.wantBatch, v.batchCalls)
			assert.Equal(t, 4, v.lastReq.PatternID)
			assert.Equal(t, "n", v.lastReq.Notes)
			require.NotNil(t, v.lastReq.PrintSizeMM)
			assert.Equal(t, 15, *v.lastReq.PrintSizeMM)
		})
	}
}

func TestSubmit_NoFiles(t *testing.T) {
	v := &fakeVerifier{}
	_, err := Submit(context.Background(), v, Selection{PatternID: 1})
	require.ErrorIs(t, err, common.ErrNoFiles)
	assert.Zero(t, v.singleCalls+v.batchCalls)
}

func TestSubmit_Error(t *testing.T) {
	apiErr := &api.APIError{StatusCode: 422, Detail: "pattern not found"}
	v := &fakeVerifier{err: apiErr}

	out, err := Submit(context.Background(), v, Selection{PatternID: 9, Files: []string{"a.jpg"}})
	assert.Nil(t, out)
	require.Error(t, err)
	assert.Equal(t, "pattern not found", err.Error())

	var target *api.APIError
	assert.True(t, errors.As(err, &target))
}

func TestSummarize(t *testing.T) {
	id1, id2 := 1, 2
	items := []model.BatchItem{
		{ID: &id1, Verdict: model.VerdictAuthentic},
		{ID: &id2, Verdict: model.VerdictAuthentic},
		{Verdict: model.VerdictError, Error: "decode failed"},
	}

	assert.Equal(t, Summary{Passed: 2, Failed: 1, Total: 3}, Summarize(items))
}

func TestSplitPaths(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "  ", want: nil},
		{name: "single", input: "/tmp/a.jpg", want: []string{"/tmp/a.jpg"}},
		{name: "several", input: "/tmp/a.jpg /tmp/b.png\n", want: []string{"/tmp/a.jpg", "/tmp/b.png"}},
		{name: "escaped space", input: `/tmp/my\ photo.jpg`, want: []string{"/tmp/my photo.jpg"}},
		{name: "quoted", input: `'/tmp/my photo.jpg' "/tmp/b c.png"`, want: []string{"/tmp/my photo.jpg", "/tmp/b c.png"}},
		{name: "file url", input: "file:///tmp/a.jpg", want: []string{"/tmp/a.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPaths(tt.input))
		})
	}
}

func TestSelectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "b.PNG", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.jpg"), 0o750))

	a := filepath.Join(dir, "a.jpg")
	b := filepath.Join(dir, "b.PNG")

	files, skipped := SelectFiles(a + " " + b + " " + a + " " +
		filepath.Join(dir, "notes.txt") + " " +
		filepath.Join(dir, "missing.jpg") + " " +
		filepath.Join(dir, "sub.jpg"))

	assert.Equal(t, []string{a, b}, files)
	require.Len(t, skipped, 3)
	assert.Equal(t, "not an image", skipped[0].Reason)
	assert.Equal(t, "not found", skipped[1].Reason)
	assert.Equal(t, "directory", skipped[2].Reason)
}

func TestSelectFiles_Glob(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1.jpg", "2.jpg", "3.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	files, skipped := SelectFiles(filepath.Join(dir, "*.jpg"))
	assert.Equal(t, []string{filepath.Join(dir, "1.jpg"), filepath.Join(dir, "2.jpg")}, files)
	assert.Empty(t, skipped)

	files, skipped = SelectFiles(filepath.Join(dir, "*.gif"))
	assert.Empty(t, files)
	require.Len(t, skipped, 1)
	assert.Equal(t, "no match", skipped[0].Reason)
}

func TestSelectPaths_KeepsSpaces(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "shelf photo.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("x"), 0o600))

	files, skipped := SelectPaths([]string{photo})
	assert.Equal(t, []string{photo}, files)
	assert.Empty(t, skipped)
}
