package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		input string
		want  Verdict
		ok    bool
	}{
		{input: "AUTHENTIC", want: VerdictAuthentic, ok: true},
		{input: "suspicious", want: VerdictSuspicious, ok: true},
		{input: " Counterfeit ", want: VerdictCounterfeit, ok: true},
		{input: "error", want: VerdictError, ok: false},
		{input: "", want: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseVerdict(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "naive with microseconds",
			input: `"2024-01-15T10:30:00.123456"`,
			want:  time.Date(2024, 1, 15, 10, 30, 0, 123456000, time.UTC),
		},
		{
			name:  "naive seconds",
			input: `"2024-01-15T10:30:00"`,
			want:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339",
			input: `"2024-01-15T10:30:00Z"`,
			want:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "null",
			input: `null`,
		},
		{
			name:    "garbage",
			input:   `"yesterday"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(ts.Time), "got %v want %v", ts.Time, tt.want)
		})
	}
}

func TestVerificationResult_Decode(t *testing.T) {
	body := `{
		"id": 7, "pattern_id": 3, "pattern_serial": "SN-2024-00003", "pattern_label": "",
		"verdict": "SUSPICIOUS", "confidence": 0.61,
		"scores": {"moire": 0.5, "color": 0.7, "correlation": 0.6, "gradient": 0.4},
		"weights": {"moire": 0.4, "color": 0.3, "correlation": 0.2, "gradient": 0.1},
		"markers_found": 3, "alignment_method": "markers",
		"print_size_mm": null, "notes": "", "created_at": "2024-01-15T10:30:00"
	}`

	var r VerificationResult
	require.NoError(t, json.Unmarshal([]byte(body), &r))

	assert.Equal(t, 7, r.ID)
	assert.Equal(t, VerdictSuspicious, r.Verdict)
	assert.Nil(t, r.PrintSizeMM)
	require.NotNil(t, r.Weights)
	assert.InDelta(t, 0.4, r.Weights.Moire, 1e-9)
	assert.Equal(t, "SN-2024-00003", r.PatternReference())
}

func TestBatchItem_Failed(t *testing.T) {
	var items []BatchItem
	body := `[
		{"id": 1, "filename": "a.jpg", "verdict": "AUTHENTIC", "confidence": 0.9},
		{"filename": "b.jpg", "verdict": "ERROR", "error": "no pattern detected"},
		{"id": null, "filename": "c.jpg", "verdict": "ERROR"}
	]`
	require.NoError(t, json.Unmarshal([]byte(body), &items))
	require.Len(t, items, 3)

	assert.False(t, items[0].Failed())
	assert.True(t, items[1].Failed())
	assert.Equal(t, "no pattern detected", items[1].ErrorMessage())
	assert.True(t, items[2].Failed())
	assert.Equal(t, "Error", items[2].ErrorMessage())
}

func TestPattern_DisplayName(t *testing.T) {
	assert.Equal(t, "Batch A", Pattern{Label: "Batch A", SerialNumber: "SN-1"}.DisplayName())
	assert.Equal(t, "SN-1", Pattern{SerialNumber: "SN-1"}.DisplayName())
}
