package model

// Scores holds the per-dimension similarity scores, each in [0,1].
type Scores struct {
	Moire       float64 `json:"moire"`
	Color       float64 `json:"color"`
	Correlation float64 `json:"correlation"`
	Gradient    float64 `json:"gradient"`
}

// Weights holds the weight of each score dimension in the final confidence.
type Weights struct {
	Moire       float64 `json:"moire"`
	Color       float64 `json:"color"`
	Correlation float64 `json:"correlation"`
	Gradient    float64 `json:"gradient"`
}

// DisplayWeights are the fixed weights shown on the detail page, which does
// not receive per-record weights from the service.
var DisplayWeights = Weights{Moire: 0.4, Color: 0.3, Correlation: 0.2, Gradient: 0.1}

// MaxMarkers is the number of fiducial markers a pattern carries.
const MaxMarkers = 4

// VerificationResult is a stored verification outcome.
type VerificationResult struct {
	CreatedAt       Timestamp `json:"created_at"`
	Weights         *Weights  `json:"weights,omitempty"`
	PrintSizeMM     *int      `json:"print_size_mm"`
	PatternFound    *bool     `json:"pattern_found,omitempty"`
	Verdict         Verdict   `json:"verdict"`
	PatternSerial   string    `json:"pattern_serial,omitempty"`
	PatternLabel    string    `json:"pattern_label,omitempty"`
	AlignmentMethod string    `json:"alignment_method"`
	Notes           string    `json:"notes"`
	Scores          Scores    `json:"scores"`
	ID              int       `json:"id"`
	PatternID       int       `json:"pattern_id"`
	Confidence      float64   `json:"confidence"`
	MarkersFound    int       `json:"markers_found"`
}

// PatternReference returns the label of the verified pattern, falling back to
// its serial number.
func (r VerificationResult) PatternReference() string {
	if r.PatternLabel != "" {
		return r.PatternLabel
	}
	return r.PatternSerial
}

// ResultList is the body of GET /api/results.
type ResultList struct {
	Results []VerificationResult `json:"results"`
	Total   int                  `json:"total"`
}

// BatchItem is one file's outcome within a batch verification.
// A nil ID marks a file the service failed to process.
type BatchItem struct {
	ID           *int    `json:"id"`
	Filename     string  `json:"filename"`
	Verdict      Verdict `json:"verdict"`
	Error        string  `json:"error,omitempty"`
	Scores       Scores  `json:"scores"`
	Confidence   float64 `json:"confidence"`
	MarkersFound int     `json:"markers_found"`
}

// Failed reports whether the service could not process this file.
func (b BatchItem) Failed() bool {
	return b.ID == nil || b.Verdict == VerdictError
}

// ErrorMessage returns the reported error, or a generic one when the service
// sent none.
func (b BatchItem) ErrorMessage() string {
	if b.Error != "" {
		return b.Error
	}
	return "Error"
}

// BatchResponse is the body of POST /api/verify/batch.
type BatchResponse struct {
	Results []BatchItem `json:"results"`
	Total   int         `json:"total"`
}

// NotesUpdate is the body of PATCH /api/results/{id}/notes.
type NotesUpdate struct {
	Notes string `json:"notes"`
}

// Message is the generic acknowledgement returned by mutating endpoints.
type Message struct {
	Message string `json:"message"`
	Notes   string `json:"notes,omitempty"`
}
