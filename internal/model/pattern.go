package model

// Pattern is a generated reference pattern.
type Pattern struct {
	CreatedAt         Timestamp `json:"created_at"`
	SerialNumber      string    `json:"serial_number"`
	Label             string    `json:"label"`
	Filename          string    `json:"filename"`
	Notes             string    `json:"notes"`
	ID                int       `json:"id"`
	Seed              int64     `json:"seed"`
	PatternSize       int       `json:"pattern_size"`
	VerificationCount int       `json:"verification_count"`
}

// DisplayName returns the label, falling back to the serial number.
func (p Pattern) DisplayName() string {
	if p.Label != "" {
		return p.Label
	}
	return p.SerialNumber
}

// GenerateRequest is the body of POST /api/patterns/generate.
// A nil Seed lets the service pick one at random.
type GenerateRequest struct {
	Seed         *int64 `json:"seed"`
	SerialNumber string `json:"serial_number"`
	Label        string `json:"label"`
	Notes        string `json:"notes"`
	PatternSize  int    `json:"pattern_size,omitempty"`
}
