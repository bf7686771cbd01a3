package model

// VerdictCounts counts stored results per verdict.
type VerdictCounts struct {
	Authentic   int `json:"authentic"`
	Suspicious  int `json:"suspicious"`
	Counterfeit int `json:"counterfeit"`
}

// Count returns the counter for v, or zero for unknown verdicts.
func (c VerdictCounts) Count(v Verdict) int {
	switch v {
	case VerdictAuthentic:
		return c.Authentic
	case VerdictSuspicious:
		return c.Suspicious
	case VerdictCounterfeit:
		return c.Counterfeit
	}
	return 0
}

// Stats is the aggregate returned by GET /api/results/stats.
type Stats struct {
	Verdicts           VerdictCounts `json:"verdicts"`
	AvgScores          Scores        `json:"avg_scores"`
	TotalPatterns      int           `json:"total_patterns"`
	TotalVerifications int           `json:"total_verifications"`
	PassRate           float64       `json:"pass_rate"`
	AvgConfidence      float64       `json:"avg_confidence"`
	AvgMarkers         float64       `json:"avg_markers"`
}

// Health is the body of GET /api/health.
type Health struct {
	Status string `json:"status"`
}
