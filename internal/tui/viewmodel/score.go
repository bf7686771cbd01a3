// Package viewmodel derives display state from service records. Nothing here
// renders; components turn these values into styled text.
package viewmodel

import (
	"fmt"
	"math"

	"github.com/Veraticus/phonecdp/internal/model"
	"github.com/Veraticus/phonecdp/internal/tui/themes"
)

// Tier thresholds for confidence and score values in [0,1].
const (
	HighThreshold = 0.7
	MidThreshold  = 0.5
)

// Tier buckets a value for coloring.
type Tier int

// Tiers from worst to best.
const (
	TierLow Tier = iota
	TierMid
	TierHigh
)

// TierOf buckets v. Both thresholds are inclusive.
func TierOf(v float64) Tier {
	switch {
	case v >= HighThreshold:
		return TierHigh
	case v >= MidThreshold:
		return TierMid
	default:
		return TierLow
	}
}

// Tone maps the tier to a theme tone.
func (t Tier) Tone() themes.Tone {
	switch t {
	case TierHigh:
		return themes.ToneGood
	case TierMid:
		return themes.ToneWarn
	default:
		return themes.ToneBad
	}
}

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMid:
		return "mid"
	default:
		return "low"
	}
}

// Percent rounds a [0,1] value to a whole percentage.
func Percent(v float64) int {
	return int(math.Round(v * 100))
}

// FillPercent is Percent clamped to [0,100] for bar widths.
func FillPercent(v float64) int {
	return max(0, min(100, Percent(v)))
}

// Gauge is the confidence gauge.
type Gauge struct {
	Label   string
	Value   float64
	Percent int
	Tier    Tier
}

// NewGauge derives the gauge for a confidence value.
func NewGauge(confidence float64) Gauge {
	return Gauge{
		Label:   fmt.Sprintf("%d%%", Percent(confidence)),
		Value:   confidence,
		Percent: FillPercent(confidence),
		Tier:    TierOf(confidence),
	}
}

// ScoreRow is one weighted score bar.
type ScoreRow struct {
	Name          string
	Score         float64
	WeightPercent int
	Percent       int
	Tier          Tier
}

// ScoreRows returns the four score bars in display order, labeled with the
// given weights.
func ScoreRows(s model.Scores, w model.Weights) []ScoreRow {
	row := func(name string, score, weight float64) ScoreRow {
		return ScoreRow{
			Name:          name,
			Score:         score,
			WeightPercent: Percent(weight),
			Percent:       FillPercent(score),
			Tier:          TierOf(score),
		}
	}
	return []ScoreRow{
		row("Moire", s.Moire, w.Moire),
		row("Color", s.Color, w.Color),
		row("Correlation", s.Correlation, w.Correlation),
		row("Gradient", s.Gradient, w.Gradient),
	}
}

// RecordWeights returns the weights a verification reported, falling back to
// the fixed display weights when it carried none.
func RecordWeights(r model.VerificationResult) model.Weights {
	if r.Weights != nil {
		return *r.Weights
	}
	return model.DisplayWeights
}

// MarkerSlots returns MaxMarkers slots, the first found of them filled.
func MarkerSlots(found int) []bool {
	slots := make([]bool, model.MaxMarkers)
	for i := range slots {
		slots[i] = i < found
	}
	return slots
}

// ConfidenceText formats a confidence with one decimal, as in tables.
func ConfidenceText(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
