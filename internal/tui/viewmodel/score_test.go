package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/phonecdp/internal/model"
	"github.com/Veraticus/phonecdp/internal/tui/themes"
)

func TestNewGauge(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		wantLabel string
		wantFill  int
		wantTier  Tier
	}{
		{name: "zero", value: 0, wantLabel: "0%", wantFill: 0, wantTier: TierLow},
		{name: "just below mid", value: 0.499, wantLabel: "50%", wantFill: 50, wantTier: TierLow},
		{name: "mid edge", value: 0.5, wantLabel: "50%", wantFill: 50, wantTier: TierMid},
		{name: "just below high", value: 0.6999, wantLabel: "70%", wantFill: 70, wantTier: TierMid},
		{name: "high edge", value: 0.7, wantLabel: "70%", wantFill: 70, wantTier: TierHigh},
		{name: "one", value: 1, wantLabel: "100%", wantFill: 100, wantTier: TierHigh},
		{name: "over range", value: 1.2, wantLabel: "120%", wantFill: 100, wantTier: TierHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGauge(tt.value)
			assert.Equal(t, tt.wantLabel, g.Label)
			assert.Equal(t, tt.wantFill, g.Percent)
			assert.Equal(t, tt.wantTier, g.Tier)
		})
	}
}

func TestTier_Tone(t *testing.T) {
	assert.Equal(t, themes.ToneBad, TierOf(0).Tone())
	assert.Equal(t, themes.ToneWarn, TierOf(0.5).Tone())
	assert.Equal(t, themes.ToneGood, TierOf(0.7).Tone())
}

func TestScoreRows(t *testing.T) {
	scores := model.Scores{Moire: 0.91, Color: 0.55, Correlation: 0.3, Gradient: 0.7}

	rows := ScoreRows(scores, model.DisplayWeights)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"Moire", "Color", "Correlation", "Gradient"},
		[]string{rows[0].Name, rows[1].Name, rows[2].Name, rows[3].Name})
	assert.Equal(t, []int{40, 30, 20, 10},
		[]int{rows[0].WeightPercent, rows[1].WeightPercent, rows[2].WeightPercent, rows[3].WeightPercent})
	assert.Equal(t, []Tier{TierHigh, TierMid, TierLow, TierHigh},
		[]Tier{rows[0].Tier, rows[1].Tier, rows[2].Tier, rows[3].Tier})
	assert.Equal(t, 91, rows[0].Percent)
}

func TestRecordWeights(t *testing.T) {
	own := model.Weights{Moire: 0.25, Color: 0.25, Correlation: 0.25, Gradient: 0.25}

	assert.Equal(t, own, RecordWeights(model.VerificationResult{Weights: &own}))
	assert.Equal(t, model.DisplayWeights, RecordWeights(model.VerificationResult{}))
}

func TestMarkerSlots(t *testing.T) {
	assert.Equal(t, []bool{false, false, false, false}, MarkerSlots(0))
	assert.Equal(t, []bool{true, true, true, false}, MarkerSlots(3))
	assert.Equal(t, []bool{true, true, true, true}, MarkerSlots(4))
	assert.Equal(t, []bool{true, true, true, true}, MarkerSlots(7))
}

func TestNewBadge(t *testing.T) {
	tests := []struct {
		verdict  model.Verdict
		wantTone themes.Tone
	}{
		{verdict: model.VerdictAuthentic, wantTone: themes.ToneGood},
		{verdict: model.VerdictSuspicious, wantTone: themes.ToneWarn},
		{verdict: model.VerdictCounterfeit, wantTone: themes.ToneBad},
		{verdict: model.VerdictError, wantTone: themes.ToneNeutral},
		{verdict: "PENDING", wantTone: themes.ToneNeutral},
		{verdict: "", wantTone: themes.ToneNeutral},
	}

	for _, tt := range tests {
		t.Run(string(tt.verdict), func(t *testing.T) {
			b := NewBadge(tt.verdict)
			assert.Equal(t, string(tt.verdict), b.Text)
			assert.Equal(t, tt.wantTone, b.Tone)
		})
	}
}
