package viewmodel

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Veraticus/phonecdp/internal/model"
	"github.com/Veraticus/phonecdp/internal/tui/themes"
)

// RecentLimit is how many results the dashboard lists.
const RecentLimit = 8

// PassRateTone colors the pass rate, a percentage.
func PassRateTone(rate float64) themes.Tone {
	switch {
	case rate >= 70:
		return themes.ToneGood
	case rate >= 50:
		return themes.ToneWarn
	default:
		return themes.ToneBad
	}
}

// MetricCard is one headline number on the dashboard.
type MetricCard struct {
	Label string
	Value string
	Tone  themes.Tone
}

// MetricCards derives the four headline cards.
func MetricCards(s model.Stats) []MetricCard {
	return []MetricCard{
		{Label: "Total Patterns", Value: itoa(s.TotalPatterns)},
		{Label: "Total Verifications", Value: itoa(s.TotalVerifications)},
		{Label: "Pass Rate", Value: strconv.FormatFloat(s.PassRate, 'f', -1, 64) + "%", Tone: PassRateTone(s.PassRate)},
		{Label: "Avg Confidence", Value: fmt.Sprintf("%.0f%%", s.AvgConfidence*100)},
	}
}

// VerdictCards derives the three verdict count cards.
func VerdictCards(s model.Stats) []MetricCard {
	return []MetricCard{
		{Label: "Authentic", Value: itoa(s.Verdicts.Authentic), Tone: themes.ToneGood},
		{Label: "Suspicious", Value: itoa(s.Verdicts.Suspicious), Tone: themes.ToneWarn},
		{Label: "Counterfeit", Value: itoa(s.Verdicts.Counterfeit), Tone: themes.ToneBad},
	}
}

// DefaultSerial pre-fills the serial number for the next pattern.
func DefaultSerial(now time.Time, existing int) string {
	return fmt.Sprintf("SN-%d-%05d", now.Year(), existing+1)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
