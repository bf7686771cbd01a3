package viewmodel

import (
	"github.com/Veraticus/phonecdp/internal/model"
	"github.com/Veraticus/phonecdp/internal/tui/themes"
)

// Badge is a verdict label with its tone. Unknown verdicts keep their literal
// text and a neutral tone.
type Badge struct {
	Text string
	Tone themes.Tone
}

// NewBadge derives the badge for v.
func NewBadge(v model.Verdict) Badge {
	return Badge{Text: string(v), Tone: VerdictTone(v)}
}

// VerdictTone maps a verdict to a tone.
func VerdictTone(v model.Verdict) themes.Tone {
	switch v {
	case model.VerdictAuthentic:
		return themes.ToneGood
	case model.VerdictSuspicious:
		return themes.ToneWarn
	case model.VerdictCounterfeit:
		return themes.ToneBad
	default:
		return themes.ToneNeutral
	}
}
