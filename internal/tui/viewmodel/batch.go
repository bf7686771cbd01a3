package viewmodel

import (
	"fmt"

	"github.com/Veraticus/phonecdp/internal/model"
	"github.com/Veraticus/phonecdp/internal/tui/themes"
)

// BatchRow is one file of a batch outcome.
type BatchRow struct {
	Verdict    model.Verdict
	Filename   string
	Detail     string
	ResultID   int
	Selectable bool
}

// BatchView is the rendered summary and rows of a batch outcome.
type BatchView struct {
	Rows   []BatchRow
	Passed int
	Total  int
}

// NewBatchView derives the batch summary. Failed items carry their error and
// cannot be opened.
func NewBatchView(items []model.BatchItem) BatchView {
	v := BatchView{Total: len(items), Rows: make([]BatchRow, 0, len(items))}
	for _, it := range items {
		if it.Verdict == model.VerdictAuthentic {
			v.Passed++
		}
		row := BatchRow{Filename: it.Filename, Verdict: it.Verdict}
		if it.Failed() {
			row.Detail = it.ErrorMessage()
		} else {
			row.Detail = "Confidence: " + ConfidenceText(it.Confidence)
			row.ResultID = *it.ID
			row.Selectable = true
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

// Summary renders "passed/total".
func (v BatchView) Summary() string {
	return fmt.Sprintf("%d/%d", v.Passed, v.Total)
}

// SummaryTone is good when every file passed.
func (v BatchView) SummaryTone() themes.Tone {
	if v.Total > 0 && v.Passed == v.Total {
		return themes.ToneGood
	}
	return themes.ToneWarn
}

// NextSelectable returns the next selectable row after i in direction dir
// (+1 or -1), or i when there is none.
func (v BatchView) NextSelectable(i, dir int) int {
	for j := i + dir; j >= 0 && j < len(v.Rows); j += dir {
		if v.Rows[j].Selectable {
			return j
		}
	}
	return i
}

// FirstSelectable returns the first selectable row, or -1.
func (v BatchView) FirstSelectable() int {
	for i, r := range v.Rows {
		if r.Selectable {
			return i
		}
	}
	return -1
}
