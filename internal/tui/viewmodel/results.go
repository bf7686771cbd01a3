package viewmodel

import (
	"github.com/samber/lo"

	"github.com/Veraticus/phonecdp/internal/model"
)

// Filter is the active verdict filter of the results list. The zero value
// shows everything.
type Filter string

// FilterAll shows every row.
const FilterAll Filter = "all"

// Filters lists the filter bar in display order.
var Filters = []Filter{
	FilterAll,
	Filter(model.VerdictAuthentic),
	Filter(model.VerdictSuspicious),
	Filter(model.VerdictCounterfeit),
}

// Matches reports whether a row with verdict v is visible under f.
func (f Filter) Matches(v model.Verdict) bool {
	return f == "" || f == FilterAll || Filter(v) == f
}

// Visible returns the indexes of rows visible under f, in order.
func (f Filter) Visible(rows []model.VerificationResult) []int {
	var idx []int
	for i, r := range rows {
		if f.Matches(r.Verdict) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Count returns how many rows are visible under f.
func (f Filter) Count(rows []model.VerificationResult) int {
	return lo.CountBy(rows, func(r model.VerificationResult) bool { return f.Matches(r.Verdict) })
}

// Next returns the filter after f in the bar, wrapping around.
func (f Filter) Next() Filter {
	i := lo.IndexOf(Filters, f)
	return Filters[(i+1)%len(Filters)]
}

// Prev returns the filter before f in the bar, wrapping around.
func (f Filter) Prev() Filter {
	i := lo.IndexOf(Filters, f)
	if i <= 0 {
		return Filters[len(Filters)-1]
	}
	return Filters[i-1]
}

// PrintSizeText formats an optional print size.
func PrintSizeText(mm *int) string {
	if mm == nil || *mm == 0 {
		return "-"
	}
	return itoa(*mm)
}
