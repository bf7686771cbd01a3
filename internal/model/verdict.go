// Package model defines the domain types exchanged with the verification service.
package model

import "strings"

// Verdict is the tri-state outcome of a verification.
type Verdict string

// Verdict constants.
const (
	VerdictAuthentic   Verdict = "AUTHENTIC"
	VerdictSuspicious  Verdict = "SUSPICIOUS"
	VerdictCounterfeit Verdict = "COUNTERFEIT"
	// VerdictError is what the batch endpoint reports for a file it could not process.
	VerdictError Verdict = "ERROR"
)

// Verdicts lists the verdicts a stored result can carry, in display order.
var Verdicts = []Verdict{VerdictAuthentic, VerdictSuspicious, VerdictCounterfeit}

// Known reports whether v is one of the three stored verdicts.
func (v Verdict) Known() bool {
	switch v {
	case VerdictAuthentic, VerdictSuspicious, VerdictCounterfeit:
		return true
	}
	return false
}

// ParseVerdict normalizes user input such as "authentic" into a Verdict.
// The second return is false for anything that is not a stored verdict.
func ParseVerdict(s string) (Verdict, bool) {
	v := Verdict(strings.ToUpper(strings.TrimSpace(s)))
	return v, v.Known()
}
