package types

import (
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// CaseID is a case number token referencing a Supreme Court case record in
// the search backend. It may be written in Arabic numerals ("1234"),
// Devanagari numerals ("१२३४"), or the structured filing format
// ("076-WO-0945"). IDs are compared as raw strings; conversion between
// scripts happens only as a lookup fallback.
type CaseID string

var structuredCaseIDPattern = regexp.MustCompile(`^\d{3}-[A-Z]{2}-\d{4}$`)

// String returns the string representation of the case ID
func (x CaseID) String() string {
	return string(x)
}

// Validate checks if the case ID is valid
func (x CaseID) Validate() error {
	if x == "" {
		return goerr.New("case ID is empty")
	}
	return nil
}

// IsStructured reports whether the ID uses the NNN-XX-NNNN filing format.
func (x CaseID) IsStructured() bool {
	return structuredCaseIDPattern.MatchString(string(x))
}

var arabicToDevanagari = map[rune]rune{
	'0': '०', '1': '१', '2': '२', '3': '३', '4': '४',
	'5': '५', '6': '६', '7': '७', '8': '८', '9': '९',
}

// ToDevanagari maps Arabic digits to their Devanagari equivalents. The
// search backend indexes case numbers in Devanagari form. Non-digit runes
// pass through unchanged, so applying the conversion to an
// already-Devanagari ID is a no-op.
func (x CaseID) ToDevanagari() CaseID {
	return CaseID(strings.Map(func(r rune) rune {
		if d, ok := arabicToDevanagari[r]; ok {
			return d
		}
		return r
	}, string(x)))
}

// CaseIDsFromStrings converts a raw string slice into case IDs, dropping
// empty tokens.
func CaseIDsFromStrings(raw []string) []CaseID {
	ids := make([]CaseID, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		ids = append(ids, CaseID(s))
	}
	return ids
}
