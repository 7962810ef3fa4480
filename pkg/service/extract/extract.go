package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/vesperants/najir-agent/pkg/domain/types"
	"github.com/vesperants/najir-agent/pkg/utils/logging"
)

// DefaultMinDigits is the canonical minimum length of a bare numeric token
// treated as a case number. Call sites that see too many false positives
// can raise it with WithMinDigits.
const DefaultMinDigits = 3

var (
	// UI selections embedded into the message text by the frontend
	selectedJSONPattern = regexp.MustCompile(`Selected case IDs:\s*(\[.*?\])`)
	selectedListPattern = regexp.MustCompile(`User has selected cases:\s*(.*?)(?:$|\))`)

	// structured filing format, e.g. 076-WO-0945
	structuredPattern = regexp.MustCompile(`\b\d{3}-[A-Z]{2}-\d{4}\b`)
)

// Extractor pulls candidate case identifiers out of free text
type Extractor struct {
	minDigits int

	arabicPattern     *regexp.Regexp
	devanagariPattern *regexp.Regexp
}

// Option configures an Extractor
type Option func(*Extractor)

// WithMinDigits overrides the minimum bare-numeral token length
func WithMinDigits(n int) Option {
	return func(x *Extractor) {
		if n > 0 {
			x.minDigits = n
		}
	}
}

// New creates an Extractor
func New(opts ...Option) *Extractor {
	x := &Extractor{
		minDigits: DefaultMinDigits,
	}
	for _, opt := range opts {
		opt(x)
	}

	x.arabicPattern = regexp.MustCompile(fmt.Sprintf(`\b\d{%d,}\b`, x.minDigits))
	// Devanagari digits are not \w in Go's regexp, so runs bound
	// themselves without \b.
	x.devanagariPattern = regexp.MustCompile(fmt.Sprintf(`[०-९]{%d,}`, x.minDigits))

	return x
}

// Extract returns the case identifiers found in text, in order of
// appearance, with first-match-wins priority:
//
//  1. a "Selected case IDs: [...]" JSON annotation is returned verbatim;
//  2. a "User has selected cases: a, b" comma list is returned verbatim;
//  3. otherwise structured, bare-numeric, and Devanagari-numeral tokens
//     are collected from the text.
//
// An empty result means the caller should ask the user to clarify, never
// that something failed.
func (x *Extractor) Extract(ctx context.Context, text string) []types.CaseID {
	if ids, ok := x.extractSelected(ctx, text); ok {
		return ids
	}
	return x.extractPatterns(text)
}

// extractSelected handles the UI-selection annotations. Returns ok=false
// when no usable annotation is present so the pattern rules run instead.
func (x *Extractor) extractSelected(ctx context.Context, text string) ([]types.CaseID, bool) {
	if m := selectedJSONPattern.FindStringSubmatch(text); m != nil {
		var raw []string
		if err := json.Unmarshal([]byte(m[1]), &raw); err != nil {
			// Malformed annotation is not fatal: fall through to the
			// remaining rules.
			logging.From(ctx).Warn("failed to parse selected case IDs annotation",
				"annotation", m[1],
				"error", err.Error(),
			)
		} else if ids := types.CaseIDsFromStrings(raw); len(ids) > 0 {
			return ids, true
		}
	}

	if m := selectedListPattern.FindStringSubmatch(text); m != nil {
		if ids := types.CaseIDsFromStrings(strings.Split(m[1], ",")); len(ids) > 0 {
			return ids, true
		}
	}

	return nil, false
}

func (x *Extractor) extractPatterns(text string) []types.CaseID {
	var ids []types.CaseID

	for _, m := range structuredPattern.FindAllString(text, -1) {
		ids = append(ids, types.CaseID(m))
	}

	// Mask structured matches so their digit groups are not re-reported as
	// bare numerals.
	masked := structuredPattern.ReplaceAllStringFunc(text, func(m string) string {
		return strings.Repeat(" ", len(m))
	})

	for _, m := range x.arabicPattern.FindAllString(masked, -1) {
		ids = append(ids, types.CaseID(m))
	}
	for _, m := range x.devanagariPattern.FindAllString(masked, -1) {
		ids = append(ids, types.CaseID(m))
	}

	return ids
}
