package usecase

import (
	"context"
	"strings"
	"unicode"

	"github.com/vesperants/najir-agent/pkg/domain/types"
	"github.com/vesperants/najir-agent/pkg/service/extract"
)

// RouterConfig holds the keyword vocabularies used for intent
// classification. Each set is matched case-insensitively; single-word
// entries match whole tokens only so that "hi" does not fire inside
// "this". Devanagari entries are matched as substrings.
type RouterConfig struct {
	SelectedKeywords []string `toml:"selected"`
	SearchKeywords   []string `toml:"search"`
	GreetingKeywords []string `toml:"greeting"`
	FarewellKeywords []string `toml:"farewell"`
}

// DefaultRouterConfig returns the built-in English and Nepali vocabularies
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		SelectedKeywords: []string{
			"selected case",
			"selected cases",
			"these cases",
			"चयन गरिएका मुद्दा",
		},
		SearchKeywords: []string{
			"find cases",
			"search for cases",
			"search cases",
			"cases about",
			"मुद्दा खोज",
			"खोज्नुहोस्",
		},
		GreetingKeywords: []string{
			"hello",
			"hi",
			"hey",
			"namaste",
			"good morning",
			"good afternoon",
			"नमस्ते",
			"नमस्कार",
		},
		FarewellKeywords: []string{
			"bye",
			"goodbye",
			"see you",
			"thanks bye",
			"बिदा",
		},
	}
}

// Decision is the outcome of routing a single message
type Decision struct {
	Intent types.Intent
	IDs    []types.CaseID

	// NeedsClarification is set when the message asked about selected
	// cases but no identifiers could be recovered.
	NeedsClarification bool
}

// Router classifies one inbound message into an intent. It holds no
// per-conversation state; each call is independent.
type Router struct {
	cfg       *RouterConfig
	extractor *extract.Extractor
}

func NewRouter(cfg *RouterConfig, extractor *extract.Extractor) *Router {
	if cfg == nil {
		cfg = DefaultRouterConfig()
	}
	if extractor == nil {
		extractor = extract.New()
	}
	return &Router{cfg: cfg, extractor: extractor}
}

// Route decides the intent for a message. An explicit non-empty
// identifier list from the caller forces case_detail before any keyword
// rule is consulted, including greetings in the same message.
func (x *Router) Route(ctx context.Context, message string, explicit []types.CaseID) *Decision {
	if len(explicit) > 0 {
		return &Decision{Intent: types.IntentCaseDetail, IDs: explicit}
	}

	lowered := strings.ToLower(message)
	tokens := tokenize(lowered)

	if matchAny(lowered, tokens, x.cfg.SelectedKeywords) {
		ids := x.extractor.Extract(ctx, message)
		if len(ids) == 0 {
			return &Decision{Intent: types.IntentFallback, NeedsClarification: true}
		}
		return &Decision{Intent: types.IntentCaseDetail, IDs: ids}
	}

	if matchAny(lowered, tokens, x.cfg.SearchKeywords) {
		return &Decision{Intent: types.IntentCaseSearch}
	}
	if matchAny(lowered, tokens, x.cfg.GreetingKeywords) {
		return &Decision{Intent: types.IntentGreeting}
	}
	if matchAny(lowered, tokens, x.cfg.FarewellKeywords) {
		return &Decision{Intent: types.IntentFarewell}
	}

	if ids := x.extractor.Extract(ctx, message); len(ids) > 0 {
		return &Decision{Intent: types.IntentCaseDetail, IDs: ids}
	}

	return &Decision{Intent: types.IntentFallback}
}

func tokenize(lowered string) map[string]struct{} {
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}
	return tokens
}

func matchAny(lowered string, tokens map[string]struct{}, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.ContainsRune(kw, ' ') || !isASCII(kw) {
			if strings.Contains(lowered, kw) {
				return true
			}
			continue
		}
		if _, ok := tokens[kw]; ok {
			return true
		}
	}
	return false
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
