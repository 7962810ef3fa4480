package types

import "fmt"

// Intent represents the routing decision for an incoming chat message
type Intent string

const (
	IntentGreeting   Intent = "greeting"
	IntentFarewell   Intent = "farewell"
	IntentCaseSearch Intent = "case_search"
	IntentCaseDetail Intent = "case_detail"
	IntentFallback   Intent = "fallback"
)

// AllIntents returns all valid intents
func AllIntents() []Intent {
	return []Intent{
		IntentGreeting,
		IntentFarewell,
		IntentCaseSearch,
		IntentCaseDetail,
		IntentFallback,
	}
}

// IsValid checks if the intent is valid
func (x Intent) IsValid() bool {
	switch x {
	case IntentGreeting,
		IntentFarewell,
		IntentCaseSearch,
		IntentCaseDetail,
		IntentFallback:
		return true
	default:
		return false
	}
}

// String returns the string representation of the intent
func (x Intent) String() string {
	return string(x)
}

// ParseIntent parses a string into an Intent
func ParseIntent(s string) (Intent, error) {
	intent := Intent(s)
	if !intent.IsValid() {
		return "", fmt.Errorf("invalid intent: %s", s)
	}
	return intent, nil
}
