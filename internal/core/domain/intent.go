package domain

// Intent is the categorical guess at what a searcher wants.
type Intent string

// Available intents, in tie-break order.
const (
	// IntentInformational is a searcher looking for knowledge.
	IntentInformational Intent = "informational"

	// IntentTransactional is a searcher ready to buy, book or download.
	IntentTransactional Intent = "transactional"

	// IntentCommercial is a searcher comparing options before buying.
	IntentCommercial Intent = "commercial"

	// IntentNavigational is a searcher looking for a specific site.
	IntentNavigational Intent = "navigational"
)

// AllIntents returns every intent in tie-break order.
func AllIntents() []Intent {
	return []Intent{
		IntentInformational,
		IntentTransactional,
		IntentCommercial,
		IntentNavigational,
	}
}

// IsValid returns true if the intent is recognised.
func (i Intent) IsValid() bool {
	switch i {
	case IntentInformational, IntentTransactional, IntentCommercial, IntentNavigational:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (i Intent) String() string {
	return string(i)
}

// Description returns a human-readable description of the intent.
func (i Intent) Description() string {
	switch i {
	case IntentInformational:
		return "Informational (wants to learn)"
	case IntentTransactional:
		return "Transactional (wants to act)"
	case IntentCommercial:
		return "Commercial (compares options)"
	case IntentNavigational:
		return "Navigational (looks for a site)"
	default:
		return unknownDescription
	}
}
