package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
	"github.com/custodia-labs/cannibal-cli/internal/core/ports/driving"
)

// Ensure IntentRegistry implements the interface.
var _ driving.IntentService = (*IntentRegistry)(nil)

// navigationalPattern flags brand and domain searches. It runs on the raw
// query, so it is case sensitive and the dots match any character.
var navigationalPattern = regexp.MustCompile(`\b(site|www|.com|.com.br)\b`)

// conflictMatrix holds the conflict affinity between two different intents.
var conflictMatrix = map[domain.Intent]map[domain.Intent]float64{
	domain.IntentInformational: {
		domain.IntentTransactional: 0.8,
		domain.IntentCommercial:    0.6,
		domain.IntentNavigational:  0.4,
	},
	domain.IntentTransactional: {
		domain.IntentInformational: 0.8,
		domain.IntentCommercial:    0.4,
		domain.IntentNavigational:  0.2,
	},
	domain.IntentCommercial: {
		domain.IntentInformational: 0.6,
		domain.IntentTransactional: 0.4,
		domain.IntentNavigational:  0.3,
	},
	domain.IntentNavigational: {
		domain.IntentInformational: 0.4,
		domain.IntentTransactional: 0.2,
		domain.IntentCommercial:    0.3,
	},
}

// IntentConflict returns how strongly two intents compete for the same searcher.
// Identical intents fully conflict. Unknown intents score 0.
func IntentConflict(a, b domain.Intent) float64 {
	if a == b {
		return 1
	}
	return conflictMatrix[a][b]
}

// IntentClassifier assigns an intent to a query by keyword lookup.
// It is immutable after construction and safe for concurrent use.
type IntentClassifier struct {
	vocab         domain.Vocabulary
	language      domain.Language
	informational map[string]struct{}
	transactional map[string]struct{}
	commercial    map[string]struct{}
}

// NewIntentClassifier creates a classifier from a vocabulary.
func NewIntentClassifier(vocab domain.Vocabulary) *IntentClassifier {
	return &IntentClassifier{
		vocab:         vocab,
		language:      vocab.Language,
		informational: wordSet(vocab.Informational),
		transactional: wordSet(vocab.Transactional),
		commercial:    wordSet(vocab.Commercial),
	}
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

// Language returns the vocabulary language.
func (c *IntentClassifier) Language() domain.Language {
	return c.language
}

// Vocabulary returns the cues the classifier was built from.
func (c *IntentClassifier) Vocabulary() domain.Vocabulary {
	return c.vocab
}

// Classify returns the intent with the most cue matches.
// Ties go to the earlier intent in domain.AllIntents order; no match
// at all yields informational.
func (c *IntentClassifier) Classify(query string) domain.Intent {
	var scores [4]int

	for _, word := range strings.Fields(strings.ToLower(query)) {
		if _, ok := c.informational[word]; ok {
			scores[0]++
		}
		if _, ok := c.transactional[word]; ok {
			scores[1]++
		}
		if _, ok := c.commercial[word]; ok {
			scores[2]++
		}
	}

	if navigationalPattern.MatchString(query) {
		scores[3]++
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}

	return domain.AllIntents()[best]
}

// IntentConflict returns the conflict affinity between two intents.
func (c *IntentClassifier) IntentConflict(a, b domain.Intent) float64 {
	return IntentConflict(a, b)
}

// IntentRegistry holds one classifier per language.
type IntentRegistry struct {
	mu          sync.RWMutex
	classifiers map[domain.Language]*IntentClassifier
}

// NewIntentRegistry creates a registry with the given vocabularies.
func NewIntentRegistry(vocabs ...domain.Vocabulary) *IntentRegistry {
	r := &IntentRegistry{
		classifiers: make(map[domain.Language]*IntentClassifier),
	}
	for _, v := range vocabs {
		r.Register(v)
	}
	return r
}

// NewDefaultIntentRegistry creates a registry with the built-in vocabularies.
func NewDefaultIntentRegistry() *IntentRegistry {
	r := NewIntentRegistry()
	for _, v := range domain.BuiltinVocabularies() {
		r.Register(v)
	}
	return r
}

// Register adds or replaces the classifier for the vocabulary's language.
func (r *IntentRegistry) Register(vocab domain.Vocabulary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classifiers[vocab.Language] = NewIntentClassifier(vocab)
}

// Classifier returns the classifier for lang.
func (r *IntentRegistry) Classifier(lang domain.Language) (*IntentClassifier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classifiers[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownLanguage, lang)
	}
	return c, nil
}

// Classify returns the intent of query using the vocabulary of lang.
func (r *IntentRegistry) Classify(lang domain.Language, query string) (domain.Intent, error) {
	c, err := r.Classifier(lang)
	if err != nil {
		return "", err
	}
	return c.Classify(query), nil
}

// Vocabulary returns the vocabulary registered for lang.
func (r *IntentRegistry) Vocabulary(lang domain.Language) (domain.Vocabulary, error) {
	c, err := r.Classifier(lang)
	if err != nil {
		return domain.Vocabulary{}, err
	}
	return c.Vocabulary(), nil
}

// Conflict returns the conflict affinity between two intents.
func (r *IntentRegistry) Conflict(a, b domain.Intent) float64 {
	return IntentConflict(a, b)
}

// Languages returns the registered languages, sorted.
func (r *IntentRegistry) Languages() []domain.Language {
	r.mu.RLock()
	defer r.mu.RUnlock()

	langs := make([]domain.Language, 0, len(r.classifiers))
	for l := range r.classifiers {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}
