package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

func TestIntentClassifier_Classify(t *testing.T) {
	classifier := NewIntentClassifier(domain.PortugueseVocabulary())

	tests := []struct {
		name  string
		query string
		want  domain.Intent
	}{
		{"empty query", "", domain.IntentInformational},
		{"no cues", "tenis azul", domain.IntentInformational},
		{"transactional cue", "comprar tenis", domain.IntentTransactional},
		{"commercial cue", "melhor tenis", domain.IntentCommercial},
		{"informational cue", "guia de corrida", domain.IntentInformational},
		{"case insensitive tokens", "COMPRAR Tenis", domain.IntentTransactional},
		{"accented cue", "tenis preço", domain.IntentTransactional},
		{"tie goes to informational", "como comprar", domain.IntentInformational},
		{"tie between transactional and commercial", "comprar melhor", domain.IntentTransactional},
		{"strict majority wins", "como comprar preço", domain.IntentTransactional},
		{"multi word cue never matches", "por que", domain.IntentInformational},
		{"navigational www", "www.loja.com.br", domain.IntentNavigational},
		{"navigational site", "site oficial nike", domain.IntentNavigational},
		{"navigational pattern is case sensitive", "Site oficial", domain.IntentInformational},
		{"navigational ties lose", "comprar site", domain.IntentTransactional},
		{"extra whitespace", "  comprar   tenis  ", domain.IntentTransactional},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(tt.query))
		})
	}
}

func TestIntentClassifier_English(t *testing.T) {
	classifier := NewIntentClassifier(domain.EnglishVocabulary())

	assert.Equal(t, domain.LanguageEnglish, classifier.Language())
	assert.Equal(t, domain.IntentTransactional, classifier.Classify("buy running shoes"))
	assert.Equal(t, domain.IntentCommercial, classifier.Classify("best running shoes"))
	assert.Equal(t, domain.IntentInformational, classifier.Classify("how to tie shoes"))
}

func TestIntentConflict(t *testing.T) {
	tests := []struct {
		a, b domain.Intent
		want float64
	}{
		{domain.IntentInformational, domain.IntentTransactional, 0.8},
		{domain.IntentInformational, domain.IntentCommercial, 0.6},
		{domain.IntentInformational, domain.IntentNavigational, 0.4},
		{domain.IntentTransactional, domain.IntentCommercial, 0.4},
		{domain.IntentTransactional, domain.IntentNavigational, 0.2},
		{domain.IntentCommercial, domain.IntentNavigational, 0.3},
	}

	for _, tt := range tests {
		t.Run(string(tt.a)+"/"+string(tt.b), func(t *testing.T) {
			assert.InDelta(t, tt.want, IntentConflict(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, IntentConflict(tt.b, tt.a), 1e-9)
		})
	}

	t.Run("identical intents fully conflict", func(t *testing.T) {
		for _, i := range domain.AllIntents() {
			assert.InDelta(t, 1.0, IntentConflict(i, i), 1e-9)
		}
	})

	t.Run("unknown intent scores zero", func(t *testing.T) {
		assert.Zero(t, IntentConflict("bogus", domain.IntentCommercial))
	})
}

func TestIntentRegistry(t *testing.T) {
	registry := NewDefaultIntentRegistry()

	assert.Equal(t, []domain.Language{domain.LanguageEnglish, domain.LanguagePortuguese}, registry.Languages())

	intent, err := registry.Classify(domain.LanguagePortuguese, "comprar tenis")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentTransactional, intent)

	_, err = registry.Classify("es", "comprar zapatillas")
	assert.ErrorIs(t, err, domain.ErrUnknownLanguage)

	registry.Register(domain.Vocabulary{
		Language:      "es",
		Transactional: []string{"Comprar"},
	})
	intent, err = registry.Classify("es", "comprar zapatillas")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentTransactional, intent)

	assert.InDelta(t, 0.2, registry.Conflict(domain.IntentNavigational, domain.IntentTransactional), 1e-9)

	vocab, err := registry.Vocabulary("es")
	require.NoError(t, err)
	assert.Equal(t, []string{"Comprar"}, vocab.Transactional)

	_, err = registry.Vocabulary("fr")
	assert.ErrorIs(t, err, domain.ErrUnknownLanguage)
}
