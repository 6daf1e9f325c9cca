package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// vocabularyFile is the YAML layout of a custom vocabulary:
//
//	language: es
//	informational: [como, que, guia]
//	transactional: [comprar, precio]
//	commercial: [mejor, comparar]
type vocabularyFile struct {
	Language      string   `yaml:"language"`
	Informational []string `yaml:"informational"`
	Transactional []string `yaml:"transactional"`
	Commercial    []string `yaml:"commercial"`
}

// LoadVocabularyFile reads a custom vocabulary from a YAML file.
func LoadVocabularyFile(path string) (domain.Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Vocabulary{}, fmt.Errorf("read vocabulary: %w", err)
	}
	return ParseVocabulary(data)
}

// ParseVocabulary decodes a YAML vocabulary.
func ParseVocabulary(data []byte) (domain.Vocabulary, error) {
	var f vocabularyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.Vocabulary{}, fmt.Errorf("parse vocabulary: %w", err)
	}

	if f.Language == "" {
		return domain.Vocabulary{}, fmt.Errorf("%w: vocabulary has no language", domain.ErrInvalidInput)
	}
	if len(f.Informational)+len(f.Transactional)+len(f.Commercial) == 0 {
		return domain.Vocabulary{}, fmt.Errorf("%w: vocabulary %s has no keywords", domain.ErrInvalidInput, f.Language)
	}

	return domain.Vocabulary{
		Language:      domain.Language(f.Language),
		Informational: f.Informational,
		Transactional: f.Transactional,
		Commercial:    f.Commercial,
	}, nil
}
