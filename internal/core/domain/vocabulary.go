package domain

// Language identifies a vocabulary and recommendation catalog.
type Language string

// Built-in languages.
const (
	// LanguagePortuguese is Brazilian Portuguese, the default.
	LanguagePortuguese Language = "pt-BR"

	// LanguageEnglish is English.
	LanguageEnglish Language = "en"
)

// String returns the string representation.
func (l Language) String() string {
	return string(l)
}

// Vocabulary holds the keyword cues used to classify query intent.
// Entries are matched against lower-cased whitespace tokens, so
// multi-word entries never match.
type Vocabulary struct {
	// Language is the language these cues belong to.
	Language Language

	// Informational cues (how, what, guide...).
	Informational []string

	// Transactional cues (buy, price, book...).
	Transactional []string

	// Commercial cues (best, review, compare...).
	Commercial []string
}

// PortugueseVocabulary returns the default Brazilian Portuguese cues.
func PortugueseVocabulary() Vocabulary {
	return Vocabulary{
		Language: LanguagePortuguese,
		Informational: []string{
			"como", "what", "quando", "onde", "por que", "qual", "quem",
			"significado", "diferença", "guia", "tutorial", "dicas",
		},
		Transactional: []string{
			"comprar", "preço", "valor", "custo", "download", "assinar",
			"contratar", "reservar", "agendar", "consultar",
		},
		Commercial: []string{
			"melhor", "review", "comparar", "vs", "versus", "comparação",
			"avaliação", "opinião", "recomendação",
		},
	}
}

// EnglishVocabulary returns English cues.
func EnglishVocabulary() Vocabulary {
	return Vocabulary{
		Language: LanguageEnglish,
		Informational: []string{
			"how", "what", "when", "where", "why", "which", "who",
			"meaning", "difference", "guide", "tutorial", "tips",
		},
		Transactional: []string{
			"buy", "price", "cost", "cheap", "download", "subscribe",
			"hire", "book", "order", "coupon",
		},
		Commercial: []string{
			"best", "review", "reviews", "compare", "vs", "versus",
			"comparison", "rating", "top", "alternatives",
		},
	}
}

// BuiltinVocabularies returns the vocabularies shipped with cannibal.
func BuiltinVocabularies() map[Language]Vocabulary {
	return map[Language]Vocabulary{
		LanguagePortuguese: PortugueseVocabulary(),
		LanguageEnglish:    EnglishVocabulary(),
	}
}
