package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

var (
	intentLang    string
	intentAgainst string
)

var intentCmd = &cobra.Command{
	Use:   "intent <query>",
	Short: "Classify the search intent of a query",
	Long: `Classify a query as informational, navigational, transactional or
commercial using the cue vocabulary of the selected language.

With --against, also print how strongly the query's intent conflicts with
another intent when two pages compete for it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIntent,
}

var intentVocabularyCmd = &cobra.Command{
	Use:   "vocabulary",
	Short: "List the intent cues of a language",
	Args:  cobra.NoArgs,
	RunE:  runIntentVocabulary,
}

func init() {
	intentCmd.PersistentFlags().StringVar(&intentLang, "lang", "", "vocabulary language (pt-BR, en)")
	intentCmd.Flags().StringVar(&intentAgainst, "against", "", "intent to compute the conflict affinity with")
	intentCmd.AddCommand(intentVocabularyCmd)
	rootCmd.AddCommand(intentCmd)
}

func intentLanguage() domain.Language {
	if intentLang != "" {
		return domain.Language(intentLang)
	}
	return currentSettings().Intent.Language
}

func runIntent(cmd *cobra.Command, args []string) error {
	if intentService == nil {
		return errors.New("intent service not configured")
	}

	query := strings.Join(args, " ")
	lang := intentLanguage()

	intent, err := intentService.Classify(lang, query)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	cmd.Printf("Query:    %s\n", query)
	cmd.Printf("Language: %s\n", lang)
	cmd.Printf("Intent:   %s\n", intent.Description())

	if intentAgainst != "" {
		other := domain.Intent(intentAgainst)
		if !other.IsValid() {
			return fmt.Errorf("%w: unknown intent %q", domain.ErrInvalidInput, intentAgainst)
		}
		cmd.Printf("Conflict with %s: %.2f\n", other, intentService.Conflict(intent, other))
	}
	return nil
}

func runIntentVocabulary(cmd *cobra.Command, _ []string) error {
	if intentService == nil {
		return errors.New("intent service not configured")
	}

	lang := intentLanguage()
	vocab, err := intentService.Vocabulary(lang)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}

	cmd.Printf("Vocabulary: %s\n\n", vocab.Language)
	cmd.Printf("[transactional]\n  %s\n", strings.Join(vocab.Transactional, ", "))
	cmd.Printf("[informational]\n  %s\n", strings.Join(vocab.Informational, ", "))
	cmd.Printf("[commercial]\n  %s\n", strings.Join(vocab.Commercial, ", "))
	cmd.Println("\nNavigational: queries mentioning site, www, .com or .com.br")
	return nil
}
