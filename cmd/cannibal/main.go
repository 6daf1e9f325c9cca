// Command cannibal finds pages competing for the same search queries.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driven/source"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/cannibal-cli/internal/core/services"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

const (
	// envHome overrides the config directory (default ~/.cannibal).
	envHome = "CANNIBAL_HOME"

	// envAccessToken is an OAuth access token for the Search Console API.
	envAccessToken = "CANNIBAL_GSC_TOKEN"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	store, err := file.NewConfigStore(os.Getenv(envHome))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening config: %v\n", err)
		return err
	}

	intents := services.NewDefaultIntentRegistry()
	settingsService := services.NewSettingsService(store, intents)

	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading settings: %v\n", err)
		return err
	}

	if path := settings.Intent.VocabularyFile; path != "" {
		vocab, err := services.LoadVocabularyFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: loading vocabulary: %v\n", err)
			return err
		}
		intents.Register(vocab)
	}

	sources := source.NewFactory(settings.SearchConsole, os.Getenv(envAccessToken))
	analysisService := services.NewAnalysisService(intents, sources)

	cli.SetServices(analysisService, intents, settingsService)
	cli.SetVersion(version)
	return cli.Execute()
}
