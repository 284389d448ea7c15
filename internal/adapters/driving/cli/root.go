// Package cli implements the retrieva command line interface. The root
// command wires configuration, logging and the backend clients once;
// subcommands consume the package-level services.
package cli

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/retrieva-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/retrieva-cli/internal/chunker"
	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
	"github.com/custodia-labs/retrieva-cli/internal/core/services"
	"github.com/custodia-labs/retrieva-cli/internal/logger"
)

// version is set via SetVersion from the build.
var version = "dev"

var (
	configDir string
	verbose   bool
)

// Services injected at startup. Commands that run without backends
// (version, settings show) only need settingsService; the rest call
// initClients to bring the full pipeline up.
var (
	log *zap.Logger

	settingsService driving.SettingsService
	askService      driving.AskService
	retrieveService driving.RetrieveService
	ingestService   driving.IngestService
	indexAdmin      driving.IndexAdmin

	appSettings *domain.AppSettings
	clients     *ai.Clients
)

var rootCmd = &cobra.Command{
	Use:   "retrieva",
	Short: "Retrieval-augmented question answering over your documents",
	Long: `Retrieva ingests documents from object storage, indexes them as
embedding vectors and answers questions grounded in the most similar
passages. Configure providers with 'retrieva settings wizard', load
documents with 'retrieva ingest', then 'retrieva ask' or 'retrieva chat'.`,
	SilenceUsage:      true,
	PersistentPreRunE: initSettings,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeClients()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.retrieva)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

// initSettings loads .env, builds the logger and opens the config store.
// Tests replace the services afterwards, so it never overwrites one that
// is already set.
func initSettings(_ *cobra.Command, _ []string) error {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	if log == nil {
		log = logger.New(verbose)
	}

	if settingsService == nil {
		store, err := configfile.NewConfigStore(configDir)
		if err != nil {
			return fmt.Errorf("open config store: %w", err)
		}
		settingsService = services.NewSettingsService(store)
	}

	if appSettings == nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		appSettings = settings
	}

	return nil
}

// initClients builds the backend clients and the pipeline services.
// Commands that talk to providers call it first thing; it is a no-op
// when tests have already injected services.
func initClients(cmd *cobra.Command) error {
	if askService != nil && retrieveService != nil && indexAdmin != nil {
		return nil
	}
	if appSettings == nil {
		return errors.New("settings not loaded")
	}

	if appSettings.Index.Provider.RequiresEndpoint() && appSettings.Index.Endpoint == "" {
		return fmt.Errorf("%w: index provider %s requires an endpoint, set COLLECTION_ENDPOINT or run 'retrieva settings wizard'",
			domain.ErrNotConfigured, appSettings.Index.Provider)
	}

	ctx := cmd.Context()

	built, err := ai.Setup(ctx, appSettings)
	if err != nil {
		return fmt.Errorf("set up providers: %w", err)
	}
	clients = built

	ch, err := chunker.New(
		chunker.WithSize(appSettings.Chunking.Size),
		chunker.WithOverlap(appSettings.Chunking.Overlap),
	)
	if err != nil {
		clients.Close()
		clients = nil
		return err
	}

	retrieveService = services.NewRetriever(clients.Embedding, clients.Index, appSettings.Search.TopK, log)
	askService = services.NewAsker(retrieveService, clients.LLM, appSettings.LLM.MaxTokens, log)
	indexAdmin = services.NewIndexManager(appSettings.Index.Name, clients.Index, clients.Embedding.Dimensions(), log)
	if clients.Store != nil {
		ingestService = services.NewIngestor(
			clients.Store, clients.Embedding, clients.Index, ch,
			appSettings.Storage.Extensions, log)
	}

	return nil
}

func closeClients() {
	if clients != nil {
		clients.Close()
		clients = nil
	}
	if log != nil {
		_ = log.Sync()
	}
}
