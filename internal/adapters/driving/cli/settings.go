package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// configValidator pings providers before the wizard saves them. Tests
// swap it for a stub.
var configValidator driven.AIConfigValidator = ai.NewConfigValidator()

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure storage, chunking, AI providers and the vector index.

Use subcommands to configure specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the provider that turns text into vectors.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the provider that generates answers.`,
	RunE:  runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Printf("Config file: %s\n", settingsService.Path())
	cmd.Printf("Region:      %s\n", settings.Region)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Provider: %s\n", settings.Storage.Provider.Description())
	switch settings.Storage.Provider {
	case domain.StorageProviderS3:
		cmd.Printf("  Bucket: %s\n", orUnset(settings.Storage.Bucket))
		if settings.Storage.Prefix != "" {
			cmd.Printf("  Prefix: %s\n", settings.Storage.Prefix)
		}
	case domain.StorageProviderFilesystem:
		cmd.Printf("  Directory: %s\n", orUnset(settings.Storage.Dir))
	}
	cmd.Printf("  Extensions: %s\n", strings.Join(settings.Storage.Extensions, ", "))
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Storage.IsConfigured()))
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Size:    %d words\n", settings.Chunking.Size)
	cmd.Printf("  Overlap: %d words\n", settings.Chunking.Overlap)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", maskedOrUnset(settings.Embedding.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", maskedOrUnset(settings.LLM.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Provider: %s\n", settings.Index.Provider.Description())
	cmd.Printf("  Name: %s\n", settings.Index.Name)
	if settings.Index.Provider.RequiresEndpoint() {
		cmd.Printf("  Endpoint: %s\n", orUnset(settings.Index.Endpoint))
	}
	if settings.Index.Provider == domain.IndexProviderSQLite && settings.Index.Path != "" {
		cmd.Printf("  Path: %s\n", settings.Index.Path)
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Index.IsConfigured()))
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Top K: %d\n", settings.Search.TopK)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'retrieva settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Retrieva Settings Wizard")
	cmd.Println("========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Step 1: Region")
	cmd.Println("--------------")
	cmd.Printf("AWS region [%s]: ", settings.Region)
	if input := readLine(reader); input != "" {
		settings.Region = input
	}
	cmd.Println()

	cmd.Println("Step 2: Document Storage")
	cmd.Println("------------------------")
	if err := configureStorage(cmd, reader, settings); err != nil {
		return err
	}

	cmd.Println("Step 3: Embedding Provider")
	cmd.Println("--------------------------")
	if err := configureEmbeddingProvider(cmd, reader, settings); err != nil {
		return err
	}

	cmd.Println("Step 4: LLM Provider")
	cmd.Println("--------------------")
	if err := configureLLMProvider(cmd, reader, settings); err != nil {
		return err
	}

	cmd.Println("Step 5: Vector Index")
	cmd.Println("--------------------")
	if err := configureIndex(cmd, reader, settings); err != nil {
		return err
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	if err := configureEmbeddingProvider(cmd, reader, settings); err != nil {
		return err
	}
	return settingsService.Save(settings)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	if err := configureLLMProvider(cmd, reader, settings); err != nil {
		return err
	}
	return settingsService.Save(settings)
}

func configureStorage(cmd *cobra.Command, reader *bufio.Reader, settings *domain.AppSettings) error {
	providers := domain.AllStorageProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	settings.Storage.Provider = providers[idx-1]

	switch settings.Storage.Provider {
	case domain.StorageProviderS3:
		cmd.Printf("Bucket name [%s]: ", settings.Storage.Bucket)
		if input := readLine(reader); input != "" {
			settings.Storage.Bucket = input
		}
		cmd.Printf("Key prefix [%s]: ", settings.Storage.Prefix)
		if input := readLine(reader); input != "" {
			settings.Storage.Prefix = input
		}
	case domain.StorageProviderFilesystem:
		cmd.Printf("Directory [%s]: ", settings.Storage.Dir)
		if input := readLine(reader); input != "" {
			settings.Storage.Dir = input
		}
	}

	cmd.Printf("Storage configured: %s\n\n", settings.Storage.Provider.Description())
	return nil
}

func configureIndex(cmd *cobra.Command, reader *bufio.Reader, settings *domain.AppSettings) error {
	providers := domain.AllIndexProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	settings.Index.Provider = providers[idx-1]

	cmd.Printf("Index name [%s]: ", settings.Index.Name)
	if input := readLine(reader); input != "" {
		settings.Index.Name = input
	}

	if settings.Index.Provider.RequiresEndpoint() {
		cmd.Printf("Endpoint [%s]: ", settings.Index.Endpoint)
		if input := readLine(reader); input != "" {
			settings.Index.Endpoint = input
		}
		if settings.Index.Endpoint == "" {
			return errors.New("an endpoint is required for this index provider")
		}
	}

	cmd.Printf("Index configured: %s\n\n", settings.Index.Provider.Description())
	return nil
}

//nolint:dupl // Similar to configureLLMProvider but for embeddings - intentional for CLI flow clarity
func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader, settings *domain.AppSettings) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	defaultModel := domain.DefaultEmbeddingModels()[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	settings.Embedding.APIKey = apiKey

	cmd.Print("Validating configuration... ")
	if err := configValidator.ValidateEmbedding(cmd.Context(), settings.Region, &settings.Embedding); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n\n", provider.Description(), model)
	return nil
}

//nolint:dupl // Similar to configureEmbeddingProvider but for LLM - intentional for CLI flow clarity
func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader, settings *domain.AppSettings) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = model
	settings.LLM.APIKey = apiKey

	cmd.Print("Validating configuration... ")
	if err := configValidator.ValidateLLM(cmd.Context(), settings.Region, &settings.LLM); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", provider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when stdin is a terminal and falls
// back to a plain line otherwise (pipes, tests).
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func maskedOrUnset(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func orUnset(val string) string {
	if val == "" {
		return "(not set)"
	}
	return val
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
