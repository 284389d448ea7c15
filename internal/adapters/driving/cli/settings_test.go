package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

func TestSettingsShowCmd_PrintsSections(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "[Storage]")
	assert.Contains(t, out, "[Chunking]")
	assert.Contains(t, out, "[Embedding]")
	assert.Contains(t, out, "[LLM]")
	assert.Contains(t, out, "[Index]")
	assert.Contains(t, out, "Top K: 3")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShowCmd_WarnsOnInvalidConfig(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	settingsService = &mockSettingsService{
		settings: domain.DefaultAppSettings(),
		validErr: assertError("storage provider \"s3\" is not configured"),
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Warning:")
	assert.Contains(t, buf.String(), "retrieva settings wizard")
}

func TestSettingsWizardCmd_SavesSelections(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockSettingsService{settings: domain.DefaultAppSettings()}
	settingsService = mock

	// region, storage=filesystem + dir, embedding=ollama + default model,
	// llm=ollama + default model, index=sqlite + default name.
	input := strings.Join([]string{
		"eu-west-1",
		"2", "/tmp/docs",
		"3", "",
		"3", "",
		"1", "",
	}, "\n") + "\n"

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs([]string{"settings", "wizard"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	require.NotNil(t, mock.saved)
	assert.Equal(t, "eu-west-1", mock.saved.Region)
	assert.Equal(t, domain.StorageProviderFilesystem, mock.saved.Storage.Provider)
	assert.Equal(t, "/tmp/docs", mock.saved.Storage.Dir)
	assert.Equal(t, domain.AIProviderOllama, mock.saved.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", mock.saved.Embedding.Model)
	assert.Equal(t, domain.AIProviderOllama, mock.saved.LLM.Provider)
	assert.Equal(t, domain.IndexProviderSQLite, mock.saved.Index.Provider)
	assert.Contains(t, buf.String(), "Configuration Complete!")
}

func TestSettingsWizardCmd_ValidationFailureAborts(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockSettingsService{settings: domain.DefaultAppSettings()}
	settingsService = mock
	configValidator = &mockConfigValidator{embedErr: assertError("connection refused")}

	input := strings.Join([]string{
		"",
		"2", "/tmp/docs",
		"3", "",
	}, "\n") + "\n"

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs([]string{"settings", "wizard"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Nil(t, mock.saved, "nothing should be saved after a failed validation")
}

func TestParseChoice(t *testing.T) {
	assert.Equal(t, 1, parseChoice("", 4, 1))
	assert.Equal(t, 3, parseChoice("3", 4, 1))
	assert.Equal(t, 1, parseChoice("9", 4, 1))
	assert.Equal(t, 1, parseChoice("nope", 4, 1))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-1...wxyz", maskAPIKey("sk-1234567890wxyz"))
}

// assertError is a tiny error type for table-free fixtures.
type assertError string

func (e assertError) Error() string { return string(e) }
