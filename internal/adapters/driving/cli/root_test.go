package cli

import (
	"context"

	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
	"github.com/custodia-labs/retrieva-cli/internal/logger"
)

// Hand mocks for the driving ports so command tests run without any
// provider backends.

type mockAskService struct {
	answer domain.Answer
	err    error
	asked  []string
}

func (m *mockAskService) Ask(_ context.Context, question string) (domain.Answer, error) {
	m.asked = append(m.asked, question)
	if m.err != nil {
		return domain.Answer{}, m.err
	}
	answer := m.answer
	answer.Question = question
	return answer, nil
}

type mockRetrieveService struct {
	hits []domain.SearchHit
	err  error
	gotK int
}

func (m *mockRetrieveService) Retrieve(_ context.Context, _ string, k int) ([]domain.SearchHit, error) {
	m.gotK = k
	return m.hits, m.err
}

type mockIngestService struct {
	report domain.IngestReport
	err    error
}

func (m *mockIngestService) Ingest(_ context.Context) (domain.IngestReport, error) {
	return m.report, m.err
}

func (m *mockIngestService) IngestObject(_ context.Context, _ string) (int, error) {
	return 0, m.err
}

type mockIndexAdmin struct {
	stats     driving.IndexStats
	err       error
	ensured   bool
	resetDone bool
}

func (m *mockIndexAdmin) Ensure(_ context.Context) error {
	m.ensured = true
	return m.err
}

func (m *mockIndexAdmin) Stats(_ context.Context) (driving.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockIndexAdmin) Reset(_ context.Context) error {
	m.resetDone = true
	return m.err
}

type mockSettingsService struct {
	settings domain.AppSettings
	saved    *domain.AppSettings
	validErr error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	settings := m.settings
	return &settings, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.saved = settings
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) Validate() error {
	return m.validErr
}

func (m *mockSettingsService) Path() string {
	return "/tmp/retrieva-test/config.toml"
}

type mockConfigValidator struct {
	embedErr error
	llmErr   error
}

func (m *mockConfigValidator) ValidateEmbedding(_ context.Context, _ string, _ *domain.EmbeddingSettings) error {
	return m.embedErr
}

func (m *mockConfigValidator) ValidateLLM(_ context.Context, _ string, _ *domain.LLMSettings) error {
	return m.llmErr
}

// setupTestServices injects mocks for every package-level service and
// returns a cleanup that restores the pristine state.
func setupTestServices() func() {
	defaults := domain.DefaultAppSettings()

	log = logger.Nop()
	settingsService = &mockSettingsService{settings: defaults}
	askService = &mockAskService{answer: domain.Answer{
		Text:    "Go is a programming language.",
		Sources: []string{"docs/go.txt"},
	}}
	retrieveService = &mockRetrieveService{hits: []domain.SearchHit{
		{Content: "Go is expressive, concise, clean and efficient.", SourceKey: "docs/go.txt", Score: 0.91},
	}}
	ingestService = &mockIngestService{report: domain.IngestReport{
		ObjectsSeen:     3,
		ObjectsIngested: 2,
		ChunksIndexed:   14,
		Failures:        1,
	}}
	indexAdmin = &mockIndexAdmin{stats: driving.IndexStats{
		Name:      defaults.Index.Name,
		Records:   42,
		Dimension: 1536,
	}}
	configValidator = &mockConfigValidator{}
	appSettings = &defaults

	return func() {
		log = nil
		settingsService = nil
		askService = nil
		retrieveService = nil
		ingestService = nil
		indexAdmin = nil
		appSettings = nil
		configValidator = ai.NewConfigValidator()
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}
}
