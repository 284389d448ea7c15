package driving

import "github.com/custodia-labs/retrieva-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with environment
	// variables overriding stored values and defaults filling gaps.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Validate checks that current settings can run the pipeline.
	Validate() error

	// Path returns the configuration file path.
	Path() string
}
