package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bankdg/internal/config"
	"bankdg/internal/fetch/fixture"
	"bankdg/internal/fetch/rest"
)

// Config holds what backend construction needs, detached from the full
// application config.
type Config struct {
	Type Type

	// rest backend
	APIBaseURL string
	APIKey     string
	APITimeout time.Duration
	APIRetries int
	Tokens     rest.TokenSource

	// fixture backend
	FixtureDir string
}

// FromAppConfig maps the application config onto backend config.
// tokens supplies the bearer token for the rest backend; the fixture
// backend ignores it.
func FromAppConfig(appConfig *config.Config, tokens rest.TokenSource) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return Config{
		Type:       backendType,
		APIBaseURL: appConfig.APIBaseURL,
		APIKey:     appConfig.APIKey,
		APITimeout: appConfig.APITimeout,
		APIRetries: appConfig.APIRetries,
		Tokens:     tokens,
		FixtureDir: appConfig.FixtureDir,
	}, nil
}

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(_ context.Context, config Config) (*Result, error) {
	switch config.Type {
	case RestBackend:
		return f.createRestBackend(config)
	case FixtureBackend:
		return f.createFixtureBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createRestBackend(config Config) (*Result, error) {
	if config.APIBaseURL == "" {
		return nil, fmt.Errorf("API base URL is required for rest backend")
	}
	client := rest.New(config.APIBaseURL, config.APIKey, config.Tokens, config.APITimeout, config.APIRetries)

	f.logger.Info("Initialized rest backend", "base_url", config.APIBaseURL)

	return &Result{Backend: client, Cleanup: nil}, nil
}

func (f *DefaultFactory) createFixtureBackend(config Config) (*Result, error) {
	dir := config.FixtureDir
	if dir == "" {
		dir = "fixtures"
	}
	store := fixture.NewFromFiles(dir)

	f.logger.Info("Initialized fixture backend", "fixture_directory", dir)

	return &Result{Backend: store, Cleanup: nil}, nil
}
