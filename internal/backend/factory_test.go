package backend

import (
	"testing"
	"time"

	"bankdg/internal/config"
)

type noToken struct{}

func (noToken) Token() string { return "" }

func TestFromAppConfigCarriesRestSettings(t *testing.T) {
	appConfig := &config.Config{
		DataBackend: "rest",
		APIBaseURL:  "https://bank.example.com",
		APIKey:      "key-1",
		APITimeout:  7 * time.Second,
		APIRetries:  4,
	}

	cfg, err := FromAppConfig(appConfig, noToken{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Type != RestBackend {
		t.Errorf("expected rest backend, got %s", cfg.Type)
	}
	if cfg.APITimeout != 7*time.Second {
		t.Errorf("expected 7s timeout, got %v", cfg.APITimeout)
	}
	if cfg.APIRetries != 4 {
		t.Errorf("expected 4 retries, got %d", cfg.APIRetries)
	}
}

func TestFromAppConfigRejectsUnknownBackend(t *testing.T) {
	if _, err := FromAppConfig(&config.Config{DataBackend: "ldap"}, noToken{}); err == nil {
		t.Fatal("expected error for unknown backend type")
	}
}
