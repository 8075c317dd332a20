package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.API.PageSize != 12 {
		t.Errorf("API.PageSize = %d, want 12", cfg.API.PageSize)
	}
	if cfg.API.Country != "us" {
		t.Errorf("API.Country = %s, want us", cfg.API.Country)
	}
	if cfg.API.HTTPTimeout != 30*time.Second {
		t.Errorf("API.HTTPTimeout = %v, want 30s", cfg.API.HTTPTimeout)
	}
	if cfg.API.UserAgent == "" {
		t.Error("API.UserAgent should not be empty")
	}

	if cfg.Database.Timeout != 1*time.Second {
		t.Errorf("Database.Timeout = %v, want 1s", cfg.Database.Timeout)
	}
	if cfg.Database.Path == "" {
		t.Error("Database.Path should not be empty")
	}

	if cfg.Relay.Listen == "" {
		t.Error("Relay.Listen should not be empty")
	}

	if cfg.UI.Theme != "dark" {
		t.Errorf("UI.Theme = %s, want dark", cfg.UI.Theme)
	}
	if cfg.UI.Article.MaxDescriptionLength != 150 {
		t.Errorf("UI.Article.MaxDescriptionLength = %d, want 150", cfg.UI.Article.MaxDescriptionLength)
	}
	if cfg.UI.Dark.Background == cfg.UI.Light.Background {
		t.Error("dark and light palettes should differ")
	}

	if cfg.Keys.Bindings.Bookmark != "b" {
		t.Errorf("Keys.Bindings.Bookmark = %s, want b", cfg.Keys.Bindings.Bookmark)
	}
}

func TestLoadMissingConfigFallsBackToDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() with no config file: %v", err)
	}

	if cfg.API.BaseURL != "https://newsapi.org/v2" {
		t.Errorf("BaseURL = %s, want default", cfg.API.BaseURL)
	}
	if cfg.API.PageSize != 12 {
		t.Errorf("PageSize = %d, want 12", cfg.API.PageSize)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.toml")

	content := `
[api]
country = "de"
page_size = 25
relay_url = "http://localhost:8787/v2"

[ui]
theme = "light"

[[feeds]]
name = "Go Blog"
url = "https://go.dev/blog/feed.atom"
`
	if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Load(%s): %v", configFile, err)
	}

	if cfg.API.Country != "de" {
		t.Errorf("Country = %s, want de", cfg.API.Country)
	}
	if cfg.API.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", cfg.API.PageSize)
	}
	if cfg.API.RelayURL != "http://localhost:8787/v2" {
		t.Errorf("RelayURL = %s, want relay address", cfg.API.RelayURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %s, want light", cfg.UI.Theme)
	}
	if len(cfg.Feeds) != 1 || cfg.Feeds[0].Name != "Go Blog" {
		t.Errorf("Feeds = %+v, want one Go Blog source", cfg.Feeds)
	}

	// Sections absent from the file keep their defaults.
	if cfg.API.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want default 30s", cfg.API.HTTPTimeout)
	}
}

func TestAPIKeyFromEnvironmentWins(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.toml")

	content := `
[api]
key = "file-key"
`
	if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("NEWSDECK_API_KEY", "env-key")

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.Key != "env-key" {
		t.Errorf("API.Key = %s, want env-key", cfg.API.Key)
	}
}

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.toml")

	original := defaultConfig()
	original.API.Country = "gb"

	if err := Save(original, configFile); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := Load(configFile)
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}

	if reloaded.API.Country != "gb" {
		t.Errorf("Country = %s, want gb", reloaded.API.Country)
	}
	if reloaded.API.HTTPTimeout != original.API.HTTPTimeout {
		t.Errorf("HTTPTimeout = %v, want %v", reloaded.API.HTTPTimeout, original.API.HTTPTimeout)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty stays empty", "", ""},
		{"tilde expands", "~/news.db", filepath.Join(home, "news.db")},
		{"absolute untouched", "/var/lib/news.db", "/var/lib/news.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.want {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
