package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "https://newsapi.example/v2",
			Key:         "test-key",
			Country:     "us",
			PageSize:    12,
			HTTPTimeout: 5 * time.Second,
			UserAgent:   "newsdeck-test/1.0",
		},
		Database: DatabaseConfig{
			Path:    ":memory:",
			Timeout: 1 * time.Second,
		},
		Relay:   defaultConfig().Relay,
		UI:      defaultConfig().UI,
		Keys:    defaultConfig().Keys,
		Logging: LoggingConfig{Level: "off"},
	}
}
