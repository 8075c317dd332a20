package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Relay    RelayConfig    `mapstructure:"relay"`
	UI       UIConfig       `mapstructure:"ui"`
	Feeds    []FeedSource   `mapstructure:"feeds"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// APIConfig configures the headlines API client.
type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Key         string        `mapstructure:"key"`
	Country     string        `mapstructure:"country"`
	PageSize    int           `mapstructure:"page_size"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	// RelayURL, when set, routes all API traffic through a newsdeck
	// relay instead of hitting the API directly with the local key.
	RelayURL string `mapstructure:"relay_url"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
}

// RelayConfig configures the `newsdeck relay` server.
type RelayConfig struct {
	Listen      string        `mapstructure:"listen"`
	Upstream    string        `mapstructure:"upstream"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

type UIConfig struct {
	Theme   string        `mapstructure:"theme"`
	Browser string        `mapstructure:"browser"`
	Dark    Palette       `mapstructure:"dark"`
	Light   Palette       `mapstructure:"light"`
	Article ArticleConfig `mapstructure:"article"`
}

type Palette struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type ArticleConfig struct {
	MaxDescriptionLength int `mapstructure:"max_description_length"`
	WordWrapMaxWidth     int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth     int `mapstructure:"word_wrap_min_width"`
}

// FeedSource is a user-declared RSS/Atom source, shown as an extra
// category after the built-in ones.
type FeedSource struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

type KeyConfig struct {
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit         string `mapstructure:"quit"`
	Search       string `mapstructure:"search"`
	Refresh      string `mapstructure:"refresh"`
	LoadMore     string `mapstructure:"load_more"`
	Bookmark     string `mapstructure:"bookmark"`
	Theme        string `mapstructure:"theme"`
	OpenBrowser  string `mapstructure:"open_browser"`
	NextCategory string `mapstructure:"next_category"`
	PrevCategory string `mapstructure:"prev_category"`
	Back         string `mapstructure:"back"`
	Help         string `mapstructure:"help"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".newsdeck.db")
	searchIndexPath := filepath.Join(homeDir, ".newsdeck", "index.bleve")

	return &Config{
		API: APIConfig{
			BaseURL:     "https://newsapi.org/v2",
			Country:     "us",
			PageSize:    12,
			HTTPTimeout: 30 * time.Second,
			UserAgent:   "newsdeck/1.0 (https://github.com/nkoval/newsdeck)",
		},
		Database: DatabaseConfig{
			Path:        dbPath,
			Timeout:     1 * time.Second,
			SearchIndex: searchIndexPath,
		},
		Relay: RelayConfig{
			Listen:      ":8787",
			Upstream:    "https://newsapi.org/v2",
			HTTPTimeout: 30 * time.Second,
		},
		UI: UIConfig{
			Theme: "dark",
			Dark: Palette{
				Primary:    "#FF6B6B",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			Light: Palette{
				Primary:    "#C0392B",
				Secondary:  "#0F766E",
				Accent:     "#1E8E6E",
				Background: "#FDFDFD",
				Surface:    "#ECECEC",
				Text:       "#1F2933",
				Muted:      "#64748B",
				Error:      "#B91C1C",
				Success:    "#047857",
			},
			Article: ArticleConfig{
				MaxDescriptionLength: 150,
				WordWrapMaxWidth:     120,
				WordWrapMinWidth:     40,
			},
		},
		Keys: KeyConfig{
			Bindings: KeyBindings{
				Quit:         "q",
				Search:       "s",
				Refresh:      "r",
				LoadMore:     "m",
				Bookmark:     "b",
				Theme:        "t",
				OpenBrowser:  "o",
				NextCategory: "]",
				PrevCategory: "[",
				Back:         "esc",
				Help:         "?",
			},
		},
		Logging: LoggingConfig{
			Level: "off",
		},
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("api", cfg.API)
	v.SetDefault("database", cfg.Database)
	v.SetDefault("relay", cfg.Relay)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("keys", cfg.Keys)
	v.SetDefault("logging", cfg.Logging)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "newsdeck")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("NEWSDECK")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// The API key never belongs in the config file; the environment wins.
	if key := os.Getenv("NEWSDECK_API_KEY"); key != "" {
		config.API.Key = key
	}

	expandPaths(&config)

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

// expandPaths expands all paths in the config
func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.Logging.Path = expandPath(cfg.Logging.Path)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Convert durations to strings for TOML readability
	apiCfg := map[string]interface{}{
		"base_url":     config.API.BaseURL,
		"country":      config.API.Country,
		"page_size":    config.API.PageSize,
		"http_timeout": config.API.HTTPTimeout.String(),
		"user_agent":   config.API.UserAgent,
		"relay_url":    config.API.RelayURL,
	}

	dbCfg := map[string]interface{}{
		"path":         config.Database.Path,
		"timeout":      config.Database.Timeout.String(),
		"search_index": config.Database.SearchIndex,
	}

	relayCfg := map[string]interface{}{
		"listen":       config.Relay.Listen,
		"upstream":     config.Relay.Upstream,
		"http_timeout": config.Relay.HTTPTimeout.String(),
	}

	v.Set("api", apiCfg)
	v.Set("database", dbCfg)
	v.Set("relay", relayCfg)
	v.Set("ui", config.UI)
	v.Set("feeds", config.Feeds)
	v.Set("keys", config.Keys)
	v.Set("logging", config.Logging)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
