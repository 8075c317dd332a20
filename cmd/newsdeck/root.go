package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nkoval/newsdeck/internal/browser"
	"github.com/nkoval/newsdeck/internal/config"
	"github.com/nkoval/newsdeck/internal/debuglog"
	"github.com/nkoval/newsdeck/internal/feeds"
	"github.com/nkoval/newsdeck/internal/news"
	"github.com/nkoval/newsdeck/internal/search"
	"github.com/nkoval/newsdeck/internal/storage"
	"github.com/nkoval/newsdeck/internal/tui"
)

var (
	flagConfig         string
	flagDB             string
	flagGenerateConfig bool
	flagQuiet          bool
)

var rootCmd = &cobra.Command{
	Use:   "newsdeck",
	Short: "Terminal news dashboard",
	Long: "newsdeck reads top headlines by category from a NewsAPI-compatible\n" +
		"service, with search, bookmarks, and custom RSS sources.",
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Flags().StringVar(&flagDB, "db", "", "path to database file (overrides config)")
	rootCmd.Flags().BoolVar(&flagGenerateConfig, "generate-config", false, "generate default config file and exit")
	rootCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "skip startup banner")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(relayCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("newsdeck %s\n", Version)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	if flagGenerateConfig {
		home, _ := os.UserHomeDir()
		configFile := filepath.Join(home, ".config", "newsdeck", "config.toml")

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			return fmt.Errorf("generating config: %w", err)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
		return nil
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagDB != "" {
		cfg.Database.Path = flagDB
	}

	if cfg.API.Key == "" && cfg.API.RelayURL == "" {
		return fmt.Errorf("no API key configured: set NEWSDECK_API_KEY, put it in .env, or point api.relay_url at a relay")
	}

	if err := debuglog.Setup(debuglog.ParseLevel(cfg.Logging.Level), cfg.Logging.Path); err != nil {
		fmt.Fprintf(os.Stderr, "warning: debug log unavailable: %v\n", err)
	}
	defer debuglog.Close()

	if !flagQuiet {
		tui.ShowBanner(Version)
	}

	store, err := storage.NewStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	// Custom feed sources and offline bookmark search are conveniences;
	// the dashboard works without either.
	mgr, err := feeds.NewManager(cfg)
	if err != nil {
		debuglog.Warnf("cmd: custom feeds disabled: %v", err)
		mgr = nil
	}

	var searcher search.Searcher
	if engine, err := search.NewBleveEngine(store, cfg.Database.SearchIndex); err != nil {
		debuglog.Warnf("cmd: bookmark search disabled: %v", err)
	} else {
		searcher = engine
		defer engine.Close()
	}

	app := tui.NewApp(store, news.NewClient(cfg), mgr, searcher, browser.NewOpener(cfg), cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
