package browser

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

//go:embed openers.toml
var openersTOML []byte

// OpenerDefinition defines how a browser or URL handler should be invoked
type OpenerDefinition struct {
	Description string   `toml:"description"`
	Platforms   []string `toml:"platforms"`
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

// PlatformConfig holds per-platform fallback settings
type PlatformConfig struct {
	DefaultOpener string `toml:"default_opener"`
}

// OpenersConfig holds all opener definitions
type OpenersConfig struct {
	Openers   map[string]OpenerDefinition `toml:"openers"`
	Platforms map[string]PlatformConfig   `toml:"platforms"`
}

// OpenerRegistry manages opener definitions
type OpenerRegistry struct {
	openers   map[string]OpenerDefinition
	platforms map[string]PlatformConfig
}

// NewOpenerRegistry creates a registry from the embedded TOML
func NewOpenerRegistry() (*OpenerRegistry, error) {
	var config OpenersConfig
	if err := toml.Unmarshal(openersTOML, &config); err != nil {
		return nil, fmt.Errorf("parsing openers.toml: %w", err)
	}

	registry := &OpenerRegistry{
		openers:   config.Openers,
		platforms: config.Platforms,
	}

	// Try to load user's custom opener definitions
	registry.loadUserConfig()

	return registry, nil
}

// loadUserConfig loads custom opener definitions from user's config directory
func (r *OpenerRegistry) loadUserConfig() {
	configPaths := []string{
		"~/.config/newsdeck/openers.toml",
		"./openers.toml",
	}

	for _, path := range configPaths {
		if len(path) >= 2 && path[:2] == "~/" {
			if home, err := os.UserHomeDir(); err == nil {
				path = filepath.Join(home, path[2:])
			}
		}

		if data, err := os.ReadFile(path); err == nil {
			var userConfig OpenersConfig
			if err := toml.Unmarshal(data, &userConfig); err == nil {
				// Merge user config (overrides built-in)
				for name, def := range userConfig.Openers {
					r.openers[name] = def
				}
				for name, platform := range userConfig.Platforms {
					r.platforms[name] = platform
				}
			}
		}
	}
}

// GetCommand builds the command for a specific opener
func (r *OpenerRegistry) GetCommand(openerName, url string) (*exec.Cmd, error) {
	opener, exists := r.openers[openerName]
	if !exists {
		// If opener not defined, use it with no special args
		return exec.Command(openerName, url), nil
	}

	supportsPlatform := false
	for _, p := range opener.Platforms {
		if p == runtime.GOOS {
			supportsPlatform = true
			break
		}
	}

	if !supportsPlatform {
		return nil, fmt.Errorf("%s not supported on %s", openerName, runtime.GOOS)
	}

	args := r.getArgs(opener)
	args = append(args, url)

	return exec.Command(openerName, args...), nil
}

// getArgs returns the appropriate args for the current platform
func (r *OpenerRegistry) getArgs(opener OpenerDefinition) []string {
	switch runtime.GOOS {
	case "darwin":
		if len(opener.ArgsDarwin) > 0 {
			return opener.ArgsDarwin
		}
	case "linux":
		if len(opener.ArgsLinux) > 0 {
			return opener.ArgsLinux
		}
	case "windows":
		if len(opener.ArgsWindows) > 0 {
			return opener.ArgsWindows
		}
	}

	return opener.Args
}

// DefaultOpener returns the platform fallback opener command
func (r *OpenerRegistry) DefaultOpener() string {
	if platform, ok := r.platforms[runtime.GOOS]; ok {
		return platform.DefaultOpener
	}
	return ""
}

// IsOpenerAvailable checks if an opener is installed
func (r *OpenerRegistry) IsOpenerAvailable(openerName string) bool {
	_, err := exec.LookPath(openerName)
	return err == nil
}
