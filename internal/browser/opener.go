package browser

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/nkoval/newsdeck/internal/config"
)

// Opener launches article URLs in the user's browser.
type Opener struct {
	browser  string
	registry *OpenerRegistry
}

func NewOpener(cfg *config.Config) *Opener {
	registry, err := NewOpenerRegistry()
	if err != nil {
		// Continue with basic functionality if opener definitions can't be loaded
		registry = &OpenerRegistry{
			openers:   make(map[string]OpenerDefinition),
			platforms: make(map[string]PlatformConfig),
		}
	}

	o := &Opener{registry: registry}

	if cfg.UI.Browser != "" && registry.IsOpenerAvailable(cfg.UI.Browser) {
		o.browser = cfg.UI.Browser
	} else {
		o.browser = registry.DefaultOpener()
	}

	return o
}

// Open launches the URL in the configured browser, detached from the TUI.
func (o *Opener) Open(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("refusing to open non-http URL %q", url)
	}

	if o.browser == "" {
		return fmt.Errorf("no application found to open URL")
	}

	cmd, err := o.registry.GetCommand(o.browser, url)
	if err != nil {
		cmd = exec.Command(o.browser, url)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", o.browser, err)
	}

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}
