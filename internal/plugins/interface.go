package plugins

import (
	"context"
	"net/http"
	"time"
)

// SourceInfo is what a plugin knows about a custom source URL: where
// its actual feed lives and how to label it in the category rotation.
type SourceInfo struct {
	// Original URL the user configured
	OriginalURL string
	// Resolved feed endpoint (e.g. with the proper RSS suffix)
	FeedURL string
	// Display name, when the plugin can do better than the hostname
	Title string
}

// Plugin resolves host-specific source URLs into proper feed endpoints.
type Plugin interface {
	// Name returns the plugin name for identification
	Name() string

	// CanHandle returns true if this plugin recognizes the given URL
	CanHandle(url string) bool

	// Resolve turns a source URL into feed information. This may
	// involve HTTP requests to fetch metadata or follow redirects.
	Resolve(ctx context.Context, url string, client *http.Client) (*SourceInfo, error)

	// Priority breaks ties when several plugins claim the same URL
	// (higher wins).
	Priority() int
}

// Registry manages all registered plugins
type Registry struct {
	plugins []Plugin
	client  *http.Client
}

func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{
		plugins: make([]Plugin, 0),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// DefaultRegistry returns a registry with the built-in plugins.
func DefaultRegistry(timeout time.Duration) *Registry {
	r := NewRegistry(timeout)
	r.Register(NewRedditPlugin())
	return r
}

// Register adds a plugin to the registry
func (r *Registry) Register(plugin Plugin) {
	r.plugins = append(r.plugins, plugin)
}

// FindPlugin returns the highest-priority plugin claiming the URL, or
// nil when none does.
func (r *Registry) FindPlugin(url string) Plugin {
	var best Plugin
	highest := -1

	for _, plugin := range r.plugins {
		if plugin.CanHandle(url) && plugin.Priority() > highest {
			best = plugin
			highest = plugin.Priority()
		}
	}

	return best
}

// Resolve runs the matching plugin, or passes the URL through
// untouched when no plugin claims it.
func (r *Registry) Resolve(ctx context.Context, url string) (*SourceInfo, error) {
	plugin := r.FindPlugin(url)
	if plugin == nil {
		return &SourceInfo{OriginalURL: url, FeedURL: url}, nil
	}

	return plugin.Resolve(ctx, url, r.client)
}

// ListPlugins returns all registered plugins
func (r *Registry) ListPlugins() []Plugin {
	return append([]Plugin(nil), r.plugins...)
}
