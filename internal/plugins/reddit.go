package plugins

import (
	"context"
	"net/http"
	"strings"
)

// RedditPlugin resolves subreddit URLs to their RSS endpoints, so a
// user can configure "reddit.com/r/golang" as a source directly.
type RedditPlugin struct{}

func NewRedditPlugin() *RedditPlugin {
	return &RedditPlugin{}
}

func (p *RedditPlugin) Name() string {
	return "reddit"
}

func (p *RedditPlugin) CanHandle(url string) bool {
	return strings.Contains(url, "://www.reddit.com/r/") ||
		strings.Contains(url, "://reddit.com/r/")
}

func (p *RedditPlugin) Priority() int {
	return 50
}

// Resolve appends the .rss suffix Reddit serves feeds under.
func (p *RedditPlugin) Resolve(_ context.Context, rawURL string, _ *http.Client) (*SourceInfo, error) {
	feedURL := strings.TrimSuffix(rawURL, "/") + ".rss"

	subreddit := "unknown"
	if parts := strings.Split(rawURL, "/r/"); len(parts) > 1 {
		subreddit = strings.Split(parts[1], "/")[0]
	}

	return &SourceInfo{
		OriginalURL: rawURL,
		FeedURL:     feedURL,
		Title:       "r/" + subreddit,
	}, nil
}
