package feeds

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nkoval/newsdeck/internal/config"
	"github.com/nkoval/newsdeck/internal/news"
)

// Source is a user-configured RSS/Atom feed surfaced as an extra
// category. Fetch metadata lives here for the life of the process;
// feeds are re-fetched from scratch on the next run.
type Source struct {
	Name         string
	URL          string
	FeedURL      string
	ETag         string
	LastModified string
	LastFetched  time.Time

	// cached holds the batch parsed from the last full response.
	// A 304 serves it again instead of an empty channel.
	cached []news.Article
}

type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(cfg *config.Config) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.API.HTTPTimeout,
		},
		userAgent: cfg.API.UserAgent,
	}
}

// Fetch performs a conditional GET against the source's feed endpoint.
// The bool is false when the feed is unchanged since the last fetch.
func (f *Fetcher) Fetch(ctx context.Context, source *Source) (*http.Response, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.FeedURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	if source.ETag != "" {
		req.Header.Set("If-None-Match", source.ETag)
	}

	if source.LastModified != "" {
		req.Header.Set("If-Modified-Since", source.LastModified)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("fetching feed: %w", err)
	}

	if resp.StatusCode == http.StatusNotModified {
		resp.Body.Close()
		return nil, false, nil
	}

	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, false, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	return resp, true, nil
}

// UpdateSourceMetadata records the response validators for the next
// conditional GET.
func (f *Fetcher) UpdateSourceMetadata(source *Source, resp *http.Response) {
	if etag := resp.Header.Get("ETag"); etag != "" {
		source.ETag = etag
	}

	if lastMod := resp.Header.Get("Last-Modified"); lastMod != "" {
		source.LastModified = lastMod
	}

	source.LastFetched = time.Now()
}
