package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nkoval/newsdeck/internal/config"
)

// ErrRateLimited is returned when the headlines API answers 429. The
// UI shows a distinct message for it.
var ErrRateLimited = errors.New("rate limited by the headlines API")

// StatusError is any other non-success response from the API.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.Code)
}

// Client talks to a NewsAPI-compatible headlines service, either
// directly or through a key-hiding relay.
type Client struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	country   string
	pageSize  int
	userAgent string
}

func NewClient(cfg *config.Config) *Client {
	base := cfg.API.BaseURL
	apiKey := cfg.API.Key
	if cfg.API.RelayURL != "" {
		// The relay holds the key server-side; sending one anyway would
		// leak it into relay logs.
		base = cfg.API.RelayURL
		apiKey = ""
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.API.HTTPTimeout,
		},
		baseURL:   strings.TrimRight(base, "/"),
		apiKey:    apiKey,
		country:   cfg.API.Country,
		pageSize:  cfg.API.PageSize,
		userAgent: cfg.API.UserAgent,
	}
}

// PageSize returns the page size every request asks for.
func (c *Client) PageSize() int {
	return c.pageSize
}

// TopHeadlines fetches one page of top headlines for a category.
func (c *Client) TopHeadlines(ctx context.Context, category Category, page int) ([]Article, error) {
	if !category.Remote() {
		return nil, fmt.Errorf("category %q is not fetchable", category)
	}

	params := url.Values{}
	params.Set("country", c.country)
	params.Set("category", string(category))
	return c.get(ctx, "top-headlines", params, page)
}

// Everything fetches one page of free-text search results.
func (c *Client) Everything(ctx context.Context, query string, page int) ([]Article, error) {
	params := url.Values{}
	params.Set("q", query)
	return c.get(ctx, "everything", params, page)
}

// FetchPage dispatches to the endpoint matching the mode.
func (c *Client) FetchPage(ctx context.Context, mode Mode, page int) ([]Article, error) {
	if mode.IsSearch() {
		return c.Everything(ctx, mode.Query, page)
	}
	return c.TopHeadlines(ctx, mode.Category, page)
}

// envelope is the wire format shared by both endpoints. On failure the
// API still answers 200-shaped JSON with status "error".
type envelope struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
	Code         string    `json:"code,omitempty"`
	Message      string    `json:"message,omitempty"`
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, page int) ([]Article, error) {
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	if c.apiKey != "" {
		params.Set("apiKey", c.apiKey)
	}

	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", endpoint, err)
	}

	if env.Status == "error" {
		return nil, fmt.Errorf("api error %s: %s", env.Code, env.Message)
	}

	return env.Articles, nil
}
