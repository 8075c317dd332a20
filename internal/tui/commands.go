package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nkoval/newsdeck/internal/debuglog"
	"github.com/nkoval/newsdeck/internal/news"
	"github.com/nkoval/newsdeck/internal/search"
	"github.com/nkoval/newsdeck/internal/storage"
)

// loadPrefs reads the persisted theme and last category along with the
// bookmark membership snapshot. Runs once at startup; the resulting
// message triggers the initial fetch.
func (a *App) loadPrefs() tea.Cmd {
	return func() tea.Msg {
		msg := prefsLoadedMsg{bookmarked: make(map[string]bool)}

		if raw, err := a.store.Get(storage.PrefTheme); err == nil {
			dark := string(raw) != "light"
			msg.dark = &dark
		}
		if raw, err := a.store.Get(storage.PrefLastCategory); err == nil {
			msg.channelKey = string(raw)
		}

		articles, err := a.store.BookmarkedArticles()
		if err != nil {
			debuglog.Warnf("tui: loading bookmark flags: %v", err)
			return msg
		}
		for _, article := range articles {
			msg.bookmarked[article.URL] = true
		}
		return msg
	}
}

// fetchPage fetches one page for the given mode. The generation number
// travels with the result so the model can discard it if the mode
// changed while the request was in flight.
func (a *App) fetchPage(gen int, mode news.Mode, page int, initial bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.config.API.HTTPTimeout)
		defer cancel()

		batch, err := a.client.FetchPage(ctx, mode, page)
		if err != nil {
			return fetchFailedMsg{gen: gen, initial: initial, err: err}
		}
		return articlesLoadedMsg{gen: gen, batch: batch}
	}
}

// fetchFeed fetches a custom feed source. Feeds deliver everything in
// one batch, so the result is marked exhausted.
func (a *App) fetchFeed(gen int, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.config.API.HTTPTimeout)
		defer cancel()

		batch, err := a.feeds.Fetch(ctx, name)
		if err != nil {
			return fetchFailedMsg{gen: gen, initial: true, err: err}
		}
		return articlesLoadedMsg{gen: gen, batch: batch, exhaust: true}
	}
}

// loadBookmarks loads the bookmark set, or searches it offline when a
// query is given. Search hits are resolved back against the store so
// the reader always gets the full saved snapshot, not just the fields
// the index keeps.
func (a *App) loadBookmarks(gen int, query string) tea.Cmd {
	return func() tea.Msg {
		articles, err := a.store.BookmarkedArticles()
		if err != nil {
			return fetchFailedMsg{gen: gen, initial: true, err: wrapErr("loading bookmarks", err)}
		}

		if query == "" {
			return bookmarksLoadedMsg{gen: gen, articles: articles}
		}

		if a.searcher == nil {
			return bookmarksLoadedMsg{gen: gen, articles: articles, unavailable: true}
		}

		results, err := a.searcher.Search(query, 100)
		if err != nil {
			return fetchFailedMsg{gen: gen, initial: true, err: wrapErr("searching bookmarks", err)}
		}

		byURL := make(map[string]news.Article, len(articles))
		for _, article := range articles {
			byURL[article.URL] = article
		}

		matched := make([]news.Article, 0, len(results))
		for _, r := range results {
			if article, ok := byURL[r.Article.URL]; ok {
				matched = append(matched, article)
			}
		}
		return bookmarksLoadedMsg{gen: gen, query: query, articles: matched}
	}
}

// toggleBookmark flips membership for the article and keeps the search
// index in step.
func (a *App) toggleBookmark(article news.Article) tea.Cmd {
	return func() tea.Msg {
		var saved bool
		err := retryOperation(func() error {
			var toggleErr error
			saved, toggleErr = a.store.ToggleBookmark(article)
			return toggleErr
		})
		if err != nil {
			return bookmarkToggledMsg{url: article.URL, err: err}
		}

		if listener, ok := a.searcher.(search.UpdateListener); ok {
			if saved {
				listener.OnBookmarkSaved(article)
			} else {
				listener.OnBookmarkRemoved(article.URL)
			}
		}

		return bookmarkToggledMsg{url: article.URL, saved: saved}
	}
}

// saveTheme persists the theme choice. Failures are logged, never
// surfaced; the session keeps the toggled theme either way.
func (a *App) saveTheme(dark bool) tea.Cmd {
	return func() tea.Msg {
		value := "dark"
		if !dark {
			value = "light"
		}
		if err := retryOperation(func() error { return a.store.Set(storage.PrefTheme, []byte(value)) }); err != nil {
			debuglog.Warnf("tui: persisting theme: %v", err)
		}
		return nil
	}
}

func (a *App) saveChannelPref(key string) tea.Cmd {
	return func() tea.Msg {
		if err := retryOperation(func() error { return a.store.Set(storage.PrefLastCategory, []byte(key)) }); err != nil {
			debuglog.Warnf("tui: persisting category: %v", err)
		}
		return nil
	}
}

// renderArticle renders the current article snapshot to styled
// markdown. No network involved; everything comes from the Article.
func (a *App) renderArticle(article news.Article) tea.Cmd {
	return func() tea.Msg {
		var content strings.Builder
		content.WriteString(fmt.Sprintf("# %s\n\n", article.Title))

		var meta []string
		if article.Source.Name != "" {
			meta = append(meta, article.Source.Name)
		}
		if article.Author != "" {
			meta = append(meta, article.Author)
		}
		if !article.PublishedAt.IsZero() {
			meta = append(meta, article.PublishedAt.Format(time.RFC1123))
		}
		if len(meta) > 0 {
			content.WriteString(fmt.Sprintf("*%s*\n\n", strings.Join(meta, " • ")))
		}

		if article.URL != "" {
			content.WriteString(fmt.Sprintf("[Read Online](%s)\n\n", article.URL))
		}

		content.WriteString("---\n\n")

		switch {
		case article.Content != "":
			content.WriteString(article.Content)
		case article.Description != "":
			content.WriteString(article.Description)
		default:
			content.WriteString("*No content in this snapshot. Open the article in your browser for the full story.*")
		}

		r, err := a.getRenderer()
		if err != nil {
			return articleRenderedMsg{content: "Error initializing renderer: " + err.Error()}
		}

		rendered, err := r.Render(content.String())
		if err != nil {
			// Keep the message type so the loading flag always clears.
			return articleRenderedMsg{content: fmt.Sprintf("# Error\n\nFailed to render article: %s\n\nPress Escape to go back.", err.Error())}
		}

		return articleRenderedMsg{content: rendered}
	}
}

func (a *App) openInBrowser(url string) tea.Cmd {
	return func() tea.Msg {
		if err := a.opener.Open(url); err != nil {
			return errorMsg{err: wrapErr("opening "+truncateMiddle(url, 60), err)}
		}
		return nil
	}
}

// retryOperation retries a database operation up to 3 times with
// exponential backoff.
func retryOperation(operation func() error) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if err := operation(); err != nil {
			lastErr = err
			if i < maxRetries-1 {
				delay := baseDelay * time.Duration(1<<i)
				time.Sleep(delay)
				continue
			}
		} else {
			return nil
		}
	}
	return lastErr
}
