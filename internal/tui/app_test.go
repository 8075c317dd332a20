package tui

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkoval/newsdeck/internal/config"
	"github.com/nkoval/newsdeck/internal/news"
	"github.com/nkoval/newsdeck/internal/search"
	"github.com/nkoval/newsdeck/internal/storage"
)

type nopOpener struct{ opened []string }

func (o *nopOpener) Open(url string) error {
	o.opened = append(o.opened, url)
	return nil
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.TestConfig()
	return NewApp(&storage.Store{}, news.NewClient(cfg), nil, nil, &nopOpener{}, cfg)
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func testArticles(urls ...string) []news.Article {
	articles := make([]news.Article, len(urls))
	for i, u := range urls {
		articles[i] = news.Article{URL: u, Title: "Story " + u}
	}
	return articles
}

func TestViewStateTransitions(t *testing.T) {
	tests := []struct {
		name         string
		initialView  View
		msg          tea.Msg
		expectedView View
		setupFunc    func(*App)
	}{
		{
			name:         "ViewHeadlines to ViewReader on Enter",
			initialView:  ViewHeadlines,
			msg:          tea.KeyMsg{Type: tea.KeyEnter},
			expectedView: ViewReader,
			setupFunc: func(a *App) {
				a.articles = testArticles("https://example.com/a")
				a.refreshItems()
			},
		},
		{
			name:         "ViewReader to ViewHeadlines on Escape",
			initialView:  ViewReader,
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewHeadlines,
		},
		{
			name:         "ViewHeadlines to ViewSearch on search key",
			initialView:  ViewHeadlines,
			msg:          keyRunes('s'),
			expectedView: ViewSearch,
		},
		{
			name:         "ViewSearch to ViewHeadlines on Escape",
			initialView:  ViewSearch,
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewHeadlines,
			setupFunc: func(a *App) {
				a.previousView = ViewHeadlines
				a.searchInput.Focus()
			},
		},
		{
			name:         "ViewHeadlines to ViewHelp on '?'",
			initialView:  ViewHeadlines,
			msg:          keyRunes('?'),
			expectedView: ViewHelp,
		},
		{
			name:         "ViewHelp dismissed by any key",
			initialView:  ViewHelp,
			msg:          keyRunes('x'),
			expectedView: ViewHeadlines,
			setupFunc: func(a *App) {
				a.previousView = ViewHeadlines
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.view = tt.initialView

			if tt.setupFunc != nil {
				tt.setupFunc(app)
			}

			updatedModel, _ := app.Update(tt.msg)
			updatedApp, ok := updatedModel.(*App)
			require.True(t, ok, "model should be *App")

			assert.Equal(t, tt.expectedView, updatedApp.view)
		})
	}
}

func TestReaderTransitionKeepsList(t *testing.T) {
	app := newTestApp(t)
	app.articles = testArticles("https://example.com/a", "https://example.com/b")
	app.refreshItems()
	app.view = ViewHeadlines
	gen := app.fetchGen

	updatedModel, _ := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = updatedModel.(*App)
	require.Equal(t, ViewReader, app.view)
	require.NotNil(t, app.currentArticle)

	updatedModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = updatedModel.(*App)
	assert.Equal(t, ViewHeadlines, app.view)

	// Neither transition replaced the list or the cursor generation.
	assert.Len(t, app.articles, 2)
	assert.Equal(t, gen, app.fetchGen)
}

func TestCategoryCycling(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, news.CategoryGeneral, app.currentChannel().category)

	updatedModel, cmd := app.Update(keyRunes(']'))
	app = updatedModel.(*App)
	assert.Equal(t, news.CategoryTechnology, app.currentChannel().category)
	assert.NotNil(t, cmd, "switching category should trigger a fetch")
	assert.True(t, app.loading)

	// Wrap backwards from the first channel to the last.
	app.channelIdx = 0
	updatedModel, _ = app.Update(keyRunes('['))
	app = updatedModel.(*App)
	assert.Equal(t, news.CategoryBookmarks, app.currentChannel().category)
	assert.False(t, app.loading, "bookmarks are local, nothing to fetch")
}

func TestCategorySwitchResetsPager(t *testing.T) {
	app := newTestApp(t)
	app.pager.Apply(testArticles("https://example.com/1", "https://example.com/2"))
	require.Equal(t, 2, app.pager.Len())

	_ = app.selectChannel(app.channelIdx + 1)

	assert.Equal(t, 1, app.pager.Page())
	assert.Zero(t, app.pager.Len())
	assert.Empty(t, app.articles)
}

func TestStaleResponsesAreDiscarded(t *testing.T) {
	app := newTestApp(t)
	_ = app.selectChannel(0)
	staleGen := app.fetchGen

	// The user switches category before the response lands.
	_ = app.selectChannel(1)
	require.NotEqual(t, staleGen, app.fetchGen)

	updatedModel, _ := app.Update(articlesLoadedMsg{
		gen:   staleGen,
		batch: testArticles("https://example.com/old"),
	})
	app = updatedModel.(*App)

	assert.Empty(t, app.articles, "batch from the abandoned mode must not apply")
	assert.True(t, app.loading, "the current fetch is still outstanding")

	updatedModel, _ = app.Update(articlesLoadedMsg{
		gen:   app.fetchGen,
		batch: testArticles("https://example.com/new"),
	})
	app = updatedModel.(*App)

	assert.Len(t, app.articles, 1)
	assert.Equal(t, "https://example.com/new", app.articles[0].URL)
	assert.False(t, app.loading)
}

func TestInitialFetchFailureClearsList(t *testing.T) {
	app := newTestApp(t)
	app.articles = testArticles("https://example.com/left-over")
	app.refreshItems()
	_ = app.selectChannel(0)

	updatedModel, _ := app.Update(fetchFailedMsg{
		gen:     app.fetchGen,
		initial: true,
		err:     errors.New("boom"),
	})
	app = updatedModel.(*App)

	assert.Empty(t, app.articles)
	assert.Error(t, app.err)
	assert.Equal(t, StatusError, app.statusKind)
	assert.Contains(t, app.status, app.config.Keys.Bindings.Refresh, "status should name the retry key")
}

func TestLoadMoreFailureLeavesListUntouched(t *testing.T) {
	app := newTestApp(t)
	_ = app.selectChannel(0)
	updatedModel, _ := app.Update(articlesLoadedMsg{
		gen:   app.fetchGen,
		batch: testArticles("https://example.com/1", "https://example.com/2"),
	})
	app = updatedModel.(*App)
	page := app.pager.Page()

	updatedModel, _ = app.Update(fetchFailedMsg{
		gen: app.fetchGen,
		err: errors.New("transient"),
	})
	app = updatedModel.(*App)

	assert.Len(t, app.articles, 2)
	assert.NoError(t, app.err)
	assert.Equal(t, page, app.pager.Page())
	assert.False(t, app.loading)
}

func TestLoadMoreGuards(t *testing.T) {
	app := newTestApp(t)

	t.Run("blocked while loading", func(t *testing.T) {
		app.loading = true
		assert.Nil(t, app.loadMore())
		app.loading = false
	})

	t.Run("blocked when exhausted", func(t *testing.T) {
		app.pager.Exhaust()
		assert.Nil(t, app.loadMore())
		assert.Equal(t, MsgEndOfResults, app.status)
	})

	t.Run("disabled for bookmarks", func(t *testing.T) {
		app.channelIdx = findChannel(app.channels, string(news.CategoryBookmarks))
		assert.Nil(t, app.loadMore())
	})
}

func TestBookmarksChannelMirrorsSet(t *testing.T) {
	app := newTestApp(t)
	app.channelIdx = findChannel(app.channels, string(news.CategoryBookmarks))

	updatedModel, _ := app.Update(bookmarksLoadedMsg{
		gen:      app.fetchGen,
		articles: testArticles("https://x/a", "https://x/b"),
	})
	app = updatedModel.(*App)

	assert.Len(t, app.articles, 2)
	assert.Equal(t, MsgArticleCount(2), app.status)
}

func TestThemeToggle(t *testing.T) {
	app := newTestApp(t)
	require.True(t, app.dark, "default config starts dark")

	updatedModel, cmd := app.Update(keyRunes('t'))
	app = updatedModel.(*App)

	assert.False(t, app.dark)
	assert.NotNil(t, cmd, "toggle should return a persist command")
	assert.Equal(t, MsgThemeSwitched(false), app.status)
}

func TestSubmitSearchResetsCursor(t *testing.T) {
	app := newTestApp(t)
	app.pager.Apply(testArticles("https://example.com/old"))

	cmd := app.submitSearch("  quantum computing  ")
	require.NotNil(t, cmd)

	assert.Equal(t, "quantum computing", app.searchQuery)
	assert.Equal(t, ViewHeadlines, app.view)
	assert.Equal(t, 1, app.pager.Page())
	assert.True(t, app.pager.Mode().IsSearch())
	assert.Empty(t, app.articles)
}

func TestPrefsRestoreThemeAndChannel(t *testing.T) {
	app := newTestApp(t)
	light := false

	updatedModel, cmd := app.Update(prefsLoadedMsg{
		dark:       &light,
		channelKey: string(news.CategoryScience),
		bookmarked: map[string]bool{"https://x/a": true},
	})
	app = updatedModel.(*App)

	assert.False(t, app.dark)
	assert.Equal(t, news.CategoryScience, app.currentChannel().category)
	assert.True(t, app.bookmarked["https://x/a"])
	assert.NotNil(t, cmd, "restoring the channel should start the initial fetch")
}

type stubSearcher struct {
	results []*search.Result
	err     error
}

func (s *stubSearcher) Search(string, int) ([]*search.Result, error) { return s.results, s.err }
func (s *stubSearcher) Close() error                                 { return nil }

func TestBookmarkSearchServesFullSnapshots(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "newsdeck.db"))
	require.NoError(t, err)
	defer store.Close()

	full := news.Article{
		URL:         "https://example.com/full",
		Title:       "Full Story",
		Author:      "A. Writer",
		Description: "Short blurb",
		Content:     "The whole article body",
		PublishedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	_, err = store.ToggleBookmark(full)
	require.NoError(t, err)

	// Hits come back with only the fields the index keeps.
	searcher := &stubSearcher{results: []*search.Result{
		{Article: news.Article{URL: full.URL, Title: full.Title}, Score: 1},
	}}

	cfg := config.TestConfig()
	app := NewApp(store, news.NewClient(cfg), nil, searcher, &nopOpener{}, cfg)

	msg := app.loadBookmarks(app.fetchGen, "whole")()
	loaded, ok := msg.(bookmarksLoadedMsg)
	require.True(t, ok)
	require.Len(t, loaded.articles, 1)
	assert.Equal(t, full.Content, loaded.articles[0].Content)
	assert.Equal(t, full.Author, loaded.articles[0].Author)
	assert.True(t, full.PublishedAt.Equal(loaded.articles[0].PublishedAt))
}

func TestBookmarkSearchWithoutIndex(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "newsdeck.db"))
	require.NoError(t, err)
	defer store.Close()

	for _, a := range testArticles("https://example.com/a", "https://example.com/b") {
		_, err := store.ToggleBookmark(a)
		require.NoError(t, err)
	}

	cfg := config.TestConfig()
	app := NewApp(store, news.NewClient(cfg), nil, nil, &nopOpener{}, cfg)

	msg := app.loadBookmarks(app.fetchGen, "anything")()
	loaded, ok := msg.(bookmarksLoadedMsg)
	require.True(t, ok)
	assert.True(t, loaded.unavailable)
	assert.Len(t, loaded.articles, 2)

	app.searchQuery = "anything"
	updatedModel, _ := app.Update(loaded)
	app = updatedModel.(*App)
	assert.Empty(t, app.searchQuery, "a query that could not run should not linger")
	assert.Equal(t, MsgSearchUnavailable, app.status)
	assert.Equal(t, StatusWarn, app.statusKind)
}
