package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/nkoval/newsdeck/internal/config"
	"github.com/nkoval/newsdeck/internal/debuglog"
	"github.com/nkoval/newsdeck/internal/feeds"
	"github.com/nkoval/newsdeck/internal/news"
	"github.com/nkoval/newsdeck/internal/search"
	"github.com/nkoval/newsdeck/internal/storage"
)

// urlOpener is satisfied by browser.Opener.
type urlOpener interface {
	Open(url string) error
}

type App struct {
	config   *config.Config
	store    *storage.Store
	client   *news.Client
	feeds    *feeds.Manager
	searcher search.Searcher
	opener   urlOpener

	keyHandler *KeyHandler

	headlinesList list.Model
	viewport      viewport.Model
	searchInput   textinput.Model

	view         View
	previousView View
	channels     []channel
	channelIdx   int
	pager        *news.Pager
	searchQuery  string // active free-text query, empty when browsing a category

	articles       []news.Article // what the list currently shows
	bookmarked     map[string]bool
	currentArticle *news.Article

	loading  bool
	fetchGen int // incremented on every mode change; stale responses carry an older value

	dark   bool
	styles Styles

	status     string
	statusKind StatusKind
	err        error

	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	rendererDark    bool
	loadingArticle  bool
}

func NewApp(store *storage.Store, client *news.Client, mgr *feeds.Manager, searcher search.Searcher, opener urlOpener, cfg *config.Config) *App {
	headlinesList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	headlinesList.Title = "› " + string(news.CategoryGeneral)
	headlinesList.SetShowStatusBar(false)
	headlinesList.SetFilteringEnabled(false)
	headlinesList.SetShowHelp(true)

	vp := viewport.New(0, 0)

	si := textinput.New()
	si.Placeholder = "Search headlines..."

	app := &App{
		config:        cfg,
		store:         store,
		client:        client,
		feeds:         mgr,
		searcher:      searcher,
		opener:        opener,
		headlinesList: headlinesList,
		viewport:      vp,
		searchInput:   si,
		view:          ViewHeadlines,
		previousView:  ViewHeadlines,
		channels:      buildChannels(mgr),
		pager:         news.NewPager(cfg.API.PageSize),
		bookmarked:    make(map[string]bool),
		dark:          cfg.UI.Theme != "light",
	}

	app.applyPalette()
	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.loadPrefs(),
		tea.EnterAltScreen,
	)
}

// applyPalette rebuilds the styles for the active theme and restyles
// the widgets that cache colors.
func (a *App) applyPalette() {
	palette := a.config.UI.Dark
	if !a.dark {
		palette = a.config.UI.Light
	}
	a.styles = NewStyles(palette)
	a.headlinesList.Styles.Title = a.styles.Title
}

func (a *App) themeName() string {
	if a.dark {
		return "dark"
	}
	return "light"
}

func (a *App) currentChannel() channel {
	return a.channels[a.channelIdx]
}

func (a *App) setStatus(msg string, kind StatusKind) {
	a.status = msg
	a.statusKind = kind
}

// refreshItems rebuilds the list items from the displayed articles,
// decorating bookmarked entries. Called after every list or theme
// change so the decoration stays current.
func (a *App) refreshItems() {
	items := make([]list.Item, len(a.articles))
	for i, article := range a.articles {
		items[i] = articleItem{
			article:    article,
			bookmarked: a.bookmarked[article.URL],
			styles:     &a.styles,
			maxDesc:    a.config.UI.Article.MaxDescriptionLength,
		}
	}
	a.headlinesList.SetItems(items)
}

// selectChannel switches the rotation to idx (wrapping), resets the
// pagination cursor, and kicks off the matching fetch. Any response
// still in flight for the previous mode is orphaned by the generation
// bump and discarded on arrival.
func (a *App) selectChannel(idx int) tea.Cmd {
	n := len(a.channels)
	a.channelIdx = ((idx % n) + n) % n
	ch := a.currentChannel()

	a.fetchGen++
	a.err = nil
	a.searchQuery = ""
	a.articles = nil
	a.refreshItems()
	a.headlinesList.Title = "› " + ch.title()
	a.headlinesList.ResetSelected()

	cmds := []tea.Cmd{a.saveChannelPref(ch.prefKey())}

	switch {
	case ch.isBookmarks():
		a.loading = false
		a.pager.Reset(news.Mode{})
		a.pager.Exhaust()
		cmds = append(cmds, a.loadBookmarks(a.fetchGen, ""))
	case ch.isFeed():
		a.loading = true
		a.setStatus(MsgLoading, StatusInfo)
		a.pager.Reset(news.Mode{})
		cmds = append(cmds, a.fetchFeed(a.fetchGen, ch.feed))
	default:
		a.loading = true
		a.setStatus(MsgLoading, StatusInfo)
		a.pager.Reset(news.HeadlinesMode(ch.category))
		cmds = append(cmds, a.fetchPage(a.fetchGen, a.pager.Mode(), a.pager.Page(), true))
	}

	return tea.Batch(cmds...)
}

// submitSearch runs a free-text query: offline against the bookmark
// index when browsing bookmarks, otherwise against the search endpoint
// with fresh pagination.
func (a *App) submitSearch(query string) tea.Cmd {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	a.fetchGen++
	a.err = nil
	a.searchQuery = query
	a.articles = nil
	a.refreshItems()
	a.view = ViewHeadlines
	a.headlinesList.ResetSelected()

	if a.currentChannel().isBookmarks() {
		a.loading = false
		a.headlinesList.Title = "› bookmarks: " + query
		return a.loadBookmarks(a.fetchGen, query)
	}

	a.loading = true
	a.setStatus(MsgLoading, StatusInfo)
	a.headlinesList.Title = "› search: " + query
	a.pager.Reset(news.SearchMode(query))
	return a.fetchPage(a.fetchGen, a.pager.Mode(), a.pager.Page(), true)
}

// loadMore requests the next page for the current mode. A no-op while
// a fetch is in flight or when the cursor says the results are done.
func (a *App) loadMore() tea.Cmd {
	if a.loading || a.currentChannel().isBookmarks() {
		return nil
	}
	if !a.pager.HasMore() {
		a.setStatus(MsgEndOfResults, StatusInfo)
		return nil
	}

	a.loading = true
	a.setStatus(MsgLoadingMore, StatusInfo)
	return a.fetchPage(a.fetchGen, a.pager.Mode(), a.pager.Page(), false)
}

// reload refetches the current mode from page 1. Doubles as the retry
// affordance after a failed initial fetch.
func (a *App) reload() tea.Cmd {
	var cmd tea.Cmd
	if a.searchQuery != "" && !a.currentChannel().isBookmarks() {
		cmd = a.submitSearch(a.searchQuery)
	} else {
		cmd = a.selectChannel(a.channelIdx)
	}
	if a.loading {
		a.setStatus(MsgRefreshing, StatusInfo)
	}
	return cmd
}

// toggleTheme flips dark/light, persists the choice, and re-renders the
// reader if it is showing.
func (a *App) toggleTheme() tea.Cmd {
	a.dark = !a.dark
	a.applyPalette()
	a.refreshItems()
	a.setStatus(MsgThemeSwitched(a.dark), StatusInfo)

	cmds := []tea.Cmd{a.saveTheme(a.dark)}
	if a.view == ViewReader && a.currentArticle != nil {
		a.loadingArticle = true
		cmds = append(cmds, a.renderArticle(*a.currentArticle))
	}
	return tea.Batch(cmds...)
}

// openReader switches to the reader view for the given article. The
// transition renders the snapshot already in memory; no network.
func (a *App) openReader(article news.Article) tea.Cmd {
	a.currentArticle = &article
	a.previousView = a.view
	a.view = ViewReader
	a.loadingArticle = true
	a.setStatus(MsgRendering, StatusInfo)
	return a.renderArticle(article)
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > a.config.UI.Article.WordWrapMaxWidth {
		wordWrapWidth = a.config.UI.Article.WordWrapMaxWidth
	}
	if wordWrapWidth < a.config.UI.Article.WordWrapMinWidth {
		wordWrapWidth = a.config.UI.Article.WordWrapMinWidth
	}

	if a.glamourRenderer == nil || a.rendererDark != a.dark || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(a.themeName()),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
		a.rendererDark = a.dark
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.headlinesList.SetSize(msg.Width, msg.Height-4)
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - 3

		inputWidth := msg.Width - 4
		if inputWidth < 20 {
			inputWidth = msg.Width
		}
		a.searchInput.Width = inputWidth

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case prefsLoadedMsg:
		if msg.dark != nil && *msg.dark != a.dark {
			a.dark = *msg.dark
			a.applyPalette()
		}
		a.bookmarked = msg.bookmarked
		return a, a.selectChannel(findChannel(a.channels, msg.channelKey))

	case articlesLoadedMsg:
		if msg.gen != a.fetchGen {
			debuglog.Debugf("tui: dropping stale batch (gen %d, want %d)", msg.gen, a.fetchGen)
			break
		}
		a.loading = false
		a.err = nil
		accepted := a.pager.Apply(msg.batch)
		if msg.exhaust {
			a.pager.Exhaust()
		}
		a.articles = a.pager.Articles()
		a.refreshItems()
		if len(accepted) == 0 && a.pager.Len() == 0 {
			a.setStatus("Nothing here yet", StatusInfo)
		} else if a.searchQuery != "" {
			a.setStatus(MsgSearchResults(a.searchQuery, a.pager.Len()), StatusInfo)
		} else {
			a.setStatus(MsgArticleCount(a.pager.Len()), StatusInfo)
		}

	case bookmarksLoadedMsg:
		if msg.gen != a.fetchGen {
			break
		}
		a.articles = msg.articles
		a.refreshItems()
		switch {
		case msg.unavailable:
			a.searchQuery = ""
			a.headlinesList.Title = "› " + a.currentChannel().title()
			a.setStatus(MsgSearchUnavailable, StatusWarn)
		case msg.query != "":
			a.setStatus(MsgSearchResults(msg.query, len(msg.articles)), StatusInfo)
		case len(msg.articles) == 0:
			a.setStatus(MsgNoBookmarks, StatusInfo)
		default:
			a.setStatus(MsgArticleCount(len(msg.articles)), StatusInfo)
		}

	case fetchFailedMsg:
		if msg.gen != a.fetchGen {
			break
		}
		a.loading = false
		if msg.initial {
			a.articles = nil
			a.refreshItems()
			a.err = msg.err
			a.setStatus(fmt.Sprintf("%v, press %s to retry", friendlyFetchError(msg.err), a.config.Keys.Bindings.Refresh), StatusError)
		} else {
			// Load-more failures leave the list and cursor untouched.
			debuglog.Warnf("tui: load more failed: %v", msg.err)
		}

	case bookmarkToggledMsg:
		if msg.err != nil {
			a.err = wrapErr("bookmark", msg.err)
			break
		}
		if msg.saved {
			a.bookmarked[msg.url] = true
			a.setStatus(MsgBookmarkSaved, StatusSuccess)
		} else {
			delete(a.bookmarked, msg.url)
			a.setStatus(MsgBookmarkRemoved, StatusInfo)
		}
		if a.currentChannel().isBookmarks() && a.view == ViewHeadlines {
			return a, a.loadBookmarks(a.fetchGen, a.searchQuery)
		}
		a.refreshItems()

	case articleRenderedMsg:
		if a.view == ViewReader {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingArticle = false
			a.setStatus("", StatusInfo)
		}

	case errorMsg:
		a.err = msg.err
	}

	switch a.view {
	case ViewHeadlines:
		newListModel, cmd := a.headlinesList.Update(msg)
		a.headlinesList = newListModel
		cmds = append(cmds, cmd)
	case ViewReader:
		switch msg.(type) {
		case tea.KeyMsg, tea.WindowSizeMsg, tea.MouseMsg:
			newViewport, cmd := a.viewport.Update(msg)
			a.viewport = newViewport
			cmds = append(cmds, cmd)
		}
	case ViewSearch:
		newSearchInput, cmd := a.searchInput.Update(msg)
		a.searchInput = newSearchInput
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewHeadlines:
		tabs := a.renderChannelTabs()
		var body string
		switch {
		case a.err != nil:
			body = lipgloss.NewStyle().
				Width(a.width).
				Height(a.height-4).
				Align(lipgloss.Center, lipgloss.Center).
				Render(a.styles.ErrorMessage.Render("✗ " + friendlyFetchError(a.err)))
		case len(a.articles) == 0 && a.loading:
			body = lipgloss.NewStyle().
				Width(a.width).
				Height(a.height-4).
				Align(lipgloss.Center, lipgloss.Center).
				Render(GetWelcomeMessage(a.styles))
		default:
			body = a.headlinesList.View()
		}
		content = lipgloss.JoinVertical(lipgloss.Top, tabs, body)

	case ViewReader:
		if a.loadingArticle {
			content = lipgloss.NewStyle().
				Width(a.width).
				Height(a.height-3).
				Align(lipgloss.Center, lipgloss.Center).
				Render(a.styles.Muted.Render(MsgRendering))
		} else {
			content = a.viewport.View()
		}

	case ViewSearch:
		header := "› search"
		if a.currentChannel().isBookmarks() {
			header = "› search bookmarks"
		}
		content = lipgloss.NewStyle().
			Width(a.width).
			Height(a.height-3).
			Align(lipgloss.Center, lipgloss.Center).
			Render(
				lipgloss.JoinVertical(
					lipgloss.Center,
					a.styles.Header.Render(header),
					"",
					a.searchInput.View(),
					"",
					a.styles.Help.Render("Press Enter to search, Esc to cancel"),
				),
			)

	case ViewHelp:
		content = lipgloss.NewStyle().
			Width(a.width).
			Height(a.height-3).
			Align(lipgloss.Center, lipgloss.Center).
			Render(a.renderHelp())
	}

	statusBar := a.renderStatusBar()
	if statusBar != "" {
		separatorWidth := a.width - 1
		if separatorWidth < 0 {
			separatorWidth = 0
		}
		separator := a.styles.Separator.Render(strings.Repeat("─", separatorWidth+1))
		return lipgloss.JoinVertical(lipgloss.Top, content, separator, statusBar)
	}

	return content
}

// renderChannelTabs draws the category rotation with the active entry
// highlighted.
func (a *App) renderChannelTabs() string {
	var tabs []string
	for i, ch := range a.channels {
		label := ch.title()
		if i == a.channelIdx {
			tabs = append(tabs, a.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, a.styles.CategoryTab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) renderStatusBar() string {
	if a.err != nil && a.view == ViewHeadlines {
		return a.styles.StatusBar.Width(a.width).Render(
			a.styles.ErrorMessage.Render(fmt.Sprintf("✗ %s", a.status)))
	}

	left := a.status
	switch a.statusKind {
	case StatusSuccess:
		left = a.styles.Success.Render(left)
	case StatusWarn:
		left = a.styles.Bookmarked.Render(left)
	case StatusError:
		left = a.styles.ErrorMessage.Render(left)
	default:
		left = a.styles.Muted.Render(left)
	}

	commands := a.keyHandler.GetHelpForCurrentView()
	right := a.styles.Muted.Render(strings.Join(commands, " • "))

	if left == "" {
		return a.styles.StatusBar.Width(a.width).Render(right)
	}
	return a.styles.StatusBar.Width(a.width).Render(left + "  " + right)
}

func (a *App) renderHelp() string {
	b := a.config.Keys.Bindings
	rows := []string{
		a.styles.Header.Render("› keys"),
		"",
		fmt.Sprintf("%s / %s   previous / next category", b.PrevCategory, b.NextCategory),
		fmt.Sprintf("%s         search (category, query, or bookmarks)", b.Search),
		fmt.Sprintf("%s         load more results", b.LoadMore),
		fmt.Sprintf("%s         toggle bookmark", b.Bookmark),
		fmt.Sprintf("%s         open article in browser", b.OpenBrowser),
		fmt.Sprintf("%s         switch dark/light theme", b.Theme),
		fmt.Sprintf("%s         refresh / retry", b.Refresh),
		fmt.Sprintf("%s       back", b.Back),
		fmt.Sprintf("%s         quit", b.Quit),
	}
	if stats, ok := a.searcher.(search.DebugStatser); ok {
		if n, err := stats.DocCount(); err == nil {
			rows = append(rows, "", a.styles.Muted.Render(fmt.Sprintf("bookmark index: %s", MsgArticleCount(n))))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// friendlyFetchError maps transport failures to the short messages the
// status bar shows. Rate limiting gets its own wording.
func friendlyFetchError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, news.ErrRateLimited) {
		return MsgRateLimited
	}
	return err.Error()
}

type articleItem struct {
	article    news.Article
	bookmarked bool
	styles     *Styles
	maxDesc    int
}

func (i articleItem) Title() string {
	if i.bookmarked {
		return i.styles.Bookmarked.Render("★ " + i.article.Title)
	}
	return i.article.Title
}

func (i articleItem) Description() string {
	desc := truncateEnd(i.article.Description, i.maxDesc)

	parts := []string{}
	if desc != "" {
		parts = append(parts, desc)
	}
	if i.article.Source.Name != "" {
		parts = append(parts, i.article.Source.Name)
	}

	line := i.styles.Muted.Render(strings.Join(parts, " • "))
	if !i.article.PublishedAt.IsZero() {
		line += i.styles.Time.Render(" • " + i.article.PublishedAt.Format("Jan 2, 15:04"))
	}
	return line
}

func (i articleItem) FilterValue() string { return i.article.Title }

type prefsLoadedMsg struct {
	dark       *bool
	channelKey string
	bookmarked map[string]bool
}

type articlesLoadedMsg struct {
	gen     int
	batch   []news.Article
	exhaust bool // single-batch source, no further pages
}

type bookmarksLoadedMsg struct {
	gen         int
	query       string
	articles    []news.Article
	unavailable bool // query given but no search index is running
}

type fetchFailedMsg struct {
	gen     int
	initial bool
	err     error
}

type bookmarkToggledMsg struct {
	url   string
	saved bool
	err   error
}

type articleRenderedMsg struct {
	content string
}

type errorMsg struct {
	err error
}
