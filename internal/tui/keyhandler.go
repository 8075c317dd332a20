package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nkoval/newsdeck/internal/config"
)

type KeyHandler struct {
	app  *App
	keys config.KeyBindings
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{app: app, keys: cfg.Keys.Bindings}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(msg.String()); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	return kh.app.view == ViewSearch && kh.app.searchInput.Focused()
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return kh.navigateBack()
	case "ctrl+c":
		return kh.app, tea.Quit
	case "enter":
		query := strings.TrimSpace(kh.app.searchInput.Value())
		if query == "" {
			return kh.app, nil
		}
		kh.app.searchInput.Blur()
		return kh.app, kh.app.submitSearch(query)
	default:
		newSearchInput, cmd := kh.app.searchInput.Update(msg)
		kh.app.searchInput = newSearchInput
		return kh.app, cmd
	}
}

// handleCustomKeys handles only our custom action keys
func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	// Global custom keys
	switch key {
	case "ctrl+c", kh.keys.Quit:
		return kh.app, tea.Quit, true
	case kh.keys.Back:
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case kh.keys.Search:
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case kh.keys.Theme:
		return kh.app, kh.app.toggleTheme(), true
	case kh.keys.Help:
		if kh.app.view != ViewHelp {
			kh.app.previousView = kh.app.view
			kh.app.view = ViewHelp
		}
		return kh.app, nil, true
	}

	switch kh.app.view {
	case ViewHeadlines:
		return kh.handleHeadlinesCustomKeys(key)
	case ViewReader:
		return kh.handleReaderCustomKeys(key)
	case ViewHelp:
		// Any other key dismisses the help overlay.
		kh.app.view = kh.app.previousView
		return kh.app, nil, true
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleHeadlinesCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case kh.keys.NextCategory:
		return kh.app, kh.app.selectChannel(kh.app.channelIdx + 1), true
	case kh.keys.PrevCategory:
		return kh.app, kh.app.selectChannel(kh.app.channelIdx - 1), true
	case kh.keys.Refresh:
		return kh.app, kh.app.reload(), true
	case kh.keys.LoadMore:
		return kh.app, kh.app.loadMore(), true
	case kh.keys.Bookmark:
		if i, ok := kh.app.headlinesList.SelectedItem().(articleItem); ok {
			return kh.app, kh.app.toggleBookmark(i.article), true
		}
		return kh.app, nil, true
	case kh.keys.OpenBrowser:
		if i, ok := kh.app.headlinesList.SelectedItem().(articleItem); ok {
			if i.article.URL != "" {
				return kh.app, kh.app.openInBrowser(i.article.URL), true
			}
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleReaderCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case kh.keys.Bookmark:
		if kh.app.currentArticle != nil {
			return kh.app, kh.app.toggleBookmark(*kh.app.currentArticle), true
		}
		return kh.app, nil, true
	case kh.keys.OpenBrowser:
		if kh.app.currentArticle != nil && kh.app.currentArticle.URL != "" {
			return kh.app, kh.app.openInBrowser(kh.app.currentArticle.URL), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

// delegateToCharm lets Charm handle all keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewHeadlines:
		kh.app.headlinesList, cmd = kh.app.headlinesList.Update(msg)
		// Enter opens the reader for the selected article.
		if msg.String() == "enter" {
			if i, ok := kh.app.headlinesList.SelectedItem().(articleItem); ok {
				return kh.app, kh.app.openReader(i.article)
			}
		}
		return kh.app, cmd

	case ViewReader:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// navigateBack implements back navigation. Leaving the reader performs
// no network activity; the list is exactly as it was left.
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewSearch, ViewHelp:
		kh.app.view = kh.app.previousView
		kh.app.searchInput.Blur()
		return kh.app, nil

	case ViewReader:
		kh.app.view = ViewHeadlines
		kh.app.currentArticle = nil
		return kh.app, nil

	case ViewHeadlines:
		// Back out of an active search to the underlying channel.
		if kh.app.searchQuery != "" {
			return kh.app, kh.app.selectChannel(kh.app.channelIdx)
		}
		return kh.app, nil

	default:
		return kh.app, tea.Quit
	}
}

// enterSearchMode transitions to the search input view
func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	if kh.app.view == ViewSearch {
		return kh.app, nil
	}
	kh.app.previousView = kh.app.view
	kh.app.view = ViewSearch
	kh.app.searchInput.Reset()
	kh.app.searchInput.Focus()
	return kh.app, nil
}

// GetHelpForCurrentView returns only our custom help text (Charm
// handles the rest)
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	k := kh.keys
	switch kh.app.view {
	case ViewHeadlines:
		help := []string{
			k.PrevCategory + k.NextCategory + ": category",
			k.Search + ": search",
		}
		if !kh.app.currentChannel().isBookmarks() && kh.app.pager.HasMore() {
			help = append(help, k.LoadMore+": more")
		}
		help = append(help,
			k.Bookmark+": bookmark",
			k.OpenBrowser+": open",
			k.Theme+": theme",
			k.Help+": help",
		)
		return help

	case ViewReader:
		return []string{
			k.Back + ": back",
			k.Bookmark + ": bookmark",
			k.OpenBrowser + ": open",
			k.Theme + ": theme",
		}

	case ViewSearch:
		return []string{"enter: search", k.Back + ": cancel"}

	case ViewHelp:
		return []string{"any key: back"}

	default:
		return []string{}
	}
}
