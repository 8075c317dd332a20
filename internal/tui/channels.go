package tui

import (
	"github.com/nkoval/newsdeck/internal/feeds"
	"github.com/nkoval/newsdeck/internal/news"
)

const feedPrefPrefix = "feed:"

// channel is one entry in the category rotation: a remote headlines
// category, the bookmarks pseudo-category, or a custom feed source
// declared in the config.
type channel struct {
	category news.Category // empty for custom feed sources
	feed     string        // feed source name when category is empty
}

func (c channel) isFeed() bool {
	return c.feed != ""
}

func (c channel) isBookmarks() bool {
	return c.category == news.CategoryBookmarks
}

// remote reports whether the channel is paged through the headlines API.
func (c channel) remote() bool {
	return !c.isFeed() && c.category.Remote()
}

func (c channel) title() string {
	if c.isFeed() {
		return c.feed
	}
	return c.category.String()
}

// prefKey is the value persisted as the last-selected category.
func (c channel) prefKey() string {
	if c.isFeed() {
		return feedPrefPrefix + c.feed
	}
	return string(c.category)
}

// buildChannels assembles the rotation: the fixed categories with the
// bookmarks pseudo-category last, then the custom feed sources.
func buildChannels(mgr *feeds.Manager) []channel {
	var channels []channel
	for _, cat := range news.Categories() {
		channels = append(channels, channel{category: cat})
	}
	if mgr != nil {
		for _, name := range mgr.Names() {
			channels = append(channels, channel{feed: name})
		}
	}
	return channels
}

// findChannel maps a persisted pref key back to its rotation index.
// Returns 0 when the key no longer matches anything.
func findChannel(channels []channel, prefKey string) int {
	if prefKey == "" {
		return 0
	}
	for i, c := range channels {
		if c.prefKey() == prefKey {
			return i
		}
	}
	return 0
}
