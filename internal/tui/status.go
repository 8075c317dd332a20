package tui

import "fmt"

// StatusKind indicates severity for status bar messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

// Canonical short status messages used across the app.
const (
	MsgLoading           = "Loading…"
	MsgLoadingMore       = "Loading more…"
	MsgRefreshing        = "Refreshing…"
	MsgRendering         = "Rendering article…"
	MsgRateLimited       = "Rate limited by the news service, try again shortly"
	MsgEndOfResults      = "End of results"
	MsgSearchUnavailable = "Bookmark search unavailable, showing everything"
	MsgNoBookmarks       = "No bookmarks yet"
	MsgBookmarkSaved     = "Bookmarked"
	MsgBookmarkRemoved   = "Bookmark removed"
)

func MsgArticleCount(n int) string {
	if n == 1 {
		return "1 article"
	}
	return fmt.Sprintf("%d articles", n)
}

func MsgSearchResults(query string, n int) string {
	return fmt.Sprintf("%s for %q", MsgArticleCount(n), query)
}

func MsgThemeSwitched(dark bool) string {
	if dark {
		return "Dark theme"
	}
	return "Light theme"
}
