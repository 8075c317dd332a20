package search

import "github.com/nkoval/newsdeck/internal/news"

// Result is one bookmark matching a query.
type Result struct {
	Article news.Article
	Score   float64
}

// Searcher is the minimal search API the TUI uses against the saved
// articles.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
	Close() error
}

// UpdateListener is implemented by engines that maintain an external
// index and want to hear about bookmark changes as they happen.
type UpdateListener interface {
	OnBookmarkSaved(article news.Article)
	OnBookmarkRemoved(url string)
}

// DebugStatser provides lightweight stats for visibility/debugging.
type DebugStatser interface {
	DocCount() (int, error)
}
