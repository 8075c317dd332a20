package storage

import (
	"time"

	"github.com/nkoval/newsdeck/internal/news"
)

// Bookmark is a saved article: the full snapshot taken at bookmark
// time, keyed by the article URL.
type Bookmark struct {
	Article news.Article `json:"article"`
	SavedAt time.Time    `json:"saved_at"`
}

// Preference keys persisted in the prefs bucket.
const (
	PrefTheme        = "theme"
	PrefLastCategory = "last_category"
)
