package news

import (
	"time"
)

// Article is a single story as returned by the headlines API. Its URL
// is its identity: two articles with the same URL are the same story.
type Article struct {
	Source      Source    `json:"source"`
	Author      string    `json:"author,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"urlToImage,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Source identifies the publisher of an article.
type Source struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Category is a topical bucket of top headlines.
type Category string

const (
	CategoryGeneral       Category = "general"
	CategoryTechnology    Category = "technology"
	CategoryBusiness      Category = "business"
	CategorySports        Category = "sports"
	CategoryHealth        Category = "health"
	CategoryScience       Category = "science"
	CategoryEntertainment Category = "entertainment"

	// CategoryBookmarks is a pseudo-category: selecting it switches the
	// view to the locally saved articles and is never fetched remotely.
	CategoryBookmarks Category = "bookmarks"
)

// Categories returns the fixed category rotation in display order,
// with the bookmarks pseudo-category last.
func Categories() []Category {
	return []Category{
		CategoryGeneral,
		CategoryTechnology,
		CategoryBusiness,
		CategorySports,
		CategoryHealth,
		CategoryScience,
		CategoryEntertainment,
		CategoryBookmarks,
	}
}

// Remote reports whether the category is backed by the headlines API.
func (c Category) Remote() bool {
	return c != CategoryBookmarks
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
