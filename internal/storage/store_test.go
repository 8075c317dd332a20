package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/nkoval/newsdeck/internal/news"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func testArticle(url string) news.Article {
	return news.Article{
		Source:      news.Source{Name: "Example Times"},
		Title:       "Something happened",
		Description: "A thing occurred somewhere",
		URL:         url,
		PublishedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestStore_ToggleBookmark(t *testing.T) {
	store := setupTestStore(t)
	article := testArticle("https://example.com/a")

	bookmarked, err := store.ToggleBookmark(article)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !bookmarked {
		t.Error("first toggle should bookmark")
	}

	found, err := store.IsBookmarked(article.URL)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Error("expected article to be bookmarked")
	}

	bookmarked, err = store.ToggleBookmark(article)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if bookmarked {
		t.Error("second toggle should remove the bookmark")
	}

	found, err = store.IsBookmarked(article.URL)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("double toggle must restore original membership")
	}
}

func TestStore_ToggleBookmark_NoURL(t *testing.T) {
	store := setupTestStore(t)

	if _, err := store.ToggleBookmark(news.Article{Title: "no url"}); err == nil {
		t.Error("expected error for article without URL")
	}
}

func TestStore_BookmarksSortedNewestFirst(t *testing.T) {
	store := setupTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := store.ToggleBookmark(testArticle(fmt.Sprintf("https://example.com/%d", i))); err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	bookmarks, err := store.Bookmarks()
	if err != nil {
		t.Fatal(err)
	}
	if len(bookmarks) != 3 {
		t.Fatalf("expected 3 bookmarks, got %d", len(bookmarks))
	}
	for i := 1; i < len(bookmarks); i++ {
		if bookmarks[i].SavedAt.After(bookmarks[i-1].SavedAt) {
			t.Error("bookmarks not sorted newest first")
		}
	}
}

func TestStore_BookmarksSurviveReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}

	article := testArticle("https://x/a")
	if _, err := store.ToggleBookmark(article); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	found, err := reopened.IsBookmarked("https://x/a")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Error("bookmark should survive a process restart")
	}

	articles, err := reopened.BookmarkedArticles()
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 1 || articles[0].Title != article.Title {
		t.Errorf("expected full article snapshot back, got %+v", articles)
	}
}

func TestStore_Prefs(t *testing.T) {
	store := setupTestStore(t)

	if _, err := store.Get(PrefTheme); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unset pref, got %v", err)
	}

	if err := store.Set(PrefTheme, []byte("light")); err != nil {
		t.Fatal(err)
	}

	value, err := store.Get(PrefTheme)
	if err != nil {
		t.Fatal(err)
	}
	if string(value) != "light" {
		t.Errorf("Get = %s, want light", value)
	}

	if err := store.Delete(PrefTheme); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(PrefTheme); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is fine.
	if err := store.Delete(PrefTheme); err != nil {
		t.Errorf("delete of absent key: %v", err)
	}
}
