package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/nkoval/newsdeck/internal/news"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("not found")

var (
	bookmarksBucket = []byte("bookmarks")
	prefsBucket     = []byte("prefs")
)

// KV is the minimal persisted key-value surface the UI depends on for
// preferences. Store implements it on the prefs bucket; anything with
// get/set semantics could stand in.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bookmarksBucket, prefsBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ToggleBookmark adds the article if it is not bookmarked and removes
// it if it is. It reports whether the article is bookmarked afterward.
func (s *Store) ToggleBookmark(article news.Article) (bool, error) {
	if article.URL == "" {
		return false, fmt.Errorf("article has no URL")
	}

	var bookmarked bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bookmarksBucket)
		key := []byte(article.URL)

		if b.Get(key) != nil {
			return b.Delete(key)
		}

		data, err := json.Marshal(&Bookmark{Article: article, SavedAt: time.Now()})
		if err != nil {
			return err
		}
		bookmarked = true
		return b.Put(key, data)
	})
	return bookmarked, err
}

// IsBookmarked is a pure membership check by article URL.
func (s *Store) IsBookmarked(url string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(bookmarksBucket).Get([]byte(url)) != nil
		return nil
	})
	return found, err
}

// Bookmarks returns all saved articles, newest save first.
func (s *Store) Bookmarks() ([]*Bookmark, error) {
	var bookmarks []*Bookmark
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bookmarksBucket)
		return b.ForEach(func(_ []byte, v []byte) error {
			var bm Bookmark
			if err := json.Unmarshal(v, &bm); err != nil {
				return err
			}
			bookmarks = append(bookmarks, &bm)
			return nil
		})
	})
	sort.Slice(bookmarks, func(i, j int) bool {
		return bookmarks[i].SavedAt.After(bookmarks[j].SavedAt)
	})
	return bookmarks, err
}

// BookmarkedArticles returns the bookmarked article snapshots, newest
// save first.
func (s *Store) BookmarkedArticles() ([]news.Article, error) {
	bookmarks, err := s.Bookmarks()
	if err != nil {
		return nil, err
	}
	articles := make([]news.Article, 0, len(bookmarks))
	for _, bm := range bookmarks {
		articles = append(articles, bm.Article)
	}
	return articles, nil
}

// Get reads a preference value. ErrNotFound when the key is unset.
func (s *Store) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(prefsBucket).Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		value = append([]byte(nil), data...)
		return nil
	})
	return value, err
}

// Set writes a preference value, persisted before Set returns.
func (s *Store) Set(key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(prefsBucket).Put([]byte(key), value)
	})
}

// Delete removes a preference. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(prefsBucket).Delete([]byte(key))
	})
}
