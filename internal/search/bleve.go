package search

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/nkoval/newsdeck/internal/news"
	"github.com/nkoval/newsdeck/internal/storage"
)

type bleveEngine struct {
	store *storage.Store
	idx   bleve.Index
}

// NewBleveEngine creates or opens a bleve index at indexPath and
// indexes the current Bookmark Set.
func NewBleveEngine(store *storage.Store, indexPath string) (Searcher, error) {
	var idx bleve.Index
	var err error

	if mkErr := os.MkdirAll(filepath.Dir(indexPath), 0o755); mkErr != nil {
		// continue; Open/Create below will still error and be returned
		_ = mkErr
	}

	idx, err = bleve.Open(indexPath)
	if err != nil {
		idxMapping := buildIndexMapping()
		idx, err = bleve.New(indexPath, idxMapping)
		if err != nil {
			return nil, err
		}
	}

	be := &bleveEngine{store: store, idx: idx}
	if err := be.reindexAll(); err != nil {
		return nil, err
	}
	return be, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	desc := bleve.NewTextFieldMapping()
	desc.Analyzer = standard.Name
	desc.Store = true

	content := bleve.NewTextFieldMapping()
	content.Analyzer = standard.Name
	content.Store = false

	source := bleve.NewTextFieldMapping()
	source.Analyzer = standard.Name
	source.Store = true

	url := bleve.NewTextFieldMapping()
	url.Analyzer = standard.Name
	url.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("description", desc)
	dm.AddFieldMappingsAt("content", content)
	dm.AddFieldMappingsAt("source", source)
	dm.AddFieldMappingsAt("url", url)

	im.DefaultMapping = dm
	return im
}

func articleDoc(a news.Article) map[string]any {
	return map[string]any{
		"title":       a.Title,
		"description": a.Description,
		"content":     a.Content,
		"source":      a.Source.Name,
		"url":         a.URL,
	}
}

func (b *bleveEngine) reindexAll() error {
	articles, err := b.store.BookmarkedArticles()
	if err != nil {
		return err
	}

	batch := b.idx.NewBatch()
	for _, a := range articles {
		_ = batch.Index(a.URL, articleDoc(a))
	}
	return b.idx.Batch(batch)
}

func (b *bleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	// OR of per-term matches across key fields with boosts
	tokens := tokenize(query)
	var qs []bleveQuery.Query
	for _, tok := range tokens {
		// title^4
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(4.0)
		qs = append(qs, qt)
		qtp := bleve.NewPrefixQuery(strings.ToLower(tok))
		qtp.SetField("title")
		qtp.SetBoost(3.5)
		qs = append(qs, qtp)
		// description^2
		qd := bleve.NewMatchQuery(tok)
		qd.SetField("description")
		qd.SetBoost(2.0)
		qs = append(qs, qd)
		// content^1
		qc := bleve.NewMatchQuery(tok)
		qc.SetField("content")
		qc.SetBoost(1.0)
		qs = append(qs, qc)
		// source^1
		qsrc := bleve.NewMatchQuery(tok)
		qsrc.SetField("source")
		qsrc.SetBoost(1.0)
		qs = append(qs, qsrc)
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}

	q := bleve.NewDisjunctionQuery(qs...)
	srch := bleve.NewSearchRequestOptions(q, limit, 0, false)
	srch.Fields = []string{"title", "description", "source", "url"}

	res, err := b.idx.Search(srch)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		a := news.Article{URL: h.ID}
		if t, ok := h.Fields["title"].(string); ok {
			a.Title = t
		}
		if d, ok := h.Fields["description"].(string); ok {
			a.Description = d
		}
		if s, ok := h.Fields["source"].(string); ok {
			a.Source.Name = s
		}
		out = append(out, &Result{Article: a, Score: h.Score})
	}
	return out, nil
}

// OnBookmarkSaved indexes a freshly saved article.
func (b *bleveEngine) OnBookmarkSaved(article news.Article) {
	_ = b.idx.Index(article.URL, articleDoc(article))
}

// OnBookmarkRemoved drops a removed article from the index.
func (b *bleveEngine) OnBookmarkRemoved(url string) {
	_ = b.idx.Delete(url)
}

func (b *bleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

func (b *bleveEngine) Close() error {
	return b.idx.Close()
}

func tokenize(query string) []string {
	fields := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
