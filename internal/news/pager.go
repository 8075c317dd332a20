package news

// Mode identifies what a Pager is paging through: a category of top
// headlines, or a free-text query against the search endpoint.
type Mode struct {
	Category Category
	Query    string
}

func HeadlinesMode(category Category) Mode {
	return Mode{Category: category}
}

func SearchMode(query string) Mode {
	return Mode{Query: query}
}

// IsSearch reports whether the mode targets the search endpoint.
func (m Mode) IsSearch() bool {
	return m.Query != ""
}

// Pager tracks the pagination cursor and the set of article URLs held
// for the current mode. It owns no transport; callers fetch a batch
// and hand it to Apply.
//
// Invariant: Articles never contains two entries with the same URL.
type Pager struct {
	mode     Mode
	page     int
	hasMore  bool
	pageSize int
	seen     map[string]struct{}
	articles []Article
}

func NewPager(pageSize int) *Pager {
	p := &Pager{pageSize: pageSize}
	p.Reset(Mode{})
	return p
}

// Reset clears the held list and rewinds the cursor to page 1. Called
// whenever the category or search text changes.
func (p *Pager) Reset(mode Mode) {
	p.mode = mode
	p.page = 1
	p.hasMore = true
	p.seen = make(map[string]struct{})
	p.articles = nil
}

func (p *Pager) Mode() Mode {
	return p.mode
}

// Page is the page number the next fetch should request.
func (p *Pager) Page() int {
	return p.page
}

// HasMore reports whether another page is worth requesting.
func (p *Pager) HasMore() bool {
	return p.hasMore
}

// Articles returns the deduplicated list accumulated so far.
func (p *Pager) Articles() []Article {
	return p.articles
}

func (p *Pager) Len() int {
	return len(p.articles)
}

// Exhaust clears the has-more flag. Used by sources that deliver their
// whole result in one batch, where the size heuristic does not apply.
func (p *Pager) Exhaust() {
	p.hasMore = false
}

// Apply appends a fetched batch, dropping any article whose URL is
// already held, and advances the cursor. The has-more flag follows the
// size heuristic: a full batch means more pages likely exist. The raw
// batch size is what counts; deduplication never shortens the horizon.
// It returns the articles actually accepted.
func (p *Pager) Apply(batch []Article) []Article {
	accepted := make([]Article, 0, len(batch))
	for _, a := range batch {
		if a.URL == "" {
			continue
		}
		if _, dup := p.seen[a.URL]; dup {
			continue
		}
		p.seen[a.URL] = struct{}{}
		accepted = append(accepted, a)
	}

	p.articles = append(p.articles, accepted...)
	p.hasMore = len(batch) == p.pageSize
	p.page++

	return accepted
}
