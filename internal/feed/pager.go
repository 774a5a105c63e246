package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Akashdeep-Patra/zed-list-view/internal/datasource"
)

// ErrBusy is returned when a load is already in flight.
var ErrBusy = errors.New("feed: load already in progress")

// Pager accumulates pages of a Feed and produces one data source clone per
// change. Clones are derived from each other, so only new or changed rows
// are marked dirty.
type Pager struct {
	feed     Feed
	pageSize int

	mu      sync.Mutex
	items   []Item
	seen    map[string]bool
	done    bool
	loading bool
	src     *datasource.Source[Item]
}

// NewPager returns a pager over f that loads pageSize items per call.
func NewPager(f Feed, pageSize int) *Pager {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Pager{
		feed:     f,
		pageSize: pageSize,
		seen:     make(map[string]bool),
		src:      datasource.New(func(prev, next Item) bool { return prev != next }),
	}
}

// Feed returns the underlying feed.
func (p *Pager) Feed() Feed { return p.feed }

// Next loads the page after the accumulated items and returns the new
// data source. When the feed is exhausted it returns the current source
// unchanged.
func (p *Pager) Next(ctx context.Context) (*datasource.Source[Item], error) {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return nil, ErrBusy
	}
	if p.done {
		defer p.mu.Unlock()
		return p.src, nil
	}
	p.loading = true
	offset := len(p.items)
	p.mu.Unlock()

	page, err := p.feed.Load(ctx, offset, p.pageSize)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		return nil, fmt.Errorf("load %s page at %d: %w", p.feed.Name(), offset, err)
	}
	for _, it := range page.Items {
		if k := it.Section + "\x00" + it.ID; !p.seen[k] {
			p.seen[k] = true
			p.items = append(p.items, it)
		}
	}
	p.done = page.Done || len(page.Items) < p.pageSize
	return p.rebuild()
}

// Reload refetches everything loaded so far (at least one page) in a
// single request and replaces the accumulated items.
func (p *Pager) Reload(ctx context.Context) (*datasource.Source[Item], error) {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return nil, ErrBusy
	}
	p.loading = true
	limit := max(len(p.items), p.pageSize)
	p.mu.Unlock()

	page, err := p.feed.Load(ctx, 0, limit)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		return nil, fmt.Errorf("reload %s: %w", p.feed.Name(), err)
	}
	p.items = p.items[:0]
	clear(p.seen)
	for _, it := range page.Items {
		if k := it.Section + "\x00" + it.ID; !p.seen[k] {
			p.seen[k] = true
			p.items = append(p.items, it)
		}
	}
	p.done = page.Done || len(page.Items) < limit
	return p.rebuild()
}

// Source returns the latest data source.
func (p *Pager) Source() *datasource.Source[Item] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.src
}

// Done reports whether the feed is exhausted.
func (p *Pager) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Loading reports whether a load is in flight.
func (p *Pager) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Len returns the number of accumulated items.
func (p *Pager) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// rebuild groups items into sections in first-seen order. Callers hold mu.
func (p *Pager) rebuild() (*datasource.Source[Item], error) {
	sections := Group(p.items)
	next, err := p.src.CloneWithSections(sections)
	if err != nil {
		return nil, fmt.Errorf("build %s source: %w", p.feed.Name(), err)
	}
	p.src = next
	return next, nil
}

// Group buckets items by Section, keeping first-seen section order and the
// relative order of items within a section. Row IDs are item IDs.
func Group(items []Item) []datasource.Section[Item] {
	var sections []datasource.Section[Item]
	index := make(map[string]int)
	for _, it := range items {
		i, ok := index[it.Section]
		if !ok {
			i = len(sections)
			index[it.Section] = i
			sections = append(sections, datasource.Section[Item]{ID: it.Section, Header: it.Section, RowIDs: []string{}})
		}
		sections[i].Rows = append(sections[i].Rows, it)
		sections[i].RowIDs = append(sections[i].RowIDs, it.ID)
	}
	return sections
}
