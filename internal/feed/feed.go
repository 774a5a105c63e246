// Package feed loads list content page by page and turns it into
// sectioned data sources for the list engine.
package feed

import (
	"context"
	"time"
)

// Item is one list row.
type Item struct {
	// Section groups items under a section header, in first-seen order.
	Section string
	// ID identifies the row within its section; it must be stable across
	// reloads.
	ID     string
	Title  string
	Detail string
	Time   time.Time
}

// Page is the result of one Load call.
type Page struct {
	Items []Item
	// Done is true when the feed has no items past this page.
	Done bool
}

// Feed is a paged, read-only content source. Implementations must be safe
// to call from a goroutine other than the one that created them.
type Feed interface {
	Name() string
	Load(ctx context.Context, offset, limit int) (Page, error)
}
