package feed

import (
	"context"
	"strings"

	"github.com/Akashdeep-Patra/zed-list-view/internal/git"
)

// GitLogFeed lists commits reachable from HEAD, sectioned by commit day.
type GitLogFeed struct {
	svc git.Service
}

var _ Feed = (*GitLogFeed)(nil)

// NewGitLogFeed returns a feed over svc.
func NewGitLogFeed(svc git.Service) *GitLogFeed {
	return &GitLogFeed{svc: svc}
}

func (f *GitLogFeed) Name() string { return "git log" }

// Load returns commits [offset, offset+limit).
func (f *GitLogFeed) Load(ctx context.Context, offset, limit int) (Page, error) {
	commits, err := f.svc.Log(ctx, offset, limit)
	if err != nil {
		return Page{}, err
	}
	items := make([]Item, 0, len(commits))
	for _, c := range commits {
		detail := c.Author + " · " + c.RelDate
		if refs := c.RefNames(); len(refs) > 0 {
			detail += " (" + strings.Join(refs, ", ") + ")"
		}
		items = append(items, Item{
			Section: c.Day().Format("Mon 02 Jan 2006"),
			ID:      c.Hash,
			Title:   c.ShortHash + " " + c.Subject,
			Detail:  detail,
			Time:    c.Date,
		})
	}
	return Page{Items: items, Done: len(commits) < limit}, nil
}
