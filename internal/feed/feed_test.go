package feed

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Akashdeep-Patra/zed-list-view/internal/git"
)

// sliceFeed serves a fixed item list.
type sliceFeed struct {
	items []Item
	err   error
	calls []string
}

func (f *sliceFeed) Name() string { return "slice" }

func (f *sliceFeed) Load(_ context.Context, offset, limit int) (Page, error) {
	f.calls = append(f.calls, fmt.Sprintf("%d+%d", offset, limit))
	if f.err != nil {
		return Page{}, f.err
	}
	if offset >= len(f.items) {
		return Page{Done: true}, nil
	}
	end := min(offset+limit, len(f.items))
	return Page{Items: f.items[offset:end], Done: end == len(f.items)}, nil
}

func items(sections ...string) []Item {
	var out []Item
	for i, s := range sections {
		out = append(out, Item{Section: s, ID: fmt.Sprint(i), Title: fmt.Sprint("item ", i)})
	}
	return out
}

func TestGroup(t *testing.T) {
	got := Group(items("b", "a", "b", "c"))
	var ids []string
	for _, s := range got {
		ids = append(ids, s.ID+":"+strings.Join(s.RowIDs, ","))
	}
	if want := []string{"b:0,2", "a:1", "c:3"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("expected %v, got %v", want, ids)
	}
}

func TestPagerNext(t *testing.T) {
	f := &sliceFeed{items: items("x", "x", "y", "y", "y")}
	p := NewPager(f, 2)
	ctx := context.Background()

	if got := p.Source().RowCount(); got != 0 {
		t.Fatalf("expected empty initial source, got %d rows", got)
	}

	first, err := p.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first.RowCount() != 2 || p.Done() {
		t.Errorf("expected 2 rows and more to come, got %d (done=%v)", first.RowCount(), p.Done())
	}

	second, _ := p.Next(ctx)
	if second == first {
		t.Error("expected a new source identity")
	}
	if !reflect.DeepEqual(second.SectionIDs(), []string{"x", "y"}) {
		t.Errorf("unexpected sections %v", second.SectionIDs())
	}
	if second.RowShouldUpdate(0, 0) || !second.RowShouldUpdate(1, 0) {
		t.Error("expected only the new rows dirty")
	}

	third, _ := p.Next(ctx)
	if third.RowCount() != 5 || !p.Done() {
		t.Errorf("expected 5 rows and done, got %d (done=%v)", third.RowCount(), p.Done())
	}
	if again, _ := p.Next(ctx); again != third {
		t.Error("exhausted pager must return the current source")
	}
	if want := []string{"0+2", "2+2", "4+2"}; !reflect.DeepEqual(f.calls, want) {
		t.Errorf("expected calls %v, got %v", want, f.calls)
	}
}

func TestPagerReloadAndErrors(t *testing.T) {
	f := &sliceFeed{items: items("x", "x", "x", "x")}
	p := NewPager(f, 2)
	ctx := context.Background()
	p.Next(ctx)
	p.Next(ctx)

	f.items[1].Title = "edited"
	src, err := p.Reload(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if f.calls[len(f.calls)-1] != "0+4" {
		t.Errorf("expected one reload of 4 items, got %v", f.calls)
	}
	if src.RowShouldUpdate(0, 0) || !src.RowShouldUpdate(0, 1) {
		t.Error("expected only the edited row dirty")
	}

	f.err = errors.New("offline")
	if _, err := p.Reload(ctx); err == nil || !errors.Is(err, f.err) {
		t.Errorf("expected wrapped error, got %v", err)
	}
	if p.Loading() {
		t.Error("loading must be cleared after an error")
	}
	if p.Len() != 4 {
		t.Errorf("failed reload must keep items, got %d", p.Len())
	}
}

type logService struct{ commits []git.Commit }

func (s *logService) RepoRoot() string { return "/repo" }
func (s *logService) GitDir() string { return "/repo/.git" }
func (s *logService) Head() (string, error) { return "main", nil }
func (s *logService) Log(_ context.Context, skip, limit int) ([]git.Commit, error) {
	if skip >= len(s.commits) {
		return nil, nil
	}
	return s.commits[skip:min(skip+limit, len(s.commits))], nil
}

func TestGitLogFeed(t *testing.T) {
	day1 := time.Date(2026, 10, 16, 15, 0, 0, 0, time.Local)
	day2 := time.Date(2026, 10, 15, 9, 0, 0, 0, time.Local)
	svc := &logService{commits: []git.Commit{
		{Hash: "h1", ShortHash: "h1", Author: "Ada", RelDate: "1 day ago", Subject: "one", Date: day1,
			Refs: []git.Ref{{Name: "main", Type: git.RefHead}}},
		{Hash: "h2", ShortHash: "h2", Author: "Ada", Subject: "two", Date: day1.Add(-time.Hour)},
		{Hash: "h3", ShortHash: "h3", Author: "Bob", Subject: "three", Date: day2},
	}}
	f := NewGitLogFeed(svc)

	page, err := f.Load(context.Background(), 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if page.Done || len(page.Items) != 2 {
		t.Fatalf("expected a full page, got %+v", page)
	}
	if page.Items[0].Section != "Fri 16 Oct 2026" || page.Items[1].Section != page.Items[0].Section {
		t.Errorf("expected both on Fri 16 Oct 2026, got %q/%q", page.Items[0].Section, page.Items[1].Section)
	}
	if !strings.Contains(page.Items[0].Detail, "HEAD→main") {
		t.Errorf("expected ref decoration, got %q", page.Items[0].Detail)
	}

	page, _ = f.Load(context.Background(), 2, 2)
	if !page.Done || len(page.Items) != 1 || page.Items[0].Section != "Thu 15 Oct 2026" {
		t.Errorf("unexpected last page %+v", page)
	}
}

func TestProcessFeed(t *testing.T) {
	f := &ProcessFeed{list: func(context.Context) ([]ProcInfo, error) {
		return []ProcInfo{
			{PID: 30, Name: "c", State: "sleep", RSS: 2048},
			{PID: 10, Name: "a", State: "running", RSS: 512},
			{PID: 20, Name: "b", State: "sleep", RSS: 3 << 20},
		}, nil
	}}

	page, err := f.Load(context.Background(), 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if page.Done || len(page.Items) != 2 || page.Items[0].ID != "10" || page.Items[1].ID != "20" {
		t.Fatalf("expected PIDs 10,20 first, got %+v", page)
	}
	if page.Items[0].Section != "running" || !strings.Contains(page.Items[1].Detail, "3.0MB") {
		t.Errorf("unexpected items %+v", page.Items)
	}

	page, _ = f.Load(context.Background(), 2, 2)
	if !page.Done || len(page.Items) != 1 {
		t.Errorf("expected last page with one item, got %+v", page)
	}
	page, _ = f.Load(context.Background(), 5, 2)
	if !page.Done || len(page.Items) != 0 {
		t.Errorf("expected empty done page, got %+v", page)
	}
}

func TestHumanBytes(t *testing.T) {
	tests := map[uint64]string{0: "0B", 1023: "1023B", 1024: "1.0KB", 1536: "1.5KB", 5 << 30: "5.0GB"}
	for in, want := range tests {
		if got := humanBytes(in); got != want {
			t.Errorf("humanBytes(%d): expected %q, got %q", in, want, got)
		}
	}
}
