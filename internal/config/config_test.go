package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Akashdeep-Patra/zed-list-view/internal/listview"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "dark" || cfg.Source != SourceGit {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	lc := cfg.ListConfig()
	want := listview.DefaultConfig()
	if lc.InitialListSize != want.InitialListSize || lc.PageSize != want.PageSize ||
		lc.ScrollEventThrottle != want.ScrollEventThrottle || !lc.RemoveClippedSubviews ||
		!lc.StickySectionHeadersEnabled {
		t.Errorf("expected engine defaults, got %+v", lc)
	}
	if lc.EnableEmptySections != nil {
		t.Error("expected empty sections flag unset")
	}
	if want := (WatchConfig{Enabled: true, Debounce: 300 * time.Millisecond}); cfg.Watch != want {
		t.Errorf("expected watcher defaults %+v, got %+v", want, cfg.Watch)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
theme: light
source: procs
list:
  page_size: 5
  scroll_event_throttle: 100ms
  enable_empty_sections: true
  sticky_header_indices: [0]
git:
  cache_ttl: 10s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "light" || cfg.Source != SourceProcs {
		t.Errorf("unexpected top-level values %+v", cfg)
	}
	if cfg.List.PageSize != 5 || cfg.List.ScrollEventThrottle != 100*time.Millisecond {
		t.Errorf("unexpected list values %+v", cfg.List)
	}
	if cfg.List.EnableEmptySections == nil || !*cfg.List.EnableEmptySections {
		t.Error("expected empty sections enabled")
	}
	if cfg.Git.CacheTTL != 10*time.Second || cfg.Git.PageSize != 100 {
		t.Errorf("unexpected git values %+v", cfg.Git)
	}
	if got := cfg.ListConfig().StickyHeaderIndices; len(got) != 1 || got[0] != 0 {
		t.Errorf("expected [0], got %v", got)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "list:\n  page_size: 5\n")
	t.Setenv("ZLV_LIST_PAGE_SIZE", "7")
	t.Setenv("ZLV_LIST_ENABLE_EMPTY_SECTIONS", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.List.PageSize != 7 {
		t.Errorf("expected env to win, got %d", cfg.List.PageSize)
	}
	if cfg.List.EnableEmptySections == nil || !*cfg.List.EnableEmptySections {
		t.Error("expected empty sections from env")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown source", "source: kafka\n"},
		{"unknown theme", "theme: neon\n"},
		{"bad page size", "list:\n  page_size: 0\n"},
		{"bad git page size", "git:\n  page_size: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error")
		}
	})
}

func TestWatchWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	if err := Watch("", func(*Config, error) {}); err != ErrNoConfigFile {
		t.Errorf("expected ErrNoConfigFile, got %v", err)
	}
}
