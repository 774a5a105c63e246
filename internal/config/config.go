package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Akashdeep-Patra/zed-list-view/internal/listview"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ErrNoConfigFile is returned by Watch when no config file was found.
var ErrNoConfigFile = errors.New("no config file to watch")

// Config holds the resolved application configuration.
type Config struct {
	// Theme name: "dark" (default) or "light".
	Theme string `mapstructure:"theme"`
	// Source selects the feed: "git" (default) or "procs".
	Source string `mapstructure:"source"`

	List  List  `mapstructure:"list"`
	Git   Git   `mapstructure:"git"`
	Watch WatchConfig `mapstructure:"watch"`
	Log   Log   `mapstructure:"log"`
}

// List mirrors listview.Config in snake_case.
type List struct {
	InitialListSize           int           `mapstructure:"initial_list_size"`
	PageSize                  int           `mapstructure:"page_size"`
	ScrollRenderAheadDistance float64       `mapstructure:"scroll_render_ahead_distance"`
	OnEndReachedThreshold     float64       `mapstructure:"on_end_reached_threshold"`
	ScrollEventThrottle       time.Duration `mapstructure:"scroll_event_throttle"`
	StickySectionHeaders      bool          `mapstructure:"sticky_section_headers"`
	StickyHeaderIndices       []int         `mapstructure:"sticky_header_indices"`
	// EnableEmptySections is nil unless the key is present.
	EnableEmptySections   *bool `mapstructure:"-"`
	RemoveClippedSubviews bool  `mapstructure:"remove_clipped_subviews"`
	Horizontal            bool  `mapstructure:"horizontal"`
}

// Git configures the git log feed.
type Git struct {
	// PageSize is how many commits one end-reached fetch loads.
	PageSize int           `mapstructure:"page_size"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// WatchConfig configures the repository watcher.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// Log configures the file logger.
type Log struct {
	Level string `mapstructure:"level"`
	// File is the log destination; empty discards records.
	File string `mapstructure:"file"`
}

// Load reads configuration from path, or from ~/.config/zlv/config.yaml
// (or ./config.yaml) when path is empty. A missing default file is fine;
// a missing explicit file is not.
func Load(path string) (*Config, error) {
	v, err := read(path)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// Watch reloads the config file on every change and hands the result to
// onChange. It returns ErrNoConfigFile when there is nothing to watch.
func Watch(path string, onChange func(*Config, error)) error {
	v, err := read(path)
	if err != nil {
		return err
	}
	if v.ConfigFileUsed() == "" {
		return ErrNoConfigFile
	}
	v.OnConfigChange(func(fsnotify.Event) {
		onChange(decode(v))
	})
	v.WatchConfig()
	return nil
}

func read(path string) (*viper.Viper, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDirectory())
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix("ZLV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("list.enable_empty_sections")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is fine; use defaults.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if v.IsSet("list.enable_empty_sections") {
		b := v.GetBool("list.enable_empty_sections")
		cfg.List.EnableEmptySections = &b
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that viper cannot.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceGit, SourceProcs:
	default:
		return fmt.Errorf("unknown source %q (want %q or %q)", c.Source, SourceGit, SourceProcs)
	}
	switch c.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	if c.Git.PageSize < 1 {
		return fmt.Errorf("git.page_size must be positive, got %d", c.Git.PageSize)
	}
	if err := c.ListConfig().Validate(); err != nil {
		return fmt.Errorf("list: %w", err)
	}
	return nil
}

// ListConfig converts the list section to engine options.
func (c *Config) ListConfig() listview.Config {
	l := c.List
	return listview.Config{
		InitialListSize:             l.InitialListSize,
		PageSize:                    l.PageSize,
		ScrollRenderAheadDistance:   l.ScrollRenderAheadDistance,
		OnEndReachedThreshold:       l.OnEndReachedThreshold,
		ScrollEventThrottle:         l.ScrollEventThrottle,
		StickySectionHeadersEnabled: l.StickySectionHeaders,
		StickyHeaderIndices:         append([]int{}, l.StickyHeaderIndices...),
		EnableEmptySections:         l.EnableEmptySections,
		RemoveClippedSubviews:       l.RemoveClippedSubviews,
		Horizontal:                  l.Horizontal,
	}
}

func configDirectory() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "zlv")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "zlv")
}
