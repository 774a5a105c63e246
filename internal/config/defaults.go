package config

import (
	"time"

	"github.com/Akashdeep-Patra/zed-list-view/internal/listview"
	"github.com/Akashdeep-Patra/zed-list-view/internal/logging"
	"github.com/spf13/viper"
)

// Feed names accepted by the source key.
const (
	SourceGit   = "git"
	SourceProcs = "procs"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("theme", "dark")
	v.SetDefault("source", SourceGit)

	v.SetDefault("list.initial_list_size", listview.DefaultInitialListSize)
	v.SetDefault("list.page_size", listview.DefaultPageSize)
	v.SetDefault("list.scroll_render_ahead_distance", listview.DefaultScrollRenderAheadDistance)
	v.SetDefault("list.on_end_reached_threshold", listview.DefaultOnEndReachedThreshold)
	v.SetDefault("list.scroll_event_throttle", listview.DefaultScrollEventThrottle)
	v.SetDefault("list.sticky_section_headers", true)
	v.SetDefault("list.sticky_header_indices", []int{})
	v.SetDefault("list.remove_clipped_subviews", true)
	v.SetDefault("list.horizontal", false)

	v.SetDefault("git.page_size", 100)
	v.SetDefault("git.cache_ttl", 2*time.Second)

	v.SetDefault("watch.enabled", true)
	v.SetDefault("watch.debounce", 300*time.Millisecond)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", logging.DefaultPath())
}
