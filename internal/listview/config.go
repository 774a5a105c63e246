package listview

import (
	"fmt"
	"time"
)

// Default values for Config, matching the documented list defaults.
const (
	DefaultPageSize                  = 1
	DefaultInitialListSize           = 10
	DefaultScrollRenderAheadDistance = 1000
	DefaultOnEndReachedThreshold     = 1000
	DefaultScrollEventThrottle       = 50 * time.Millisecond
)

// Config holds the list options. Build one with DefaultConfig and override
// fields; defaults are applied once there and never re-derived.
type Config struct {
	// InitialListSize is how many rows are materialized on the first pass.
	InitialListSize int
	// PageSize is how many rows each window advance adds.
	PageSize int
	// ScrollRenderAheadDistance is the remaining scroll distance below which
	// more rows are materialized.
	ScrollRenderAheadDistance float64
	// OnEndReachedThreshold is the remaining scroll distance below which
	// OnEndReached fires (once the whole list is materialized).
	OnEndReachedThreshold float64
	// ScrollEventThrottle is the minimum interval between scroll events the
	// host delivers. The engine does not throttle itself.
	ScrollEventThrottle time.Duration

	StickySectionHeadersEnabled bool
	// StickyHeaderIndices are externally supplied sticky flat indices,
	// emitted ahead of section-header indices.
	StickyHeaderIndices []int

	// EnableEmptySections is opt-in only: nil skips empty sections with a
	// warning, true renders them, false is a contract violation.
	EnableEmptySections *bool

	// RemoveClippedSubviews lets the host blank out units that are fully
	// outside the viewport.
	RemoveClippedSubviews bool
	// Horizontal selects the primary axis.
	Horizontal bool
}

// DefaultConfig returns a Config with every documented default applied.
func DefaultConfig() Config {
	return Config{
		InitialListSize:             DefaultInitialListSize,
		PageSize:                    DefaultPageSize,
		ScrollRenderAheadDistance:   DefaultScrollRenderAheadDistance,
		OnEndReachedThreshold:       DefaultOnEndReachedThreshold,
		ScrollEventThrottle:         DefaultScrollEventThrottle,
		StickySectionHeadersEnabled: true,
		StickyHeaderIndices:         []int{},
		RemoveClippedSubviews:       true,
	}
}

// Validate reports option values the engine cannot work with.
func (c Config) Validate() error {
	switch {
	case c.InitialListSize < 0:
		return fmt.Errorf("initial list size %d: %w", c.InitialListSize, ErrInvalidConfig)
	case c.PageSize < 1:
		return fmt.Errorf("page size %d: %w", c.PageSize, ErrInvalidConfig)
	case c.ScrollRenderAheadDistance < 0:
		return fmt.Errorf("scroll render ahead distance %v: %w", c.ScrollRenderAheadDistance, ErrInvalidConfig)
	case c.OnEndReachedThreshold < 0:
		return fmt.Errorf("end reached threshold %v: %w", c.OnEndReachedThreshold, ErrInvalidConfig)
	case c.ScrollEventThrottle < 0:
		return fmt.Errorf("scroll event throttle %v: %w", c.ScrollEventThrottle, ErrInvalidConfig)
	}
	for _, idx := range c.StickyHeaderIndices {
		if idx < 0 {
			return fmt.Errorf("sticky header index %d: %w", idx, ErrInvalidConfig)
		}
	}
	return nil
}

// emptySectionsEnabled reports whether empty sections are counted and rendered.
func (c Config) emptySectionsEnabled() bool {
	return c.EnableEmptySections != nil && *c.EnableEmptySections
}

// Axis returns the configured primary axis.
func (c Config) Axis() Axis {
	if c.Horizontal {
		return Horizontal
	}
	return Vertical
}

// Bool returns a pointer to b, for the tri-state EnableEmptySections field.
func Bool(b bool) *bool { return &b }
