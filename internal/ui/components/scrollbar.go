package components

import (
	"strings"

	"github.com/Akashdeep-Patra/zed-list-view/internal/ui"
)

// RenderScrollbar returns a vertical scrollbar track of the given height.
// The thumb is proportional to the visible portion of the content and is
// placed by offset.
//
// Returns an empty string if all content fits (no scrolling needed).
//
//	Parameters:
//	  styles   – application styles (for theming)
//	  height   – total height of the scrollbar track (rows)
//	  content  – content length in lines
//	  visible  – viewport length in lines
//	  offset   – first visible line
func RenderScrollbar(styles ui.Styles, height, content, visible, offset int) string {
	if content <= visible || height < 1 || visible < 1 {
		return ""
	}

	thumbSize := min(max(height*visible/content, 1), height)

	maxOffset := height - thumbSize
	pct := float64(offset) / float64(content-visible)
	thumbStart := min(max(int(pct*float64(maxOffset)+0.5), 0), maxOffset)

	thumb := styles.ScrollThumb.Render("█")
	track := styles.ScrollTrack.Render("░")

	var b strings.Builder
	b.Grow(height * 4)
	for i := 0; i < height; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i >= thumbStart && i < thumbStart+thumbSize {
			b.WriteString(thumb)
		} else {
			b.WriteString(track)
		}
	}
	return b.String()
}
