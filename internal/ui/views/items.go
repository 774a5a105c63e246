package views

import (
	"strings"

	"github.com/Akashdeep-Patra/zed-list-view/internal/feed"
	"github.com/Akashdeep-Patra/zed-list-view/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// ItemRenderer draws feed items: one line per row, the title followed by
// the muted detail, truncated to the viewport.
type ItemRenderer struct {
	Styles ui.Styles
	Title  string
}

var _ Renderer = ItemRenderer{}

func (r ItemRenderer) Header(width int) string {
	return r.Styles.ListHeader.Render(ui.Truncate(r.Title, max(width-1, 0)))
}

func (r ItemRenderer) SectionHeader(data any, width int) string {
	label, _ := data.(string)
	return r.Styles.SectionHeader.Width(max(width, 0)).Render(ui.Truncate(label, max(width-1, 0)))
}

func (r ItemRenderer) Row(data any, selected bool, width int) string {
	it, ok := data.(feed.Item)
	if !ok {
		return ""
	}
	style := r.Styles.Row
	if selected {
		style = r.Styles.RowSelected
	}
	inner := max(width-style.GetHorizontalFrameSize(), 0)
	marker := ""
	if selected {
		marker = "▸"
	}

	title := ui.Truncate(marker+it.Title, inner)
	line := title
	if room := inner - lipgloss.Width(title) - 2; room > 3 && it.Detail != "" {
		line += "  " + r.Styles.RowDetail.Render(ui.Truncate(it.Detail, room))
	}
	if selected {
		style = style.Width(max(width, 0))
	}
	return style.Render(line)
}

func (r ItemRenderer) Separator(highlighted bool, width int) string {
	style := r.Styles.Separator
	if highlighted {
		style = r.Styles.SeparatorLit
	}
	return style.Render(strings.Repeat("─", max(width, 0)))
}

func (r ItemRenderer) Footer(text string, width int) string {
	return r.Styles.ListFooter.Render(ui.Truncate(text, max(width-1, 0)))
}
