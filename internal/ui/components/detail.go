package components

import (
	"strings"

	"github.com/Akashdeep-Patra/zed-list-view/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Field is one labelled line of a Detail dialog.
type Field struct {
	Label string
	Value string
}

// Detail is a modal that shows the fields of one row until dismissed.
type Detail struct {
	Title   string
	Fields  []Field
	styles  ui.Styles
	visible bool
}

// NewDetail creates a visible detail dialog. Empty fields are dropped.
func NewDetail(styles ui.Styles, title string, fields ...Field) Detail {
	kept := fields[:0:0]
	for _, f := range fields {
		if strings.TrimSpace(f.Value) != "" {
			kept = append(kept, f)
		}
	}
	return Detail{Title: title, Fields: kept, styles: styles, visible: true}
}

// Visible returns whether the dialog is showing.
func (d Detail) Visible() bool { return d.visible }

// Update closes the dialog on esc, enter or q.
func (d Detail) Update(msg tea.Msg) (Detail, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && d.visible {
		switch keyMsg.String() {
		case "esc", "enter", "q":
			d.visible = false
		}
	}
	return d, nil
}

// View renders the dialog box; width bounds it to the screen.
func (d Detail) View(width int) string {
	if !d.visible {
		return ""
	}
	t := d.styles.Theme
	boxW := min(72, max(width-4, 20))
	inner := boxW - 8 // border + padding

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(t.Text).Bold(true).Render(ui.Truncate(d.Title, inner)))
	b.WriteString("\n\n")

	labelW := 0
	for _, f := range d.Fields {
		labelW = max(labelW, lipgloss.Width(f.Label))
	}
	labelStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Width(labelW + 2)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Width(max(inner-labelW-2, 1))
	for _, f := range d.Fields {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(f.Label), valueStyle.Render(f.Value)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(d.styles.Muted.Render("esc to close"))

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(t.Primary).
		Padding(1, 3).
		Width(boxW).
		Render(b.String())
}
