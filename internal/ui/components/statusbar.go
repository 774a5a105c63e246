package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Akashdeep-Patra/zed-list-view/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// StatusBarData carries the info displayed in the bottom status bar.
type StatusBarData struct {
	Feed string
	// Head is the checked-out branch for the git feed; empty otherwise.
	Head string
	Root string

	Rendered int
	Total    int
	Visible  int
	Done     bool

	// Loading is the spinner frame while a page is in flight.
	Loading string
	Message string // transient info/error message
	IsError bool
}

// RenderStatusBar renders the bottom status bar with sections separated by
// dim vertical bars.
//
// Wide (>= 60):   git log  │  main  │  40/120 rows · 22 visible  ⠋        zed-list-view
// Narrow (< 60):  git log  │  40/120 rows
func RenderStatusBar(styles ui.Styles, data StatusBarData, width int) string {
	t := styles.Theme

	sepStyle := lipgloss.NewStyle().Foreground(t.Border).Faint(true)
	sep := sepStyle.Render(" │ ")

	// ── Left sections ────────────────────────────────────────────

	left := " " + lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render(data.Feed)
	if data.Head != "" && width >= 60 {
		left += sep + lipgloss.NewStyle().Foreground(t.Success).Render(" "+data.Head)
	}

	total := fmt.Sprint(data.Total)
	if !data.Done {
		total += "+"
	}
	counts := fmt.Sprintf("%d/%s rows", data.Rendered, total)
	if width >= 60 {
		counts += fmt.Sprintf(" · %d visible", data.Visible)
	}
	left += sep + lipgloss.NewStyle().Foreground(t.Text).Render(counts)
	if data.Loading != "" {
		left += " " + styles.Spinner.Render(data.Loading)
	}

	// ── Right section ────────────────────────────────────────────

	var right string
	if data.Message != "" {
		style := styles.Info
		if data.IsError {
			style = styles.Error
		}
		right = style.Render(ui.Truncate(data.Message, max(width/2, 10))) + " "
	} else if width >= 60 && data.Root != "" {
		right = lipgloss.NewStyle().Foreground(t.TextSubtle).Render(filepath.Base(data.Root)) + " "
	}

	// ── Assemble ─────────────────────────────────────────────────

	inner := width - styles.StatusBar.GetHorizontalFrameSize()
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		right = "" // drop right side if no room
		gap = max(inner-lipgloss.Width(left), 0)
	}

	return styles.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
