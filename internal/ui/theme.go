package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds all colours for the application.
// The dark palette follows Zed's default (Catppuccin Mocha); the light one
// is Catppuccin Latte.
type Theme struct {
	Name string

	Bg           lipgloss.Color
	Surface      lipgloss.Color
	SurfaceHover lipgloss.Color
	Border       lipgloss.Color

	Text        lipgloss.Color
	TextMuted   lipgloss.Color
	TextSubtle  lipgloss.Color
	TextInverse lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
}

// DarkTheme returns the default Zed-inspired dark theme.
func DarkTheme() Theme {
	return Theme{
		Name:         "dark",
		Bg:           lipgloss.Color("#1e1e2e"),
		Surface:      lipgloss.Color("#282840"),
		SurfaceHover: lipgloss.Color("#313152"),
		Border:       lipgloss.Color("#3b3b5c"),

		Text:        lipgloss.Color("#cdd6f4"),
		TextMuted:   lipgloss.Color("#9399b2"),
		TextSubtle:  lipgloss.Color("#6c7086"),
		TextInverse: lipgloss.Color("#1e1e2e"),

		Primary:   lipgloss.Color("#89b4fa"),
		Secondary: lipgloss.Color("#b4befe"),
		Accent:    lipgloss.Color("#f5c2e7"),

		Success: lipgloss.Color("#a6e3a1"),
		Warning: lipgloss.Color("#f9e2af"),
		Error:   lipgloss.Color("#f38ba8"),
		Info:    lipgloss.Color("#89b4fa"),
	}
}

// LightTheme returns the light variant.
func LightTheme() Theme {
	return Theme{
		Name:         "light",
		Bg:           lipgloss.Color("#eff1f5"),
		Surface:      lipgloss.Color("#e6e9ef"),
		SurfaceHover: lipgloss.Color("#ccd0da"),
		Border:       lipgloss.Color("#bcc0cc"),

		Text:        lipgloss.Color("#4c4f69"),
		TextMuted:   lipgloss.Color("#6c6f85"),
		TextSubtle:  lipgloss.Color("#8c8fa1"),
		TextInverse: lipgloss.Color("#eff1f5"),

		Primary:   lipgloss.Color("#1e66f5"),
		Secondary: lipgloss.Color("#7287fd"),
		Accent:    lipgloss.Color("#ea76cb"),

		Success: lipgloss.Color("#40a02b"),
		Warning: lipgloss.Color("#df8e1d"),
		Error:   lipgloss.Color("#d20f39"),
		Info:    lipgloss.Color("#1e66f5"),
	}
}

// ThemeByName returns the named theme, falling back to dark.
func ThemeByName(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}

// Styles holds pre-computed lipgloss styles derived from a Theme.
type Styles struct {
	Theme Theme

	// Layout
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	HelpBar   lipgloss.Style

	// List units
	ListHeader    lipgloss.Style
	ListFooter    lipgloss.Style
	SectionHeader lipgloss.Style
	Row           lipgloss.Style
	RowDetail     lipgloss.Style
	RowSelected   lipgloss.Style
	Separator     lipgloss.Style
	SeparatorLit  lipgloss.Style
	ScrollThumb   lipgloss.Style
	ScrollTrack   lipgloss.Style

	// Text
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	KeyBind lipgloss.Style
	KeyDesc lipgloss.Style

	// Messages
	Info  lipgloss.Style
	Error lipgloss.Style

	Spinner lipgloss.Style
}

// NewStyles builds all styles from the given theme.
func NewStyles(t Theme) Styles {
	s := Styles{Theme: t}

	s.Title = lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Padding(0, 1)
	s.StatusBar = lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Padding(0, 1)
	s.HelpBar = lipgloss.NewStyle().Foreground(t.TextSubtle).Padding(0, 1)

	s.ListHeader = lipgloss.NewStyle().Foreground(t.Text).Bold(true).PaddingLeft(1)
	s.ListFooter = lipgloss.NewStyle().Foreground(t.TextSubtle).Italic(true).PaddingLeft(1)
	s.SectionHeader = lipgloss.NewStyle().Foreground(t.Secondary).Background(t.Surface).Bold(true).PaddingLeft(1)
	s.Row = lipgloss.NewStyle().Foreground(t.Text).PaddingLeft(2)
	s.RowDetail = lipgloss.NewStyle().Foreground(t.TextMuted)
	s.RowSelected = lipgloss.NewStyle().Foreground(t.Text).Background(t.SurfaceHover).Bold(true).PaddingLeft(1)
	s.Separator = lipgloss.NewStyle().Foreground(t.Border)
	s.SeparatorLit = lipgloss.NewStyle().Foreground(t.Primary)
	s.ScrollThumb = lipgloss.NewStyle().Foreground(t.Primary)
	s.ScrollTrack = lipgloss.NewStyle().Foreground(t.Border)

	s.Muted = lipgloss.NewStyle().Foreground(t.TextMuted)
	s.Bold = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	s.KeyBind = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	s.KeyDesc = lipgloss.NewStyle().Foreground(t.TextMuted)

	s.Info = lipgloss.NewStyle().Foreground(t.Success)
	s.Error = lipgloss.NewStyle().Foreground(t.Error).Bold(true)

	s.Spinner = lipgloss.NewStyle().Foreground(t.Primary)

	return s
}

// DefaultStyles returns styles using the dark theme.
func DefaultStyles() Styles {
	return NewStyles(DarkTheme())
}
