package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/Akashdeep-Patra/zed-list-view/internal/common"
	"github.com/Akashdeep-Patra/zed-list-view/internal/config"
	"github.com/Akashdeep-Patra/zed-list-view/internal/datasource"
	"github.com/Akashdeep-Patra/zed-list-view/internal/feed"
	"github.com/Akashdeep-Patra/zed-list-view/internal/git"
	"github.com/Akashdeep-Patra/zed-list-view/internal/listview"
	"github.com/Akashdeep-Patra/zed-list-view/internal/logging"
	"github.com/Akashdeep-Patra/zed-list-view/internal/ui"
	"github.com/Akashdeep-Patra/zed-list-view/internal/ui/components"
	"github.com/Akashdeep-Patra/zed-list-view/internal/ui/views"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loadTimeout bounds a single page fetch.
const loadTimeout = 30 * time.Second

// listLayout is the unit layout of the feed list.
var listLayout = listview.Layout{Header: true, Footer: true, SectionHeaders: true, Separators: true}

// ConfigChangedMsg carries a reloaded config file.
type ConfigChangedMsg struct {
	Config *config.Config
	Err    error
}

// pageLoadedMsg carries the data source after a page fetch or reload.
type pageLoadedMsg struct {
	src    *datasource.Source[feed.Item]
	err    error
	reload bool
}

// headMsg carries the refreshed branch name.
type headMsg struct {
	head string
	err  error
}

// invalidator is implemented by services that cache results.
type invalidator interface{ Invalidate() }

// Model is the top-level Bubbletea model: one feed list, a status bar and
// the help overlay.
type Model struct {
	cfg    *config.Config
	git    git.Service // nil unless the feed reads a repository
	pager  *feed.Pager
	list   *views.ListView
	styles ui.Styles
	keys   KeyMap
	spin   spinner.Model
	log    *slog.Logger

	width    int
	height   int
	showHelp bool
	detail   *components.Detail
	head     string

	loading       bool
	reloadPending bool

	statusMsg string
	statusErr bool
	statusExp time.Time
}

// New creates the application model. svc may be nil for feeds that do not
// read a git repository.
func New(f feed.Feed, svc git.Service, cfg *config.Config, log *slog.Logger) (Model, error) {
	if log == nil {
		log = slog.Default()
	}
	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))
	pager := feed.NewPager(f, cfg.Git.PageSize)

	m := Model{
		cfg:     cfg,
		git:     svc,
		pager:   pager,
		styles:  styles,
		keys:    DefaultKeyMap(),
		log:     log,
		loading: true,
	}
	m.spin = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Spinner))

	list, err := views.NewListView(pager.Source(), cfg.ListConfig(), listLayout, m.renderer(), styles, log)
	if err != nil {
		return Model{}, fmt.Errorf("create list: %w", err)
	}
	m.list = list
	list.SetFooter(m.footerText())
	return m, nil
}

func (m Model) renderer() views.ItemRenderer {
	return views.ItemRenderer{Styles: m.styles, Title: m.title()}
}

func (m Model) title() string {
	name := m.pager.Feed().Name()
	if m.git != nil {
		return name + " · " + filepath.Base(m.git.RepoRoot())
	}
	return name
}

// Init mounts the list and starts loading the first page.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.list.Init(), m.loadNext(), m.spin.Tick, m.refreshHead())
}

// ── Commands ────────────────────────────────────────────────────────────────

func (m Model) loadNext() tea.Cmd {
	pager := m.pager
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		src, err := pager.Next(ctx)
		return pageLoadedMsg{src: src, err: err}
	}
}

func (m Model) reload() tea.Cmd {
	pager := m.pager
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		src, err := pager.Reload(ctx)
		return pageLoadedMsg{src: src, err: err, reload: true}
	}
}

// refreshHead reads the branch name in the background.
func (m Model) refreshHead() tea.Cmd {
	if m.git == nil {
		return nil
	}
	svc := m.git
	return func() tea.Msg {
		head, err := svc.Head()
		return headMsg{head: head, err: err}
	}
}

// startLoad issues fn unless a load is already in flight.
func (m *Model) startLoad(fn func() tea.Cmd) tea.Cmd {
	if m.loading {
		return nil
	}
	m.loading = true
	return tea.Batch(fn(), m.spin.Tick, m.list.SetFooter(m.footerText()))
}

func (m Model) footerText() string {
	switch {
	case m.loading:
		return "loading…"
	case m.pager.Done():
		return fmt.Sprintf("end of list · %d rows", m.pager.Len())
	default:
		return "scroll for more"
	}
}

// ── Update ──────────────────────────────────────────────────────────────────

// Update processes messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.list.SetSize(m.width, m.contentHeight())

	case tea.MouseMsg:
		msg.Y-- // title line
		_, cmd := m.list.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case views.EndReachedMsg:
		if m.pager.Done() {
			return m, nil
		}
		// An event queued before the last page landed carries the old
		// content length.
		if cur := m.list.Controller().Geometry().ContentLength; !msg.Event.Geometry.ContentLength.Equal(cur) {
			m.log.Debug("stale end reached", "content_length", msg.Event.Geometry.ContentLength.Value, "current", cur.Value)
			return m, nil
		}
		m.log.Debug("end reached", "content_length", msg.Event.Geometry.ContentLength.Value)
		return m, m.startLoad(m.loadNext)

	case views.VisibleRowsMsg:
		m.log.Debug("visible rows changed", "sections", len(msg.Visible), "changed", len(msg.Changed))
		return m, nil

	case pageLoadedMsg:
		return m.handlePage(msg)

	case headMsg:
		if msg.err != nil {
			m.log.Warn("read head", "err", msg.err)
			return m, nil
		}
		m.head = msg.head
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case common.RefreshMsg:
		if inv, ok := m.git.(invalidator); ok {
			inv.Invalidate()
		}
		if m.loading {
			m.reloadPending = true
			return m, m.refreshHead()
		}
		return m, tea.Batch(m.startLoad(m.reload), m.refreshHead())

	case ConfigChangedMsg:
		return m.applyConfig(msg)

	case common.ErrMsg:
		m.log.Error("list error", "err", msg.Err)
		m.setStatus(msg.Err.Error(), true)
		return m, nil

	case common.InfoMsg:
		m.setStatus(msg.Text, false)
		return m, nil

	case common.ToggleHelpMsg:
		m.showHelp = !m.showHelp
		return m, nil
	}

	// The list's own render, frame and scroll messages.
	_, cmd := m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The detail dialog has exclusive input while visible.
	if m.detail != nil && m.detail.Visible() {
		d, cmd := m.detail.Update(msg)
		m.detail = &d
		if !d.Visible() {
			m.detail = nil
		}
		return m, cmd
	}
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Back):
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.list.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, common.CmdRefresh
	case key.Matches(msg, m.keys.Down):
		return m, m.list.MoveCursor(1)
	case key.Matches(msg, m.keys.Up):
		return m, m.list.MoveCursor(-1)
	case key.Matches(msg, m.keys.PageDown):
		return m, m.list.PageCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		return m, m.list.PageCursor(-1)
	case key.Matches(msg, m.keys.Home):
		return m, m.list.Top()
	case key.Matches(msg, m.keys.End):
		return m, m.list.Bottom()
	case key.Matches(msg, m.keys.LoadMore):
		if m.pager.Done() {
			return m, common.CmdInfo("no more rows")
		}
		return m, m.startLoad(m.loadNext)
	case key.Matches(msg, m.keys.Enter):
		data, ok := m.list.Selected()
		if !ok {
			return m, nil
		}
		if it, ok := data.(feed.Item); ok {
			m.detail = m.openDetail(it)
		}
	}
	return m, nil
}

func (m Model) openDetail(it feed.Item) *components.Detail {
	var when string
	if !it.Time.IsZero() {
		when = it.Time.Format("2006-01-02 15:04:05")
	}
	d := components.NewDetail(m.styles, it.Title,
		components.Field{Label: "Section", Value: it.Section},
		components.Field{Label: "ID", Value: it.ID},
		components.Field{Label: "Detail", Value: it.Detail},
		components.Field{Label: "Time", Value: when},
	)
	return &d
}

func (m Model) handlePage(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, feed.ErrBusy) {
		return m, nil
	}
	m.loading = false
	var cmds []tea.Cmd
	if msg.err != nil {
		m.log.Error("load page", "feed", m.pager.Feed().Name(), "err", msg.err)
		m.setStatus(msg.err.Error(), true)
	} else {
		m.log.Debug("page loaded", "rows", m.pager.Len(), "done", m.pager.Done(), "reload", msg.reload)
		cmds = append(cmds, m.list.SetDataSource(msg.src))
	}
	cmds = append(cmds, m.list.SetFooter(m.footerText()))
	if m.reloadPending {
		m.reloadPending = false
		cmds = append(cmds, m.startLoad(m.reload))
	}
	return m, tea.Batch(cmds...)
}

// applyConfig swaps list options, theme and log level from a reloaded
// config file. Feed and page size changes need a restart.
func (m Model) applyConfig(msg ConfigChangedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.log.Warn("config reload", "err", msg.Err)
		m.setStatus("config: "+msg.Err.Error(), true)
		return m, nil
	}
	cfg := msg.Config
	if err := logging.SetLevel(cfg.Log.Level); err != nil {
		m.log.Warn("config reload", "err", err)
	}

	var cmds []tea.Cmd
	cmd, err := m.list.SetConfig(cfg.ListConfig())
	if err != nil {
		m.setStatus("config: "+err.Error(), true)
		return m, nil
	}
	cmds = append(cmds, cmd)

	if cfg.Theme != m.cfg.Theme {
		m.styles = ui.NewStyles(ui.ThemeByName(cfg.Theme))
		m.spin.Style = m.styles.Spinner
		cmds = append(cmds, m.list.SetStyles(m.styles, m.renderer()))
	}
	m.cfg = cfg
	m.log.Info("config reloaded", "theme", cfg.Theme)
	cmds = append(cmds, common.CmdInfo("config reloaded"))
	return m, tea.Batch(cmds...)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.statusMsg = text
	m.statusErr = isErr
	ttl := 3 * time.Second
	if isErr {
		ttl = 5 * time.Second
	}
	m.statusExp = time.Now().Add(ttl)
}

// ── View ────────────────────────────────────────────────────────────────────

// View renders the entire UI. It performs no I/O.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showHelp {
		return components.RenderHelp(m.styles, "Keyboard Shortcuts", components.GlobalHelpEntries(), m.width, m.height)
	}
	if m.detail != nil && m.detail.Visible() {
		return ui.PlaceCentre(m.width, m.height, m.detail.View(m.width))
	}

	title := m.styles.Title.Render(ui.Truncate(m.title(), max(m.width-2, 0)))
	content := lipgloss.NewStyle().Width(m.width).Height(m.contentHeight()).Render(m.list.View())

	metrics := m.list.Metrics()
	bar := components.StatusBarData{
		Feed:     m.pager.Feed().Name(),
		Head:     m.head,
		Rendered: metrics.RenderedRows,
		Total:    metrics.TotalRows,
		Visible:  metrics.VisibleRows,
		Done:     m.pager.Done(),
	}
	if m.git != nil {
		bar.Root = m.git.RepoRoot()
	}
	if m.loading {
		bar.Loading = m.spin.View()
	}
	if m.statusMsg != "" && time.Now().Before(m.statusExp) {
		bar.Message = m.statusMsg
		bar.IsError = m.statusErr
	}
	statusBar := components.RenderStatusBar(m.styles, bar, m.width)
	return lipgloss.JoinVertical(lipgloss.Left, title, content, statusBar, m.helpBar())
}

// helpBar renders the short key hints below the status bar.
func (m Model) helpBar() string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, ui.RenderKeyValue(m.styles, h.Key, h.Desc))
	}
	return m.styles.HelpBar.MaxWidth(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) contentHeight() int {
	// height - title(1) - statusBar(1) - helpBar(1)
	return max(m.height-3, 1)
}

// List exposes the list view.
func (m Model) List() *views.ListView { return m.list }

// Pager exposes the feed pager.
func (m Model) Pager() *feed.Pager { return m.pager }
