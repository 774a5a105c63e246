package views

import (
	"log/slog"
	"strings"
	"time"

	"github.com/Akashdeep-Patra/zed-list-view/internal/common"
	"github.com/Akashdeep-Patra/zed-list-view/internal/listview"
	"github.com/Akashdeep-Patra/zed-list-view/internal/ui"
	"github.com/Akashdeep-Patra/zed-list-view/internal/ui/components"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ── Messages ────────────────────────────────────────────────────────────────

// EndReachedMsg is emitted when the list scrolled near the end of a fully
// materialized data source.
type EndReachedMsg struct{ Event listview.EndReachedEvent }

// VisibleRowsMsg is emitted when the set of visible rows changed.
type VisibleRowsMsg struct {
	Visible listview.VisibilitySet
	Changed listview.VisibilityDiff
}

// renderMsg asks the list to run a render pass on its next turn.
type renderMsg struct{}

// framesMsg carries measured frames back to the controller.
type framesMsg struct {
	deliver func([]listview.FrameUpdate)
	frames  []listview.FrameUpdate
}

// scrollTickMsg is the trailing edge of the scroll throttle.
type scrollTickMsg struct{}

// ── Rendering ───────────────────────────────────────────────────────────────

// Renderer draws the units of a list. Implementations return one or more
// lines no wider than width.
type Renderer interface {
	Header(width int) string
	SectionHeader(data any, width int) string
	Row(data any, selected bool, width int) string
	Separator(highlighted bool, width int) string
	Footer(text string, width int) string
}

// placed is a unit of the current pass with its line position.
type placed struct {
	unit  listview.Unit
	y     int
	lines []string
}

// ListView is the terminal scroll container for a listview.Controller.
// Host callbacks made by the controller during Update are queued and
// turned into tea.Cmds by flush, so every engine call returns to the
// program loop before anything it requested happens.
type ListView struct {
	ctrl     *listview.Controller
	renderer Renderer
	styles   ui.Styles
	log      *slog.Logger
	throttle time.Duration
	clip     bool

	vp     viewport.Model
	width  int
	height int

	// Current composition.
	placed  []placed
	lines   int
	sticky  []int
	cache   map[string]string
	cacheW  int
	footer  string
	cursor  listview.RowKey
	painted listview.RowKey

	// Host request queue, drained by flush.
	renderRequested bool
	renderQueued    bool
	measure         []func([]listview.FrameUpdate)
	scrollDirty     bool
	tickQueued      bool
	lastScroll      time.Time
	events          []tea.Cmd
}

var _ listview.Host = (*ListView)(nil)

// NewListView creates a list over ds. The terminal only scrolls
// vertically, so a horizontal config is downgraded with a warning.
func NewListView(ds listview.DataSource, cfg listview.Config, layout listview.Layout,
	r Renderer, styles ui.Styles, log *slog.Logger) (*ListView, error) {
	if log == nil {
		log = slog.Default()
	}
	cfg = terminalConfig(cfg, log)
	v := &ListView{
		renderer: r,
		styles:   styles,
		log:      log,
		throttle: cfg.ScrollEventThrottle,
		clip:     cfg.RemoveClippedSubviews,
		vp:       viewport.New(0, 0),
		cache:    make(map[string]string),
	}
	ctrl, err := listview.New(ds, v, cfg,
		listview.WithLogger(log),
		listview.WithLayout(layout),
		listview.WithEndReachedHandler(func(ev listview.EndReachedEvent) {
			v.emit(EndReachedMsg{Event: ev})
		}),
		listview.WithVisibleRowsHandler(func(set listview.VisibilitySet, diff listview.VisibilityDiff) {
			v.emit(VisibleRowsMsg{Visible: set, Changed: diff})
		}),
	)
	if err != nil {
		return nil, err
	}
	v.ctrl = ctrl
	return v, nil
}

func terminalConfig(cfg listview.Config, log *slog.Logger) listview.Config {
	if cfg.Horizontal {
		log.Warn("horizontal lists are not supported in the terminal; using vertical")
		cfg.Horizontal = false
	}
	return cfg
}

func (v *ListView) emit(msg tea.Msg) {
	v.events = append(v.events, func() tea.Msg { return msg })
}

// ── listview.Host ───────────────────────────────────────────────────────────

func (v *ListView) RequestRender() { v.renderRequested = true }

func (v *ListView) SupportsMeasurement() bool { return true }

func (v *ListView) MeasureFrames(deliver func([]listview.FrameUpdate)) {
	v.measure = append(v.measure, deliver)
}

func (v *ListView) ScrollTo(_, y float64, _ bool) {
	v.setOffset(int(y))
}

func (v *ListView) SupportsScrollToEnd() bool { return true }

func (v *ListView) ScrollToEnd(bool) {
	before := v.vp.YOffset
	v.vp.GotoBottom()
	if v.vp.YOffset != before {
		v.offsetChanged()
	}
}

// ── tea plumbing ────────────────────────────────────────────────────────────

// Init requests the mount render pass.
func (v *ListView) Init() tea.Cmd {
	v.RequestRender()
	return v.flush()
}

// Update handles the list's own messages and mouse scrolling.
func (v *ListView) Update(msg tea.Msg) (*ListView, tea.Cmd) {
	switch msg := msg.(type) {
	case renderMsg:
		v.renderQueued = false
		v.render()
	case framesMsg:
		msg.deliver(msg.frames)
	case scrollTickMsg:
		v.tickQueued = false
		if v.scrollDirty {
			v.emitScroll(time.Now())
		}
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			v.scrollBy(-3)
		case tea.MouseButtonWheelDown:
			v.scrollBy(3)
		}
	default:
		return v, nil
	}
	return v, v.flush()
}

// flush turns queued host requests into commands. Scroll reports go first
// because they can request a render of their own.
func (v *ListView) flush() tea.Cmd {
	var cmds []tea.Cmd

	if v.scrollDirty {
		now := time.Now()
		if elapsed := now.Sub(v.lastScroll); elapsed >= v.throttle {
			v.emitScroll(now)
		} else if !v.tickQueued {
			v.tickQueued = true
			cmds = append(cmds, tea.Tick(v.throttle-elapsed, func(time.Time) tea.Msg { return scrollTickMsg{} }))
		}
	}

	if v.renderRequested {
		v.renderRequested = false
		if !v.renderQueued {
			v.renderQueued = true
			cmds = append(cmds, func() tea.Msg { return renderMsg{} })
		}
	}

	if len(v.measure) > 0 {
		frames := v.frames()
		for _, deliver := range v.measure {
			cmds = append(cmds, func() tea.Msg { return framesMsg{deliver: deliver, frames: frames} })
		}
		v.measure = nil
	}

	cmds = append(cmds, v.events...)
	v.events = nil
	return tea.Batch(cmds...)
}

func (v *ListView) emitScroll(now time.Time) {
	v.scrollDirty = false
	v.lastScroll = now
	w := float64(v.vp.Width)
	v.ctrl.OnScroll(listview.ScrollEvent{
		LayoutMeasurement: listview.Size{Width: w, Height: float64(v.vp.Height)},
		ContentSize:       listview.Size{Width: w, Height: float64(v.lines)},
		ContentOffset:     listview.Point{Y: float64(v.vp.YOffset)},
	})
}

// frames measures the current composition in lines.
func (v *ListView) frames() []listview.FrameUpdate {
	out := make([]listview.FrameUpdate, 0, len(v.placed))
	w := float64(v.vp.Width)
	for _, p := range v.placed {
		out = append(out, listview.FrameUpdate{
			FlatIndex: p.unit.FlatIndex,
			Frame:     listview.Frame{Y: float64(p.y), Width: w, Height: float64(len(p.lines))},
		})
	}
	return out
}

// ── Render pass ─────────────────────────────────────────────────────────────

func (v *ListView) render() {
	flat, err := v.ctrl.Render()
	if err != nil {
		v.emit(common.ErrMsg{Err: err})
		return
	}
	v.compose(flat)
}

// compose lays the units of flat out as lines, reusing cached renderings
// of units whose render gate is closed.
func (v *ListView) compose(flat *listview.Flat) {
	if flat == nil {
		return
	}
	width := v.vp.Width
	if width != v.cacheW {
		clear(v.cache)
		v.cacheW = width
	}

	v.placed = v.placed[:0]
	y := 0
	for _, u := range flat.Units {
		lines := strings.Split(v.renderUnit(u, width), "\n")
		v.placed = append(v.placed, placed{unit: u, y: y, lines: lines})
		y += len(lines)
	}
	v.painted = v.cursor
	v.sticky = flat.StickyIndices
	v.lines = y

	if len(v.cache) > 2*len(flat.Units)+16 {
		live := make(map[string]string, len(flat.Units))
		for _, p := range v.placed {
			if s, ok := v.cache[p.unit.Key]; ok {
				live[p.unit.Key] = s
			}
		}
		v.cache = live
	}

	v.refreshContent()
	v.ctrl.OnContentSizeChange(float64(width), float64(y))
}

func (v *ListView) renderUnit(u listview.Unit, width int) string {
	force := u.ShouldUpdate || u.Kind == listview.UnitFooter
	if u.Kind == listview.UnitRow {
		k := u.RowKey()
		force = force || k == v.cursor || k == v.painted
	}
	cached, hit := v.cache[u.Key]
	if hit && !force {
		return cached
	}

	ds := v.ctrl.DataSource()
	if !inBounds(ds, u) {
		// The source was swapped after this pass; keep what is on screen
		// until the next render.
		return cached
	}
	var s string
	switch u.Kind {
	case listview.UnitHeader:
		s = v.renderer.Header(width)
	case listview.UnitSectionHeader:
		s = v.renderer.SectionHeader(ds.SectionHeaderData(u.Section), width)
	case listview.UnitRow:
		s = v.renderer.Row(ds.RowData(u.Section, u.Row), u.RowKey() == v.cursor, width)
	case listview.UnitSeparator:
		s = v.renderer.Separator(u.Highlighted, width)
	case listview.UnitFooter:
		s = v.renderer.Footer(v.footer, width)
	}
	v.cache[u.Key] = s
	return s
}

// inBounds reports whether u's positional indexes still address ds.
func inBounds(ds listview.DataSource, u listview.Unit) bool {
	if u.Kind != listview.UnitRow && u.Kind != listview.UnitSectionHeader {
		return true
	}
	if ds == nil {
		return false
	}
	ids := ds.RowIDs()
	if u.Section < 0 || u.Section >= len(ids) {
		return false
	}
	if u.Kind == listview.UnitSectionHeader {
		return ds.SectionIDs()[u.Section] == u.SectionID
	}
	return u.Row < len(ids[u.Section]) && ids[u.Section][u.Row] == u.RowID
}

// refreshContent pushes the composition into the viewport. With clipping
// on, units more than one screen away from the viewport become blank lines
// of the same height.
func (v *ListView) refreshContent() {
	lo := v.vp.YOffset - v.vp.Height
	hi := v.vp.YOffset + 2*v.vp.Height
	out := make([]string, 0, v.lines)
	for _, p := range v.placed {
		end := p.y + len(p.lines)
		if v.clip && (end <= lo || p.y >= hi) {
			for range p.lines {
				out = append(out, "")
			}
			continue
		}
		out = append(out, p.lines...)
	}
	offset := v.vp.YOffset
	v.vp.SetContent(strings.Join(out, "\n"))
	if v.vp.YOffset != offset {
		v.scrollDirty = true
	}
}

// ── View ────────────────────────────────────────────────────────────────────

// View renders the viewport, the pinned sticky header and the scrollbar.
func (v *ListView) View() string {
	if v.width == 0 || v.height == 0 {
		return ""
	}
	body := v.vp.View()
	if pinned, ok := v.pinned(); ok {
		lines := strings.SplitN(body, "\n", 2)
		lines[0] = ui.PadRight(pinned, v.vp.Width)
		body = strings.Join(lines, "\n")
	}
	bar := components.RenderScrollbar(v.styles, v.vp.Height, v.lines, v.vp.Height, v.vp.YOffset)
	if bar == "" {
		return body
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, body, bar)
}

// pinned returns the first line of the last sticky unit scrolled past the
// top of the viewport.
func (v *ListView) pinned() (string, bool) {
	best := -1
	for _, idx := range v.sticky {
		if idx < 0 || idx >= len(v.placed) {
			continue
		}
		if v.placed[idx].y < v.vp.YOffset && (best < 0 || v.placed[idx].y >= v.placed[best].y) {
			best = idx
		}
	}
	if best < 0 {
		return "", false
	}
	return v.placed[best].lines[0], true
}

// ── Sizing, data and config ────────────────────────────────────────────────

// SetSize resizes the viewport; one column is kept for the scrollbar.
func (v *ListView) SetSize(width, height int) tea.Cmd {
	v.width, v.height = width, height
	v.vp.Width = max(width-1, 0)
	v.vp.Height = max(height, 0)
	v.ctrl.OnLayout(float64(v.vp.Width), float64(v.vp.Height))
	if v.vp.Width != v.cacheW && v.ctrl.LastFlat() != nil {
		v.compose(v.ctrl.LastFlat())
	} else {
		v.refreshContent()
	}
	return v.flush()
}

// SetDataSource swaps the data source.
func (v *ListView) SetDataSource(ds listview.DataSource) tea.Cmd {
	v.ctrl.SetDataSource(ds)
	return v.flush()
}

// SetConfig swaps the engine options at runtime.
func (v *ListView) SetConfig(cfg listview.Config) (tea.Cmd, error) {
	cfg = terminalConfig(cfg, v.log)
	if err := v.ctrl.SetConfig(cfg); err != nil {
		return nil, err
	}
	v.throttle = cfg.ScrollEventThrottle
	v.clip = cfg.RemoveClippedSubviews
	v.refreshContent()
	return v.flush(), nil
}

// SetStyles re-renders everything with new styles.
func (v *ListView) SetStyles(styles ui.Styles, r Renderer) tea.Cmd {
	v.styles = styles
	v.renderer = r
	clear(v.cache)
	v.compose(v.ctrl.LastFlat())
	return v.flush()
}

// SetFooter changes the footer text without a new render pass.
func (v *ListView) SetFooter(text string) tea.Cmd {
	if text == v.footer {
		return nil
	}
	v.footer = text
	v.compose(v.ctrl.LastFlat())
	return v.flush()
}

// Close detaches the controller; late measurements are dropped.
func (v *ListView) Close() { v.ctrl.Close() }

// Controller exposes the engine instance.
func (v *ListView) Controller() *listview.Controller { return v.ctrl }

// Metrics returns the engine metrics.
func (v *ListView) Metrics() listview.Metrics { return v.ctrl.Metrics() }

// ContentLines returns the composed content height.
func (v *ListView) ContentLines() int { return v.lines }

// YOffset returns the first visible line.
func (v *ListView) YOffset() int { return v.vp.YOffset }

// ── Navigation ──────────────────────────────────────────────────────────────

func (v *ListView) setOffset(y int) {
	before := v.vp.YOffset
	v.vp.SetYOffset(y)
	if v.vp.YOffset != before {
		v.offsetChanged()
	}
}

func (v *ListView) scrollBy(n int) {
	v.setOffset(v.vp.YOffset + n)
}

func (v *ListView) offsetChanged() {
	v.scrollDirty = true
	if v.clip {
		v.refreshContent()
	}
}

// rows returns the placed row units in order.
func (v *ListView) rows() []placed {
	var out []placed
	for _, p := range v.placed {
		if p.unit.Kind == listview.UnitRow {
			out = append(out, p)
		}
	}
	return out
}

// MoveCursor moves the highlighted row by delta rows and scrolls it into
// view. Moving past the last materialized row scrolls to the end, which
// lets the window grow.
func (v *ListView) MoveCursor(delta int) tea.Cmd {
	rows := v.rows()
	if len(rows) == 0 {
		return nil
	}
	cur := -1
	for i, p := range rows {
		if p.unit.RowKey() == v.cursor {
			cur = i
			break
		}
	}
	next := min(max(cur+delta, 0), len(rows)-1)
	if cur < 0 && delta < 0 {
		next = 0
	}
	v.selectRow(rows[next])
	if cur == next && delta > 0 {
		v.ctrl.ScrollToEnd(false)
	}
	return v.flush()
}

// PageCursor moves by half a viewport worth of rows.
func (v *ListView) PageCursor(pages int) tea.Cmd {
	return v.MoveCursor(pages * max(v.vp.Height/2, 1))
}

// Top selects the first row and scrolls to the top.
func (v *ListView) Top() tea.Cmd {
	if rows := v.rows(); len(rows) > 0 {
		v.selectRow(rows[0])
	}
	v.ctrl.ScrollTo(0, 0, false)
	return v.flush()
}

// Bottom selects the last materialized row and scrolls to the end.
func (v *ListView) Bottom() tea.Cmd {
	if rows := v.rows(); len(rows) > 0 {
		v.selectRow(rows[len(rows)-1])
	}
	v.ctrl.ScrollToEnd(false)
	return v.flush()
}

func (v *ListView) selectRow(p placed) {
	v.cursor = p.unit.RowKey()
	v.ctrl.SetHighlight(v.cursor)

	end := p.y + len(p.lines)
	switch {
	case p.y < v.vp.YOffset:
		v.setOffset(p.y)
	case end > v.vp.YOffset+v.vp.Height:
		v.setOffset(end - v.vp.Height)
	}
}

// Selected returns the data of the highlighted row.
func (v *ListView) Selected() (any, bool) {
	flat := v.ctrl.LastFlat()
	idx, ok := flat.IndexOf(v.cursor)
	if !ok {
		return nil, false
	}
	u := flat.Units[idx]
	ds := v.ctrl.DataSource()
	if !inBounds(ds, u) {
		return nil, false
	}
	return ds.RowData(u.Section, u.Row), true
}
