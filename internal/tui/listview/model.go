package listview

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// defaultOverscan is the number of extra items rendered beyond each edge of the viewport.
const defaultOverscan = 5

// defaultThresholdItems is the end-reached threshold, in items, when none is configured.
const defaultThresholdItems = 2

// wheelDelta is the number of rows scrolled per mouse wheel notch.
const wheelDelta = 3

// Construction errors.
var (
	ErrInvalidItemHeight = errors.New("item height must be greater than zero")
	ErrInvalidOverscan   = errors.New("overscan cannot be negative")
	ErrInvalidViewport   = errors.New("viewport height cannot be negative")
	ErrNilRenderFunc     = errors.New("render func cannot be nil")
)

// RenderFunc renders the item at an absolute index.
// The selected parameter indicates whether this item is currently selected.
type RenderFunc[T any] func(item T, index int, selected bool) string

// KeyFunc derives a stable identity for an item. The default is the decimal index.
type KeyFunc[T any] func(item T, index int) string

// Options configures a VirtualListModel.
type Options[T any] struct {
	// ItemHeight is the uniform height of every item in rows. Required.
	ItemHeight int

	// ViewportHeight fixes the viewport height in rows. Zero means the height is
	// measured from tea.WindowSizeMsg, minus Chrome.
	ViewportHeight int

	// Chrome is the number of rows the surrounding UI takes from a measured window.
	Chrome int

	// Width is the viewport width in columns. Zero leaves rows unpadded.
	Width int

	// Overscan overrides the default overscan when non-nil.
	Overscan *int

	// EndReachedThreshold is the remaining distance, in rows, below which
	// OnEndReached fires. Zero selects two items' worth of rows.
	EndReachedThreshold int

	// OnEndReached is invoked once per threshold crossing.
	OnEndReached func() tea.Cmd

	// KeyFunc overrides positional keys.
	KeyFunc KeyFunc[T]

	// Scrollbar appends a one-column scrollbar reflecting the full content height.
	Scrollbar bool

	// KeyMap overrides DefaultKeyMap when non-nil.
	KeyMap *KeyMap
}

// Placement is one rendered item positioned inside the full-height spacer.
type Placement struct {
	Index  int
	Key    string
	Top    int
	Height int
}

// ScrollMsg requests an absolute scroll offset, in rows.
type ScrollMsg struct {
	Offset int
}

// VirtualListModel implements windowed rendering for large fixed-height lists.
// Only the items in the visible range plus overscan are passed to the render
// function; every scroll update recomputes that range synchronously.
type VirtualListModel[T any] struct {
	// items contains all list items
	items []T

	// renderFunc renders a single item
	renderFunc RenderFunc[T]

	// keyFunc derives item identity
	keyFunc KeyFunc[T]

	// itemHeight is the uniform item height in rows
	itemHeight int

	// viewportHeight is the viewport height in rows
	viewportHeight int

	// fixedViewport is true when the caller supplied the viewport height
	fixedViewport bool

	// chrome is subtracted from measured window heights
	chrome int

	// width is the viewport width in columns
	width int

	// overscan is the number of extra items rendered beyond each edge
	overscan int

	// scrollOffset is the first visible row of the content
	scrollOffset int

	// selected is the currently selected item index (0-based)
	selected int

	// window is the range of items currently rendered
	window Range

	// end tracks the edge-triggered end-reached flag
	end endDetector

	onEndReached func() tea.Cmd
	scrollbar    bool
	keys         KeyMap
}

// New creates a virtual list over items.
// It returns ErrInvalidItemHeight, ErrInvalidOverscan, ErrInvalidViewport or
// ErrNilRenderFunc when the options break the list's contract.
func New[T any](items []T, renderFunc RenderFunc[T], opts Options[T]) (*VirtualListModel[T], error) {
	if renderFunc == nil {
		return nil, ErrNilRenderFunc
	}
	if opts.ItemHeight <= 0 {
		return nil, ErrInvalidItemHeight
	}
	if opts.ViewportHeight < 0 {
		return nil, ErrInvalidViewport
	}

	overscan := defaultOverscan
	if opts.Overscan != nil {
		if *opts.Overscan < 0 {
			return nil, ErrInvalidOverscan
		}
		overscan = *opts.Overscan
	}

	threshold := opts.EndReachedThreshold
	if threshold <= 0 {
		threshold = defaultThresholdItems * opts.ItemHeight
	}

	keyFunc := opts.KeyFunc
	if keyFunc == nil {
		keyFunc = func(_ T, index int) string { return strconv.Itoa(index) }
	}

	keys := DefaultKeyMap()
	if opts.KeyMap != nil {
		keys = *opts.KeyMap
	}

	m := &VirtualListModel[T]{
		items:          items,
		renderFunc:     renderFunc,
		keyFunc:        keyFunc,
		itemHeight:     opts.ItemHeight,
		viewportHeight: opts.ViewportHeight,
		fixedViewport:  opts.ViewportHeight > 0,
		chrome:         opts.Chrome,
		width:          opts.Width,
		overscan:       overscan,
		end:            endDetector{threshold: threshold},
		onEndReached:   opts.OnEndReached,
		scrollbar:      opts.Scrollbar,
		keys:           keys,
	}

	m.updateVisibleRange()
	return m, nil
}

// Init initializes the model (required for tea.Model interface).
func (m *VirtualListModel[T]) Init() tea.Cmd {
	return nil
}

// Update handles keyboard, mouse, scroll and resize messages.
func (m *VirtualListModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	case tea.MouseMsg:
		return m, m.handleMouseMsg(msg)
	case ScrollMsg:
		return m, m.ScrollTo(msg.Offset)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if !m.fixedViewport {
			m.viewportHeight = max(0, msg.Height-m.chrome)
		}
		m.scrollOffset = clampOffset(m.scrollOffset, m.ContentHeight(), m.viewportHeight)
		m.updateVisibleRange()
		m.end.rearm(m.remaining())
		return m, nil
	}

	return m, nil
}

// handleKeyMsg processes keyboard input for navigation.
func (m *VirtualListModel[T]) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if len(m.items) == 0 {
		return nil
	}

	pageItems := max(1, m.viewportHeight/m.itemHeight)

	switch {
	case key.Matches(msg, m.keys.Up):
		return m.selectIndex(m.selected - 1)
	case key.Matches(msg, m.keys.Down):
		return m.selectIndex(m.selected + 1)
	case key.Matches(msg, m.keys.PageUp):
		m.selected = max(0, m.selected-pageItems)
		return m.ScrollBy(-m.viewportHeight)
	case key.Matches(msg, m.keys.PageDown):
		m.selected = min(len(m.items)-1, m.selected+pageItems)
		return m.ScrollBy(m.viewportHeight)
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
		return m.ScrollTo(0)
	case key.Matches(msg, m.keys.Bottom):
		m.selected = len(m.items) - 1
		return m.ScrollTo(m.ContentHeight())
	}

	return nil
}

// handleMouseMsg scrolls on wheel events.
func (m *VirtualListModel[T]) handleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	//nolint:exhaustive // Only wheel buttons scroll the list.
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.ScrollBy(-wheelDelta)
	case tea.MouseButtonWheelDown:
		return m.ScrollBy(wheelDelta)
	default:
		return nil
	}
}

// selectIndex moves the selection and scrolls just enough to keep it fully visible.
func (m *VirtualListModel[T]) selectIndex(index int) tea.Cmd {
	if index < 0 || index >= len(m.items) {
		return nil
	}
	m.selected = index

	top := index * m.itemHeight
	offset := m.scrollOffset
	if top < offset {
		offset = top
	}
	if bottom := top + m.itemHeight; bottom > offset+m.viewportHeight {
		offset = bottom - m.viewportHeight
	}
	return m.ScrollTo(offset)
}

// ScrollTo moves the viewport to an absolute row offset, clamped to the content.
// The visible range is recomputed immediately and the end-reached check runs;
// the returned command is the end-reached callback's, if it fired.
func (m *VirtualListModel[T]) ScrollTo(offset int) tea.Cmd {
	m.scrollOffset = clampOffset(offset, m.ContentHeight(), m.viewportHeight)
	m.updateVisibleRange()
	return m.checkEndReached()
}

// ScrollBy moves the viewport by delta rows.
func (m *VirtualListModel[T]) ScrollBy(delta int) tea.Cmd {
	return m.ScrollTo(m.scrollOffset + delta)
}

// checkEndReached runs edge-triggered end detection for the current offset.
func (m *VirtualListModel[T]) checkEndReached() tea.Cmd {
	if len(m.items) == 0 || m.viewportHeight <= 0 {
		return nil
	}
	if !m.end.observe(m.remaining()) || m.onEndReached == nil {
		return nil
	}
	return m.onEndReached()
}

// remaining returns the unscrolled distance to the bottom of the content.
func (m *VirtualListModel[T]) remaining() int {
	return m.ContentHeight() - m.scrollOffset - m.viewportHeight
}

// updateVisibleRange recalculates the rendered window from the scroll offset.
func (m *VirtualListModel[T]) updateVisibleRange() {
	m.window = ComputeRange(m.scrollOffset, m.viewportHeight, m.itemHeight, m.overscan, len(m.items))
}

// SetItems replaces the collection wholesale. Selection and offset are clamped
// to the new content; the end-reached flag re-arms if the new content moved the
// bottom back beyond the threshold, but the callback never fires from here.
func (m *VirtualListModel[T]) SetItems(items []T) {
	m.items = items

	switch {
	case len(items) == 0:
		m.selected = 0
	case m.selected >= len(items):
		m.selected = len(items) - 1
	}

	m.scrollOffset = clampOffset(m.scrollOffset, m.ContentHeight(), m.viewportHeight)
	m.updateVisibleRange()
	m.end.rearm(m.remaining())
}

// SetViewportHeight fixes the viewport height, disabling measurement. Like
// SetItems it may re-arm the end-reached flag but never fires the callback.
func (m *VirtualListModel[T]) SetViewportHeight(height int) {
	m.viewportHeight = max(0, height)
	m.fixedViewport = true
	m.scrollOffset = clampOffset(m.scrollOffset, m.ContentHeight(), m.viewportHeight)
	m.updateVisibleRange()
	m.end.rearm(m.remaining())
}

// RearmEndReached clears the end-reached flag, so the next scroll update
// inside the threshold notifies again. Consumers call it when the work the
// last notification started has failed.
func (m *VirtualListModel[T]) RearmEndReached() {
	m.end.reached = false
}

// Layout returns the rendered items with their placement inside the spacer.
func (m *VirtualListModel[T]) Layout() []Placement {
	if m.window.Empty {
		return nil
	}

	placements := make([]Placement, 0, m.window.Len())
	for i := m.window.Start; i <= m.window.End; i++ {
		placements = append(placements, Placement{
			Index:  i,
			Key:    m.keyFunc(m.items[i], i),
			Top:    i * m.itemHeight,
			Height: m.itemHeight,
		})
	}
	return placements
}

// View renders the viewport: the rows of every placed item that fall inside it.
func (m *VirtualListModel[T]) View() string {
	if m.viewportHeight <= 0 {
		return ""
	}

	lines := make([]string, m.viewportHeight)
	for _, p := range m.Layout() {
		block := m.renderItem(p.Index)
		for j, line := range block {
			row := p.Top - m.scrollOffset + j
			if row >= 0 && row < m.viewportHeight {
				lines[row] = line
			}
		}
	}

	var bar []string
	if m.scrollbar {
		bar = renderScrollbar(m.viewportHeight, m.ContentHeight(), m.scrollOffset)
	}

	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.fit(line))
		if bar != nil {
			sb.WriteString(bar[i])
		}
	}
	return sb.String()
}

// renderItem renders one item as exactly itemHeight lines.
func (m *VirtualListModel[T]) renderItem(index int) []string {
	out := m.renderFunc(m.items[index], index, index == m.selected)
	lines := strings.Split(out, "\n")
	if len(lines) > m.itemHeight {
		lines = lines[:m.itemHeight]
	}
	for len(lines) < m.itemHeight {
		lines = append(lines, "")
	}
	return lines
}

// fit truncates or pads a line to the content width.
func (m *VirtualListModel[T]) fit(line string) string {
	width := m.contentWidth()
	if width <= 0 {
		return line
	}
	if lipgloss.Width(line) > width {
		line = lipgloss.NewStyle().Inline(true).MaxWidth(width).Render(line)
	}
	if pad := width - lipgloss.Width(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return line
}

// contentWidth is the width left for items after the scrollbar column.
func (m *VirtualListModel[T]) contentWidth() int {
	if m.scrollbar && m.width > 0 {
		return m.width - 1
	}
	return m.width
}

// ItemCount returns the total number of items in the list.
func (m *VirtualListModel[T]) ItemCount() int {
	return len(m.items)
}

// Items returns the full collection.
func (m *VirtualListModel[T]) Items() []T {
	return m.items
}

// Selected returns the currently selected item index.
func (m *VirtualListModel[T]) Selected() int {
	return m.selected
}

// SetSelected sets the selected item index, capping to valid bounds, and
// scrolls it into view.
func (m *VirtualListModel[T]) SetSelected(index int) tea.Cmd {
	if len(m.items) == 0 {
		m.selected = 0
		return nil
	}
	return m.selectIndex(min(max(index, 0), len(m.items)-1))
}

// VisibleRange returns the rendered window, overscan included.
func (m *VirtualListModel[T]) VisibleRange() Range {
	return m.window
}

// VisibleFrom returns the first rendered item index (inclusive).
func (m *VirtualListModel[T]) VisibleFrom() int {
	if m.window.Empty {
		return 0
	}
	return m.window.Start
}

// VisibleTo returns the last rendered item index (exclusive).
func (m *VirtualListModel[T]) VisibleTo() int {
	if m.window.Empty {
		return 0
	}
	return m.window.End + 1
}

// ScrollOffset returns the first visible content row.
func (m *VirtualListModel[T]) ScrollOffset() int {
	return m.scrollOffset
}

// ContentHeight returns the spacer height: every item times the item height.
func (m *VirtualListModel[T]) ContentHeight() int {
	return len(m.items) * m.itemHeight
}

// ItemHeight returns the uniform item height.
func (m *VirtualListModel[T]) ItemHeight() int {
	return m.itemHeight
}

// Overscan returns the configured overscan.
func (m *VirtualListModel[T]) Overscan() int {
	return m.overscan
}

// EndReached reports whether the end-reached flag is currently raised.
func (m *VirtualListModel[T]) EndReached() bool {
	return m.end.reached
}

// Height returns the viewport height.
func (m *VirtualListModel[T]) Height() int {
	return m.viewportHeight
}

// Width returns the viewport width.
func (m *VirtualListModel[T]) Width() int {
	return m.width
}

// KeyMap returns the active key bindings, for help views.
func (m *VirtualListModel[T]) KeyMap() KeyMap {
	return m.keys
}

// GetSelectedItem returns the currently selected item.
// Returns nil if list is empty.
func (m *VirtualListModel[T]) GetSelectedItem() *T {
	if len(m.items) == 0 || m.selected < 0 || m.selected >= len(m.items) {
		return nil
	}
	return &m.items[m.selected]
}
