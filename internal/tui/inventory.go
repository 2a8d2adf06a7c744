package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/bizdeck/internal/catalog"
	"github.com/rshade/bizdeck/internal/config"
	"github.com/rshade/bizdeck/internal/format"
	"github.com/rshade/bizdeck/internal/logging"
	"github.com/rshade/bizdeck/internal/pagination"
	"github.com/rshade/bizdeck/internal/prefs"
	"github.com/rshade/bizdeck/internal/tui/lazyload"
	"github.com/rshade/bizdeck/internal/tui/listview"
	"github.com/rshade/bizdeck/internal/tui/visibility"
)

// inventoryChrome is the number of rows taken by the header, status line and help footer.
const inventoryChrome = 3

// thumbGap separates the thumbnail from the row text.
const thumbGap = 1

// ErrNoCatalog is returned when the page has nothing to list from.
var ErrNoCatalog = errors.New("inventory needs a catalog")

// ProductLister is the catalog capability the page reads from.
type ProductLister interface {
	List(ctx context.Context, params pagination.Params) ([]catalog.Product, error)
	Count(ctx context.Context) (int, error)
}

// InventoryOptions configures the inventory page.
type InventoryOptions struct {
	Context context.Context
	Catalog ProductLister
	// Thumbnails loads product images. Nil disables thumbnails.
	Thumbnails lazyload.Source
	// Prefs supplies the background. Nil uses an in-memory store.
	Prefs   *prefs.Store
	Console config.ConsoleConfig
	Loader  config.LoaderConfig
	// SortField and SortOrder order the catalog; empty sorts by name.
	SortField string
	SortOrder string
}

// PageLoadedMsg carries one catalog page.
type PageLoadedMsg struct {
	Generation int
	Params     pagination.Params
	Products   []catalog.Product
	Total      int
	Err        error
}

// InventoryModel is the console's product page. Products stream in a page at
// a time as the list nears its end; each visible row mounts a deferred
// thumbnail that loads once the row scrolls into view.
type InventoryModel struct {
	ctx   context.Context
	opts  InventoryOptions
	prefs *prefs.Store

	list *listview.VirtualListModel[catalog.Product]
	obs  *visibility.Observer

	// loaders holds the mounted thumbnails, keyed by row key.
	loaders map[string]*lazyload.Model

	// next is the page requested by the following fetch.
	next       pagination.Params
	generation int
	total      int
	loading    bool
	exhausted  bool
	err        error

	thumbsLoaded int
	thumbsFailed int

	width   int
	height  int
	keys    inventoryKeyMap
	help    help.Model
	spinner spinner.Model
	quit    bool
}

// NewInventoryModel builds the page. It returns ErrNoCatalog without a catalog
// and the list's option errors for invalid console settings.
func NewInventoryModel(opts InventoryOptions) (*InventoryModel, error) {
	if opts.Catalog == nil {
		return nil, ErrNoCatalog
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Console.PageSize <= 0 {
		opts.Console.PageSize = config.DefaultPageSize
	}
	store := opts.Prefs
	if store == nil {
		var err error
		if store, err = prefs.Open(""); err != nil {
			return nil, err
		}
	}

	m := &InventoryModel{
		ctx:     opts.Context,
		opts:    opts,
		prefs:   store,
		obs:     visibility.NewObserver(opts.Loader.RootMargin),
		loaders: make(map[string]*lazyload.Model),
		keys:    defaultInventoryKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.next = m.firstPage()

	overscan := opts.Console.Overscan
	list, err := listview.New(nil, m.renderRow, listview.Options[catalog.Product]{
		ItemHeight:          opts.Console.ItemHeight,
		Chrome:              inventoryChrome,
		Overscan:            &overscan,
		EndReachedThreshold: opts.Console.EndThreshold * opts.Console.ItemHeight,
		OnEndReached:        m.fetchNext,
		KeyFunc:             rowKey,
		Scrollbar:           opts.Console.Scrollbar,
	})
	if err != nil {
		return nil, fmt.Errorf("building product list: %w", err)
	}
	m.list = list
	return m, nil
}

func rowKey(p catalog.Product, _ int) string {
	return "product-" + strconv.FormatInt(p.ID, 10)
}

func (m *InventoryModel) firstPage() pagination.Params {
	return pagination.PageParams(1, m.opts.Console.PageSize, m.opts.SortField, m.opts.SortOrder)
}

// Init requests the first page.
func (m *InventoryModel) Init() tea.Cmd {
	return m.fetchNext()
}

// fetchNext requests the next page unless one is in flight or the catalog is exhausted.
func (m *InventoryModel) fetchNext() tea.Cmd {
	if m.loading || m.exhausted {
		return nil
	}
	m.loading = true

	ctx, lister, params, gen := m.ctx, m.opts.Catalog, m.next, m.generation
	fetch := func() tea.Msg {
		products, err := lister.List(ctx, params)
		if err != nil {
			return PageLoadedMsg{Generation: gen, Params: params, Err: err}
		}
		total, err := lister.Count(ctx)
		return PageLoadedMsg{Generation: gen, Params: params, Products: products, Total: total, Err: err}
	}
	return tea.Batch(m.spinner.Tick, fetch)
}

// Update routes input to the list and loader messages to the thumbnails.
func (m *InventoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.list.Update(msg)
		return m, tea.Batch(m.sync(), m.topUp())

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg, listview.ScrollMsg:
		_, cmd := m.list.Update(msg)
		return m, tea.Batch(cmd, m.sync())

	case PageLoadedMsg:
		return m, m.handlePage(msg)

	case visibility.Msg:
		if loader, ok := m.loaders[msg.Target]; ok {
			_, cmd := loader.Update(msg)
			return m, cmd
		}
		return m, nil

	case lazyload.LoadedMsg:
		return m, m.broadcast(msg)

	case spinner.TickMsg:
		if msg.ID == m.spinner.ID() {
			if !m.loading {
				return m, nil
			}
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, m.broadcast(msg)
	}

	return m, nil
}

func (m *InventoryModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quit = true
		m.teardownAll()
		return tea.Quit
	case key.Matches(msg, m.keys.Background):
		m.cycleBackground()
		return nil
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}

	_, cmd := m.list.Update(msg)
	return tea.Batch(cmd, m.sync())
}

func (m *InventoryModel) cycleBackground() {
	next := prefs.NextBackground(m.prefs.Background())
	if err := m.prefs.SetBackground(next); err != nil {
		logging.FromContext(m.ctx).Warn().
			Str("component", "inventory").
			Str("background", next).
			Err(err).
			Msg("saving background preference failed")
	}
}

// reload drops every row and thumbnail and starts again from the first page.
// Pages still in flight from before the reload are ignored.
func (m *InventoryModel) reload() tea.Cmd {
	m.generation++
	m.teardownAll()
	m.list.SetItems(nil)
	m.list.ScrollTo(0)
	m.next = m.firstPage()
	m.loading = false
	m.exhausted = false
	m.err = nil
	m.total = 0
	m.thumbsLoaded = 0
	m.thumbsFailed = 0
	return m.fetchNext()
}

func (m *InventoryModel) handlePage(msg PageLoadedMsg) tea.Cmd {
	if msg.Generation != m.generation {
		return nil
	}
	m.loading = false

	log := logging.FromContext(m.ctx)
	if msg.Err != nil {
		m.err = msg.Err
		// The failed page is still m.next, so the next scroll into the threshold retries it.
		m.list.RearmEndReached()
		log.Error().Str("component", "inventory").Err(msg.Err).Msg("loading catalog page failed")
		return nil
	}
	m.err = nil
	m.total = msg.Total

	items := append(m.list.Items(), msg.Products...)
	m.list.SetItems(items)
	m.next = msg.Params.Next()
	_, limit := msg.Params.OffsetLimit()
	m.exhausted = len(msg.Products) < limit || len(items) >= msg.Total

	log.Debug().
		Str("component", "inventory").
		Int("page", msg.Params.Page).
		Int("received", len(msg.Products)).
		Int("total", msg.Total).
		Bool("exhausted", m.exhausted).
		Msg("catalog page loaded")

	return tea.Batch(m.sync(), m.topUp())
}

// topUp fetches another page while the loaded rows do not reach past the end
// threshold. Such content can never be scrolled into the threshold, so the list
// would otherwise never ask for more.
func (m *InventoryModel) topUp() tea.Cmd {
	if m.list.Height() <= 0 || m.err != nil || m.remaining() >= m.endThreshold() {
		return nil
	}
	return m.fetchNext()
}

func (m *InventoryModel) remaining() int {
	return m.list.ContentHeight() - m.list.ScrollOffset() - m.list.Height()
}

func (m *InventoryModel) endThreshold() int {
	if t := m.opts.Console.EndThreshold * m.list.ItemHeight(); t > 0 {
		return t
	}
	return 2 * m.list.ItemHeight()
}

// sync mounts thumbnails for newly placed rows, tears down those that left the
// window, and re-evaluates visibility against the current viewport.
func (m *InventoryModel) sync() tea.Cmd {
	if m.opts.Thumbnails == nil {
		return nil
	}

	m.obs.SetRoot(visibility.Rect{Top: m.list.ScrollOffset(), Height: m.list.Height()})

	layout := m.list.Layout()
	placed := make(map[string]struct{}, len(layout))
	items := m.list.Items()

	var mount []*lazyload.Model
	for _, p := range layout {
		placed[p.Key] = struct{}{}
		m.obs.SetBounds(p.Key, visibility.Rect{Top: p.Top, Height: p.Height})
		if _, ok := m.loaders[p.Key]; ok {
			continue
		}
		loader := m.newThumbnail(p.Key, items[p.Index])
		m.loaders[p.Key] = loader
		mount = append(mount, loader)
	}

	for k, loader := range m.loaders {
		if _, ok := placed[k]; ok {
			continue
		}
		loader.Teardown()
		m.obs.ClearBounds(k)
		delete(m.loaders, k)
	}

	cmds := make([]tea.Cmd, 0, len(mount)+1)
	for _, loader := range mount {
		cmds = append(cmds, loader.Init())
	}
	cmds = append(cmds, m.obs.Check())
	return tea.Batch(cmds...)
}

func (m *InventoryModel) newThumbnail(target string, p catalog.Product) *lazyload.Model {
	threshold := m.opts.Loader.Threshold
	return lazyload.New(target, m.obs, m.opts.Thumbnails, lazyload.Options{
		Src:       p.ImageRef,
		Fallback:  p.FallbackRef,
		Alt:       "no image",
		Threshold: &threshold,
		Width:     m.opts.Loader.ThumbWidth,
		Height:    min(m.opts.Loader.ThumbHeight, m.list.ItemHeight()),
		Timeout:   m.opts.Loader.Timeout,
		Context:   m.ctx,
		OnLoad: func(string) {
			m.thumbsLoaded++
		},
		OnError: func(ref string, err error) {
			m.thumbsFailed++
			logging.FromContext(m.ctx).Debug().
				Str("component", "inventory").
				Str("sku", p.SKU).
				Str("ref", ref).
				Err(err).
				Msg("thumbnail unavailable")
		},
	})
}

func (m *InventoryModel) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.loaders))
	for _, loader := range m.loaders {
		_, cmd := loader.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *InventoryModel) teardownAll() {
	for k, loader := range m.loaders {
		loader.Teardown()
		m.obs.ClearBounds(k)
		delete(m.loaders, k)
	}
}

// Close tears down every mounted thumbnail.
func (m *InventoryModel) Close() {
	m.teardownAll()
}

// renderRow draws one product: thumbnail on the left, details on the right.
func (m *InventoryModel) renderRow(p catalog.Product, _ int, selected bool) string {
	height := m.list.ItemHeight()
	textWidth := max(1, m.rowWidth())

	marker := "  "
	name := nameStyle
	if selected {
		marker = markerStyle.Render("▌ ")
		name = selectedStyle
	}
	textWidth = max(1, textWidth-lipgloss.Width(marker))

	stock := okStyle.Render(format.FormatNumber(int64(p.Stock)) + " in stock")
	if !p.InStock() {
		stock = warningStyle.Render("out of stock")
	}
	lines := []string{
		name.Render(format.Truncate(p.Name, textWidth)),
		mutedStyle.Render(format.Truncate(p.SKU+"  "+format.FormatPrice(p.PriceCents), textWidth)),
		stock,
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	text := marker + strings.Join(lines, "\n"+strings.Repeat(" ", lipgloss.Width(marker)))

	if m.opts.Thumbnails == nil {
		return text
	}
	thumb := strings.Repeat(" ", m.opts.Loader.ThumbWidth)
	if loader, ok := m.loaders[rowKey(p, 0)]; ok {
		thumb = loader.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, thumb, strings.Repeat(" ", thumbGap), text)
}

func (m *InventoryModel) rowWidth() int {
	w := m.width
	if m.opts.Console.Scrollbar {
		w--
	}
	if m.opts.Thumbnails != nil {
		w -= m.opts.Loader.ThumbWidth + thumbGap
	}
	return w
}

// View renders the header, the product list and the help footer.
func (m *InventoryModel) View() string {
	if m.quit {
		return ""
	}
	page := lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.statusView(),
		m.list.View(),
		m.help.View(m.keys),
	)
	return BackgroundStyle(m.prefs.Background()).Render(page)
}

func (m *InventoryModel) headerView() string {
	count := format.FormatNumber(int64(m.list.ItemCount()))
	if m.total > 0 {
		count += " of " + format.FormatNumber(int64(m.total))
	}
	return titleStyle.Render("Inventory") + "  " + mutedStyle.Render(count+" products")
}

const retryHint = "  scroll to retry, r to reload"

func (m *InventoryModel) statusView() string {
	var status string
	switch {
	case m.err != nil:
		status = errorStyle.Render(IconError+" "+format.Truncate(m.err.Error(), max(1, m.width-2-len(retryHint)))) +
			mutedStyle.Render(retryHint)
	case m.loading:
		status = m.spinner.View() + " loading"
	case m.exhausted:
		status = okStyle.Render(IconOK + " all loaded")
	default:
		status = mutedStyle.Render(IconLoading + " more below")
	}
	if m.opts.Thumbnails != nil {
		status += mutedStyle.Render(fmt.Sprintf("  thumbnails %d loaded", m.thumbsLoaded))
		if m.thumbsFailed > 0 {
			status += warningStyle.Render(fmt.Sprintf(", %d unavailable", m.thumbsFailed))
		}
	}
	return status
}

// Loading reports whether a page request is in flight.
func (m *InventoryModel) Loading() bool { return m.loading }

// Exhausted reports whether every product has been listed.
func (m *InventoryModel) Exhausted() bool { return m.exhausted }

// Err returns the last page error.
func (m *InventoryModel) Err() error { return m.err }

// Total returns the catalog size reported with the last page.
func (m *InventoryModel) Total() int { return m.total }

// List returns the underlying product list.
func (m *InventoryModel) List() *listview.VirtualListModel[catalog.Product] { return m.list }

// Thumbnail returns the mounted thumbnail for a product, if any.
func (m *InventoryModel) Thumbnail(p catalog.Product) (*lazyload.Model, bool) {
	loader, ok := m.loaders[rowKey(p, 0)]
	return loader, ok
}

// MountedThumbnails returns the number of mounted thumbnails.
func (m *InventoryModel) MountedThumbnails() int { return len(m.loaders) }

// ThumbnailCounts returns how many thumbnails loaded and failed.
func (m *InventoryModel) ThumbnailCounts() (loaded, failed int) {
	return m.thumbsLoaded, m.thumbsFailed
}

// Background returns the current background preference.
func (m *InventoryModel) Background() string { return m.prefs.Background() }
