package lazyload

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/oklog/ulid/v2"

	"github.com/rshade/bizdeck/internal/logging"
	"github.com/rshade/bizdeck/internal/tui/visibility"
)

// defaultThreshold is the visible fraction that triggers reveal when none is configured.
const defaultThreshold = 0.1

// ErrNoSource is reported when a revealed model has no reference to load.
var ErrNoSource = errors.New("no resource reference")

// Source loads a resource reference and renders it into cells of the given size.
type Source interface {
	Load(ctx context.Context, ref string, width, height int) (string, error)
}

// SourceFunc adapts an ordinary function to Source.
type SourceFunc func(ctx context.Context, ref string, width, height int) (string, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context, ref string, width, height int) (string, error) {
	return f(ctx, ref, width, height)
}

// Options configures a Model.
type Options struct {
	// Src is the primary reference.
	Src string
	// Placeholder is a low-cost reference loaded eagerly at mount.
	Placeholder string
	// Fallback is tried once if Src fails.
	Fallback string
	// Alt is shown in place of a resource that failed for good.
	Alt string
	// Threshold is the visible fraction in [0, 1] that triggers reveal.
	// Nil selects 0.1; zero reveals on any overlap.
	Threshold *float64
	// Width and Height size the element in cells. When both are set, every
	// state renders at exactly that size.
	Width  int
	Height int
	// Timeout bounds each load. Zero means no limit beyond teardown.
	Timeout time.Duration
	// OnLoad runs once when a reference loads.
	OnLoad func(ref string)
	// OnError runs once when loading fails for good.
	OnError func(ref string, err error)
	// Context is the parent context; it carries the logger and trace ID.
	Context context.Context
}

// LoadedMsg carries the outcome of one load.
type LoadedMsg struct {
	ID      string
	Role    Role
	Ref     string
	Content string
	Err     error
}

// Model is a deferred, visibility-triggered resource element.
type Model struct {
	id     string
	target string
	obs    *visibility.Observer
	src    Source
	opts   Options

	// threshold is opts.Threshold resolved against the default.
	threshold float64

	phase  Phase
	status Status
	sub    *visibility.Subscription

	// attempt is the role of the in-flight primary or fallback load.
	attempt Role
	ref     string

	placeholder string
	content     string
	err         error

	ctx      context.Context
	cancel   context.CancelFunc
	torn     bool
	skeleton spinner.Model
}

// New creates an unmounted loader for the element named target.
func New(target string, obs *visibility.Observer, src Source, opts Options) *Model {
	threshold := defaultThreshold
	if opts.Threshold != nil {
		threshold = *opts.Threshold
	}
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	return &Model{
		id:        ulid.Make().String(),
		target:    target,
		obs:       obs,
		src:       src,
		opts:      opts,
		threshold: threshold,
		ctx:       ctx,
		cancel:    cancel,
		skeleton:  spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
}

// Init mounts the element: it starts observation, loads the placeholder and
// starts the skeleton spinner.
func (m *Model) Init() tea.Cmd {
	if m.torn || m.phase != PhaseUnobserved {
		return nil
	}
	m.phase = PhaseObserved

	cmds := []tea.Cmd{m.skeleton.Tick}
	if m.opts.Placeholder != "" {
		cmds = append(cmds, m.load(RolePlaceholder, m.opts.Placeholder))
	}

	sub, err := m.obs.Observe(m.target, m.threshold)
	if err != nil {
		// Without observation the element can never reveal; load it now.
		logging.FromContext(m.ctx).Warn().
			Str("component", "lazyload").
			Str("target", m.target).
			Err(err).
			Msg("observation unavailable, loading eagerly")
		cmds = append(cmds, m.reveal())
		return tea.Batch(cmds...)
	}
	m.sub = sub

	cmds = append(cmds, m.obs.Check())
	return tea.Batch(cmds...)
}

// Update handles visibility, load and spinner messages addressed to this model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.torn {
		return m, nil
	}

	switch msg := msg.(type) {
	case visibility.Msg:
		if m.phase == PhaseObserved && msg.Intersecting && m.sub.Matches(msg) {
			return m, m.reveal()
		}
	case LoadedMsg:
		if msg.ID == m.id {
			return m, m.handleLoaded(msg)
		}
	case spinner.TickMsg:
		if !m.status.Terminal() {
			var cmd tea.Cmd
			m.skeleton, cmd = m.skeleton.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// reveal performs the single-shot transition and starts the primary load.
func (m *Model) reveal() tea.Cmd {
	m.phase = PhaseRevealed
	m.sub.Release()

	logging.FromContext(m.ctx).Debug().
		Str("component", "lazyload").
		Str("target", m.target).
		Str("ref", m.opts.Src).
		Msg("revealed")

	if m.opts.Src == "" {
		return m.fail(RolePrimary, "", ErrNoSource)
	}
	m.attempt = RolePrimary
	m.ref = m.opts.Src
	return m.load(RolePrimary, m.opts.Src)
}

func (m *Model) handleLoaded(msg LoadedMsg) tea.Cmd {
	if msg.Role == RolePlaceholder {
		if msg.Err == nil && !m.status.Terminal() {
			m.placeholder = msg.Content
		}
		return nil
	}

	if m.status.Terminal() || msg.Role != m.attempt || msg.Ref != m.ref {
		return nil
	}

	if msg.Err != nil {
		return m.fail(msg.Role, msg.Ref, msg.Err)
	}

	m.status = StatusLoaded
	m.content = msg.Content
	if m.opts.OnLoad != nil {
		m.opts.OnLoad(msg.Ref)
	}
	return nil
}

// fail retries once with the fallback after a primary failure, otherwise
// settles in StatusErrored.
func (m *Model) fail(role Role, ref string, err error) tea.Cmd {
	log := logging.FromContext(m.ctx)

	if role == RolePrimary && m.opts.Fallback != "" {
		log.Debug().
			Str("component", "lazyload").
			Str("ref", ref).
			Str("fallback", m.opts.Fallback).
			Err(err).
			Msg("primary failed, trying fallback")
		m.attempt = RoleFallback
		m.ref = m.opts.Fallback
		return m.load(RoleFallback, m.opts.Fallback)
	}

	log.Debug().
		Str("component", "lazyload").
		Str("ref", ref).
		Err(err).
		Msg("load failed")
	m.status = StatusErrored
	m.err = err
	if m.opts.OnError != nil {
		m.opts.OnError(ref, err)
	}
	return nil
}

// load returns a command that loads ref off the update goroutine.
func (m *Model) load(role Role, ref string) tea.Cmd {
	ctx, id, src := m.ctx, m.id, m.src
	width, height, timeout := m.opts.Width, m.opts.Height, m.opts.Timeout

	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		content, err := src.Load(ctx, ref, width, height)
		return LoadedMsg{ID: id, Role: role, Ref: ref, Content: content, Err: err}
	}
}

// Teardown unmounts the element. Observation is released, the in-flight load
// is cancelled and no callback runs afterwards. Safe to call more than once.
func (m *Model) Teardown() {
	if m.torn {
		return
	}
	m.torn = true
	m.sub.Release()
	m.cancel()
}

// View renders the placeholder or skeleton until a terminal status, then the
// resource or the broken marker.
func (m *Model) View() string {
	switch m.status {
	case StatusLoaded:
		return m.box(m.content)
	case StatusErrored:
		return m.box(m.brokenMarker())
	case StatusPending:
	}

	if m.placeholder != "" {
		return m.box(m.placeholder)
	}
	return m.skeletonView()
}

func (m *Model) sized() bool {
	return m.opts.Width > 0 && m.opts.Height > 0
}

// box clips and pads s to the element size.
func (m *Model) box(s string) string {
	if !m.sized() {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > m.opts.Height {
		lines = lines[:m.opts.Height]
	}
	clip := lipgloss.NewStyle().Inline(true).MaxWidth(m.opts.Width)
	for i, line := range lines {
		lines[i] = clip.Render(line)
	}
	return lipgloss.NewStyle().
		Width(m.opts.Width).
		Height(m.opts.Height).
		Render(strings.Join(lines, "\n"))
}

func (m *Model) skeletonView() string {
	indicator := m.skeleton.View()
	if !m.sized() {
		return indicator + " loading"
	}
	return lipgloss.Place(m.opts.Width, m.opts.Height, lipgloss.Center, lipgloss.Center, indicator)
}

func (m *Model) brokenMarker() string {
	if m.opts.Alt != "" {
		return "✗ " + m.opts.Alt
	}
	return "✗ unavailable"
}

// ID returns the instance's unique identifier.
func (m *Model) ID() string { return m.id }

// Target returns the observed element name.
func (m *Model) Target() string { return m.target }

// Phase returns the observation phase.
func (m *Model) Phase() Phase { return m.phase }

// Status returns the load status.
func (m *Model) Status() Status { return m.status }

// Revealed reports whether the element has intersected the viewport.
func (m *Model) Revealed() bool { return m.phase == PhaseRevealed }

// Settled reports whether the element shows its final content. Until then the
// placeholder stays visible, even while the revealed resource is loading.
func (m *Model) Settled() bool { return m.status.Terminal() }

// Ref returns the reference of the current or last load attempt.
func (m *Model) Ref() string { return m.ref }

// Err returns the terminal load error, if any.
func (m *Model) Err() error { return m.err }

// Observing reports whether the model still holds an observation.
func (m *Model) Observing() bool { return m.sub != nil && !m.sub.Released() }

// TornDown reports whether Teardown has been called.
func (m *Model) TornDown() bool { return m.torn }
