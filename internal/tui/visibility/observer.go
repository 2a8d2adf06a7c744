package visibility

import (
	"errors"
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
)

// Observation errors.
var (
	ErrInvalidThreshold = errors.New("threshold must be between 0 and 1")
	ErrAlreadyObserved  = errors.New("target is already observed")
	ErrEmptyTarget      = errors.New("target cannot be empty")
)

// Rect is a vertical span in content rows.
type Rect struct {
	Top    int
	Height int
}

// Bottom returns the first row below the rect.
func (r Rect) Bottom() int {
	return r.Top + r.Height
}

// overlap returns the number of rows shared by a and b.
func overlap(a, b Rect) int {
	top := max(a.Top, b.Top)
	bottom := min(a.Bottom(), b.Bottom())
	return max(0, bottom-top)
}

// Msg reports a change in a target's intersection with the root.
type Msg struct {
	Target       string
	Seq          uint64
	Ratio        float64
	Intersecting bool
}

// registration is the observer's record of one observed target.
type registration struct {
	seq       uint64
	threshold float64
	reported  bool
	last      bool
}

// Observer tracks element geometry against a viewport.
type Observer struct {
	root    Rect
	margin  int
	bounds  map[string]Rect
	entries map[string]*registration
	seq     uint64
}

// NewObserver creates an observer whose root is grown by rootMargin rows on
// each edge. A negative margin shrinks the root.
func NewObserver(rootMargin int) *Observer {
	return &Observer{
		margin:  rootMargin,
		bounds:  make(map[string]Rect),
		entries: make(map[string]*registration),
	}
}

// SetRoot updates the viewport, in content coordinates.
func (o *Observer) SetRoot(root Rect) {
	o.root = root
}

// Root returns the current viewport.
func (o *Observer) Root() Rect {
	return o.root
}

// SetBounds records the geometry of target. Bounds may be set before or after
// the target is observed.
func (o *Observer) SetBounds(target string, bounds Rect) {
	o.bounds[target] = bounds
}

// ClearBounds forgets the geometry of target; it is then treated as not laid out.
func (o *Observer) ClearBounds(target string) {
	delete(o.bounds, target)
}

// Observe registers target with a visibility threshold in [0, 1].
// The returned Subscription must be released when the target unmounts.
func (o *Observer) Observe(target string, threshold float64) (*Subscription, error) {
	if target == "" {
		return nil, ErrEmptyTarget
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}
	if _, ok := o.entries[target]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyObserved, target)
	}

	o.seq++
	o.entries[target] = &registration{seq: o.seq, threshold: threshold}
	return &Subscription{observer: o, target: target, seq: o.seq}, nil
}

// Observed returns the number of live registrations.
func (o *Observer) Observed() int {
	return len(o.entries)
}

// Ratio returns the fraction of target's height inside the grown root.
// Targets without bounds or with zero height report zero.
func (o *Observer) Ratio(target string) float64 {
	b, ok := o.bounds[target]
	if !ok || b.Height <= 0 {
		return 0
	}
	return float64(o.overlap(b)) / float64(b.Height)
}

func (o *Observer) overlap(b Rect) int {
	grown := Rect{Top: o.root.Top - o.margin, Height: o.root.Height + 2*o.margin}
	return overlap(b, grown)
}

// Check evaluates every live registration and returns a command delivering a
// Msg for each target whose intersecting state changed since the last check.
// The first check of a registration always reports. Returns nil when nothing
// changed.
func (o *Observer) Check() tea.Cmd {
	targets := make([]string, 0, len(o.entries))
	for target := range o.entries {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	var cmds []tea.Cmd
	for _, target := range targets {
		reg := o.entries[target]
		msg := o.evaluate(target, reg.threshold)
		msg.Seq = reg.seq
		if reg.reported && reg.last == msg.Intersecting {
			continue
		}
		reg.reported = true
		reg.last = msg.Intersecting
		cmds = append(cmds, deliver(msg))
	}

	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

func (o *Observer) evaluate(target string, threshold float64) Msg {
	b, ok := o.bounds[target]
	if !ok || b.Height <= 0 {
		return Msg{Target: target}
	}
	shared := o.overlap(b)
	ratio := float64(shared) / float64(b.Height)
	return Msg{
		Target:       target,
		Ratio:        ratio,
		Intersecting: shared > 0 && ratio >= threshold,
	}
}

func deliver(msg Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Subscription is the handle for one observed target.
type Subscription struct {
	observer *Observer
	target   string
	seq      uint64
	released bool
}

// Target returns the observed target name.
func (s *Subscription) Target() string {
	return s.target
}

// Matches reports whether msg was produced by this registration. A message
// queued for an earlier registration of the same target does not match.
func (s *Subscription) Matches(msg Msg) bool {
	return s != nil && msg.Target == s.target && msg.Seq == s.seq
}

// Release stops observing the target. It is safe to call more than once.
func (s *Subscription) Release() {
	if s == nil || s.released {
		return
	}
	s.released = true
	if reg, ok := s.observer.entries[s.target]; ok && reg.seq == s.seq {
		delete(s.observer.entries, s.target)
	}
}

// Released reports whether Release has been called.
func (s *Subscription) Released() bool {
	return s == nil || s.released
}
