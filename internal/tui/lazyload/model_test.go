package lazyload_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/bizdeck/internal/tui/lazyload"
	"github.com/rshade/bizdeck/internal/tui/visibility"
)

var errNotFound = errors.New("not found")

type fakeSource struct {
	results map[string]string
	calls   []string
}

func (f *fakeSource) Load(ctx context.Context, ref string, _, _ int) (string, error) {
	f.calls = append(f.calls, ref)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if content, ok := f.results[ref]; ok {
		return content, nil
	}
	return "", fmt.Errorf("%w: %s", errNotFound, ref)
}

type callbacks struct {
	loaded []string
	failed []string
	errs   []error
}

func (c *callbacks) options(opts lazyload.Options) lazyload.Options {
	opts.OnLoad = func(ref string) { c.loaded = append(c.loaded, ref) }
	opts.OnError = func(ref string, err error) {
		c.failed = append(c.failed, ref)
		c.errs = append(c.errs, err)
	}
	return opts
}

// pump runs cmd and feeds visibility and load messages back into m until the
// queue drains, returning the status observed after every update.
func pump(t *testing.T, m *lazyload.Model, cmd tea.Cmd) []lazyload.Status {
	t.Helper()

	var statuses []lazyload.Status
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 100, "message loop did not settle")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case visibility.Msg, lazyload.LoadedMsg:
			_, follow := m.Update(msg)
			statuses = append(statuses, m.Status())
			queue = append(queue, follow)
		}
	}
	return statuses
}

// offscreen returns an observer whose root does not cover target "thumb".
func offscreen() *visibility.Observer {
	obs := visibility.NewObserver(0)
	obs.SetRoot(visibility.Rect{Top: 0, Height: 10})
	obs.SetBounds("thumb", visibility.Rect{Top: 40, Height: 4})
	return obs
}

func scrollTo(obs *visibility.Observer, top int) tea.Cmd {
	obs.SetRoot(visibility.Rect{Top: top, Height: 10})
	return obs.Check()
}

func TestModel_DefersLoadUntilIntersecting(t *testing.T) {
	obs := offscreen()
	src := &fakeSource{results: map[string]string{"a.png": "A"}}
	var cb callbacks
	m := lazyload.New("thumb", obs, src, cb.options(lazyload.Options{Src: "a.png"}))

	assert.Equal(t, lazyload.PhaseUnobserved, m.Phase())
	pump(t, m, m.Init())

	assert.Equal(t, lazyload.PhaseObserved, m.Phase())
	assert.True(t, m.Observing())
	assert.Empty(t, src.calls, "nothing loads before intersection")
	assert.Contains(t, m.View(), "loading")

	pump(t, m, scrollTo(obs, 36))

	assert.True(t, m.Revealed())
	assert.False(t, m.Observing(), "observation released after reveal")
	assert.Equal(t, 0, obs.Observed())
	assert.Equal(t, lazyload.StatusLoaded, m.Status())
	assert.True(t, m.Settled())
	assert.Equal(t, "A", m.View())
	assert.Equal(t, []string{"a.png"}, cb.loaded)
	assert.Empty(t, cb.failed)
}

func TestModel_RevealIsSingleShot(t *testing.T) {
	obs := offscreen()
	src := &fakeSource{results: map[string]string{"a.png": "A"}}
	m := lazyload.New("thumb", obs, src, lazyload.Options{Src: "a.png"})

	pump(t, m, m.Init())
	pump(t, m, scrollTo(obs, 38))
	require.True(t, m.Revealed())

	assert.Nil(t, scrollTo(obs, 0), "released target is no longer checked")
	m.Update(visibility.Msg{Target: "thumb", Intersecting: false})

	assert.Equal(t, lazyload.PhaseRevealed, m.Phase())
	assert.Equal(t, []string{"a.png"}, src.calls)
}

func TestModel_FallbackLoadsAfterPrimaryFailure(t *testing.T) {
	obs := offscreen()
	src := &fakeSource{results: map[string]string{"b.png": "B"}}
	var cb callbacks
	m := lazyload.New("thumb", obs, src, cb.options(lazyload.Options{Src: "a.png", Fallback: "b.png"}))

	pump(t, m, m.Init())
	statuses := pump(t, m, scrollTo(obs, 38))

	assert.NotContains(t, statuses, lazyload.StatusErrored, "primary failure is never visible as errored")
	assert.Equal(t, lazyload.StatusLoaded, m.Status())
	assert.Equal(t, "B", m.View())
	assert.Equal(t, "b.png", m.Ref())
	assert.Equal(t, []string{"a.png", "b.png"}, src.calls)
	assert.Equal(t, []string{"b.png"}, cb.loaded)
	assert.Empty(t, cb.failed)
}

func TestModel_NoFallbackEndsErroredOnce(t *testing.T) {
	obs := offscreen()
	src := &fakeSource{}
	var cb callbacks
	m := lazyload.New("thumb", obs, src, cb.options(lazyload.Options{Src: "a.png", Alt: "product photo"}))

	pump(t, m, m.Init())
	pump(t, m, scrollTo(obs, 38))

	assert.Equal(t, lazyload.StatusErrored, m.Status())
	require.ErrorIs(t, m.Err(), errNotFound)
	assert.Equal(t, []string{"a.png"}, cb.failed)
	require.Len(t, cb.errs, 1)
	assert.Empty(t, cb.loaded)
	assert.Contains(t, m.View(), "product photo")

	// A duplicate delivery cannot leave the terminal state or call back again.
	m.Update(lazyload.LoadedMsg{ID: m.ID(), Role: lazyload.RolePrimary, Ref: "a.png", Content: "late"})
	assert.Equal(t, lazyload.StatusErrored, m.Status())
	assert.Len(t, cb.failed, 1)
	assert.Empty(t, cb.loaded)
}

func TestModel_FallbackFailureIsTerminal(t *testing.T) {
	obs := offscreen()
	src := &fakeSource{}
	var cb callbacks
	m := lazyload.New("thumb", obs, src, cb.options(lazyload.Options{Src: "a.png", Fallback: "b.png"}))

	pump(t, m, m.Init())
	pump(t, m, scrollTo(obs, 38))

	assert.Equal(t, lazyload.StatusErrored, m.Status())
	assert.Equal(t, []string{"a.png", "b.png"}, src.calls, "one fallback attempt, no further retries")
	assert.Equal(t, []string{"b.png"}, cb.failed)
	assert.Contains(t, m.View(), "unavailable")
}

func TestModel_EmptySourceUsesFallback(t *testing.T) {
	obs := offscreen()
	src := &fakeSource{results: map[string]string{"b.png": "B"}}
	m := lazyload.New("thumb", obs, src, lazyload.Options{Fallback: "b.png"})

	pump(t, m, m.Init())
	pump(t, m, scrollTo(obs, 38))

	assert.Equal(t, lazyload.StatusLoaded, m.Status())
	assert.Equal(t, []string{"b.png"}, src.calls)
}

func TestModel_PlaceholderShownUntilSettled(t *testing.T) {
	obs := offscreen()
	src := &fakeSource{results: map[string]string{"a-small.png": "tiny", "a.png": "A"}}
	m := lazyload.New("thumb", obs, src, lazyload.Options{Src: "a.png", Placeholder: "a-small.png"})

	pump(t, m, m.Init())
	assert.Equal(t, []string{"a-small.png"}, src.calls, "placeholder loads eagerly")
	assert.Equal(t, "tiny", m.View())

	// Reveal, but hold the primary load in flight.
	m.Update(visibility.Msg{Target: "thumb", Intersecting: true})
	assert.False(t, m.Revealed(), "message from an unknown registration is ignored")

	check := scrollTo(obs, 38)
	require.NotNil(t, check)
	_, loadCmd := m.Update(check())
	require.True(t, m.Revealed())
	require.NotNil(t, loadCmd)

	assert.False(t, m.Settled())
	assert.Equal(t, "tiny", m.View(), "placeholder stays up while the resource loads")

	pump(t, m, loadCmd)
	assert.Equal(t, "A", m.View())
}

func TestModel_TeardownBeforeIntersection(t *testing.T) {
	obs := offscreen()
	src := &fakeSource{results: map[string]string{"a.png": "A"}}
	var cb callbacks
	m := lazyload.New("thumb", obs, src, cb.options(lazyload.Options{Src: "a.png"}))

	pump(t, m, m.Init())
	m.Teardown()
	m.Teardown()

	assert.True(t, m.TornDown())
	assert.Equal(t, 0, obs.Observed(), "observation released on teardown")
	assert.Nil(t, scrollTo(obs, 38))

	m.Update(visibility.Msg{Target: "thumb", Intersecting: true})
	assert.False(t, m.Revealed())
	assert.Empty(t, src.calls)
	assert.Empty(t, cb.loaded)
	assert.Empty(t, cb.failed)
}

func TestModel_TeardownDuringLoad(t *testing.T) {
	obs := offscreen()
	src := &fakeSource{results: map[string]string{"a.png": "A"}}
	var cb callbacks
	m := lazyload.New("thumb", obs, src, cb.options(lazyload.Options{Src: "a.png", Fallback: "b.png"}))

	pump(t, m, m.Init())
	msg := scrollTo(obs, 38)()
	_, loadCmd := m.Update(msg)
	require.NotNil(t, loadCmd)

	m.Teardown()
	result := loadCmd()
	loaded, ok := result.(lazyload.LoadedMsg)
	require.True(t, ok)
	require.ErrorIs(t, loaded.Err, context.Canceled, "in-flight load is cancelled")

	_, follow := m.Update(loaded)
	assert.Nil(t, follow, "no fallback attempt after teardown")
	assert.Equal(t, lazyload.StatusPending, m.Status())
	assert.Empty(t, cb.loaded)
	assert.Empty(t, cb.failed)
}

func TestModel_IgnoresOtherInstancesMessages(t *testing.T) {
	obs := offscreen()
	src := &fakeSource{results: map[string]string{"a.png": "A"}}
	m := lazyload.New("thumb", obs, src, lazyload.Options{Src: "a.png"})
	other := lazyload.New("other", obs, src, lazyload.Options{Src: "a.png"})
	assert.NotEqual(t, m.ID(), other.ID())

	pump(t, m, m.Init())
	m.Update(lazyload.LoadedMsg{ID: other.ID(), Role: lazyload.RolePrimary, Ref: "a.png", Content: "X"})
	assert.Equal(t, lazyload.StatusPending, m.Status())
}

func TestModel_ThresholdGatesReveal(t *testing.T) {
	obs := offscreen()
	src := &fakeSource{results: map[string]string{"a.png": "A"}}
	threshold := 0.75
	m := lazyload.New("thumb", obs, src, lazyload.Options{Src: "a.png", Threshold: &threshold})

	pump(t, m, m.Init())

	pump(t, m, scrollTo(obs, 32)) // two of four rows visible
	assert.False(t, m.Revealed())

	pump(t, m, scrollTo(obs, 33)) // three of four
	assert.True(t, m.Revealed())
}

func TestModel_ZeroThresholdRevealsOnAnyOverlap(t *testing.T) {
	newTall := func(threshold *float64) (*lazyload.Model, *visibility.Observer) {
		obs := visibility.NewObserver(0)
		obs.SetRoot(visibility.Rect{Top: 0, Height: 10})
		obs.SetBounds("thumb", visibility.Rect{Top: 40, Height: 20})
		src := &fakeSource{results: map[string]string{"a.png": "A"}}
		return lazyload.New("thumb", obs, src, lazyload.Options{Src: "a.png", Threshold: threshold}), obs
	}

	// one of twenty rows visible: below the default fraction
	byDefault, obs := newTall(nil)
	pump(t, byDefault, byDefault.Init())
	pump(t, byDefault, scrollTo(obs, 31))
	assert.False(t, byDefault.Revealed())

	zero := 0.0
	anyOverlap, obs := newTall(&zero)
	pump(t, anyOverlap, anyOverlap.Init())
	pump(t, anyOverlap, scrollTo(obs, 31))
	assert.True(t, anyOverlap.Revealed())
}

func TestModel_ObservationFailureLoadsEagerly(t *testing.T) {
	obs := offscreen()
	_, err := obs.Observe("thumb", 0.1)
	require.NoError(t, err)

	src := &fakeSource{results: map[string]string{"a.png": "A"}}
	m := lazyload.New("thumb", obs, src, lazyload.Options{Src: "a.png"})
	pump(t, m, m.Init())

	assert.True(t, m.Revealed())
	assert.Equal(t, lazyload.StatusLoaded, m.Status())
}

func TestModel_SizedViewsKeepDimensions(t *testing.T) {
	obs := offscreen()
	src := &fakeSource{results: map[string]string{"a.png": strings.Repeat("#", 20) + "\n##\n##\n##"}}
	m := lazyload.New("thumb", obs, src, lazyload.Options{Src: "a.png", Width: 6, Height: 2})

	pump(t, m, m.Init())
	assertSize(t, m.View(), 6, 2)

	pump(t, m, scrollTo(obs, 38))
	require.Equal(t, lazyload.StatusLoaded, m.Status())
	assertSize(t, m.View(), 6, 2)
}

func assertSize(t *testing.T, view string, width, height int) {
	t.Helper()
	assert.Equal(t, width, lipgloss.Width(view), "view: %q", view)
	assert.Equal(t, height, lipgloss.Height(view), "view: %q", view)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "observed", lazyload.PhaseObserved.String())
	assert.Equal(t, "errored", lazyload.StatusErrored.String())
	assert.False(t, lazyload.StatusPending.Terminal())
	assert.True(t, lazyload.StatusLoaded.Terminal())
}
