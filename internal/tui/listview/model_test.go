package listview_test

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/bizdeck/internal/tui/listview"
)

func intPtr(v int) *int { return &v }

func numbered(n int) []string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf("item %d", i)
	}
	return items
}

func plainRender(item string, _ int, _ bool) string { return item }

func newList(t *testing.T, items []string, opts listview.Options[string]) *listview.VirtualListModel[string] {
	t.Helper()
	m, err := listview.New(items, plainRender, opts)
	require.NoError(t, err)
	return m
}

func TestNew_Defaults(t *testing.T) {
	m := newList(t, numbered(5), listview.Options[string]{ItemHeight: 1, ViewportHeight: 20, Width: 80})

	assert.Equal(t, 5, m.ItemCount())
	assert.Equal(t, 20, m.Height())
	assert.Equal(t, 80, m.Width())
	assert.Equal(t, 0, m.Selected())
	assert.Equal(t, 5, m.Overscan())
	assert.Equal(t, 5, m.ContentHeight())
	assert.Equal(t, 0, m.VisibleFrom())
	assert.Equal(t, 5, m.VisibleTo())
	assert.False(t, m.EndReached())
	assert.Nil(t, m.Init())
}

func TestNew_RejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		render listview.RenderFunc[string]
		opts   listview.Options[string]
		err    error
	}{
		{name: "zero item height", render: plainRender, opts: listview.Options[string]{}, err: listview.ErrInvalidItemHeight},
		{
			name:   "negative item height",
			render: plainRender,
			opts:   listview.Options[string]{ItemHeight: -2},
			err:    listview.ErrInvalidItemHeight,
		},
		{
			name:   "negative overscan",
			render: plainRender,
			opts:   listview.Options[string]{ItemHeight: 1, Overscan: intPtr(-1)},
			err:    listview.ErrInvalidOverscan,
		},
		{
			name:   "negative viewport",
			render: plainRender,
			opts:   listview.Options[string]{ItemHeight: 1, ViewportHeight: -1},
			err:    listview.ErrInvalidViewport,
		},
		{name: "nil render func", opts: listview.Options[string]{ItemHeight: 1}, err: listview.ErrNilRenderFunc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := listview.New(numbered(3), tt.render, tt.opts)
			require.ErrorIs(t, err, tt.err)
			assert.Nil(t, m)
		})
	}
}

func TestVisibleRange_LargeCollection(t *testing.T) {
	m := newList(t, numbered(1000), listview.Options[string]{
		ItemHeight:     50,
		ViewportHeight: 500,
		Overscan:       intPtr(5),
	})

	r := m.VisibleRange()
	assert.Equal(t, 0, r.Start)
	assert.Equal(t, 15, r.End)

	m.ScrollTo(5000)
	r = m.VisibleRange()
	assert.Equal(t, 95, r.Start)
	assert.Equal(t, 115, r.End)
	assert.Equal(t, 50_000, m.ContentHeight())
}

func TestLayout_PlacesItemsInsideSpacer(t *testing.T) {
	m := newList(t, numbered(100), listview.Options[string]{
		ItemHeight:     3,
		ViewportHeight: 9,
		Overscan:       intPtr(1),
		KeyFunc:        func(item string, _ int) string { return "sku-" + strings.TrimPrefix(item, "item ") },
	})
	m.ScrollTo(30)

	placements := m.Layout()
	require.Len(t, placements, m.VisibleRange().Len())

	for i, p := range placements {
		assert.Equal(t, m.VisibleRange().Start+i, p.Index)
		assert.Equal(t, p.Index*3, p.Top)
		assert.Equal(t, 3, p.Height)
		assert.Equal(t, fmt.Sprintf("sku-%d", p.Index), p.Key)
	}
}

func TestLayout_DefaultKeyIsIndex(t *testing.T) {
	m := newList(t, numbered(3), listview.Options[string]{ItemHeight: 1, ViewportHeight: 3})

	placements := m.Layout()
	require.Len(t, placements, 3)
	assert.Equal(t, "0", placements[0].Key)
	assert.Equal(t, "2", placements[2].Key)
}

func TestScrollTo_ClampsOffset(t *testing.T) {
	m := newList(t, numbered(100), listview.Options[string]{ItemHeight: 2, ViewportHeight: 20})

	m.ScrollTo(-10)
	assert.Equal(t, 0, m.ScrollOffset())

	m.ScrollTo(1_000)
	assert.Equal(t, 180, m.ScrollOffset())

	m.ScrollBy(-30)
	assert.Equal(t, 150, m.ScrollOffset())
}

func TestEndReached_FiresOncePerCrossing(t *testing.T) {
	calls := 0
	m := newList(t, numbered(100), listview.Options[string]{
		ItemHeight:          1,
		ViewportHeight:      10,
		EndReachedThreshold: 5,
		OnEndReached: func() tea.Cmd {
			calls++
			return nil
		},
	})

	// remaining = 100 - offset - 10
	m.ScrollTo(84) // remaining 6
	assert.Equal(t, 0, calls)

	m.ScrollTo(86) // remaining 4
	assert.Equal(t, 1, calls)
	assert.True(t, m.EndReached())

	m.ScrollTo(88)
	m.ScrollTo(90)
	assert.Equal(t, 1, calls, "no repeat while the condition persists")

	m.ScrollTo(85) // remaining 5, clears the flag
	assert.False(t, m.EndReached())
	assert.Equal(t, 1, calls)

	m.ScrollTo(86)
	assert.Equal(t, 2, calls, "second crossing fires again")
}

func TestEndReached_ReturnsCallbackCommand(t *testing.T) {
	type pageRequested struct{}
	m := newList(t, numbered(20), listview.Options[string]{
		ItemHeight:     1,
		ViewportHeight: 10,
		OnEndReached: func() tea.Cmd {
			return func() tea.Msg { return pageRequested{} }
		},
	})

	_, cmd := m.Update(listview.ScrollMsg{Offset: 10})
	require.NotNil(t, cmd)
	assert.IsType(t, pageRequested{}, cmd())
}

func TestEndReached_DefaultThresholdIsTwoItems(t *testing.T) {
	calls := 0
	m := newList(t, numbered(50), listview.Options[string]{
		ItemHeight:     4,
		ViewportHeight: 20,
		OnEndReached:   func() tea.Cmd { calls++; return nil },
	})

	// content 200, threshold 8
	m.ScrollTo(172) // remaining 8
	assert.Equal(t, 0, calls)
	m.ScrollTo(173) // remaining 7
	assert.Equal(t, 1, calls)
}

func TestSetItems_RearmsWithoutFiring(t *testing.T) {
	calls := 0
	m := newList(t, numbered(20), listview.Options[string]{
		ItemHeight:          1,
		ViewportHeight:      10,
		EndReachedThreshold: 5,
		OnEndReached:        func() tea.Cmd { calls++; return nil },
	})

	m.ScrollTo(10)
	assert.Equal(t, 1, calls)

	m.SetItems(numbered(40))
	assert.Equal(t, 1, calls, "replacing items never fires")
	assert.False(t, m.EndReached(), "more content re-arms")
	assert.Equal(t, 10, m.ScrollOffset())

	m.ScrollTo(26) // remaining 4
	assert.Equal(t, 2, calls)
}

func TestSetViewportHeight_RearmsWithoutFiring(t *testing.T) {
	calls := 0
	m := newList(t, numbered(40), listview.Options[string]{
		ItemHeight:          1,
		ViewportHeight:      10,
		EndReachedThreshold: 5,
		OnEndReached:        func() tea.Cmd { calls++; return nil },
	})

	m.ScrollTo(30) // remaining 0
	require.Equal(t, 1, calls)

	m.SetViewportHeight(4) // remaining 6
	assert.Equal(t, 1, calls, "resizing never fires")
	assert.False(t, m.EndReached(), "a shorter viewport re-arms")
	assert.Equal(t, 4, m.Height())
	assert.Equal(t, 30, m.ScrollOffset())
	assert.Equal(t, listview.Range{Start: 25, End: 39}, m.VisibleRange())

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 50})
	assert.Equal(t, 4, m.Height(), "a fixed viewport ignores measurement")

	m.ScrollTo(32) // remaining 4
	assert.Equal(t, 2, calls)
}

func TestRearmEndReached(t *testing.T) {
	calls := 0
	m := newList(t, numbered(20), listview.Options[string]{
		ItemHeight:          1,
		ViewportHeight:      10,
		EndReachedThreshold: 5,
		OnEndReached:        func() tea.Cmd { calls++; return nil },
	})

	m.ScrollTo(10)
	m.ScrollTo(10)
	require.Equal(t, 1, calls)

	m.RearmEndReached()
	assert.False(t, m.EndReached())
	m.ScrollTo(10)
	assert.Equal(t, 2, calls, "scrolling at the bottom notifies again after a re-arm")
}

func TestSetItems_ClampsSelectionAndOffset(t *testing.T) {
	m := newList(t, numbered(100), listview.Options[string]{ItemHeight: 1, ViewportHeight: 10})
	m.SetSelected(60)
	require.Equal(t, 60, m.Selected())
	require.Positive(t, m.ScrollOffset())

	m.SetItems(numbered(5))
	assert.Equal(t, 4, m.Selected())
	assert.Equal(t, 0, m.ScrollOffset())
	assert.Equal(t, 0, m.VisibleRange().Start)
	assert.Equal(t, 4, m.VisibleRange().End)

	m.SetItems(nil)
	assert.Equal(t, 0, m.Selected())
	assert.True(t, m.VisibleRange().Empty)
	assert.Nil(t, m.GetSelectedItem())
}

func TestEmptyList(t *testing.T) {
	calls := 0
	m := newList(t, nil, listview.Options[string]{
		ItemHeight:     1,
		ViewportHeight: 5,
		OnEndReached:   func() tea.Cmd { calls++; return nil },
	})

	assert.True(t, m.VisibleRange().Empty)
	assert.Nil(t, m.Layout())
	assert.Nil(t, m.ScrollTo(10))
	assert.Equal(t, 0, calls)
	assert.Equal(t, strings.Repeat("\n", 4), m.View())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Nil(t, cmd)
}

func TestUnknownViewportRendersNothing(t *testing.T) {
	m := newList(t, numbered(10), listview.Options[string]{ItemHeight: 1})

	assert.True(t, m.VisibleRange().Empty)
	assert.Empty(t, m.View())
}

func TestWindowSize_MeasuresViewport(t *testing.T) {
	m := newList(t, numbered(100), listview.Options[string]{ItemHeight: 2, Chrome: 4, Overscan: intPtr(0)})

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 24})
	assert.Equal(t, 20, m.Height())
	assert.Equal(t, 60, m.Width())
	assert.Equal(t, 0, m.VisibleRange().Start)
	assert.Equal(t, 10, m.VisibleRange().End)

	fixed := newList(t, numbered(100), listview.Options[string]{ItemHeight: 2, ViewportHeight: 6})
	fixed.Update(tea.WindowSizeMsg{Width: 60, Height: 24})
	assert.Equal(t, 6, fixed.Height(), "caller-supplied height wins")
}

func TestKeyNavigation(t *testing.T) {
	m := newList(t, numbered(100), listview.Options[string]{ItemHeight: 1, ViewportHeight: 10})

	for range 10 {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 10, m.Selected())
	assert.Equal(t, 1, m.ScrollOffset(), "selection kept in view")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 9, m.Selected())
	assert.Equal(t, 1, m.ScrollOffset())

	m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 19, m.Selected())
	assert.Equal(t, 11, m.ScrollOffset())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	assert.Equal(t, 99, m.Selected())
	assert.Equal(t, 90, m.ScrollOffset())

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 99, m.Selected(), "bottom boundary")

	m.Update(tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, m.Selected())
	assert.Equal(t, 0, m.ScrollOffset())

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.Selected(), "top boundary")
}

func TestMouseWheelScrolls(t *testing.T) {
	m := newList(t, numbered(100), listview.Options[string]{ItemHeight: 1, ViewportHeight: 10})

	m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, 6, m.ScrollOffset())

	m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.Equal(t, 3, m.ScrollOffset())

	m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, 3, m.ScrollOffset())
}

func TestView_RendersOnlyWindow(t *testing.T) {
	rendered := map[int]bool{}
	render := func(item string, index int, _ bool) string {
		rendered[index] = true
		return item + "\ndetail"
	}

	m, err := listview.New(numbered(1000), render, listview.Options[string]{
		ItemHeight:     2,
		ViewportHeight: 10,
		Width:          20,
	})
	require.NoError(t, err)

	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, fmt.Sprintf("%-20s", "item 0"), lines[0])
	assert.Equal(t, fmt.Sprintf("%-20s", "detail"), lines[1])
	assert.Equal(t, fmt.Sprintf("%-20s", "item 4"), lines[8])
	assert.Len(t, rendered, m.VisibleRange().Len(), "render func only sees the window")
	assert.Less(t, len(rendered), 20)
}

func TestView_PartialRowOffset(t *testing.T) {
	render := func(item string, _ int, _ bool) string { return item + "\ndetail\nextra line dropped" }
	m, err := listview.New(numbered(50), render, listview.Options[string]{ItemHeight: 2, ViewportHeight: 4})
	require.NoError(t, err)

	m.ScrollTo(3)
	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "detail", lines[0])
	assert.Equal(t, "item 2", lines[1])
	assert.Equal(t, "detail", lines[2])
	assert.Equal(t, "item 3", lines[3])
}

func TestView_TruncatesToWidth(t *testing.T) {
	render := func(_ string, _ int, _ bool) string { return strings.Repeat("x", 50) }
	m, err := listview.New(numbered(3), render, listview.Options[string]{ItemHeight: 1, ViewportHeight: 3, Width: 10})
	require.NoError(t, err)

	for _, line := range strings.Split(m.View(), "\n") {
		assert.Equal(t, strings.Repeat("x", 10), line)
	}
}

func TestView_Scrollbar(t *testing.T) {
	m := newList(t, numbered(100), listview.Options[string]{
		ItemHeight:     1,
		ViewportHeight: 10,
		Width:          12,
		Scrollbar:      true,
	})

	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, lines[0], "┃")
	assert.Contains(t, lines[9], "│")
	assert.True(t, strings.HasPrefix(lines[0], fmt.Sprintf("%-11s", "item 0")))
}

func TestSelectedRenderFlag(t *testing.T) {
	render := func(item string, _ int, selected bool) string {
		if selected {
			return "> " + item
		}
		return "  " + item
	}
	m, err := listview.New(numbered(5), render, listview.Options[string]{ItemHeight: 1, ViewportHeight: 5})
	require.NoError(t, err)

	m.SetSelected(2)
	lines := strings.Split(m.View(), "\n")
	assert.Equal(t, "> item 2", lines[2])
	assert.Equal(t, "  item 1", lines[1])

	item := m.GetSelectedItem()
	require.NotNil(t, item)
	assert.Equal(t, "item 2", *item)
}
