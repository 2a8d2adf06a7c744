package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeRange(t *testing.T) {
	tests := []struct {
		name     string
		offset   int
		viewport int
		height   int
		overscan int
		count    int
		expected Range
	}{
		{
			name:     "top of a large list clamps the leading overscan",
			offset:   0,
			viewport: 500,
			height:   50,
			overscan: 5,
			count:    1000,
			expected: Range{Start: 0, End: 15},
		},
		{
			name:     "middle of a large list",
			offset:   5000,
			viewport: 500,
			height:   50,
			overscan: 5,
			count:    1000,
			expected: Range{Start: 95, End: 115},
		},
		{
			name:     "bottom clamps the trailing overscan",
			offset:   49500,
			viewport: 500,
			height:   50,
			overscan: 5,
			count:    1000,
			expected: Range{Start: 985, End: 999},
		},
		{
			name:     "partial row offsets round down",
			offset:   75,
			viewport: 100,
			height:   50,
			overscan: 0,
			count:    10,
			expected: Range{Start: 1, End: 3},
		},
		{
			name:     "collection shorter than viewport",
			offset:   0,
			viewport: 20,
			height:   3,
			overscan: 2,
			count:    4,
			expected: Range{Start: 0, End: 3},
		},
		{
			name:     "negative overscan behaves as zero",
			offset:   10,
			viewport: 10,
			height:   1,
			overscan: -3,
			count:    100,
			expected: Range{Start: 10, End: 20},
		},
		{
			name:     "offset beyond content anchors at the last item",
			offset:   10_000,
			viewport: 10,
			height:   1,
			overscan: 0,
			count:    5,
			expected: Range{Start: 4, End: 4},
		},
		{
			name:     "empty collection",
			viewport: 10,
			height:   1,
			overscan: 5,
			expected: emptyRange,
		},
		{
			name:     "unknown viewport",
			height:   1,
			overscan: 5,
			count:    10,
			expected: emptyRange,
		},
		{
			name:     "invalid item height",
			viewport: 10,
			overscan: 5,
			count:    10,
			expected: emptyRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRange(tt.offset, tt.viewport, tt.height, tt.overscan, tt.count)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestComputeRange_CoversExactWindow sweeps every valid offset and checks the
// range is in bounds, contiguous and contains the unoverscanned window.
func TestComputeRange_CoversExactWindow(t *testing.T) {
	for _, tc := range []struct{ count, height, viewport, overscan int }{
		{count: 1, height: 1, viewport: 1, overscan: 0},
		{count: 37, height: 3, viewport: 10, overscan: 2},
		{count: 200, height: 7, viewport: 40, overscan: 5},
		{count: 12, height: 4, viewport: 100, overscan: 1},
	} {
		contentHeight := tc.count * tc.height
		for offset := 0; offset <= maxScrollOffset(contentHeight, tc.viewport); offset++ {
			r := ComputeRange(offset, tc.viewport, tc.height, tc.overscan, tc.count)

			assert.False(t, r.Empty)
			assert.GreaterOrEqual(t, r.Start, 0)
			assert.LessOrEqual(t, r.End, tc.count-1)
			assert.LessOrEqual(t, r.Start, r.End)

			exactStart := offset / tc.height
			exactEnd := min(tc.count-1, (offset+tc.viewport)/tc.height)
			assert.True(t, r.Contains(exactStart), "offset %d: start %d not in %+v", offset, exactStart, r)
			assert.True(t, r.Contains(exactEnd), "offset %d: end %d not in %+v", offset, exactEnd, r)
		}
	}
}

func TestRange_LenAndContains(t *testing.T) {
	r := Range{Start: 3, End: 7}
	assert.Equal(t, 5, r.Len())
	assert.True(t, r.Contains(3))
	assert.True(t, r.Contains(7))
	assert.False(t, r.Contains(8))

	assert.Equal(t, 0, emptyRange.Len())
	assert.False(t, emptyRange.Contains(0))
}

func TestClampOffset(t *testing.T) {
	assert.Equal(t, 0, clampOffset(-5, 100, 10))
	assert.Equal(t, 90, clampOffset(500, 100, 10))
	assert.Equal(t, 42, clampOffset(42, 100, 10))
	assert.Equal(t, 0, clampOffset(3, 5, 10), "content shorter than viewport never scrolls")
}

func TestEndDetector(t *testing.T) {
	d := endDetector{threshold: 10}

	assert.False(t, d.observe(11), "above threshold")
	assert.True(t, d.observe(9), "crossing fires")
	assert.False(t, d.observe(5), "deeper does not fire again")
	assert.False(t, d.observe(0))
	assert.False(t, d.observe(10), "back at threshold clears")
	assert.True(t, d.observe(9), "second crossing fires")
}

func TestEndDetector_Rearm(t *testing.T) {
	d := endDetector{threshold: 10}
	assert.True(t, d.observe(0))

	d.rearm(3)
	assert.True(t, d.reached, "still below threshold")

	d.rearm(50)
	assert.False(t, d.reached)
	assert.True(t, d.observe(1))
}

func TestThumbGeometry(t *testing.T) {
	top, size := thumbGeometry(10, 100, 0)
	assert.Equal(t, 0, top)
	assert.Equal(t, 1, size)

	top, size = thumbGeometry(10, 20, 10)
	assert.Equal(t, 5, top)
	assert.Equal(t, 5, size)

	_, size = thumbGeometry(10, 5, 0)
	assert.Zero(t, size, "no thumb when everything fits")
}
