package listview

// Range is an inclusive span of item indices selected for rendering.
// When Empty is true, Start and End carry no meaning.
type Range struct {
	Start int
	End   int
	Empty bool
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	if r.Empty {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether index lies inside the range.
func (r Range) Contains(index int) bool {
	return !r.Empty && index >= r.Start && index <= r.End
}

// emptyRange is returned whenever nothing can be rendered.
//
//nolint:gochecknoglobals // Immutable sentinel value.
var emptyRange = Range{Empty: true}

// ComputeRange returns the items to render for a scroll position.
//
//	start = max(0, floor(scrollOffset/itemHeight) - overscan)
//	end   = min(count-1, floor((scrollOffset+viewportHeight)/itemHeight) + overscan)
//
// An empty collection, a non-positive item height or an unknown (non-positive)
// viewport height all produce an empty range. Negative overscan is treated as zero.
func ComputeRange(scrollOffset, viewportHeight, itemHeight, overscan, count int) Range {
	if count <= 0 || itemHeight <= 0 || viewportHeight <= 0 {
		return emptyRange
	}
	if overscan < 0 {
		overscan = 0
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}

	start := scrollOffset/itemHeight - overscan
	if start < 0 {
		start = 0
	}

	end := (scrollOffset+viewportHeight)/itemHeight + overscan
	if end > count-1 {
		end = count - 1
	}

	// An offset past the content (possible only before clamping) still yields
	// a contiguous, non-empty window anchored at the last item.
	if start > end {
		start = end
	}

	return Range{Start: start, End: end}
}

// maxScrollOffset returns the largest offset that keeps the viewport filled.
func maxScrollOffset(contentHeight, viewportHeight int) int {
	limit := contentHeight - viewportHeight
	if limit < 0 {
		return 0
	}
	return limit
}

// clampOffset bounds offset to [0, maxScrollOffset].
func clampOffset(offset, contentHeight, viewportHeight int) int {
	if offset < 0 {
		return 0
	}
	if limit := maxScrollOffset(contentHeight, viewportHeight); offset > limit {
		return limit
	}
	return offset
}
