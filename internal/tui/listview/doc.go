// Package listview provides a windowed list virtualizer for Bubble Tea TUI applications.
//
// The list renders only the items whose rows intersect the viewport, plus an
// overscan margin on each edge. Key features:
//   - Fixed item height; the visible range is computed in O(1) per scroll update
//   - Absolute placement of each rendered item at index*itemHeight inside a
//     spacer the height of the full collection, so the scrollbar reflects the
//     true collection length
//   - Edge-triggered end-reached notification for incremental pagination
//   - Keyboard, mouse wheel and programmatic scrolling, none of it debounced
//
// Virtualization keeps rendering cost proportional to the viewport rather than
// to the collection, so lists with hundreds of thousands of rows stay responsive.
package listview
