package listview

import "github.com/charmbracelet/lipgloss"

//nolint:gochecknoglobals // Lipgloss styles are immutable after construction.
var (
	scrollTrackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	scrollThumbStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// thumbGeometry returns the scrollbar thumb's top row and size. The thumb covers
// the share of the content the viewport shows, so it reflects the full
// collection rather than the rendered window. A size of zero means no thumb.
func thumbGeometry(viewportHeight, contentHeight, offset int) (int, int) {
	if viewportHeight <= 0 || contentHeight <= viewportHeight {
		return 0, 0
	}

	size := max(1, viewportHeight*viewportHeight/contentHeight)
	top := offset * viewportHeight / contentHeight
	if top+size > viewportHeight {
		top = viewportHeight - size
	}
	return top, size
}

// renderScrollbar returns one cell per viewport row.
func renderScrollbar(viewportHeight, contentHeight, offset int) []string {
	cells := make([]string, viewportHeight)
	top, size := thumbGeometry(viewportHeight, contentHeight, offset)
	if size == 0 {
		for i := range cells {
			cells[i] = " "
		}
		return cells
	}

	track := scrollTrackStyle.Render("│")
	thumb := scrollThumbStyle.Render("┃")
	for i := range cells {
		if i >= top && i < top+size {
			cells[i] = thumb
		} else {
			cells[i] = track
		}
	}
	return cells
}
