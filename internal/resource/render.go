package resource

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	// Registered decoders for catalog images.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"
)

// upperHalf draws the top pixel in the foreground and the bottom in the background.
const upperHalf = "▀"

// ErrInvalidSize is returned for a non-positive cell size.
var ErrInvalidSize = errors.New("cell size must be positive")

// Render decodes data and draws it into width x height cells.
func Render(data []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", ErrInvalidSize
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}
	return renderImage(img, width, height), nil
}

// scale resamples img to width x 2*height pixels, two per cell.
func scale(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height*2))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// renderImage draws each vertical pixel pair of the scaled image as one
// half-block cell.
func renderImage(img image.Image, width, height int) string {
	dst := scale(img, width, height)

	rows := make([]string, height)
	for cy := range height {
		var sb strings.Builder
		for cx := range width {
			sb.WriteString(lipgloss.NewStyle().
				Foreground(hexColor(dst.RGBAAt(cx, cy*2))).
				Background(hexColor(dst.RGBAAt(cx, cy*2+1))).
				Render(upperHalf))
		}
		rows[cy] = sb.String()
	}
	return strings.Join(rows, "\n")
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
