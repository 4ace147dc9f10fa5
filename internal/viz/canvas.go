package viz

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/fractalview/internal/raster"
)

// halfBlock shows the upper pixel as foreground and the lower one as
// background, giving two square-ish pixels per terminal cell.
const halfBlock = "▀"

// Canvas holds pixels for display in a terminal.
type Canvas struct {
	width, height int
	pix           []color.RGBA
}

func NewCanvas(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Canvas{width: w, height: h, pix: make([]color.RGBA, w*h)}
}

// CanvasFromRaster copies a finished render.
func CanvasFromRaster(r *raster.Raster) *Canvas {
	c := NewCanvas(r.Width(), r.Height())
	for i := range c.pix {
		c.pix[i] = r.Pixel(i)
	}
	return c
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Rows is the number of terminal lines the canvas occupies.
func (c *Canvas) Rows() int { return (c.height + 1) / 2 }

func (c *Canvas) Set(x, y int, col color.RGBA) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.pix[y*c.width+x] = col
}

// At returns opaque black outside the canvas.
func (c *Canvas) At(x, y int) color.RGBA {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return color.RGBA{A: 255}
	}
	return c.pix[y*c.width+x]
}

func (c *Canvas) Clear() {
	for i := range c.pix {
		c.pix[i] = color.RGBA{}
	}
}

func (c *Canvas) String() string {
	var sb strings.Builder
	for row := 0; row < c.Rows(); row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < c.width; x++ {
			top, bottom := c.At(x, 2*row), c.At(x, 2*row+1)
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hex(top))).
				Background(lipgloss.Color(hex(bottom)))
			sb.WriteString(style.Render(halfBlock))
		}
	}
	return sb.String()
}

func hex(c color.RGBA) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cf.Hex()
}
