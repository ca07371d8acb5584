// Package render draws a deformation as two panels: the undeformed samples
// with the source pins on the left, and the deformed samples with the
// destination pins on the right.
package render

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/osuushi/mls/advanced"
	"github.com/osuushi/mls/internal/scene"
	"github.com/pkg/errors"
)

var (
	Background = color.RGBA{10, 20, 30, 255}
	SourcePin  = color.RGBA{255, 0, 0, 255}
	DestPin    = color.RGBA{0, 255, 0, 255}
	SourceMesh = color.RGBA{120, 120, 120, 255}
	DestMesh   = color.RGBA{0, 255, 255, 255}
)

// Frame is one picture of a deformation. Grid may be nil, in which case the
// samples are drawn as dots instead of a mesh.
type Frame struct {
	Grid     *scene.Grid
	Source   []advanced.Point
	Deformed []advanced.Point
	Pins     advanced.Pins
}

type Options struct {
	// Pixels per unit.
	Scale     float64
	Padding   int
	LineWidth float64
	PinRadius float64
	// Neither panel grows past MaxSide pixels; Scale is reduced instead.
	MaxSide int
	// Heat colors the deformed samples by how far they moved, from cyan at
	// rest to red for the largest displacement.
	Heat bool
}

func DefaultOptions() Options {
	return Options{
		Scale:     2,
		Padding:   40,
		LineWidth: 1,
		PinRadius: 4,
		MaxSide:   2048,
	}
}

// viewport maps deformation coordinates into one panel, with y pointing up.
type viewport struct {
	minX, minY float64
	scale      float64
	padding    float64
	height     float64
	offsetX    float64
}

func (v viewport) toPixel(p advanced.Point) (float64, float64) {
	x := v.offsetX + v.padding + v.scale*(p.X-v.minX)
	y := v.height - (v.padding + v.scale*(p.Y-v.minY))
	return x, y
}

func layout(frame Frame, opts Options) (left, right viewport, width, height int) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, list := range [][]advanced.Point{frame.Source, frame.Deformed, frame.Pins.Source, frame.Pins.Dest} {
		for _, p := range list {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}
	// Keep a single point, or a line, from collapsing the panel.
	spanX := math.Max(maxX-minX, 1)
	spanY := math.Max(maxY-minY, 1)

	scale := opts.Scale
	if opts.MaxSide > 0 {
		available := float64(opts.MaxSide - 2*opts.Padding)
		if available > 0 {
			scale = math.Min(scale, available/math.Max(spanX, spanY))
		}
	}

	panelWidth := pixels(scale*spanX) + opts.Padding*2
	height = pixels(scale*spanY) + opts.Padding*2
	left = viewport{
		minX:    minX,
		minY:    minY,
		scale:   scale,
		padding: float64(opts.Padding),
		height:  float64(height),
	}
	right = left
	right.offsetX = float64(panelWidth)
	return left, right, panelWidth * 2, height
}

// pixels rounds up, ignoring rounding noise from the deformation.
func pixels(length float64) int {
	return int(math.Ceil(length - advanced.Tolerance))
}

func Draw(frame Frame, opts Options) image.Image {
	left, right, width, height := layout(frame, opts)
	c := gg.NewContext(width, height)
	c.SetColor(Background)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()

	// Divider between the panels
	c.SetColor(SourceMesh)
	c.SetLineWidth(1)
	c.MoveTo(right.offsetX, 0)
	c.LineTo(right.offsetX, float64(height))
	c.Stroke()

	c.SetLineWidth(opts.LineWidth)
	drawSamples(c, left, frame.Grid, frame.Source, SourceMesh)
	if opts.Heat && len(frame.Source) == len(frame.Deformed) {
		drawHeat(c, right, frame.Grid, frame.Deformed, displacements(frame.Source, frame.Deformed))
	} else {
		drawSamples(c, right, frame.Grid, frame.Deformed, DestMesh)
	}

	// Pins go on top. The left panel shows where each pin is being dragged.
	for i, p := range frame.Pins.Source {
		if i < len(frame.Pins.Dest) && !p.ApproxEqual(frame.Pins.Dest[i]) {
			x0, y0 := left.toPixel(p)
			x1, y1 := left.toPixel(frame.Pins.Dest[i])
			c.SetColor(DestPin)
			c.DrawLine(x0, y0, x1, y1)
			c.Stroke()
		}
	}
	drawPins(c, left, frame.Pins.Source, SourcePin, opts.PinRadius)
	drawPins(c, right, frame.Pins.Dest, DestPin, opts.PinRadius)

	return c.Image()
}

func drawSamples(c *gg.Context, v viewport, grid *scene.Grid, points []advanced.Point, col color.Color) {
	c.SetColor(col)
	var lines [][]advanced.Point
	if grid != nil {
		lines = grid.Lines(points)
	}
	if lines == nil {
		for _, p := range points {
			x, y := v.toPixel(p)
			c.DrawCircle(x, y, 1.5)
		}
		c.Fill()
		return
	}
	for _, line := range lines {
		for i, p := range line {
			x, y := v.toPixel(p)
			if i == 0 {
				c.MoveTo(x, y)
			} else {
				c.LineTo(x, y)
			}
		}
		c.Stroke()
	}
}

// displacements returns each point's displacement relative to the largest
// one, in [0, 1].
func displacements(source, deformed []advanced.Point) []float64 {
	heat := make([]float64, len(deformed))
	var largest float64
	for i := range deformed {
		heat[i] = deformed[i].Sub(source[i]).Length()
		largest = math.Max(largest, heat[i])
	}
	if largest > 0 {
		for i := range heat {
			heat[i] /= largest
		}
	}
	return heat
}

// heatColor runs from cyan through green and yellow to red.
func heatColor(t float64) color.RGBA {
	r, g, b := colorful.Hsv(180*(1-t), 0.8, 1).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func drawHeat(c *gg.Context, v viewport, grid *scene.Grid, points []advanced.Point, heat []float64) {
	if grid == nil || grid.Len() != len(points) {
		for i, p := range points {
			x, y := v.toPixel(p)
			c.SetColor(heatColor(heat[i]))
			c.DrawCircle(x, y, 1.5)
			c.Fill()
		}
		return
	}
	// Each edge takes the color of its more displaced end.
	for _, edge := range grid.Edges() {
		a, b := edge[0], edge[1]
		x0, y0 := v.toPixel(points[a])
		x1, y1 := v.toPixel(points[b])
		c.SetColor(heatColor(math.Max(heat[a], heat[b])))
		c.DrawLine(x0, y0, x1, y1)
		c.Stroke()
	}
}

func drawPins(c *gg.Context, v viewport, pins []advanced.Point, col color.Color, radius float64) {
	c.SetColor(col)
	for _, p := range pins {
		x, y := v.toPixel(p)
		c.DrawCircle(x, y, radius)
		c.Fill()
	}
}

func SavePNG(path string, frame Frame, opts Options) error {
	if err := gg.SavePNG(path, Draw(frame, opts)); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}

// Echo prints a PNG to the terminal. This only shows an image in terminals
// that speak the iTerm image protocol.
func Echo(path string, w io.Writer) error {
	if err := imgcat.CatFile(path, w); err != nil {
		return errors.Wrapf(err, "echoing %s", path)
	}
	return nil
}
