package scene

import (
	"github.com/osuushi/mls/advanced"
	"github.com/pkg/errors"
)

// Grid is a regularly tessellated plane centered on the origin, the sample
// domain of a typical deformation. Columns and Rows count vertices, not cells.
type Grid struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Columns int     `yaml:"columns"`
	Rows    int     `yaml:"rows"`
}

func DefaultGrid() Grid {
	return Grid{Width: 200, Height: 200, Columns: 20, Rows: 20}
}

func (g Grid) Validate() error {
	if !(g.Width > 0) || !(g.Height > 0) {
		return errors.Errorf("grid size must be positive, got %vx%v", g.Width, g.Height)
	}
	if g.Columns < 2 || g.Rows < 2 {
		return errors.Errorf("grid needs at least 2x2 vertices, got %dx%d", g.Columns, g.Rows)
	}
	return nil
}

func (g Grid) Len() int {
	return g.Columns * g.Rows
}

// Vertices returns the grid vertices in row-major order, starting at the
// minimum corner.
func (g Grid) Vertices() []advanced.Point {
	vertices := make([]advanced.Point, 0, g.Len())
	dx := g.Width / float64(g.Columns-1)
	dy := g.Height / float64(g.Rows-1)
	for iy := 0; iy < g.Rows; iy++ {
		for ix := 0; ix < g.Columns; ix++ {
			vertices = append(vertices, advanced.Point{
				X: float64(ix)*dx - g.Width/2,
				Y: float64(iy)*dy - g.Height/2,
			})
		}
	}
	return vertices
}

// Lines picks the grid lines out of a row-major vertex list, which may have
// been deformed: first every row, then every column.
func (g Grid) Lines(vertices []advanced.Point) [][]advanced.Point {
	if len(vertices) != g.Len() {
		return nil
	}
	lines := make([][]advanced.Point, 0, g.Rows+g.Columns)
	for iy := 0; iy < g.Rows; iy++ {
		lines = append(lines, vertices[iy*g.Columns:(iy+1)*g.Columns])
	}
	for ix := 0; ix < g.Columns; ix++ {
		line := make([]advanced.Point, g.Rows)
		for iy := range line {
			line[iy] = vertices[iy*g.Columns+ix]
		}
		lines = append(lines, line)
	}
	return lines
}

// Edges returns the index pairs of neighbouring vertices: horizontal edges
// first, then vertical ones.
func (g Grid) Edges() [][2]int {
	edges := make([][2]int, 0, (g.Columns-1)*g.Rows+g.Columns*(g.Rows-1))
	for iy := 0; iy < g.Rows; iy++ {
		for ix := 0; ix+1 < g.Columns; ix++ {
			i := iy*g.Columns + ix
			edges = append(edges, [2]int{i, i + 1})
		}
	}
	for iy := 0; iy+1 < g.Rows; iy++ {
		for ix := 0; ix < g.Columns; ix++ {
			i := iy*g.Columns + ix
			edges = append(edges, [2]int{i, i + g.Columns})
		}
	}
	return edges
}
