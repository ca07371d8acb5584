package advanced

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Some ad hoc pin and sample fixtures.

// The right triangle used as the regression baseline.
func TrianglePins() []Point {
	return []Point{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 0, Y: 10},
	}
}

// The triangle with the top pin stretched upwards.
func StretchedTrianglePins() []Point {
	return []Point{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 0, Y: 20},
	}
}

// Square corners plus an off-center interior pin, so the fits are
// overdetermined.
func SquarePins() []Point {
	return []Point{
		{X: -10, Y: -10},
		{X: 10, Y: -10},
		{X: 10, Y: 10},
		{X: -10, Y: 10},
		{X: 3, Y: -2},
	}
}

func CollinearPins() []Point {
	return []Point{
		{X: 0, Y: 0},
		{X: 5, Y: 0},
		{X: 10, Y: 0},
	}
}

// A regular grid of sample points centered on the origin, some of which
// coincide with SquarePins.
func GridSamples(columns, rows int, step float64) []Point {
	points := make([]Point, 0, columns*rows)
	for iy := 0; iy < rows; iy++ {
		for ix := 0; ix < columns; ix++ {
			points = append(points, Point{
				X: (float64(ix) - float64(columns-1)/2) * step,
				Y: (float64(iy) - float64(rows-1)/2) * step,
			})
		}
	}
	return points
}

// Samples scattered around SquarePins, none on a pin.
func ScatteredSamples() []Point {
	var points []Point
	for i := 0; i < 24; i++ {
		angle := 2 * math.Pi * float64(i) / 24
		radius := 2 + float64(i%5)*3.1
		points = append(points, Point{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)})
	}
	return points
}

func mapPoints(points []Point, f func(Point) Point) []Point {
	result := make([]Point, len(points))
	for i, p := range points {
		result[i] = f(p)
	}
	return result
}

func rotateScale(angle, scale float64, offset Point) func(Point) Point {
	m := Matrix2{math.Cos(angle), -math.Sin(angle), math.Sin(angle), math.Cos(angle)}.Scale(scale)
	return func(p Point) Point {
		return m.Apply(p).Add(offset)
	}
}

func assertPointInDelta(t *testing.T, expected, actual Point, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, delta, msgAndArgs...)
	assert.InDelta(t, expected.Y, actual.Y, delta, msgAndArgs...)
}

func strategies() []Strategy {
	return []Strategy{AffineFit{}, SimilarityFit{}, RigidFit{}}
}

// deformOne runs both phases for a single point.
func deformOne(t *testing.T, s Strategy, v Point, source, dest []Point) Point {
	t.Helper()
	c, err := s.ComputeClosure(v, source)
	if err != nil {
		t.Fatalf("%s closure for %v: %v", s.Kind(), v, err)
	}
	p, err := s.ApplyClosure(c, dest)
	if err != nil {
		t.Fatalf("%s apply for %v: %v", s.Kind(), v, err)
	}
	return p
}
