package advanced

import "fmt"

// MinPins is the smallest pin count that determines a 2D transform.
const MinPins = 3

type Point struct {
	X float64
	Y float64
}

// Pins holds the two parallel pin arrays. Index i in Source corresponds to
// index i in Dest.
type Pins struct {
	Source []Point
	Dest   []Point
}

type Matrix2 struct {
	A, B float64
	C, D float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

func (m Matrix2) String() string {
	return fmt.Sprintf("[[%g %g] [%g %g]]", m.A, m.B, m.C, m.D)
}
