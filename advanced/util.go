package advanced

import "math"

const Tolerance = 1e-6

// Pin picking and test comparisons are tolerance based. The fits themselves
// never use this; they only guard exact zeros.
func Equal(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }
func (p Point) Dot(q Point) float64   { return p.X*q.X + p.Y*q.Y }

func (p Point) LengthSquared() float64 { return p.Dot(p) }
func (p Point) Length() float64        { return math.Sqrt(p.LengthSquared()) }

func (p Point) DistanceSquared(q Point) float64 {
	return p.Sub(q).LengthSquared()
}

func (p Point) ApproxEqual(q Point) bool {
	return Equal(p.X, q.X) && Equal(p.Y, q.Y)
}

// Add appends a pin whose source and destination coincide, the way a freshly
// placed pin starts out.
func (pins *Pins) Add(p Point) {
	pins.Source = append(pins.Source, p)
	pins.Dest = append(pins.Dest, p)
}

func (pins *Pins) Remove(i int) {
	pins.Source = append(pins.Source[:i:i], pins.Source[i+1:]...)
	pins.Dest = append(pins.Dest[:i:i], pins.Dest[i+1:]...)
}

func (pins Pins) Len() int {
	return len(pins.Source)
}

// Nearest returns the index of the pin in list closest to p and within radius
// of it, or -1.
func Nearest(list []Point, p Point, radius float64) int {
	index := -1
	best := radius * radius
	for i, pin := range list {
		d := pin.DistanceSquared(p)
		if d <= best && (index == -1 || d < best) {
			best = d
			index = i
		}
	}
	return index
}

// clonePoints copies points so stored state never aliases a caller's slice.
func clonePoints(points []Point) []Point {
	return append([]Point(nil), points...)
}
