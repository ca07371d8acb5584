package advanced

import (
	"math"

	"github.com/pkg/errors"
)

const (
	DefaultAlpha = 1.0
	// DefaultCoincidentWeight stands in for an infinite weight when a sample
	// point sits exactly on a pin. It is finite so sums and centroids stay
	// finite.
	DefaultCoincidentWeight = 1e5
)

// Weighting is the inverse distance weight 1/d^(2*Alpha), where d is the
// distance between a pin and the sample point.
type Weighting struct {
	Alpha float64
	// Coincident is returned when the pin and the sample point are equal.
	Coincident float64
}

func DefaultWeighting() Weighting {
	return Weighting{Alpha: DefaultAlpha, Coincident: DefaultCoincidentWeight}
}

func (w Weighting) Validate() error {
	if !(w.Alpha > 0) || math.IsInf(w.Alpha, 0) {
		return errors.Wrapf(ErrInvalidWeighting, "alpha must be positive and finite, got %v", w.Alpha)
	}
	if !(w.Coincident > 0) || math.IsInf(w.Coincident, 0) {
		return errors.Wrapf(ErrInvalidWeighting, "coincident weight must be positive and finite, got %v", w.Coincident)
	}
	return nil
}

// orDefault lets a zero Weighting behave like DefaultWeighting, so the fits
// are usable as zero values.
func (w Weighting) orDefault() Weighting {
	if w == (Weighting{}) {
		return DefaultWeighting()
	}
	return w
}

func (w Weighting) Weight(pin, query Point) float64 {
	d := pin.DistanceSquared(query)
	if d == 0 {
		return w.Coincident
	}
	var weight float64
	if w.Alpha == 1 {
		weight = 1 / d
	} else {
		weight = 1 / math.Pow(d, w.Alpha)
	}
	// Tiny distances overflow to +Inf; they count as coincident.
	if math.IsInf(weight, 1) {
		return w.Coincident
	}
	return weight
}

// weigh computes the weight of every pin for v, their sum and the weighted
// centroid of the pins.
func (w Weighting) weigh(v Point, pins []Point) (weights []float64, sum float64, centroid Point) {
	weights = make([]float64, len(pins))
	for i, pin := range pins {
		weights[i] = w.Weight(pin, v)
		sum += weights[i]
	}
	return weights, sum, weightedCentroid(pins, weights, sum)
}

func weightedCentroid(pins []Point, weights []float64, sum float64) Point {
	var c Point
	for i, pin := range pins {
		c = c.Add(pin.Scale(weights[i]))
	}
	return Point{c.X / sum, c.Y / sum}
}

func centered(pins []Point, c Point) []Point {
	hats := make([]Point, len(pins))
	for i, pin := range pins {
		hats[i] = pin.Sub(c)
	}
	return hats
}
