package advanced

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
)

// ClosureSet is the phase one result for a whole sample domain: one closure
// per sample point, in sample order. A nil entry marks a point whose fit is
// degenerate; it keeps its input position on every evaluation.
//
// A ClosureSet is immutable. Changing the samples or the source pins means
// building a new one.
type ClosureSet struct {
	kind       Kind
	pinCount   int
	samples    []Point
	closures   []Closure
	degenerate []int
}

// EvaluationStats describes one phase two pass.
type EvaluationStats struct {
	Points int
	// Fallbacks counts points that kept their input position because their
	// configuration was degenerate.
	Fallbacks int
}

// NewClosureSet assembles a closure set from closures built outside a
// session, e.g. by calling a strategy's ComputeClosure directly. closures[i]
// belongs to samples[i] and may be nil.
func NewClosureSet(kind Kind, samples []Point, pinCount int, closures []Closure) (*ClosureSet, error) {
	if len(samples) != len(closures) {
		return nil, errors.Errorf("%d samples but %d closures", len(samples), len(closures))
	}
	for i, c := range closures {
		if c == nil {
			continue
		}
		if c.Kind() != kind {
			return nil, errors.Wrapf(ErrStrategyMismatch, "closure %d is %s, want %s", i, c.Kind(), kind)
		}
		if c.PinCount() != pinCount {
			return nil, errors.Wrapf(ErrPinCountMismatch, "closure %d has %d pins, want %d", i, c.PinCount(), pinCount)
		}
	}
	return newClosureSet(kind, clonePoints(samples), pinCount, append([]Closure(nil), closures...)), nil
}

// newClosureSet takes ownership of samples and closures.
func newClosureSet(kind Kind, samples []Point, pinCount int, closures []Closure) *ClosureSet {
	cs := &ClosureSet{
		kind:     kind,
		pinCount: pinCount,
		samples:  samples,
		closures: closures,
	}
	for i, c := range closures {
		if c == nil {
			cs.degenerate = append(cs.degenerate, i)
		}
	}
	return cs
}

func (cs *ClosureSet) Kind() Kind       { return cs.kind }
func (cs *ClosureSet) PinCount() int    { return cs.pinCount }
func (cs *ClosureSet) Len() int         { return len(cs.closures) }
func (cs *ClosureSet) At(i int) Closure { return cs.closures[i] }

func (cs *ClosureSet) Samples() []Point {
	return clonePoints(cs.samples)
}

// Degenerate returns the indices of the sample points that have no closure.
func (cs *ClosureSet) Degenerate() []int {
	return append([]int(nil), cs.degenerate...)
}

// Evaluate runs phase two serially. The strategy must be of the kind that
// built the closures.
func (cs *ClosureSet) Evaluate(strategy Strategy, destPins []Point) (result []Point, err error) {
	result, _, err = cs.evaluate(context.Background(), strategy, destPins, 1)
	return result, err
}

func (cs *ClosureSet) evaluate(ctx context.Context, strategy Strategy, destPins []Point, workers int) ([]Point, EvaluationStats, error) {
	if strategy.Kind() != cs.kind {
		return nil, EvaluationStats{}, errors.Wrapf(ErrStrategyMismatch, "%s closures, %s strategy", cs.kind, strategy.Kind())
	}
	if len(destPins) != cs.pinCount {
		return nil, EvaluationStats{}, errors.Wrapf(ErrPinCountMismatch, "closures built for %d pins, got %d destination pins", cs.pinCount, len(destPins))
	}

	result := make([]Point, len(cs.closures))
	var fallbacks atomic.Int64
	err := forEachChunk(ctx, len(cs.closures), workers, func(lo, hi int) error {
		var n int64
		for i := lo; i < hi; i++ {
			c := cs.closures[i]
			if c == nil {
				result[i] = cs.samples[i]
				n++
				continue
			}
			p, err := strategy.ApplyClosure(c, destPins)
			if errors.Is(err, ErrDegenerateConfiguration) {
				result[i] = cs.samples[i]
				n++
				continue
			} else if err != nil {
				return errors.Wrapf(err, "sample %d", i)
			}
			result[i] = p
		}
		fallbacks.Add(n)
		return nil
	})
	if err != nil {
		return nil, EvaluationStats{}, err
	}
	return result, EvaluationStats{Points: len(result), Fallbacks: int(fallbacks.Load())}, nil
}
