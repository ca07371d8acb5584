package advanced

import (
	"strings"

	"github.com/pkg/errors"
)

// Kind selects one of the three local transform models. They are ordered from
// most flexible to most rigid.
type Kind int

const (
	Affine Kind = iota
	Similarity
	Rigid
)

var kindNames = [...]string{
	Affine:     "affine",
	Similarity: "similarity",
	Rigid:      "rigid",
}

func Kinds() []Kind {
	return []Kind{Affine, Similarity, Rigid}
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind accepts a strategy name, case insensitively, or its one-based
// number ("1" is affine, "3" is rigid).
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if s == name || (len(s) == 1 && s[0] == byte('1'+i)) {
			return Kind(i), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownStrategy, "%q", s)
}

// Closure is the per-point result of phase one. It depends only on the sample
// point and the source pins, and is never modified after it is built.
type Closure interface {
	Kind() Kind
	PinCount() int
}

// Strategy is one fitting model, split into the two phases of a deformation.
//
// ComputeClosure does the expensive, destination-independent work for a
// single sample point. ApplyClosure maps that point for a set of destination
// pins, which must have as many entries as the source pins the closure was
// built from.
//
// Both return ErrDegenerateConfiguration when the fit has no solution for the
// point. ApplyClosure panics when given a closure of another kind or a
// mismatched pin count.
type Strategy interface {
	Kind() Kind
	ComputeClosure(v Point, sourcePins []Point) (Closure, error)
	ApplyClosure(c Closure, destPins []Point) (Point, error)
}

func NewStrategy(kind Kind, w Weighting) (Strategy, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	switch kind {
	case Affine:
		return AffineFit{Weighting: w}, nil
	case Similarity:
		return SimilarityFit{Weighting: w}, nil
	case Rigid:
		return RigidFit{Weighting: w}, nil
	}
	return nil, errors.Wrapf(ErrUnknownStrategy, "kind %d", int(kind))
}

func checkPinCount(c Closure, destPins []Point) {
	if c.PinCount() != len(destPins) {
		fatalf("closure built for %d pins applied to %d destination pins", c.PinCount(), len(destPins))
	}
}
