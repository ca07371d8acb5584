package advanced

import "github.com/pkg/errors"

var (
	// ErrInsufficientPins is returned by Prepare when fewer than MinPins source
	// pins are supplied.
	ErrInsufficientPins = errors.New("insufficient pins")
	// ErrPinCountMismatch is returned when the destination pins do not line up
	// with the source pins the closures were built from.
	ErrPinCountMismatch = errors.New("pin count mismatch")
	// ErrDegenerateConfiguration marks a sample point whose local fit has no
	// solution: a singular covariance, a zero moment, or a zero rigid direction.
	ErrDegenerateConfiguration = errors.New("degenerate configuration")
	ErrNotPrepared             = errors.New("session is not prepared")
	ErrUnknownStrategy         = errors.New("unknown strategy")
	ErrStrategyMismatch        = errors.New("closures were built by a different strategy")
	ErrInvalidWeighting        = errors.New("invalid weighting")
)

func (pins *Pins) Validate() error {
	if len(pins.Source) != len(pins.Dest) {
		return errors.Wrapf(ErrPinCountMismatch, "%d source pins, %d destination pins", len(pins.Source), len(pins.Dest))
	}
	return nil
}
