// Moving least squares deformation of 2D point sets.
//
// Given source pins, destination pins and a set of sample points (typically
// mesh vertices), each sample point is moved by the weighted least squares
// transform that best maps the source pins onto the destination pins, with
// pins near the point weighing the most. Three transform models are
// available: Affine, Similarity and Rigid.
//
// Deformation has two phases. Preparing a Session does the work that depends
// only on the samples and the source pins; evaluating it for a set of
// destination pins is cheap, and can be repeated as the destination pins move.
// See the advanced package for the individual fits.
package mls

import "github.com/osuushi/mls/advanced"

type Point = advanced.Point
type Pins = advanced.Pins
type Kind = advanced.Kind
type Session = advanced.Session
type SessionOption = advanced.SessionOption

const (
	Affine     = advanced.Affine
	Similarity = advanced.Similarity
	Rigid      = advanced.Rigid
)

var (
	ErrInsufficientPins        = advanced.ErrInsufficientPins
	ErrPinCountMismatch        = advanced.ErrPinCountMismatch
	ErrDegenerateConfiguration = advanced.ErrDegenerateConfiguration
	ErrNotPrepared             = advanced.ErrNotPrepared
)

func NewSession(kind Kind, opts ...SessionOption) (*Session, error) {
	return advanced.NewSession(kind, opts...)
}

// Deform prepares and evaluates a session in one go. Use a Session directly
// when the same samples and source pins are evaluated more than once.
func Deform(kind Kind, samples, sourcePins, destPins []Point, opts ...SessionOption) (result []Point, err error) {
	defer func() {
		recoveredErr := advanced.HandlePanicRecover(recover())
		if recoveredErr != nil {
			result = nil
			err = recoveredErr
		}
	}()
	session, err := advanced.NewSession(kind, opts...)
	if err != nil {
		return nil, err
	}
	if err := session.Prepare(samples, sourcePins); err != nil {
		return nil, err
	}
	return session.Evaluate(destPins)
}
