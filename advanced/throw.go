package advanced

import "github.com/pkg/errors"

// A strategy handed a closure it did not build, or destination pins that do
// not match the closure, is a programming error rather than a data condition.
// ApplyClosure panics in that case, and the session recovers at its boundary
// to convert the panic to an error.

type contractError struct {
	error
}

// Panic with a contractError.
func fatalf(format string, args ...interface{}) {
	panic(contractError{errors.Errorf(format, args...)})
}

// HandlePanicRecover converts a recovered contract panic into an error. Any
// other panic is re-raised.
func HandlePanicRecover(r interface{}) error {
	if r != nil {
		if err, ok := r.(contractError); ok {
			return err.error
		}
		panic(r)
	}
	return nil
}
