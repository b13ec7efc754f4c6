package protocol

import (
	"errors"
	"fmt"
)

// ErrWeakEntropy is returned when the randomness source repeatedly
// produces degenerate nonces. It indicates a broken RNG and must not be
// retried.
var ErrWeakEntropy = errors.New("protocol: randomness source produced degenerate nonces")

// FramingError reports a signed message or message component whose length
// does not match the fixed protocol layout. It is always fatal: a
// mis-framed message must never reach a signature operation.
type FramingError struct {
	Field string
	Got   int
	Want  int
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("protocol: %s is %d bytes, layout requires %d", e.Field, e.Got, e.Want)
}

// InvalidInputError reports a caller-supplied value outside its contract,
// such as a verification code of the wrong length.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("protocol: invalid %s: %s", e.Field, e.Reason)
}
