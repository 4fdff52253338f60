// ABOUTME: Error kinds for performance value parsing.
// ABOUTME: FormatError echoes the rejected input and matches a sentinel per kind.
package codec

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Use errors.Is(err, ErrInvalidFormat) and friends.
var (
	ErrInvalidFormat = errors.New("invalid format")
	ErrOutOfRange    = errors.New("out of range")
	ErrEmpty         = errors.New("empty value")
	ErrNegative      = errors.New("negative value")
)

// FormatError reports a performance string that could not be parsed.
type FormatError struct {
	Kind   error  // one of the sentinels above
	Input  string // the text as entered
	Reason string
}

func (e *FormatError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v: %q", e.Kind, e.Input)
	}
	return fmt.Sprintf("%v: %q: %s", e.Kind, e.Input, e.Reason)
}

// Unwrap exposes the sentinel kind to errors.Is.
func (e *FormatError) Unwrap() error {
	return e.Kind
}

func formatErr(kind error, input, reason string) error {
	return &FormatError{Kind: kind, Input: input, Reason: reason}
}
