// ABOUTME: Error kinds for table and collection access.
// ABOUTME: TransportError wraps every failed remote call with the table it targeted.
package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/apnealog/internal/sheets"
)

var (
	// ErrMalformedTable means the table has content that cannot be read as rows.
	// An empty table is not malformed.
	ErrMalformedTable  = errors.New("malformed table")
	ErrNotFound        = errors.New("not found")
	ErrAmbiguousID     = errors.New("ambiguous id prefix")
	ErrDuplicateName   = errors.New("name already exists")
	ErrLinkedDelete    = errors.New("referenced by other tables, delete through the integrity coordinator")
	ErrSkippedProfiles = errors.New("profile rows would be dropped")
)

// TransportError reports a failed remote load or write. It is fatal to the
// operation; this layer never retries.
type TransportError struct {
	Op    string // "load" or "write"
	Table sheets.TableID
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err came from the transport.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// SkippedProfilesError lists the profile rows a save would have dropped.
type SkippedProfilesError struct {
	Table    sheets.TableID
	Problems []ProfileProblem
}

func (e *SkippedProfilesError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		if p.Name != "" {
			parts[i] = fmt.Sprintf("row %d: %s %q", p.Row, p.Reason, p.Name)
		} else {
			parts[i] = fmt.Sprintf("row %d: %s", p.Row, p.Reason)
		}
	}
	return fmt.Sprintf("%s: %v, fix them first: %s", e.Table, ErrSkippedProfiles, strings.Join(parts, "; "))
}

func (e *SkippedProfilesError) Unwrap() error {
	return ErrSkippedProfiles
}
