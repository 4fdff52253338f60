// ABOUTME: Error values returned by cross-collection operations.
// ABOUTME: ConsistencyError names which tables were written before a save failed.
package integrity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/apnealog/internal/storage"
)

var (
	// ErrUserNotFound means no profile has the given name.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmptyName means a rename target was blank.
	ErrEmptyName = errors.New("user name is empty")
	// ErrSessionNotFound means no session has the given id.
	ErrSessionNotFound = errors.New("session not found")
)

// DuplicateNameError rejects a rename onto a name that is already taken.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("user %q already exists", e.Name)
}

// Is matches storage.ErrDuplicateName so callers can test either.
func (e *DuplicateNameError) Is(target error) bool {
	return target == storage.ErrDuplicateName
}

// ConsistencyError reports a cascade whose saves stopped part way. Saved lists
// the collections already rewritten; the rest still hold the old state.
type ConsistencyError struct {
	Op     string
	Saved  []string
	Failed string
	Err    error
}

func (e *ConsistencyError) Error() string {
	saved := "none"
	if len(e.Saved) > 0 {
		saved = strings.Join(e.Saved, ", ")
	}
	return fmt.Sprintf("%s: saving %s failed after saving %s: %v", e.Op, e.Failed, saved, e.Err)
}

func (e *ConsistencyError) Unwrap() error {
	return e.Err
}

// Partial reports whether some collections were written before the failure.
func (e *ConsistencyError) Partial() bool {
	return len(e.Saved) > 0
}
