package markup

import (
	"errors"
	"fmt"
)

// ErrStructuralConflict is matched (via errors.Is) by every *ConflictError.
var ErrStructuralConflict = errors.New("markup: structural conflict")

// ErrTextChildren is returned when registering a child on a text leaf.
var ErrTextChildren = errors.New("markup: text leaves cannot have children")

// ErrAlreadyAttached is returned when registering a node that already has
// a parent, or that would make a node its own descendant.
var ErrAlreadyAttached = errors.New("markup: node is already attached")

// ConflictError reports a second child of a unique kind under one parent.
type ConflictError struct {
	Kind  *Kind // The conflicting kind
	Child *Node // The rejected child
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("markup: structural conflict: parent already has a %q child, rejected %s",
		e.Kind.Name, e.Child)
}

// Is reports whether target is ErrStructuralConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrStructuralConflict
}
