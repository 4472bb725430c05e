package knowledge

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a knowledge base or corpus source does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when two records of one collection share an id.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrEmptyCollection is returned when a collection is built without records.
	ErrEmptyCollection = errors.New("collection is empty")
	// ErrInvalidRecord is returned when a loaded record fails field validation.
	ErrInvalidRecord = errors.New("invalid record")
)

// DuplicateIDError reports the offending id of a duplicate record.
type DuplicateIDError struct {
	Collection string
	ID         string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate %s id detected: %s", e.Collection, e.ID)
}

// Unwrap lets errors.Is match ErrDuplicateID.
func (e *DuplicateIDError) Unwrap() error {
	return ErrDuplicateID
}
