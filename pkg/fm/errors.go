package fm

import (
	"errors"
	"fmt"
)

// UnavailableError means a source could not be reached or its catalog
// could not be fetched
type UnavailableError struct {
	Source string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("source %q unavailable: %v", e.Source, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// NotFoundError means an identifier has no entry in a source's catalog
type NotFoundError struct {
	Source string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("font %q not found in %s", e.ID, e.Source)
}

// AllVariantsFailedError means none of a family's variant files could be
// downloaded
type AllVariantsFailedError struct {
	Family string
	Errs   []error
}

func (e *AllVariantsFailedError) Error() string {
	if len(e.Errs) == 0 {
		return fmt.Sprintf("failed to download any variants for %q: no variants listed", e.Family)
	}
	return fmt.Sprintf("failed to download any variants for %q: %v", e.Family, errors.Join(e.Errs...))
}

func (e *AllVariantsFailedError) Unwrap() []error { return e.Errs }

// SourceNotFoundError means no registered source carries the given name
type SourceNotFoundError struct {
	Name string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source %q not found", e.Name)
}
