package importer

import "fmt"

// PersistError reports a failed content or mapping store operation. It
// aborts the remainder of an import run.
type PersistError struct {
	Op       string
	GUID     string
	EntityID int64
	Cause    error
}

func (e *PersistError) Error() string {
	if e.EntityID != 0 {
		return fmt.Sprintf("failed to %s (guid %q, entity %d): %v", e.Op, e.GUID, e.EntityID, e.Cause)
	}
	return fmt.Sprintf("failed to %s (guid %q): %v", e.Op, e.GUID, e.Cause)
}

func (e *PersistError) Unwrap() error {
	return e.Cause
}

// TermCreationError reports a failed taxonomy term lookup or creation.
type TermCreationError struct {
	Vocabulary string
	Name       string
	Cause      error
}

func (e *TermCreationError) Error() string {
	return fmt.Sprintf("failed to resolve term %q in %s: %v", e.Name, e.Vocabulary, e.Cause)
}

func (e *TermCreationError) Unwrap() error {
	return e.Cause
}
