package coordinator

import "fmt"

// CompensationError records a compensation that failed during rollback. It is
// logged and audited, never returned to the caller of a saga.
type CompensationError struct {
	Saga string
	Step string
	Err  error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("saga %s: compensate %s: %v", e.Saga, e.Step, e.Err)
}

func (e *CompensationError) Unwrap() error { return e.Err }

// PartialUploadError is returned by a multi-file attach step when one of the
// files could not be uploaded or linked. Files stored before the failure have
// already been removed when the error is returned.
type PartialUploadError struct {
	Completed int
	Total     int
	Err       error
}

func (e *PartialUploadError) Error() string {
	return fmt.Sprintf("attachments: %d of %d stored before failure: %v", e.Completed, e.Total, e.Err)
}

func (e *PartialUploadError) Unwrap() error { return e.Err }
