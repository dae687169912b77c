package scheduler

import "fmt"

// InvalidScheduleError rejects a schedule request before any job is touched.
type InvalidScheduleError struct {
	UserID string
	Field  string
	Err    error
}

func (e *InvalidScheduleError) Error() string {
	return fmt.Sprintf("invalid schedule for user %q: %s: %v", e.UserID, e.Field, e.Err)
}

func (e *InvalidScheduleError) Unwrap() error {
	return e.Err
}

type BootstrapItemError struct {
	UserID string
	Err    error
}

func (e *BootstrapItemError) Error() string {
	return fmt.Sprintf("bootstrap skipped user %q: %v", e.UserID, e.Err)
}

func (e *BootstrapItemError) Unwrap() error {
	return e.Err
}
