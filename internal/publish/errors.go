package publish

import (
	"fmt"

	"reelforge/internal/services"
)

// StageError records which publish stage failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("publish %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// UnarchivedError reports a video that is live on the platform but whose
// metadata record could not be written.
type UnarchivedError struct {
	VideoURL string
	Err      error
}

func (e *UnarchivedError) Error() string {
	return fmt.Sprintf("published but unarchived (%s): %v", e.VideoURL, e.Err)
}

// Unwrap exposes both the ErrUnarchived marker and the persistence cause.
func (e *UnarchivedError) Unwrap() []error {
	return []error{services.ErrUnarchived, e.Err}
}
