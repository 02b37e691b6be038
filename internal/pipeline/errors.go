// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"fmt"
)

// ErrNoChannels reports that the source document yielded no channel records.
var ErrNoChannels = errors.New("pipeline: no channels parsed from source")

// StageError attributes a fatal error to the stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage returns the stage recorded in err, or "" if none.
func FailedStage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
