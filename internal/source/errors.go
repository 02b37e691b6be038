// SPDX-License-Identifier: MIT

package source

import (
	"errors"
	"fmt"
)

var (
	// ErrTooLarge is returned when the document exceeds the configured size cap.
	ErrTooLarge = errors.New("source: document exceeds size limit")
	// ErrBadStatus classifies any non-2xx response. The concrete error is a *StatusError.
	ErrBadStatus = errors.New("source: unexpected HTTP status")
)

// StatusError reports a non-2xx response from the source host.
type StatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("source: GET %s: HTTP %d", e.URL, e.Status)
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	return ErrBadStatus
}
