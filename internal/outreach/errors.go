package outreach

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplate indicates a template does not match its expected placeholders.
	ErrTemplate = errors.New("invalid template")

	// ErrAttachmentNotFound indicates the attachment file does not exist.
	ErrAttachmentNotFound = errors.New("attachment not found")
)

// TransmissionError is returned by transmitters for any delivery failure:
// connection, authentication or protocol rejection.
type TransmissionError struct {
	To  string
	Err error
}

func (e *TransmissionError) Error() string {
	return fmt.Sprintf("transmission to %s failed: %v", e.To, e.Err)
}

func (e *TransmissionError) Unwrap() error {
	return e.Err
}
