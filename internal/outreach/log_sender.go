package outreach

import (
	"context"
	"fmt"
	"io"
)

// LogSender prints messages instead of sending them. Used for dry runs.
type LogSender struct {
	w io.Writer
}

// NewLogSender creates a LogSender writing to w.
func NewLogSender(w io.Writer) *LogSender {
	return &LogSender{w: w}
}

// Send writes a summary of msg to the underlying writer.
func (s *LogSender) Send(ctx context.Context, msg *Message) error {
	_, err := fmt.Fprintf(s.w, `
================================================================================
EMAIL (dry run - not actually sent)
================================================================================
From:       %s
To:         %s
Subject:    %s
Attachment: %s (%s, %d bytes)
--------------------------------------------------------------------------------
%s
================================================================================
`, msg.From, msg.To, msg.Subject, msg.Attachment.Filename, msg.Attachment.ContentType, len(msg.Attachment.Data), msg.Body)
	if err != nil {
		return &TransmissionError{To: msg.To, Err: err}
	}
	return nil
}
