package outreach

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Attachment is a file carried by an outbound message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is a fully composed outbound email with exactly one plain text
// part and one attachment.
type Message struct {
	MessageID  string
	Date       time.Time
	From       string
	To         string
	Subject    string
	Body       string
	Attachment Attachment
}

// Composer builds messages around a fixed attachment file.
type Composer struct {
	path        string
	filename    string
	contentType string
	now         func() time.Time
}

// NewComposer returns a Composer that attaches the file at path under the
// given display filename and content type.
func NewComposer(path, filename, contentType string) *Composer {
	return &Composer{
		path:        path,
		filename:    filename,
		contentType: contentType,
		now:         time.Now,
	}
}

// AttachmentPath is the on-disk location of the attachment.
func (c *Composer) AttachmentPath() string {
	return c.path
}

// Compose reads the attachment and assembles a message. The file is read on
// every call.
func (c *Composer) Compose(from, to, subject, body string) (*Message, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAttachmentNotFound, c.path)
		}
		return nil, fmt.Errorf("failed to read attachment %s: %w", c.path, err)
	}

	return &Message{
		MessageID: fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(from)),
		Date:      c.now(),
		From:      from,
		To:        to,
		Subject:   subject,
		Body:      body,
		Attachment: Attachment{
			Filename:    c.filename,
			ContentType: c.contentType,
			Data:        data,
		},
	}, nil
}

func domainOf(address string) string {
	if i := strings.LastIndex(address, "@"); i >= 0 && i < len(address)-1 {
		return address[i+1:]
	}
	return "localhost"
}
