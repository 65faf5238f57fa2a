package outreach

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"
	"time"
)

// base64 bodies are wrapped at 76 characters per RFC 2045.
const lineLength = 76

// Bytes encodes the message as multipart/mixed RFC 5322 text.
func (m *Message) Bytes() ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=utf-8")
	textHeader.Set("Content-Transfer-Encoding", "quoted-printable")
	textPart, err := writer.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	qp := quotedprintable.NewWriter(textPart)
	if _, err := qp.Write([]byte(m.Body)); err != nil {
		return nil, err
	}
	if err := qp.Close(); err != nil {
		return nil, err
	}

	attHeader := textproto.MIMEHeader{}
	attHeader.Set("Content-Type", mime.FormatMediaType(m.Attachment.ContentType, map[string]string{"name": m.Attachment.Filename}))
	attHeader.Set("Content-Transfer-Encoding", "base64")
	attHeader.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": m.Attachment.Filename}))
	attPart, err := writer.CreatePart(attHeader)
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(m.Attachment.Data)
	for i := 0; i < len(encoded); i += lineLength {
		end := min(i+lineLength, len(encoded))
		if _, err := attPart.Write([]byte(encoded[i:end] + "\r\n")); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("From: %s\r\n", headerValue(m.From)))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", headerValue(m.To)))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerValue(m.Subject))))
	msg.WriteString(fmt.Sprintf("Date: %s\r\n", m.Date.Format(time.RFC1123Z)))
	msg.WriteString(fmt.Sprintf("Message-ID: %s\r\n", m.MessageID))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n", writer.Boundary()))
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	return msg.Bytes(), nil
}

// headerValue strips line breaks so values cannot inject headers.
func headerValue(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ")
}
