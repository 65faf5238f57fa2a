package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"outreach-mailer/internal/outreach"
)

// Config describes the submission endpoint.
type Config struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// Client submits messages over STARTTLS with PLAIN authentication. Every
// Send opens and closes its own session.
type Client struct {
	cfg      Config
	username string
	password string
	logger   *slog.Logger

	// tlsConfig overrides the handshake settings; nil uses the system roots.
	tlsConfig *tls.Config
}

// NewClient creates a client authenticating as username.
func NewClient(cfg Config, username, password string, logger *slog.Logger) *Client {
	return &Client{
		cfg:      cfg,
		username: username,
		password: password,
		logger:   logger,
	}
}

// Send delivers msg. Any failure is reported as *outreach.TransmissionError.
func (c *Client) Send(ctx context.Context, msg *outreach.Message) error {
	if err := c.send(ctx, msg); err != nil {
		c.logger.Debug("smtp session failed", "to", msg.To, "error", err)
		return &outreach.TransmissionError{To: msg.To, Err: err}
	}
	return nil
}

func (c *Client) send(ctx context.Context, msg *outreach.Message) error {
	raw, err := msg.Bytes()
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
	dialer := &net.Dialer{Timeout: c.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	if c.cfg.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(c.cfg.Timeout))
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	client, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); !ok {
		return errors.New("server does not support STARTTLS")
	}
	if err := client.StartTLS(c.tls()); err != nil {
		return fmt.Errorf("starttls: %w", err)
	}
	if err := client.Auth(smtp.PlainAuth("", c.username, c.password, c.cfg.Host)); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if err := client.Mail(msg.From); err != nil {
		return fmt.Errorf("MAIL FROM rejected: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("RCPT TO rejected: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA rejected: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("message rejected: %w", err)
	}

	// The message is accepted once DATA completes; a failed QUIT does not
	// undo delivery.
	if err := client.Quit(); err != nil {
		c.logger.Debug("smtp quit failed after delivery", "to", msg.To, "error", err)
	}
	return nil
}

func (c *Client) tls() *tls.Config {
	if c.tlsConfig != nil {
		return c.tlsConfig
	}
	return &tls.Config{
		ServerName: c.cfg.Host,
		MinVersion: tls.VersionTLS12,
	}
}
