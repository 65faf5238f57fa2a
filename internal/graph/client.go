package graph

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"outreach-mailer/internal/outreach"
)

const (
	defaultTokenURL   = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"
	defaultAPIBaseURL = "https://graph.microsoft.com/v1.0"
	graphScope        = "https://graph.microsoft.com/.default"
)

// Config holds the app registration used to send as SenderEmail.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	SenderEmail  string

	// Endpoint overrides, used by tests.
	TokenURL   string
	APIBaseURL string
}

// Client sends mail through the Microsoft Graph sendMail endpoint.
type Client struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// emailMessage is the sendMail request payload.
type emailMessage struct {
	Message         message `json:"message"`
	SaveToSentItems bool    `json:"saveToSentItems"`
}

type message struct {
	Subject      string       `json:"subject"`
	Body         body         `json:"body"`
	ToRecipients []recipient  `json:"toRecipients"`
	Attachments  []attachment `json:"attachments,omitempty"`
}

type body struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type emailAddress struct {
	Address string `json:"address"`
}

type attachment struct {
	ODataType    string `json:"@odata.type"`
	Name         string `json:"name"`
	ContentType  string `json:"contentType"`
	ContentBytes string `json:"contentBytes"`
}

// NewClient creates a Graph client. Tokens are fetched lazily and cached
// by the client-credentials token source.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) *Client {
	if cfg.TokenURL == "" {
		cfg.TokenURL = fmt.Sprintf(defaultTokenURL, cfg.TenantID)
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       []string{graphScope},
	}
	httpClient := cc.Client(ctx)
	httpClient.Timeout = 20 * time.Second

	logger.Debug("graph client initialised", "tenant_id", cfg.TenantID, "client_id", cfg.ClientID)
	return &Client{
		cfg:    cfg,
		client: httpClient,
		logger: logger,
	}
}

// Send delivers msg as the configured sender. Graph answers 202 on success;
// anything else is a *outreach.TransmissionError.
func (c *Client) Send(ctx context.Context, msg *outreach.Message) error {
	if err := c.send(ctx, msg); err != nil {
		return &outreach.TransmissionError{To: msg.To, Err: err}
	}
	return nil
}

func (c *Client) send(ctx context.Context, msg *outreach.Message) error {
	payload := emailMessage{
		Message: message{
			Subject: msg.Subject,
			Body:    body{ContentType: "Text", Content: msg.Body},
			ToRecipients: []recipient{
				{EmailAddress: emailAddress{Address: msg.To}},
			},
			Attachments: []attachment{{
				ODataType:    "#microsoft.graph.fileAttachment",
				Name:         msg.Attachment.Filename,
				ContentType:  msg.Attachment.ContentType,
				ContentBytes: base64.StdEncoding.EncodeToString(msg.Attachment.Data),
			}},
		},
		SaveToSentItems: true,
	}

	emailBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/users/%s/sendMail", c.cfg.APIBaseURL, url.PathEscape(c.cfg.SenderEmail))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(emailBytes))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	c.logger.Debug("graph accepted message", "to", msg.To)
	return nil
}
