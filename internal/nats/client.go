package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"outreach-mailer/internal/models"
)

// DefaultSubject carries one event per contact disposition.
const DefaultSubject = "OUTREACH.outcome"

// Publisher emits outcome events on a core NATS subject.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// Connect dials natsURL and returns a Publisher for subject.
func Connect(natsURL, subject string) (*Publisher, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("outreach-mailer"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("error connecting to NATS: %w", err)
	}
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{nc: nc, subject: subject}, nil
}

// Publish sends outcome as JSON. Delivery is fire-and-forget.
func (p *Publisher) Publish(ctx context.Context, outcome models.Outcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(outcome.Event())
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}
	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish outcome: %w", err)
	}
	return nil
}

// Close flushes pending events and closes the connection.
func (p *Publisher) Close() error {
	defer p.nc.Close()
	return p.nc.FlushTimeout(5 * time.Second)
}
