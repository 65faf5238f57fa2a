package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"outreach-mailer/internal/models"
	"outreach-mailer/internal/outreach"
)

// Transmitter delivers a single composed message.
type Transmitter interface {
	Send(ctx context.Context, msg *outreach.Message) error
}

// Publisher receives every contact disposition.
type Publisher interface {
	Publish(ctx context.Context, outcome models.Outcome) error
}

// Worker drives contacts through render, compose and send, one at a time.
type Worker struct {
	from        string
	renderer    *outreach.Renderer
	composer    *outreach.Composer
	transmitter Transmitter
	publisher   Publisher
	out         io.Writer
	logger      *slog.Logger
}

// Option configures a Worker.
type Option func(*Worker)

// WithPublisher publishes each outcome as it is recorded.
func WithPublisher(p Publisher) Option {
	return func(w *Worker) {
		w.publisher = p
	}
}

// New creates a Worker sending as from. Per-contact progress lines are
// written to out.
func New(
	from string,
	renderer *outreach.Renderer,
	composer *outreach.Composer,
	transmitter Transmitter,
	out io.Writer,
	logger *slog.Logger,
	opts ...Option,
) *Worker {
	w := &Worker{
		from:        from,
		renderer:    renderer,
		composer:    composer,
		transmitter: transmitter,
		out:         out,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes contacts in order and returns the partitioned outcomes.
// Failures are isolated to their contact. If ctx is cancelled the
// remaining contacts are recorded as failed.
func (w *Worker) Run(ctx context.Context, contacts []models.Contact) *Report {
	report := &Report{}

	for i, contact := range contacts {
		if err := ctx.Err(); err != nil {
			for _, rest := range contacts[i:] {
				fmt.Fprintf(w.out, "❌ Skipped %s: run cancelled\n", displayAddress(rest))
				w.record(ctx, report, models.Outcome{
					Contact: rest,
					Status:  models.StatusFailed,
					Err:     fmt.Errorf("run cancelled: %w", err),
				})
			}
			break
		}
		w.record(ctx, report, w.process(ctx, contact))
	}

	w.logger.Info("run finished",
		"total", report.Total(),
		"sent", len(report.Sent),
		"unreachable", len(report.Unreachable),
		"failed", len(report.Failed),
	)
	return report
}

func (w *Worker) process(ctx context.Context, contact models.Contact) (outcome models.Outcome) {
	span, ctx := tracer.StartSpanFromContext(ctx, "outreach.contact", tracer.ResourceName(contact.Company))
	defer func() {
		span.SetTag("outcome", string(outcome.Status))
		span.Finish(tracer.WithError(outcome.Err))
	}()

	if strings.TrimSpace(contact.Email) == "" {
		w.logger.Debug("no email address", "name", contact.Name, "company", contact.Company)
		return models.Outcome{Contact: contact, Status: models.StatusUnreachable}
	}
	contact.Email = strings.TrimSpace(contact.Email)

	subject, body := w.renderer.Render(contact.Name, contact.Company)

	msg, err := w.compose(ctx, contact.Email, subject, body)
	if err != nil {
		if errors.Is(err, outreach.ErrAttachmentNotFound) {
			fmt.Fprintf(w.out, "❌ Resume not found at %s\n", w.composer.AttachmentPath())
		} else {
			fmt.Fprintf(w.out, "❌ Failed to compose email to %s: %v\n", contact.Email, err)
		}
		w.logger.Error("failed to compose email", "to", contact.Email, "error", err)
		return models.Outcome{Contact: contact, Status: models.StatusFailed, Err: err}
	}

	if err := w.send(ctx, msg); err != nil {
		fmt.Fprintf(w.out, "❌ Failed to send to %s: %v\n", contact.Email, err)
		w.logger.Error("failed to send email", "to", contact.Email, "subject", subject, "error", err)
		return models.Outcome{Contact: contact, Status: models.StatusFailed, Err: err}
	}

	fmt.Fprintf(w.out, "✅ Sent email to %s at %s (%s)\n", contact.Name, contact.Email, contact.Company)
	w.logger.Info("email sent", "to", contact.Email, "subject", subject)
	return models.Outcome{Contact: contact, Status: models.StatusSent}
}

func (w *Worker) compose(ctx context.Context, to, subject, body string) (*outreach.Message, error) {
	span, _ := tracer.StartSpanFromContext(ctx, "outreach.compose")
	msg, err := w.composer.Compose(w.from, to, subject, body)
	span.Finish(tracer.WithError(err))
	return msg, err
}

func (w *Worker) send(ctx context.Context, msg *outreach.Message) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "outreach.send")
	err := w.transmitter.Send(ctx, msg)
	span.Finish(tracer.WithError(err))
	return err
}

func (w *Worker) record(ctx context.Context, report *Report, outcome models.Outcome) {
	report.add(outcome)

	if w.publisher == nil {
		return
	}
	if err := w.publisher.Publish(context.WithoutCancel(ctx), outcome); err != nil {
		w.logger.Warn("failed to publish outcome", "status", outcome.Status, "company", outcome.Contact.Company, "error", err)
	}
}

func displayAddress(c models.Contact) string {
	if strings.TrimSpace(c.Email) == "" {
		return c.Name
	}
	return c.Email
}
