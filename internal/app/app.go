// Package app wires configuration, contact source, transport and worker
// into a single outreach run.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"outreach-mailer/internal/config"
	"outreach-mailer/internal/contacts"
	"outreach-mailer/internal/db"
	"outreach-mailer/internal/graph"
	"outreach-mailer/internal/models"
	natsclient "outreach-mailer/internal/nats"
	"outreach-mailer/internal/outreach"
	"outreach-mailer/internal/smtp"
	"outreach-mailer/internal/worker"
)

// Run executes one pass over the contact list and prints the summary to
// out. Startup failures are returned before any contact is processed; once
// the run starts, per-contact failures only show up in the report.
func Run(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) (*worker.Report, error) {
	creds, err := config.LoadCredentials(cfg.CredentialsPath)
	if err != nil {
		return nil, err
	}

	renderer, err := outreach.LoadRenderer(cfg.SubjectTemplatePath, cfg.BodyTemplatePath)
	if err != nil {
		return nil, err
	}

	list, err := loadContacts(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("contacts loaded", "count", len(list))

	transmitter, err := newTransmitter(ctx, cfg, creds, out, logger)
	if err != nil {
		return nil, err
	}

	var opts []worker.Option
	if cfg.NATSURL != "" {
		publisher, err := natsclient.Connect(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			logger.Warn("outcome events disabled", "nats_url", cfg.NATSURL, "error", err)
		} else {
			defer func() {
				if err := publisher.Close(); err != nil {
					logger.Warn("failed to flush outcome events", "error", err)
				}
			}()
			opts = append(opts, worker.WithPublisher(publisher))
		}
	}

	composer := outreach.NewComposer(cfg.ResumePath, cfg.ResumeFilename, cfg.ResumeContentType())
	w := worker.New(creds.SenderEmail, renderer, composer, transmitter, out, logger, opts...)

	report := w.Run(ctx, list)
	report.Print(out)
	return report, nil
}

func loadContacts(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]models.Contact, error) {
	if cfg.ContactsDSN == "" {
		return contacts.NewCSVSource(cfg.ContactsPath).Load(ctx)
	}

	client, err := db.NewClient(ctx, cfg.DBDriver, cfg.ContactsDSN)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", contacts.ErrSourceMissing, err)
	}
	defer client.Close()

	logger.Debug("reading contacts from database")
	return contacts.NewDBSource(client).Load(ctx)
}

func newTransmitter(ctx context.Context, cfg *config.Config, creds *config.Credentials, out io.Writer, logger *slog.Logger) (worker.Transmitter, error) {
	switch cfg.Transport {
	case config.TransportSMTP:
		return smtp.NewClient(smtp.Config{
			Host:    cfg.SMTPHost,
			Port:    cfg.SMTPPort,
			Timeout: cfg.SMTPTimeout,
		}, creds.SenderEmail, creds.AppPassword, logger), nil
	case config.TransportGraph:
		return graph.NewClient(ctx, graph.Config{
			TenantID:     cfg.GraphTenantID,
			ClientID:     cfg.GraphClientID,
			ClientSecret: cfg.GraphClientSecret,
			SenderEmail:  creds.SenderEmail,
		}, logger), nil
	case config.TransportLog:
		return outreach.NewLogSender(out), nil
	default:
		return nil, fmt.Errorf("unknown transport: %s", cfg.Transport)
	}
}
