package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outreach-mailer/internal/config"
	"outreach-mailer/internal/contacts"
	"outreach-mailer/internal/logger"
	"outreach-mailer/internal/outreach"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func dryRunConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		CredentialsPath: writeFile(t, dir, "config.json", `{"SENDER_EMAIL":"me@example.com","APP_PASSWORD":"secret"}`),
		ContactsPath:    writeFile(t, dir, "contacts.csv", "name,email,company\nAlice Smith,alice@x.com,Acme\nBob Lee,,Globex\n"),
		ResumePath:      writeFile(t, dir, "Resume.pdf", "%PDF-1.4"),
		ResumeFilename:  "Resume.pdf",
		ResumeKind:      config.KindPDF,
		Transport:       config.TransportLog,
	}
}

func TestRun_DryRun(t *testing.T) {
	cfg := dryRunConfig(t)
	var out bytes.Buffer

	report, err := Run(context.Background(), cfg, &out, logger.Discard())
	require.NoError(t, err)

	require.Len(t, report.Sent, 1)
	require.Len(t, report.Unreachable, 1)
	assert.Empty(t, report.Failed)

	assert.Contains(t, out.String(), "To:         alice@x.com")
	assert.Contains(t, out.String(), "Subject:    Software Engineering Opportunities at Acme")
	assert.Contains(t, out.String(), "✅ Sent email to Alice Smith at alice@x.com (Acme)")
	assert.Contains(t, out.String(), "--- Summary ---")
	assert.Contains(t, out.String(), "  - Bob Lee at Globex")
}

func TestRun_CredentialsMissing(t *testing.T) {
	cfg := dryRunConfig(t)
	cfg.CredentialsPath = filepath.Join(t.TempDir(), "missing.json")
	// Contacts would fail too; credentials must be checked first.
	cfg.ContactsPath = filepath.Join(t.TempDir(), "missing.csv")
	var out bytes.Buffer

	_, err := Run(context.Background(), cfg, &out, logger.Discard())

	require.ErrorIs(t, err, config.ErrConfigMissing)
	assert.Empty(t, out.String())
}

func TestRun_InvalidTemplate(t *testing.T) {
	cfg := dryRunConfig(t)
	cfg.SubjectTemplatePath = writeFile(t, t.TempDir(), "subject.txt", "Hello {role}")

	_, err := Run(context.Background(), cfg, &bytes.Buffer{}, logger.Discard())

	require.ErrorIs(t, err, outreach.ErrTemplate)
}

func TestRun_ContactsMissing(t *testing.T) {
	cfg := dryRunConfig(t)
	cfg.ContactsPath = filepath.Join(t.TempDir(), "missing.csv")
	var out bytes.Buffer

	_, err := Run(context.Background(), cfg, &out, logger.Discard())

	require.ErrorIs(t, err, contacts.ErrSourceMissing)
	assert.NotContains(t, out.String(), "Summary")
}

func TestRun_AttachmentMissing(t *testing.T) {
	cfg := dryRunConfig(t)
	cfg.ResumePath = filepath.Join(t.TempDir(), "missing.pdf")
	var out bytes.Buffer

	report, err := Run(context.Background(), cfg, &out, logger.Discard())
	require.NoError(t, err)

	assert.Empty(t, report.Sent)
	assert.Len(t, report.Failed, 1)
	assert.Contains(t, out.String(), "❌ Resume not found at "+cfg.ResumePath)
}

func TestRun_ContactsDriverFromConfig(t *testing.T) {
	cfg := dryRunConfig(t)
	cfg.ContactsDSN = "postgres://localhost/contacts"
	cfg.DBDriver = "sqlite-unregistered"

	_, err := Run(context.Background(), cfg, &bytes.Buffer{}, logger.Discard())

	require.ErrorIs(t, err, contacts.ErrSourceMissing)
	assert.Contains(t, err.Error(), "sqlite-unregistered")
}
