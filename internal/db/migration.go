package db

import (
	"context"
	"fmt"
	"log/slog"
)

// ContactsTable stores the outreach contact list.
const ContactsTable = "contacts"

// Migrate creates the contacts table and its index if they do not exist.
func (c *Client) Migrate(ctx context.Context, logger *slog.Logger) error {
	const createContactsTableSQL = `
    CREATE TABLE IF NOT EXISTS contacts (
        id SERIAL PRIMARY KEY,
        name TEXT NOT NULL DEFAULT '',
        email TEXT NOT NULL DEFAULT '',
        company TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );`

	if _, err := c.db.ExecContext(ctx, createContactsTableSQL); err != nil {
		return fmt.Errorf("failed to create 'contacts' table: %w", err)
	}
	logger.Info("table ready", "table", ContactsTable)

	const createIndexSQL = `CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email);`
	if _, err := c.db.ExecContext(ctx, createIndexSQL); err != nil {
		logger.Warn("failed to create index on contacts", "error", err)
	}

	return nil
}
