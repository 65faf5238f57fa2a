// Package contacts loads the ordered contact list from a CSV file or the
// contacts table.
package contacts

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"outreach-mailer/internal/db"
	"outreach-mailer/internal/models"
)

var (
	// ErrSourceMissing indicates the contact source could not be opened.
	ErrSourceMissing = errors.New("contact source not found")

	// ErrColumnMissing indicates a required CSV column is absent from the header.
	ErrColumnMissing = errors.New("contact column missing")
)

var requiredColumns = []string{"name", "email", "company"}

// Source supplies contacts in input order.
type Source interface {
	Load(ctx context.Context) ([]models.Contact, error)
}

// CSVSource reads contacts from a CSV file with a header row.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Load(ctx context.Context) ([]models.Contact, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, s.path)
		}
		return nil, fmt.Errorf("failed to open contacts file %s: %w", s.path, err)
	}
	defer f.Close()

	contacts, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return contacts, nil
}

// ParseCSV reads a header row naming at least name, email and company (in
// any order) followed by one contact per row. Cells are trimmed and short
// rows leave the missing cells empty.
func ParseCSV(r io.Reader) ([]models.Contact, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrColumnMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrColumnMissing, col)
		}
	}

	cell := func(record []string, col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var contacts []models.Contact
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		contacts = append(contacts, models.Contact{
			Name:    cell(record, "name"),
			Email:   cell(record, "email"),
			Company: cell(record, "company"),
		})
	}

	return contacts, nil
}

// DBSource reads contacts from the contacts table in insertion order.
type DBSource struct {
	client *db.Client
}

func NewDBSource(client *db.Client) *DBSource {
	return &DBSource{client: client}
}

func (s *DBSource) Load(ctx context.Context) ([]models.Contact, error) {
	var rows []models.Contact
	if err := s.client.Read(ctx, db.ContactsTable, &rows, ""); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceMissing, err)
	}

	for i := range rows {
		rows[i].Name = strings.TrimSpace(rows[i].Name)
		rows[i].Email = strings.TrimSpace(rows[i].Email)
		rows[i].Company = strings.TrimSpace(rows[i].Company)
	}
	return rows, nil
}
