package db

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	_ "github.com/lib/pq" // registers the postgres driver
)

// Client handles database operations.
type Client struct {
	db *sql.DB
}

// NewClient opens and pings a database connection.
func NewClient(ctx context.Context, driverName, dataSourceName string) (*Client, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection with driver '%s': %w", driverName, err)
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Client{db: db}, nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// Create inserts a single record built from the json-tagged fields of model.
// The id column is left to the database.
func (c *Client) Create(ctx context.Context, tableName string, model any) (int64, error) {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return 0, fmt.Errorf("expected a struct, but got %T", model)
	}

	var cols, placeholders []string
	var values []any

	for _, f := range columns(v.Type()) {
		if f.name == "id" {
			continue
		}
		cols = append(cols, f.name)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(cols)))
		values = append(values, v.Field(f.index).Interface())
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		tableName,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)

	var id int64
	if err := c.db.QueryRowContext(ctx, query, values...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create record in table '%s': %w", tableName, err)
	}
	return id, nil
}

// Read selects rows into dest, a pointer to a slice of structs, ordered by id.
// Columns are taken from the struct's json tags.
func (c *Client) Read(ctx context.Context, tableName string, dest any, whereClause string, args ...any) error {
	slice := reflect.ValueOf(dest)
	if slice.Kind() != reflect.Ptr || slice.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("expected a pointer to a slice, but got %T", dest)
	}
	slice = slice.Elem()
	elemType := slice.Type().Elem()
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("expected a slice of structs, but got %T", dest)
	}

	fields := columns(elemType)
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(names, ", "), tableName)
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	query += " ORDER BY id"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to read from table '%s': %w", tableName, err)
	}
	defer rows.Close()

	for rows.Next() {
		elem := reflect.New(elemType).Elem()
		ptrs := make([]any, len(fields))
		for i, f := range fields {
			ptrs[i] = elem.Field(f.index).Addr().Interface()
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("failed to scan row from table '%s': %w", tableName, err)
		}
		slice.Set(reflect.Append(slice, elem))
	}
	return rows.Err()
}

// Delete removes matching rows and returns the number of affected rows.
func (c *Client) Delete(ctx context.Context, tableName string, whereClause string, args ...any) (int64, error) {
	if whereClause == "" {
		return 0, fmt.Errorf("refusing to delete from '%s' without a where clause", tableName)
	}
	res, err := c.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s", tableName, whereClause), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from table '%s': %w", tableName, err)
	}
	return res.RowsAffected()
}

type column struct {
	name  string
	index int
}

// columns lists the json-tagged exported fields of t in declaration order.
func columns(t reflect.Type) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, column{name: tag, index: i})
	}
	return cols
}
