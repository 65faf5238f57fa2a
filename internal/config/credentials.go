package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

var (
	// ErrConfigMissing indicates the credential file could not be found.
	ErrConfigMissing = errors.New("credential file not found")

	// ErrConfigFieldMissing indicates a required credential field is absent or empty.
	ErrConfigFieldMissing = errors.New("credential field missing")
)

// Credentials authenticate the sender against the submission endpoint.
type Credentials struct {
	SenderEmail string
	AppPassword string
}

// LoadCredentials reads SENDER_EMAIL and APP_PASSWORD from path. A .json
// file is decoded as a flat object; anything else is parsed as dotenv.
func LoadCredentials(path string) (*Credentials, error) {
	values, err := readCredentialFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigMissing, path)
		}
		return nil, fmt.Errorf("failed to read credential file %s: %w", path, err)
	}

	creds := &Credentials{
		SenderEmail: strings.TrimSpace(values["SENDER_EMAIL"]),
		AppPassword: values["APP_PASSWORD"],
	}
	if creds.SenderEmail == "" {
		return nil, fmt.Errorf("%w: SENDER_EMAIL in %s", ErrConfigFieldMissing, path)
	}
	if creds.AppPassword == "" {
		return nil, fmt.Errorf("%w: APP_PASSWORD in %s", ErrConfigFieldMissing, path)
	}

	return creds, nil
}

func readCredentialFile(path string) (map[string]string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return godotenv.Read(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			values[k] = s
		}
	}
	return values, nil
}
