package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Transports understood by the mailer.
const (
	TransportSMTP  = "smtp"
	TransportGraph = "graph"
	TransportLog   = "log"
)

// Attachment kinds. Each run sends exactly one kind.
const (
	KindPDF  = "pdf"
	KindDOCX = "docx"
)

type Config struct {
	Env      string
	LogLevel string

	CredentialsPath string

	// Contact source: the CSV file is used unless ContactsDSN is set.
	ContactsPath string
	ContactsDSN  string
	DBDriver     string

	ResumePath     string
	ResumeFilename string
	ResumeKind     string

	// Optional template overrides; built-in templates are used when empty.
	SubjectTemplatePath string
	BodyTemplatePath    string

	Transport   string
	SMTPHost    string
	SMTPPort    int
	SMTPTimeout time.Duration

	GraphTenantID     string
	GraphClientID     string
	GraphClientSecret string

	NATSURL     string
	NATSSubject string

	TracingEnabled bool
	DDEnv          string
}

// Load reads the configuration from the environment. Call godotenv.Load
// beforehand to pick up a .env file.
func Load() (*Config, error) {
	kind := getEnv("RESUME_KIND", KindPDF)

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CredentialsPath: getEnv("CREDENTIALS_PATH", "config.json"),

		ContactsPath: getEnv("CONTACTS_PATH", "data/contacts.csv"),
		ContactsDSN:  getEnv("CONTACTS_DSN", ""),
		DBDriver:     getEnv("DB_DRIVER", "postgres"),

		ResumePath:     getEnv("RESUME_PATH", "data/Resume."+kind),
		ResumeFilename: getEnv("RESUME_FILENAME", "Rhyme_Bulbul_Resume."+kind),
		ResumeKind:     kind,

		SubjectTemplatePath: getEnv("SUBJECT_TEMPLATE_PATH", ""),
		BodyTemplatePath:    getEnv("BODY_TEMPLATE_PATH", ""),

		Transport:   getEnv("TRANSPORT", TransportSMTP),
		SMTPHost:    getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:    getEnvInt("SMTP_PORT", 587),
		SMTPTimeout: getEnvDuration("SMTP_TIMEOUT", 60*time.Second),

		GraphTenantID:     getEnv("GRAPH_TENANT_ID", ""),
		GraphClientID:     getEnv("GRAPH_CLIENT_ID", ""),
		GraphClientSecret: getEnv("GRAPH_CLIENT_SECRET", ""),

		NATSURL:     getEnv("NATS_URL", ""),
		NATSSubject: getEnv("NATS_SUBJECT", "OUTREACH.outcome"),

		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		DDEnv:          getEnv("DD_ENV", ""),
	}

	switch cfg.ResumeKind {
	case KindPDF, KindDOCX:
	default:
		return nil, fmt.Errorf("RESUME_KIND must be either 'pdf' or 'docx', got: %s", cfg.ResumeKind)
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(cfg.ResumeFilename)), "."); ext != cfg.ResumeKind {
		return nil, fmt.Errorf("RESUME_FILENAME %q does not match RESUME_KIND %s", cfg.ResumeFilename, cfg.ResumeKind)
	}

	switch cfg.Transport {
	case TransportSMTP:
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("SMTP_HOST environment variable is not set")
		}
	case TransportGraph:
		if cfg.GraphTenantID == "" {
			return nil, fmt.Errorf("GRAPH_TENANT_ID environment variable is not set")
		}
		if cfg.GraphClientID == "" {
			return nil, fmt.Errorf("GRAPH_CLIENT_ID environment variable is not set")
		}
		if cfg.GraphClientSecret == "" {
			return nil, fmt.Errorf("GRAPH_CLIENT_SECRET environment variable is not set")
		}
	case TransportLog:
	default:
		return nil, fmt.Errorf("TRANSPORT must be one of 'smtp', 'graph' or 'log', got: %s", cfg.Transport)
	}

	return cfg, nil
}

// ResumeContentType is the MIME type declared for the attachment.
func (c *Config) ResumeContentType() string {
	if c.ResumeKind == KindDOCX {
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/pdf"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
