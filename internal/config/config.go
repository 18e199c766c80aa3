package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Subject is one input folder and the table file its rows are written to.
type Subject struct {
	Name   string
	Folder string
	Output string
}

type Config struct {
	Subjects []Subject

	// Chunking and discovery
	ChunkWords int
	Extensions []string
	DocWorkers int

	// Oracle
	OracleBackend string // "process" or "openai"
	OracleCommand string
	OracleModel   string
	OracleTimeout time.Duration
	OraclePacing  time.Duration

	// OpenAI-compatible endpoint
	OpenAIBaseURL string
	OpenAIAPIKey  string

	// Status server
	StatusAddr   string
	StatusAPIKey string

	// PDF
	PDFFallbackPdftotext bool

	// Logging
	LogLevel  string
	LogFormat string
}

const (
	BackendProcess = "process"
	BackendOpenAI  = "openai"
)

// Load reads configuration from the environment after applying an optional .env file.
// Variables already set in the environment take precedence over .env entries.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Subjects: []Subject{
			{Name: "science", Folder: envOr("SCIENCE_DIR", "science"), Output: envOr("SCIENCE_OUTPUT", "Science Sample.xlsx")},
			{Name: "math", Folder: envOr("MATH_DIR", "math"), Output: envOr("MATH_OUTPUT", "Math Sample.xlsx")},
		},

		ChunkWords: envInt("CHUNK_WORDS", 300),
		Extensions: envList("DOC_EXTENSIONS", []string{".pdf"}),
		DocWorkers: envInt("DOC_WORKERS", 1),

		OracleBackend: strings.ToLower(envOr("ORACLE_BACKEND", BackendProcess)),
		OracleCommand: envOr("ORACLE_COMMAND", "ollama"),
		OracleModel:   envOr("ORACLE_MODEL", "mistral"),
		OracleTimeout: envDuration("ORACLE_TIMEOUT", 180*time.Second),
		OraclePacing:  envDuration("ORACLE_PACING", time.Second),

		OpenAIBaseURL: envOr("OPENAI_BASE_URL", "http://localhost:11434/v1"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),

		StatusAddr:   os.Getenv("STATUS_ADDR"),
		StatusAPIKey: os.Getenv("STATUS_API_KEY"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", "json"),
	}

	for i, ext := range cfg.Extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Extensions[i] = ext
	}
	if cfg.DocWorkers <= 0 {
		cfg.DocWorkers = 1
	}

	return cfg
}

func (c Config) Validate() error {
	var errs []error
	if len(c.Subjects) == 0 {
		errs = append(errs, errors.New("at least one subject is required"))
	}
	for _, s := range c.Subjects {
		if s.Folder == "" || s.Output == "" {
			errs = append(errs, fmt.Errorf("subject %q needs a folder and an output", s.Name))
		}
	}
	if c.ChunkWords <= 0 {
		errs = append(errs, fmt.Errorf("CHUNK_WORDS must be positive, got %d", c.ChunkWords))
	}
	if len(c.Extensions) == 0 {
		errs = append(errs, errors.New("DOC_EXTENSIONS must list at least one extension"))
	}
	if c.OracleTimeout <= 0 {
		errs = append(errs, fmt.Errorf("ORACLE_TIMEOUT must be positive, got %s", c.OracleTimeout))
	}
	if c.OraclePacing < 0 {
		errs = append(errs, fmt.Errorf("ORACLE_PACING must not be negative, got %s", c.OraclePacing))
	}
	switch c.OracleBackend {
	case BackendProcess:
		if c.OracleCommand == "" {
			errs = append(errs, errors.New("ORACLE_COMMAND is required for the process backend"))
		}
	case BackendOpenAI:
		if c.OpenAIBaseURL == "" {
			errs = append(errs, errors.New("OPENAI_BASE_URL is required for the openai backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ORACLE_BACKEND %q", c.OracleBackend))
	}
	return errors.Join(errs...)
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList splits a comma-separated value, dropping empty entries.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}
