package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Source  SourceConfig  `yaml:"source"`
	Photos  PhotosConfig  `yaml:"photos"`
	Batch   BatchConfig   `yaml:"batch"`
	Report  ReportConfig  `yaml:"report"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig holds record store configuration. An empty DSN means a
// session-scoped SQLite file inside the batch output directory.
type StoreConfig struct {
	DSN              string        `yaml:"dsn"`
	MaxConns         int32         `yaml:"max_conns"`
	MinConns         int32         `yaml:"min_conns"`
	MaxConnLifetime  time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime  time.Duration `yaml:"max_conn_idle_time"`
	DialTimeout      time.Duration `yaml:"dial_timeout"`
	StatementTimeout time.Duration `yaml:"statement_timeout"`
}

// SourceConfig holds the document collaborator configuration
type SourceConfig struct {
	PdfToText string `yaml:"pdftotext"`
	PdfToHTML string `yaml:"pdftohtml"`
	MaxPages  int    `yaml:"max_pages"`
	WorkDir   string `yaml:"work_dir"`
}

// PhotosConfig holds image classifier thresholds
type PhotosConfig struct {
	MinDimension    int     `yaml:"min_dimension"`
	MinPayloadBytes int     `yaml:"min_payload_bytes"`
	EdgeMargin      float64 `yaml:"edge_margin"`
}

// BatchConfig holds worker pool configuration
type BatchConfig struct {
	Workers       int           `yaml:"workers"`
	QueueSize     int           `yaml:"queue_size"`
	JobTimeout    time.Duration `yaml:"job_timeout"`
	OutputDir     string        `yaml:"output_dir"`
	ExportZip     bool          `yaml:"export_zip"`
	ExportConsole bool          `yaml:"export_console"`
}

// ReportConfig holds reporting configuration
type ReportConfig struct {
	SupervisionTag string `yaml:"supervision_tag"`
	WorkbookName   string `yaml:"workbook_name"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			MaxConns:        10,
			MinConns:        1,
			MaxConnLifetime: 30 * time.Minute,
			MaxConnIdleTime: 5 * time.Minute,
			DialTimeout:     3 * time.Second,
		},
		Source: SourceConfig{
			PdfToText: "pdftotext",
			PdfToHTML: "pdftohtml",
			MaxPages:  200,
		},
		Photos: PhotosConfig{
			MinDimension:    50,
			MinPayloadBytes: 500,
			EdgeMargin:      0.10,
		},
		Batch: BatchConfig{
			Workers:    4,
			QueueSize:  64,
			JobTimeout: 2 * time.Minute,
			OutputDir:  "./out",
			ExportZip:  true,
		},
		Report: ReportConfig{
			SupervisionTag: "SBXD",
			WorkbookName:   "dados_relatorios.xlsx",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig layers configuration: defaults, then the optional YAML file at
// path, then a .env file in the working directory, then environment variables.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, NewAppError("CONFIG_ERROR", "read config file", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, NewAppError("CONFIG_ERROR", "parse config file", err)
		}
	}

	// .env never overrides variables already set in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, NewAppError("CONFIG_ERROR", "load .env", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Store.DSN = getEnv("DB_URL", c.Store.DSN)
	c.Store.MaxConns = getEnvAsInt32("DB_MAX_CONNS", c.Store.MaxConns)
	c.Store.MinConns = getEnvAsInt32("DB_MIN_CONNS", c.Store.MinConns)
	c.Store.MaxConnLifetime = getEnvAsDuration("DB_MAX_CONN_LIFETIME", c.Store.MaxConnLifetime)
	c.Store.MaxConnIdleTime = getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", c.Store.MaxConnIdleTime)
	c.Store.DialTimeout = getEnvAsDuration("DB_DIAL_TIMEOUT", c.Store.DialTimeout)
	c.Store.StatementTimeout = getEnvAsDuration("DB_STATEMENT_TIMEOUT", c.Store.StatementTimeout)

	c.Source.PdfToText = getEnv("PDFTOTEXT_BIN", c.Source.PdfToText)
	c.Source.PdfToHTML = getEnv("PDFTOHTML_BIN", c.Source.PdfToHTML)
	c.Source.MaxPages = getEnvAsInt("SOURCE_MAX_PAGES", c.Source.MaxPages)
	c.Source.WorkDir = getEnv("SOURCE_WORK_DIR", c.Source.WorkDir)

	c.Photos.MinDimension = getEnvAsInt("PHOTO_MIN_DIMENSION", c.Photos.MinDimension)
	c.Photos.MinPayloadBytes = getEnvAsInt("PHOTO_MIN_PAYLOAD_BYTES", c.Photos.MinPayloadBytes)
	c.Photos.EdgeMargin = getEnvAsFloat64("PHOTO_EDGE_MARGIN", c.Photos.EdgeMargin)

	c.Batch.Workers = getEnvAsInt("BATCH_WORKERS", c.Batch.Workers)
	c.Batch.QueueSize = getEnvAsInt("BATCH_QUEUE_SIZE", c.Batch.QueueSize)
	c.Batch.JobTimeout = getEnvAsDuration("BATCH_JOB_TIMEOUT", c.Batch.JobTimeout)
	c.Batch.OutputDir = getEnv("BATCH_OUTPUT_DIR", c.Batch.OutputDir)
	c.Batch.ExportZip = getEnvAsBool("BATCH_EXPORT_ZIP", c.Batch.ExportZip)
	c.Batch.ExportConsole = getEnvAsBool("BATCH_EXPORT_CONSOLE", c.Batch.ExportConsole)

	c.Report.SupervisionTag = getEnv("REPORT_SUPERVISION_TAG", c.Report.SupervisionTag)
	c.Report.WorkbookName = getEnv("REPORT_WORKBOOK_NAME", c.Report.WorkbookName)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("source.pdftotext", c.Source.PdfToText, Required).
		Field("source.pdftohtml", c.Source.PdfToHTML, Required).
		Field("source.max_pages", c.Source.MaxPages, InRange(1, 10000)).
		Field("photos.min_dimension", c.Photos.MinDimension, InRange(1, 10000)).
		Field("photos.min_payload_bytes", c.Photos.MinPayloadBytes, InRange(0, 1<<24)).
		Field("photos.edge_margin", c.Photos.EdgeMargin, InRange(0, 0.5)).
		Field("batch.workers", c.Batch.Workers, InRange(1, 256)).
		Field("batch.queue_size", c.Batch.QueueSize, InRange(1, 1<<16)).
		Field("batch.output_dir", c.Batch.OutputDir, Required).
		Field("report.supervision_tag", c.Report.SupervisionTag, Required, MaxLength(16)).
		Field("logging.level", strings.ToLower(c.Logging.Level), OneOf("debug", "info", "warn", "error")).
		Field("logging.format", strings.ToLower(c.Logging.Format), OneOf("json", "text"))

	if c.Store.DSN != "" {
		v.Field("store.dsn", c.Store.DSN, StoreDSN)
	}

	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}

// String renders the configuration without secrets, for startup logs.
func (c *Config) String() string {
	dsn := "session"
	if c.Store.DSN != "" {
		dsn = redactDSN(c.Store.DSN)
	}
	return fmt.Sprintf("store=%s workers=%d queue=%d output=%s photos.min=%d/%dB margin=%.2f",
		dsn, c.Batch.Workers, c.Batch.QueueSize, c.Batch.OutputDir,
		c.Photos.MinDimension, c.Photos.MinPayloadBytes, c.Photos.EdgeMargin)
}

func redactDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		return scheme + "://***@" + rest[at+1:]
	}
	return dsn
}
