package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service and worker settings.
type Config struct {
	Port             int
	OperationTimeout time.Duration
	Admin            Admin
	Sheets           Sheets
	Kafka            Kafka
	Backlog          Backlog
	RateLimit        RateLimit
	Log              Log
}

// Admin is the pprof and metrics listener.
type Admin struct {
	Port int
	User string
	Pass string
}

// Sheets locates the spreadsheet and its layout.
type Sheets struct {
	SpreadsheetID   string
	CredentialsFile string
	SchemaFile      string // empty uses the embedded layout
	ValidateSchema  bool
}

// Kafka configures the scan consumer. No brokers disables it.
type Kafka struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Backlog configures the pending gauge job.
type Backlog struct {
	Interval time.Duration
}

// RateLimit configures the per-client HTTP limiter.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Log selects the logging backend and level.
type Log struct {
	Level   string
	Backend string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	BindFlags(pflag.CommandLine, cfg)
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv reads .env and the environment without touching flags or validating.
func FromEnv() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := Default()
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	collect(envInt("PORT", &cfg.Port))
	collect(envDuration("OPERATION_TIMEOUT", &cfg.OperationTimeout))

	collect(envInt("ADMIN_PORT", &cfg.Admin.Port))
	envString("PPROF_USER", &cfg.Admin.User)
	envString("PPROF_PASS", &cfg.Admin.Pass)

	envString("SHEETS_SPREADSHEET_ID", &cfg.Sheets.SpreadsheetID)
	envString("SHEETS_CREDENTIALS_FILE", &cfg.Sheets.CredentialsFile)
	envString("SHEETS_SCHEMA_FILE", &cfg.Sheets.SchemaFile)
	collect(envBool("SHEETS_VALIDATE_SCHEMA", &cfg.Sheets.ValidateSchema))

	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	envString("KAFKA_TOPIC", &cfg.Kafka.Topic)
	envString("KAFKA_GROUP_ID", &cfg.Kafka.GroupID)

	collect(envDuration("BACKLOG_INTERVAL", &cfg.Backlog.Interval))

	collect(envBool("RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled))
	collect(envFloat("RATE_LIMIT_RPS", &cfg.RateLimit.Rate))
	collect(envInt("RATE_LIMIT_BURST", &cfg.RateLimit.Burst))
	collect(envDuration("RATE_LIMIT_TTL", &cfg.RateLimit.TTL))
	collect(envInt("RATE_LIMIT_MAX_BUCKETS", &cfg.RateLimit.MaxBuckets))

	envString("LOG_LEVEL", &cfg.Log.Level)
	envString("LOG_BACKEND", &cfg.Log.Backend)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BindFlags registers command-line overrides for the most used settings.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.IntVar(&cfg.Admin.Port, "admin-port", cfg.Admin.Port, "pprof and metrics port")
	fs.StringVar(&cfg.Sheets.SpreadsheetID, "spreadsheet-id", cfg.Sheets.SpreadsheetID, "spreadsheet holding deliveries")
	fs.StringVar(&cfg.Sheets.CredentialsFile, "credentials", cfg.Sheets.CredentialsFile, "service account JSON file")
	fs.StringVar(&cfg.Sheets.SchemaFile, "schema", cfg.Sheets.SchemaFile, "column layout YAML file")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "debug, info, warn or error")
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	if c.Admin.Port < 0 || c.Admin.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid admin port: %d", c.Admin.Port))
	}
	if strings.TrimSpace(c.Sheets.SpreadsheetID) == "" {
		errs = append(errs, errors.New("SHEETS_SPREADSHEET_ID is required"))
	}
	if c.OperationTimeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid operation timeout: %s", c.OperationTimeout))
	}
	if c.Backlog.Interval <= 0 {
		errs = append(errs, fmt.Errorf("invalid backlog interval: %s", c.Backlog.Interval))
	}
	switch c.Log.Backend {
	case LogBackendSlog, LogBackendZap:
	default:
		errs = append(errs, fmt.Errorf("unknown log backend %q", c.Log.Backend))
	}
	return errors.Join(errs...)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func envInt(key string, dst *int) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envFloat(key string, dst *float64) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func envBool(key string, dst *bool) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
