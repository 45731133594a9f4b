package config

import "time"

// Log backends.
const (
	LogBackendSlog = "slog"
	LogBackendZap  = "zap"
)

const (
	defaultPort             = 8080
	defaultAdminPort        = 6060
	defaultOperationTimeout = 10 * time.Second
)

var defaultKafka = Kafka{
	Topic:   "delivery-scans",
	GroupID: "delivery-tracker-worker",
}

var defaultBacklog = Backlog{
	Interval: time.Minute,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       5,
	Burst:      10,
	TTL:        5 * time.Minute,
	MaxBuckets: 10000,
}

var defaultLog = Log{
	Level:   "info",
	Backend: LogBackendSlog,
}

// Default returns a config with every default applied and no spreadsheet set.
func Default() *Config {
	return &Config{
		Port:             defaultPort,
		OperationTimeout: defaultOperationTimeout,
		Admin:            Admin{Port: defaultAdminPort},
		Sheets:           Sheets{ValidateSchema: true},
		Kafka:            defaultKafka,
		Backlog:          defaultBacklog,
		RateLimit:        defaultRateLimit,
		Log:              defaultLog,
	}
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultRateLimit returns the default limiter settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}
