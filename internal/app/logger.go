package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"delivery-tracker/internal/config"
	"delivery-tracker/internal/logx"
)

// NewLogger builds the JSON logger selected by LOG_BACKEND, writing to stdout.
func NewLogger(cfg *config.Config) (logx.Logger, error) {
	return newLoggerTo(os.Stdout, cfg.Log.Backend, cfg.Log.Level)
}

func newLoggerTo(w io.Writer, backend, level string) (logx.Logger, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		level = "info"
	}
	switch backend {
	case config.LogBackendZap:
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(w),
			lvl,
		)
		return logx.NewZapAdapter(zap.New(core)), nil
	case config.LogBackendSlog, "":
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		return logx.NewSlogAdapter(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}
