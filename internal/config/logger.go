package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/simp-lee/logger"
	gormlogger "gorm.io/gorm/logger"
)

// slowQueryThreshold marks a SQL statement as slow in the gorm log.
const slowQueryThreshold = 200 * time.Millisecond

var logFormats = map[string]logger.OutputFormat{
	"text": logger.FormatText,
	"json": logger.FormatJSON,
}

// SetupLogger builds the application logger from cfg and installs it as the
// slog default. Records carry the request attributes stored in the context.
// The caller closes the returned logger.
func SetupLogger(cfg *LogConfig) (*logger.Logger, error) {
	if cfg == nil {
		return nil, errors.New("log config is nil")
	}

	log, err := logger.New(loggerOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	log.SetDefault()
	return log, nil
}

// loggerOptions translates cfg into logger options. Console output is always
// on; file output and its rotation are added only when a file path is set.
func loggerOptions(cfg *LogConfig) []logger.Option {
	if cfg == nil {
		return nil
	}

	format, ok := logFormats[strings.ToLower(strings.TrimSpace(cfg.Format))]
	if !ok {
		format = logger.FormatCustom
	}
	color := cfg.Color == nil || *cfg.Color

	opts := []logger.Option{
		logger.WithLevel(parseLevel(cfg.Level)),
		logger.WithMiddleware(logger.ContextMiddleware()),
		logger.WithConsoleFormat(format),
		logger.WithConsoleColor(color),
	}
	if cfg.FilePath == "" {
		return opts
	}

	opts = append(opts, logger.WithFilePath(cfg.FilePath), logger.WithFileFormat(format))
	if cfg.MaxSizeMB > 0 {
		opts = append(opts, logger.WithMaxSizeMB(cfg.MaxSizeMB))
	}
	if cfg.RetentionDays > 0 {
		opts = append(opts, logger.WithRetentionDays(cfg.RetentionDays))
	}
	if cfg.MaxBackups > 0 {
		opts = append(opts, logger.WithMaxBackups(cfg.MaxBackups))
	}
	if cfg.CompressRotated != nil {
		opts = append(opts, logger.WithCompressRotated(*cfg.CompressRotated))
	}
	return opts
}

// parseLevel accepts slog level names in any case. Anything else is info.
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// sqlLogLevel picks the gorm log level from the level enabled on log:
// every statement at debug, slow statements and errors at info or warn,
// errors only above that.
func sqlLogLevel(log *slog.Logger) gormlogger.LogLevel {
	ctx := context.Background()
	switch {
	case log.Enabled(ctx, slog.LevelDebug):
		return gormlogger.Info
	case log.Enabled(ctx, slog.LevelWarn):
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}

// gormWriter forwards gorm log lines to slog so SQL logs share the
// application outputs and format.
type gormWriter struct {
	log *slog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// newGormLogger returns a gorm logger writing through log. Missing rows are
// not logged as errors: services report them as NotFound.
func newGormLogger(log *slog.Logger) gormlogger.Interface {
	return gormlogger.New(gormWriter{log: log.With(slog.String("component", "gorm"))}, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  sqlLogLevel(log),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
