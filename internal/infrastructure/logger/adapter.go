package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pagequery/internal/application/port/output"
)

var _ output.LoggerPort = (*LoggerAdapter)(nil)

type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	// Dir: каталог для файла лога, пусто значит только stderr.
	Dir    string
	Task   string
}

func DefaultConfig() Config {
	return Config{Level: "info", Format: "console"}
}

type LoggerAdapter struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
	file  *os.File
}

func NewLoggerAdapter(cfg Config) (*LoggerAdapter, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder(cfg.Format), zapcore.Lock(os.Stderr), level),
	}

	var file *os.File
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		filename := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02_15-04-05"), sanitize(cfg.Task))
		f, err := os.Create(filepath.Join(cfg.Dir, filename))
		if err != nil {
			return nil, fmt.Errorf("create log file: %w", err)
		}
		file = f
		// в файл всегда пишем JSON
		cores = append(cores, zapcore.NewCore(encoder("json"), zapcore.AddSync(f), level))
	}

	return FromZap(zap.New(zapcore.NewTee(cores...)), file), nil
}

// FromZap wraps an existing logger. file, if not nil, is closed by Close.
func FromZap(base *zap.Logger, file *os.File) *LoggerAdapter {
	if base == nil {
		base = zap.NewNop()
	}
	return &LoggerAdapter{base: base, sugar: base.Sugar(), file: file}
}

func encoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if format == "console" {
		return zapcore.NewConsoleEncoder(cfg)
	}
	return zapcore.NewJSONEncoder(cfg)
}

// Zap returns the underlying logger for libraries that take *zap.Logger.
func (l *LoggerAdapter) Zap() *zap.Logger {
	return l.base
}

func (l *LoggerAdapter) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

func (l *LoggerAdapter) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

func (l *LoggerAdapter) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

func (l *LoggerAdapter) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}

func (l *LoggerAdapter) WithField(key string, value any) output.LoggerPort {
	return l.with(zap.Any(key, value))
}

func (l *LoggerAdapter) WithFields(fields map[string]any) output.LoggerPort {
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	return l.with(zf...)
}

// with shares the file; only the root adapter should be closed.
func (l *LoggerAdapter) with(fields ...zap.Field) *LoggerAdapter {
	base := l.base.With(fields...)
	return &LoggerAdapter{base: base, sugar: base.Sugar(), file: l.file}
}

func (l *LoggerAdapter) Close() error {
	_ = l.base.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
	s = strings.Trim(s, "_")
	if s == "" {
		return "task"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
