package logger

import (
	"os"
	"path/filepath"
	"strings"

	"cryptodb-gateway/internal/config"
	"cryptodb-gateway/internal/platform/paths"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerService interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, err error, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Success(msg string, fields ...zap.Field)
	Close() error
}

type service struct {
	logger *zap.Logger
	file   *os.File
}

// New writes JSON lines to cfg.LogFile, or the platform log path when unset.
// With cfg.Debug the output is mirrored to stderr and debug entries are kept.
func New(cfg config.Config) (LoggerService, error) {
	logPath := strings.TrimSpace(cfg.LogFile)
	if logPath == "" {
		p, err := paths.LoggerFilePath()
		if err != nil {
			return nil, err
		}
		logPath = p
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(f), level)
	if cfg.Debug {
		core = zapcore.NewTee(core, stderrCore(level))
	}

	return &service{
		logger: zap.New(core),
		file:   f,
	}, nil
}

func NewStderr() LoggerService {
	return &service{logger: zap.New(stderrCore(zapcore.InfoLevel))}
}

// NewZap wraps an existing zap logger, e.g. zaptest or zap.NewNop in tests.
func NewZap(l *zap.Logger) LoggerService {
	if l == nil {
		l = zap.NewNop()
	}
	return &service{logger: l}
}

func encoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	return ec
}

func stderrCore(level zapcore.Level) zapcore.Core {
	ec := encoderConfig()
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stderr), level)
}

func (s *service) Info(msg string, fields ...zap.Field) {
	s.write(zapcore.InfoLevel, msg, fields)
}

func (s *service) Error(msg string, err error, fields ...zap.Field) {
	msg = strings.TrimSpace(msg)
	if err != nil {
		if msg == "" {
			msg = err.Error()
		} else {
			fields = append(fields, zap.Error(err))
		}
	}
	s.write(zapcore.ErrorLevel, msg, fields)
}

func (s *service) Warn(msg string, fields ...zap.Field) {
	s.write(zapcore.WarnLevel, msg, fields)
}

func (s *service) Debug(msg string, fields ...zap.Field) {
	s.write(zapcore.DebugLevel, msg, fields)
}

func (s *service) Success(msg string, fields ...zap.Field) {
	s.write(zapcore.InfoLevel, msg, append(fields, zap.Bool("ok", true)))
}

func (s *service) Close() error {
	_ = s.logger.Sync()
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

func (s *service) write(level zapcore.Level, msg string, fields []zap.Field) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return
	}
	if ce := s.logger.Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}
