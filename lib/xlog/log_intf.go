package xlog

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/dsvisual/lib/infra"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

func (lvl LogLevel) zapLevel() zapcore.Level {
	switch lvl {
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelDebug:
		fallthrough
	default:
	}
	return zapcore.DebugLevel
}

func (lvl LogLevel) String() string {
	return string(lvl)
}

func ParseLogLevel(level string) (LogLevel, error) {
	switch lvl := LogLevel(strings.ToUpper(strings.TrimSpace(level))); lvl {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return lvl, nil
	case "":
		return LogLevelDebug, nil
	}
	return "", infra.NewErrorStack("unknown log level <" + level + ">")
}

type LogEncoderType uint8

const (
	JSON LogEncoderType = iota
	PlainText
	_encMax
)

func ParseLogEncoder(enc string) (LogEncoderType, error) {
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "json", "":
		return JSON, nil
	case "text", "plain", "console":
		return PlainText, nil
	}
	return _encMax, infra.NewErrorStack("unknown log encoder <" + enc + ">")
}

type LogOutWriterType uint8

const (
	StdOut LogOutWriterType = iota
	StdErr
	File
	testMemAsOut
	_writerMax
)

// ContextKey is the type of context keys the logger extracts as fields.
type ContextKey string

const (
	ContextKeyMapToOmitempty = "_"
	ContextKeyMapToItself    = ""
	coreKeyIgnored           = ""
)

type Banner interface {
	JSON() string
	PlainText() string
}

// XLogger is mainly implemented by Uber zap logger.
//
// ErrorStack prints the frames of an infra.ErrorStack as structured
// fields instead of zap's plain text stacktrace.
//
// The methods with context append the values of the registered
// context keys as additional fields.
type XLogger interface {
	// Named creates a child logger sharing the level and the writer.
	Named(name string) XLogger
	IncreaseLogLevel(level zapcore.Level)
	Level() string
	Sync() error
	Banner(banner Banner)

	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(err error, msg string, fields ...zap.Field)
	ErrorStack(err error, msg string, fields ...zap.Field)

	DebugContext(ctx context.Context, msg string, fields ...zap.Field)
	InfoContext(ctx context.Context, msg string, fields ...zap.Field)
	WarnContext(ctx context.Context, msg string, fields ...zap.Field)
	ErrorContext(ctx context.Context, err error, msg string, fields ...zap.Field)

	Logf(lvl zapcore.Level, format string, args ...any)
}
