package xlog

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/dsvisual/lib/infra"
)

const logLevelEnv = "DSVISUAL_LOG_LVL"

var _ XLogger = (*xLogger)(nil)

type xLogger struct {
	logger     *zap.Logger
	level      zap.AtomicLevel
	ctxFields  map[string]string
	ws         zapcore.WriteSyncer
	encoder    LogEncoderType
	bannerOnce *sync.Once
}

func (l *xLogger) Named(name string) XLogger {
	return &xLogger{
		logger:     l.logger.Named(name),
		level:      l.level,
		ctxFields:  l.ctxFields,
		ws:         l.ws,
		encoder:    l.encoder,
		bannerOnce: l.bannerOnce,
	}
}

func (l *xLogger) Banner(banner Banner) {
	if banner == nil {
		return
	}
	l.bannerOnce.Do(func() {
		cfg := zapcore.EncoderConfig{
			MessageKey:    "banner", // Required, but the plain text will be ignored.
			LevelKey:      coreKeyIgnored,
			TimeKey:       coreKeyIgnored,
			CallerKey:     coreKeyIgnored,
			StacktraceKey: coreKeyIgnored,
		}
		text := banner.JSON()
		if l.encoder == PlainText {
			text = banner.PlainText()
		}
		core := zapcore.NewCore(getEncoderByType(l.encoder)(cfg), l.ws, l.level)
		zap.New(core).Info(text)
	})
}

func (l *xLogger) IncreaseLogLevel(level zapcore.Level) {
	l.level.SetLevel(level)
}

func (l *xLogger) Level() string {
	return l.level.Level().CapitalString()
}

func (l *xLogger) Sync() error {
	return l.logger.Sync()
}

func (l *xLogger) Debug(msg string, fields ...zap.Field) {
	l.logger.Debug(msg, fields...)
}

func (l *xLogger) Info(msg string, fields ...zap.Field) {
	l.logger.Info(msg, fields...)
}

func (l *xLogger) Warn(msg string, fields ...zap.Field) {
	l.logger.Warn(msg, fields...)
}

func (l *xLogger) Error(err error, msg string, fields ...zap.Field) {
	newFields := make([]zap.Field, 0, len(fields)+1)
	if err != nil {
		newFields = append(newFields, zap.String("error", err.Error()))
	}
	newFields = append(newFields, fields...)
	l.logger.Error(msg, newFields...)
}

func (l *xLogger) ErrorStack(err error, msg string, fields ...zap.Field) {
	l.logger.Error(msg, append(errorStackFields(err), fields...)...)
}

func (l *xLogger) DebugContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.logger.Debug(msg, append(l.extractFieldsFromContext(ctx), fields...)...)
}

func (l *xLogger) InfoContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.logger.Info(msg, append(l.extractFieldsFromContext(ctx), fields...)...)
}

func (l *xLogger) WarnContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.logger.Warn(msg, append(l.extractFieldsFromContext(ctx), fields...)...)
}

func (l *xLogger) ErrorContext(ctx context.Context, err error, msg string, fields ...zap.Field) {
	newFields := l.extractFieldsFromContext(ctx)
	newFields = append(newFields, errorStackFields(err)...)
	l.logger.Error(msg, append(newFields, fields...)...)
}

func (l *xLogger) Logf(lvl zapcore.Level, format string, args ...any) {
	l.logger.Log(lvl, fmt.Sprintf(format, args...))
}

func (l *xLogger) extractFieldsFromContext(ctx context.Context) []zap.Field {
	if ctx == nil || len(l.ctxFields) == 0 {
		return []zap.Field{}
	}

	keys := lo.Keys(l.ctxFields)
	sort.Strings(keys)
	newFields := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		mapTo := l.ctxFields[key]
		if mapTo == ContextKeyMapToOmitempty {
			continue
		}
		if v := ctx.Value(ContextKey(key)); v != nil {
			newFields = append(newFields, zap.Any(mapTo, v))
		} else {
			newFields = append(newFields, zap.String(mapTo, "nil"))
		}
	}
	return newFields
}

// An infra.ErrorStack is inlined with its frames, other errors
// are printed by their message.
func errorStackFields(err error) []zap.Field {
	if err == nil {
		return []zap.Field{}
	}
	if es, ok := err.(infra.ErrorStack); ok && es != nil {
		return []zap.Field{zap.Inline(es)}
	}
	return []zap.Field{zap.String("error", err.Error())}
}

type loggerCfg struct {
	ctxFields   map[string]string
	writerType  *LogOutWriterType
	encoderType *LogEncoderType
	lvlEncoder  zapcore.LevelEncoder
	tsEncoder   zapcore.TimeEncoder
	level       *zapcore.Level
	filePath    string
	name        string
}

func (cfg *loggerCfg) apply(l *xLogger) {
	if cfg.encoderType != nil {
		l.encoder = *cfg.encoderType
	} else {
		l.encoder = JSON
	}

	if cfg.level != nil {
		l.level = zap.NewAtomicLevelAt(*cfg.level)
	} else {
		l.level = zap.NewAtomicLevelAt(getLogLevelOrDefault(os.Getenv(logLevelEnv)))
	}

	l.ctxFields = cfg.ctxFields
	l.bannerOnce = &sync.Once{}

	if cfg.writerType == nil {
		w := StdOut
		cfg.writerType = &w
	}

	if cfg.lvlEncoder == nil {
		cfg.lvlEncoder = zapcore.CapitalLevelEncoder
	}

	if cfg.tsEncoder == nil {
		cfg.tsEncoder = zapcore.ISO8601TimeEncoder
	}
}

type XLoggerOption func(*loggerCfg) error

// NewXLogger builds the logger and the function releasing its writer.
func NewXLogger(opts ...XLoggerOption) (XLogger, func() error, error) {
	cfg := &loggerCfg{}
	for _, o := range opts {
		if err := o(cfg); err != nil {
			return nil, nil, err
		}
	}
	xl := &xLogger{}
	cfg.apply(xl)

	ws, stop, err := getOutWriterByType(*cfg.writerType, cfg.filePath)
	if err != nil {
		return nil, nil, err
	}
	xl.ws = ws
	if stop == nil {
		stop = func() error { return nil }
	}

	core := newConsoleCore(xl.level, xl.encoder, ws, cfg.lvlEncoder, cfg.tsEncoder)
	// Disable zap logger error stack.
	xl.logger = zap.New(
		core,
		zap.AddCallerSkip(1), // Use caller filename as service
		zap.AddCaller(),
	)
	if len(cfg.name) > 0 {
		xl.logger = xl.logger.Named(cfg.name)
	}
	return xl, stop, nil
}

// NewNopXLogger drops every entry.
func NewNopXLogger() XLogger {
	return &xLogger{
		logger:     zap.NewNop(),
		level:      zap.NewAtomicLevelAt(zapcore.ErrorLevel),
		ws:         zapcore.AddSync(io.Discard),
		bannerOnce: &sync.Once{},
	}
}

func WithXLoggerWriter(w LogOutWriterType) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if w >= _writerMax {
			return infra.NewErrorStack("unknown xlogger writer")
		}
		cfg.writerType = &w
		return nil
	}
}

// WithXLoggerFile writes the logs into the file instead of a standard stream.
func WithXLoggerFile(pathToLog string) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if len(pathToLog) == 0 {
			return nil
		}
		w := File
		cfg.writerType = &w
		cfg.filePath = pathToLog
		return nil
	}
}

func WithXLoggerEncoder(logEnc LogEncoderType) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if logEnc >= _encMax {
			return infra.NewErrorStack("unknown xlogger encoder")
		}
		cfg.encoderType = &logEnc
		return nil
	}
}

func WithXLoggerLevel(lvl LogLevel) XLoggerOption {
	return func(cfg *loggerCfg) error {
		_lvl := lvl.zapLevel()
		cfg.level = &_lvl
		return nil
	}
}

func WithXLoggerLevelEncoder(lvlEnc zapcore.LevelEncoder) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if lvlEnc == nil {
			lvlEnc = zapcore.CapitalColorLevelEncoder
		}
		cfg.lvlEncoder = lvlEnc
		return nil
	}
}

func WithXLoggerTimeEncoder(tsEnc zapcore.TimeEncoder) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if tsEnc == nil {
			tsEnc = zapcore.ISO8601TimeEncoder
		}
		cfg.tsEncoder = tsEnc
		return nil
	}
}

func WithXLoggerName(name string) XLoggerOption {
	return func(cfg *loggerCfg) error {
		cfg.name = name
		return nil
	}
}

// WithXLoggerContextFieldExtract registers a context key whose value is
// appended by the context methods, named mapTo[0] or the key itself.
func WithXLoggerContextFieldExtract(field string, mapTo ...string) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if len(field) == 0 {
			return nil
		}
		if cfg.ctxFields == nil {
			cfg.ctxFields = make(map[string]string, 4)
		}
		if len(mapTo) == 0 || mapTo[0] == ContextKeyMapToItself {
			mapTo = []string{field}
		}
		cfg.ctxFields[field] = mapTo[0]
		return nil
	}
}

func getLogLevelOrDefault(level string) zapcore.Level {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return zapcore.DebugLevel
	}
	return lvl.zapLevel()
}
