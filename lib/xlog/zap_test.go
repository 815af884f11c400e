package xlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/dsvisual/lib/infra"
)

type testMemOutWriter struct {
	bytes.Buffer
}

func (w *testMemOutWriter) Sync() error { return nil }

func (w *testMemOutWriter) lines(t *testing.T) []map[string]any {
	t.Helper()
	res := make([]map[string]any, 0, 8)
	for _, line := range strings.Split(strings.TrimSpace(w.String()), "\n") {
		if len(line) == 0 {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		res = append(res, m)
	}
	return res
}

func newTestMemLogger(t *testing.T, opts ...XLoggerOption) (XLogger, *testMemOutWriter) {
	t.Helper()
	w := &testMemOutWriter{}
	prev := testMemWriter
	testMemWriter = w
	t.Cleanup(func() { testMemWriter = prev })

	opts = append([]XLoggerOption{
		WithXLoggerWriter(testMemAsOut),
		WithXLoggerEncoder(JSON),
		WithXLoggerLevel(LogLevelDebug),
	}, opts...)
	logger, stop, err := NewXLogger(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stop() })
	return logger, w
}

func TestLogLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LogLevelDebug.String())
	require.Equal(t, "INFO", LogLevelInfo.String())
	require.Equal(t, "WARN", LogLevelWarn.String())
	require.Equal(t, "ERROR", LogLevelError.String())
	require.Equal(t, zapcore.DebugLevel, LogLevelDebug.zapLevel())
	require.Equal(t, zapcore.InfoLevel, LogLevelInfo.zapLevel())
	require.Equal(t, zapcore.WarnLevel, LogLevelWarn.zapLevel())
	require.Equal(t, zapcore.ErrorLevel, LogLevelError.zapLevel())
}

func TestParseLogLevelAndEncoder(t *testing.T) {
	testcases := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{" Info ", LogLevelInfo, false},
		{"WARN", LogLevelWarn, false},
		{"error", LogLevelError, false},
		{"", LogLevelDebug, false},
		{"trace", "", true},
	}
	for _, tc := range testcases {
		lvl, err := ParseLogLevel(tc.in)
		if tc.wantErr {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.want, lvl)
	}

	enc, err := ParseLogEncoder("text")
	require.NoError(t, err)
	require.Equal(t, PlainText, enc)
	enc, err = ParseLogEncoder("")
	require.NoError(t, err)
	require.Equal(t, JSON, enc)
	_, err = ParseLogEncoder("yaml")
	require.Error(t, err)

	require.Equal(t, zapcore.InfoLevel, getLogLevelOrDefault("info"))
	require.Equal(t, zapcore.DebugLevel, getLogLevelOrDefault("unknown"))
}

func TestXLogger_LevelsAndFields(t *testing.T) {
	logger, w := newTestMemLogger(t, WithXLoggerName("session"))

	logger.Debug("debug msg", zap.Int64("len", 3))
	logger.Info("info msg")
	logger.Warn("warn msg")
	logger.Error(errors.New("plain"), "error msg")
	logger.Logf(zapcore.InfoLevel, "formatted %d", 42)
	require.NoError(t, logger.Sync())

	lines := w.lines(t)
	require.Len(t, lines, 5)
	require.Equal(t, "DEBUG", lines[0]["lvl"])
	require.Equal(t, "debug msg", lines[0]["msg"])
	require.Equal(t, float64(3), lines[0]["len"])
	require.Equal(t, "session", lines[0]["component"])
	require.Equal(t, "WARN", lines[2]["lvl"])
	require.Equal(t, "plain", lines[3]["error"])
	require.Equal(t, "formatted 42", lines[4]["msg"])
	require.Contains(t, lines[0]["callAt"], "zap_test.go")
}

func TestXLogger_IncreaseLogLevel(t *testing.T) {
	logger, w := newTestMemLogger(t)
	child := logger.Named("child")

	logger.IncreaseLogLevel(zapcore.WarnLevel)
	require.Equal(t, "WARN", logger.Level())
	logger.Info("dropped")
	child.Info("dropped too")
	child.Warn("kept")
	require.Len(t, w.lines(t), 1)

	logger.IncreaseLogLevel(zapcore.DebugLevel)
	child.Debug("kept again")
	lines := w.lines(t)
	require.Len(t, lines, 2)
	require.Equal(t, "child", lines[1]["component"])
}

func TestXLogger_ErrorStack(t *testing.T) {
	logger, w := newTestMemLogger(t)

	err := infra.WrapErrorStackWithMessage(errors.New("cause"), "remove failed")
	logger.ErrorStack(err, "operation failed")
	logger.ErrorStack(errors.New("no stack"), "operation failed")

	lines := w.lines(t)
	require.Len(t, lines, 2)
	require.Equal(t, "remove failed: cause", lines[0]["error"])
	frames, ok := lines[0]["errorStack"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, frames)
	require.Equal(t, "no stack", lines[1]["error"])
	require.NotContains(t, lines[1], "errorStack")
}

func TestXLogger_ContextFields(t *testing.T) {
	logger, w := newTestMemLogger(t,
		WithXLoggerContextFieldExtract("op"),
		WithXLoggerContextFieldExtract("session", "sid"),
		WithXLoggerContextFieldExtract("secret", ContextKeyMapToOmitempty),
		WithXLoggerContextFieldExtract(""),
	)

	ctx := context.WithValue(context.Background(), ContextKey("op"), "append")
	ctx = context.WithValue(ctx, ContextKey("secret"), "hidden")
	logger.InfoContext(ctx, "with ctx")
	logger.DebugContext(nil, "nil ctx")
	logger.WarnContext(ctx, "warn ctx")
	logger.ErrorContext(ctx, infra.NewErrorStack("boom"), "error ctx")

	lines := w.lines(t)
	require.Len(t, lines, 4)
	require.Equal(t, "append", lines[0]["op"])
	require.Equal(t, "nil", lines[0]["sid"])
	require.NotContains(t, lines[0], "secret")
	require.NotContains(t, lines[1], "op")
	require.Equal(t, "boom", lines[3]["error"])
	require.Contains(t, lines[3], "errorStack")
}

type testBanner struct{}

func (b testBanner) JSON() string { return "{\"app\":\"dsvisual\"}" }

func (b testBanner) PlainText() string { return "DSVISUAL" }

func TestXLogger_Banner(t *testing.T) {
	logger, w := newTestMemLogger(t)
	logger.Banner(testBanner{})
	logger.Banner(testBanner{}) // printed once
	logger.Named("child").Banner(testBanner{})
	logger.Banner(nil)
	require.Equal(t, "{\"banner\":\"{\\\"app\\\":\\\"dsvisual\\\"}\"}\n", w.String())

	textLogger, tw := newTestMemLogger(t, WithXLoggerEncoder(PlainText))
	textLogger.Banner(testBanner{})
	require.Equal(t, "DSVISUAL\n", tw.String())
}

func TestNewXLogger_InvalidOptions(t *testing.T) {
	_, _, err := NewXLogger(WithXLoggerWriter(_writerMax))
	require.Error(t, err)
	_, _, err = NewXLogger(WithXLoggerEncoder(_encMax))
	require.Error(t, err)
	_, _, err = NewXLogger(WithXLoggerFile("logs/"))
	require.Error(t, err)
}

func TestNewNopXLogger(t *testing.T) {
	logger := NewNopXLogger()
	require.Equal(t, "ERROR", logger.Level())
	require.NotPanics(t, func() {
		logger.Info("dropped")
		logger.ErrorStack(infra.NewErrorStack("dropped"), "dropped")
		logger.Named("child").Banner(testBanner{})
	})
	require.NoError(t, logger.Sync())
}
