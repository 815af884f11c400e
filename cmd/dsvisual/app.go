package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/safeopen"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/dsvisual/lib/infra"
	"github.com/benz9527/dsvisual/lib/xlog"
	"github.com/benz9527/dsvisual/observability"
	"github.com/benz9527/dsvisual/visual"
)

const appStopTimeout = 5 * time.Second

// Console is where the drawing goes. Err receives the stdout metrics
// exporter output so that it does not interleave with the drawing.
type Console struct {
	Out io.Writer
	Err io.Writer
}

type appBanner struct {
	version string
}

func (b appBanner) JSON() string {
	return fmt.Sprintf(`{"app":"dsvisual","version":%q}`, b.version)
}

func (b appBanner) PlainText() string {
	return "dsvisual " + b.version + " - singly linked list visualizer"
}

func newLogger(lc fx.Lifecycle, opts *Options) (xlog.XLogger, error) {
	logger, stop, err := xlog.NewXLogger(
		xlog.WithXLoggerWriter(xlog.StdErr),
		xlog.WithXLoggerFile(opts.LogFile),
		xlog.WithXLoggerEncoder(opts.LogEncoder),
		xlog.WithXLoggerLevel(opts.LogLevel),
		xlog.WithXLoggerName("dsvisual"),
		xlog.WithXLoggerContextFieldExtract(string(visual.OpContextKey)),
	)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() error {
		// Syncing a terminal stderr may fail with EINVAL.
		_ = logger.Sync()
		return stop()
	}))
	return logger, nil
}

func newMetricsExporter(lc fx.Lifecycle, opts *Options, console Console) (*observability.MetricsExporter, error) {
	exp, err := observability.NewMetricsExporter(opts.Metrics,
		observability.WithExportWriter(console.Err),
		observability.WithPrometheusAddr(opts.MetricsAddr),
	)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(exp.Shutdown))
	return exp, nil
}

// The exporter installs the global meter provider, the stats must be
// built after it.
func newListStats(exp *observability.MetricsExporter, logger xlog.XLogger) (*observability.ListStats, error) {
	stats, err := observability.NewListStats(nil)
	if err != nil {
		return nil, err
	}
	if exp.Kind() != observability.MetricsNone {
		observability.InitAppStats(context.Background(), "dsvisual", nil)
		logger.Info("metrics enabled",
			zap.String("exporter", string(exp.Kind())),
			zap.String("addr", exp.Addr()),
		)
	}
	return stats, nil
}

func newInput(lc fx.Lifecycle, opts *Options, console Console, logger xlog.XLogger) (visual.InputProvider, error) {
	var in visual.InputProvider
	if len(opts.ScriptPath) > 0 {
		path, err := filepath.Abs(opts.ScriptPath)
		if err != nil {
			return nil, infra.WrapErrorStackWithMessage(err, "script path")
		}
		f, err := safeopen.OpenBeneath(filepath.Dir(path), filepath.Base(path))
		if err != nil {
			return nil, infra.WrapErrorStackWithMessage(err, "open script "+path)
		}
		in = visual.NewScriptInput(f, console.Out)
		logger.Debug("reading commands from script", zap.String("path", path))
	} else {
		var err error
		if in, err = visual.NewTerminalInput(visual.TerminalConfig{
			Stdout: console.Out,
			Logger: logger,
		}); err != nil {
			return nil, err
		}
	}
	lc.Append(fx.StopHook(in.Close))
	return in, nil
}

func newRenderer(opts *Options) visual.Renderer {
	return visual.TextRenderer{Width: opts.Width}
}

func newSession(
	opts *Options,
	in visual.InputProvider,
	console Console,
	renderer visual.Renderer,
	logger xlog.XLogger,
	stats *observability.ListStats,
) *visual.Session {
	sessionOpts := []visual.SessionOption{
		visual.WithSessionRenderer(renderer),
		visual.WithSessionLogger(logger.Named("session")),
		visual.WithSessionStats(stats),
		visual.WithSessionEducational(opts.Educational),
		visual.WithSessionValidate(opts.Validate()),
	}
	if opts.Empty {
		sessionOpts = append(sessionOpts, visual.WithSessionEmpty())
	} else {
		sessionOpts = append(sessionOpts, visual.WithSessionInitialValue(opts.InitialValue))
	}
	if opts.Arena {
		sessionOpts = append(sessionOpts, visual.WithSessionArena(0))
	}
	return visual.NewSession(in, console.Out, sessionOpts...)
}

func appOptions(opts *Options, console Console) fx.Option {
	return fx.Options(
		fx.Supply(opts, console),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Provide(
			newLogger,
			newMetricsExporter,
			newListStats,
			newInput,
			newRenderer,
			newSession,
		),
		fx.Invoke(func(logger xlog.XLogger) {
			logger.Banner(appBanner{version: version})
		}),
	)
}

// run starts the app graph, drives the session to its end and stops
// the graph.
func run(ctx context.Context, opts *Options, console Console) (err error) {
	var session *visual.Session
	app := fx.New(appOptions(opts, console), fx.Populate(&session))
	if err = app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err = app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), appStopTimeout)
		defer cancel()
		err = multierr.Append(err, app.Stop(stopCtx))
	}()

	return session.Run(ctx)
}
