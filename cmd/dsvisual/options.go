package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/benz9527/dsvisual/lib/xlog"
	"github.com/benz9527/dsvisual/observability"
	"github.com/benz9527/dsvisual/visual"
)

const (
	ExitInvalidOptions = 2
	ExitFailure        = 1

	envPrefix = "DSVISUAL_"
)

// ErrorWithCode carries the process exit status of a failure.
type ErrorWithCode struct {
	StatusCode    int
	InternalError error
}

func (e *ErrorWithCode) Error() string {
	return e.InternalError.Error()
}

func (e *ErrorWithCode) Unwrap() error {
	return e.InternalError
}

func invalidOptions(format string, args ...any) error {
	return &ErrorWithCode{
		StatusCode:    ExitInvalidOptions,
		InternalError: fmt.Errorf(format, args...),
	}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var errWithCode *ErrorWithCode
	if errors.As(err, &errWithCode) {
		return errWithCode.StatusCode
	}
	return ExitFailure
}

func env(name string) []string {
	return []string{envPrefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))}
}

// newFlags builds fresh flags for each app, the flags keep the values
// read from the environment.
func newFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:    "initial",
			Aliases: []string{"i"},
			Value:   1,
			Usage:   "value of the single node the list starts with",
			EnvVars: env("initial"),
		},
		&cli.BoolFlag{
			Name:    "empty",
			Usage:   "start with an empty list",
			EnvVars: env("empty"),
		},
		&cli.BoolFlag{
			Name:    "arena",
			Usage:   "store the nodes in an index addressed arena",
			EnvVars: env("arena"),
		},
		&cli.IntFlag{
			Name:    "width",
			Aliases: []string{"w"},
			Value:   visual.DefaultWidth,
			Usage:   "drawing width in columns, rows wrap beyond it",
			EnvVars: env("width"),
		},
		&cli.StringFlag{
			Name:    "script",
			Aliases: []string{"s"},
			Usage:   "read the commands from a file instead of the terminal",
			EnvVars: env("script"),
		},
		&cli.BoolFlag{
			Name:    "educational",
			Usage:   "start with the index line and the traversal cost shown",
			EnvVars: env("educational"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   string(xlog.LogLevelInfo),
			Usage:   "DEBUG, INFO, WARN or ERROR; DEBUG also checks the list invariants after every operation",
			EnvVars: env("log-lvl"),
		},
		&cli.StringFlag{
			Name:    "log-encoder",
			Value:   "json",
			Usage:   "json or text",
			EnvVars: env("log-encoder"),
		},
		&cli.StringFlag{
			Name:    "log-file",
			Usage:   "write the logs into this file, stderr if unset",
			EnvVars: env("log-file"),
		},
		&cli.StringFlag{
			Name:    "metrics",
			Value:   string(observability.MetricsNone),
			Usage:   "none, stdout (written to stderr) or prometheus",
			EnvVars: env("metrics"),
		},
		&cli.StringFlag{
			Name:    "metrics-addr",
			Value:   ":9464",
			Usage:   "prometheus scrape address, empty to disable the endpoint",
			EnvVars: env("metrics-addr"),
		},
	}
}

type Options struct {
	InitialValue int64
	Empty        bool
	Arena        bool
	Width        int
	ScriptPath   string
	Educational  bool
	LogLevel     xlog.LogLevel
	LogEncoder   xlog.LogEncoderType
	LogFile      string
	Metrics      observability.MetricsExporterKind
	MetricsAddr  string
}

// Validate reports whether the list invariants are checked after every
// operation.
func (opts *Options) Validate() bool {
	return opts.LogLevel == xlog.LogLevelDebug
}

func ParseOptions(c *cli.Context) (*Options, error) {
	opts := &Options{
		InitialValue: c.Int64("initial"),
		Empty:        c.Bool("empty"),
		Arena:        c.Bool("arena"),
		Width:        c.Int("width"),
		ScriptPath:   strings.TrimSpace(c.String("script")),
		Educational:  c.Bool("educational"),
		LogFile:      strings.TrimSpace(c.String("log-file")),
		MetricsAddr:  strings.TrimSpace(c.String("metrics-addr")),
	}

	if opts.Empty && c.IsSet("initial") {
		return nil, invalidOptions("--empty conflicts with --initial %d", opts.InitialValue)
	}
	if opts.Width <= 0 {
		return nil, invalidOptions("width must be positive, got %d", opts.Width)
	}

	var err error
	if opts.LogLevel, err = xlog.ParseLogLevel(c.String("log-level")); err != nil {
		return nil, invalidOptions("log level: %v", err)
	}
	if opts.LogEncoder, err = xlog.ParseLogEncoder(c.String("log-encoder")); err != nil {
		return nil, invalidOptions("log encoder: %v", err)
	}
	if opts.Metrics, err = observability.ParseMetricsExporterKind(c.String("metrics")); err != nil {
		return nil, invalidOptions("metrics: %v", err)
	}

	if len(opts.ScriptPath) > 0 {
		info, err := os.Stat(opts.ScriptPath)
		if err != nil {
			return nil, invalidOptions("script at '%v' is missing or invalid: %v", opts.ScriptPath, err)
		}
		if !info.Mode().IsRegular() {
			return nil, invalidOptions("script at '%v' is not a regular file", opts.ScriptPath)
		}
	}
	return opts, nil
}
