package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

const version = "0.1.0"

func newCliApp(console Console) *cli.App {
	return &cli.App{
		Name:    "dsvisual",
		Usage:   "Draw a singly linked list in the terminal and edit it with append, prepend, insert, remove, pop and pop first.",
		Version: version,
		Flags:   newFlags(),
		OnUsageError: func(c *cli.Context, err error, isSubcommand bool) error {
			return &ErrorWithCode{StatusCode: ExitInvalidOptions, InternalError: err}
		},
		Action: func(c *cli.Context) error {
			opts, err := ParseOptions(c)
			if err != nil {
				return err
			}
			return run(c.Context, opts, console)
		},
	}
}

func main() {
	cli.AppHelpTemplate += `
EXIT CODES:
  0   Success
  2   Invalid options
  1   Any other error
`
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newCliApp(Console{Out: os.Stdout, Err: os.Stderr}).RunContext(ctx, os.Args)
	stop()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "dsvisual failed: %v\n", err)
		os.Exit(exitCode(err))
	}
}
