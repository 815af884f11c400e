package visual

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/chzyer/readline"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/multierr"

	"github.com/benz9527/dsvisual/lib/infra"
	"github.com/benz9527/dsvisual/lib/xlog"
)

type InputErr string

const (
	ErrInputCancelled InputErr = "input cancelled"
	ErrInvalidInput   InputErr = "invalid input"
	ErrUnknownCommand InputErr = "unknown command"
)

func (err InputErr) Error() string {
	return string(err)
}

// ScriptCancelToken is the script line that cancels the pending prompt.
const ScriptCancelToken = "cancel"

// InputProvider supplies the raw lines typed (or scripted) for a prompt.
// io.EOF means no more input will ever arrive.
type InputProvider interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
	Close() error
}

// ReadInt reads a base 10 integer. An empty entry, EOF, interrupt or
// ctx cancellation yield ErrInputCancelled, a non numeric entry yields
// ErrInvalidInput.
func ReadInt(ctx context.Context, in InputProvider, prompt string) (int64, error) {
	line, err := in.ReadLine(ctx, prompt)
	if err != nil {
		if errors.Is(err, io.EOF) ||
			errors.Is(err, ErrInputCancelled) ||
			errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return 0, infra.WrapErrorStackWithMessage(ErrInputCancelled, prompt)
		}
		return 0, infra.WrapErrorStackWithMessage(err, prompt)
	}
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return 0, infra.WrapErrorStackWithMessage(ErrInputCancelled, prompt)
	}
	v, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return 0, infra.WrapErrorStackWithMessage(ErrInvalidInput, strconv.Quote(line)+" is not an integer")
	}
	return v, nil
}

type TerminalConfig struct {
	HistoryFile string
	Stdout      io.Writer
	Logger      xlog.XLogger
}

var _ InputProvider = (*terminalInput)(nil)

type terminalInput struct {
	rl     *readline.Instance
	pool   *ants.Pool
	closed *atomic.Bool
}

type readResult struct {
	line string
	err  error
}

// NewTerminalInput reads from the line editor. The blocking read runs
// on a single worker so that a cancelled ctx returns at once; the line
// editor is closed in that case.
func NewTerminalInput(cfg TerminalConfig) (InputProvider, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdout:          cfg.Stdout,
	})
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "terminal input")
	}
	pool, err := ants.NewPool(1,
		ants.WithPreAlloc(true),
		ants.WithLogger(xlog.NewAntsXLogger(cfg.Logger)),
	)
	if err != nil {
		return nil, multierr.Append(infra.WrapErrorStackWithMessage(err, "terminal input worker"), rl.Close())
	}
	return &terminalInput{
		rl:     rl,
		pool:   pool,
		closed: &atomic.Bool{},
	}, nil
}

func (in *terminalInput) ReadLine(ctx context.Context, prompt string) (string, error) {
	if in.closed.Load() {
		return "", io.EOF
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	in.rl.SetPrompt(prompt + " ")
	resC := make(chan readResult, 1)
	if err := in.pool.Submit(func() {
		line, err := in.rl.Readline()
		resC <- readResult{line: line, err: err}
	}); err != nil {
		return "", infra.WrapErrorStackWithMessage(err, "submit terminal read")
	}
	select {
	case <-ctx.Done():
		_ = in.Close()
		return "", ctx.Err()
	case res := <-resC:
		if errors.Is(res.err, readline.ErrInterrupt) {
			return "", ErrInputCancelled
		}
		return res.line, res.err
	}
}

func (in *terminalInput) Close() error {
	if !in.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := in.rl.Close()
	in.pool.Release()
	return err
}

var _ InputProvider = (*scriptInput)(nil)

type scriptInput struct {
	scanner *bufio.Scanner
	closer  io.Closer
	echo    io.Writer
	closed  bool
}

// NewScriptInput reads one entry per line from r. Blank lines and lines
// starting with '#' are skipped and the ScriptCancelToken line cancels
// the pending prompt. Every consumed entry is echoed after its prompt
// when echo is not nil. r is closed by Close if it is an io.Closer.
func NewScriptInput(r io.Reader, echo io.Writer) InputProvider {
	in := &scriptInput{
		scanner: bufio.NewScanner(r),
		echo:    echo,
	}
	if c, ok := r.(io.Closer); ok {
		in.closer = c
	}
	return in
}

func (in *scriptInput) ReadLine(ctx context.Context, prompt string) (string, error) {
	if in.closed {
		return "", io.EOF
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for in.scanner.Scan() {
		line := strings.TrimSpace(in.scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		if in.echo != nil {
			_, _ = io.WriteString(in.echo, prompt+" "+line+"\n")
		}
		if strings.EqualFold(line, ScriptCancelToken) {
			return "", nil
		}
		return line, nil
	}
	if err := in.scanner.Err(); err != nil {
		return "", infra.WrapErrorStackWithMessage(err, "read script")
	}
	return "", io.EOF
}

func (in *scriptInput) Close() error {
	if in.closed {
		return nil
	}
	in.closed = true
	if in.closer != nil {
		return in.closer.Close()
	}
	return nil
}
