package visual

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/benz9527/dsvisual/lib/list"
	"github.com/benz9527/dsvisual/lib/xlog"
	"github.com/benz9527/dsvisual/observability"
)

const (
	commandPrompt    = "Command:"
	maxInputAttempts = 3
	// OpContextKey carries the operation name for the context logger.
	OpContextKey = xlog.ContextKey("op")
)

type sessionCfg struct {
	initial     int64
	empty       bool
	arena       bool
	arenaChunk  uint32
	educational bool
	validate    bool
	renderer    Renderer
	logger      xlog.XLogger
	stats       *observability.ListStats
}

type SessionOption func(cfg *sessionCfg)

// WithSessionInitialValue seeds the list, and every reset, with v.
func WithSessionInitialValue(v int64) SessionOption {
	return func(cfg *sessionCfg) {
		cfg.initial = v
		cfg.empty = false
	}
}

// WithSessionEmpty starts, and resets, with an empty list.
func WithSessionEmpty() SessionOption {
	return func(cfg *sessionCfg) {
		cfg.empty = true
	}
}

func WithSessionArena(capPerChunk uint32) SessionOption {
	return func(cfg *sessionCfg) {
		cfg.arena = true
		cfg.arenaChunk = capPerChunk
	}
}

func WithSessionEducational(educational bool) SessionOption {
	return func(cfg *sessionCfg) {
		cfg.educational = educational
	}
}

// WithSessionValidate checks the list invariants after every operation.
func WithSessionValidate(validate bool) SessionOption {
	return func(cfg *sessionCfg) {
		cfg.validate = validate
	}
}

func WithSessionRenderer(r Renderer) SessionOption {
	return func(cfg *sessionCfg) {
		cfg.renderer = r
	}
}

func WithSessionLogger(logger xlog.XLogger) SessionOption {
	return func(cfg *sessionCfg) {
		cfg.logger = logger
	}
}

func WithSessionStats(stats *observability.ListStats) SessionOption {
	return func(cfg *sessionCfg) {
		cfg.stats = stats
	}
}

// Session owns the list exclusively and applies one operation at a time.
// Input is always collected before the list is touched.
type Session struct {
	cfg   *sessionCfg
	list  list.SinglyLinkedList[int64]
	in    InputProvider
	out   io.Writer
	state ViewState
}

func NewSession(in InputProvider, out io.Writer, opts ...SessionOption) *Session {
	cfg := &sessionCfg{
		initial:  1,
		renderer: TextRenderer{Width: DefaultWidth},
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = xlog.NewNopXLogger()
	}
	if out == nil {
		out = io.Discard
	}
	s := &Session{
		cfg: cfg,
		in:  in,
		out: out,
		state: ViewState{
			Educational: cfg.educational,
		},
	}
	s.list = s.newList()
	s.cfg.stats.ObserveLength(s.list.Len())
	return s
}

func (s *Session) newList() list.SinglyLinkedList[int64] {
	seed := make([]int64, 0, 1)
	if !s.cfg.empty {
		seed = append(seed, s.cfg.initial)
	}
	if s.cfg.arena {
		return list.NewArenaSinglyLinkedList[int64](s.cfg.arenaChunk, seed...)
	}
	return list.NewSinglyLinkedList[int64](seed...)
}

// List exposes the list for reading. Callers must not mutate it.
func (s *Session) List() list.SinglyLinkedList[int64] {
	return s.list
}

func (s *Session) State() ViewState {
	return s.state
}

// Render draws the list and the last operation status.
func (s *Session) Render() error {
	return s.cfg.renderer.Render(s.out, s.list, &s.state)
}

// Run renders, reads a command and executes it until quit, the end of
// the input or ctx is done. List operation failures never stop it.
func (s *Session) Run(ctx context.Context) error {
	s.writeHelp()
	for {
		if ctx.Err() != nil {
			s.info(ctx, "session interrupted")
			return nil
		}
		if err := s.Render(); err != nil {
			return err
		}
		line, err := s.in.ReadLine(ctx, commandPrompt)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF), ctx.Err() != nil:
				s.info(ctx, "session finished, no more input")
				return nil
			case errors.Is(err, ErrInputCancelled):
				continue
			}
			s.logger().ErrorStack(err, "read command failed")
			return err
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		op, err := ParseCommand(line)
		if err != nil {
			s.state.fail(_opMax, fmt.Sprintf("Unknown command %q, type help", strings.TrimSpace(line)), err)
			continue
		}
		if op == CmdQuit {
			s.info(ctx, "session finished", zap.Int64("len", s.list.Len()))
			return nil
		}
		if err := s.Execute(ctx, op); err != nil {
			return err
		}
	}
}

// Execute applies a single operation or session command. The returned
// error is not nil only for failures that must stop the session: the
// input broke down or the list invariants were violated.
func (s *Session) Execute(ctx context.Context, op Operation) error {
	ctx = context.WithValue(ctx, OpContextKey, op.Name())
	switch op {
	case CmdHelp:
		s.writeHelp()
		s.state.succeed(op, "", 0)
		return nil
	case CmdToggle:
		s.state.Educational = !s.state.Educational
		s.state.succeed(op, "Educational view "+lo.Ternary(s.state.Educational, "on", "off"), 0)
		return nil
	case CmdReset:
		s.list.Clear()
		s.list = s.newList()
		s.cfg.stats.ObserveLength(s.list.Len())
		s.state.succeed(op, lo.Ternary(s.cfg.empty, "Reset to an empty list", fmt.Sprintf("Reset to [%d]", s.cfg.initial)), 0)
		s.info(ctx, "list reset", zap.Int64("len", s.list.Len()))
		return nil
	case CmdQuit:
		return nil
	}
	if !op.IsListOp() {
		return ErrUnknownCommand
	}

	lenBefore := s.list.Len()
	msg, walked, err := s.apply(ctx, op, lenBefore)
	outcome := outcomeOf(err)
	s.cfg.stats.RecordOperation(ctx, op.Name(), outcome)
	s.cfg.stats.ObserveLength(s.list.Len())

	switch outcome {
	case observability.OutcomeOK:
		s.state.succeed(op, msg, walked)
		s.logger().DebugContext(ctx, msg,
			zap.Int64("len", s.list.Len()),
			zap.Int64("walked", walked),
		)
	case observability.OutcomeCancelled:
		s.state.fail(op, op.String()+" cancelled", err)
		s.logger().DebugContext(ctx, "operation cancelled")
	case observability.OutcomeInvalidInput, observability.OutcomeIndexOutOfRange, observability.OutcomeEmptyList:
		s.state.fail(op, msg, err)
		s.logger().WarnContext(ctx, msg,
			zap.String("outcome", string(outcome)),
			zap.Int64("len", s.list.Len()),
		)
	default:
		s.state.fail(op, msg, err)
		s.logger().ErrorContext(ctx, err, "operation failed")
		return err
	}

	if s.cfg.validate {
		if verr := s.list.Validate(); verr != nil {
			s.logger().ErrorContext(ctx, verr, "list invariants broken")
			return verr
		}
	}
	return nil
}

func (s *Session) apply(ctx context.Context, op Operation, lenBefore int64) (string, int64, error) {
	switch op {
	case OpAppend:
		v, err := s.readInt(ctx, "Enter value to append:")
		if err != nil {
			return "Append: " + inputFailure(err), 0, err
		}
		s.list.Append(v)
		return fmt.Sprintf("Appended %d", v), 0, nil
	case OpPrepend:
		v, err := s.readInt(ctx, "Enter value to prepend:")
		if err != nil {
			return "Prepend: " + inputFailure(err), 0, err
		}
		s.list.Prepend(v)
		return fmt.Sprintf("Prepended %d", v), 0, nil
	case OpInsert:
		idx, err := s.readInt(ctx, "Enter index to insert at:")
		if err != nil {
			return "Insert: " + inputFailure(err), 0, err
		}
		v, err := s.readInt(ctx, "Enter value to insert:")
		if err != nil {
			return "Insert: " + inputFailure(err), 0, err
		}
		if err = s.list.Insert(idx, v); err != nil {
			return fmt.Sprintf("Cannot insert at index %d, valid range is [0, %d]", idx, lenBefore), 0, err
		}
		return fmt.Sprintf("Inserted %d as the %s node", v, humanize.Ordinal(int(idx+1))), walkedLinks(op, idx, lenBefore), nil
	case OpRemove:
		idx, err := s.readInt(ctx, "Enter index to remove:")
		if err != nil {
			return "Remove: " + inputFailure(err), 0, err
		}
		v, err := s.list.Remove(idx)
		if err != nil {
			if lenBefore == 0 {
				return "Cannot remove from an empty list", 0, err
			}
			return fmt.Sprintf("Cannot remove index %d, valid range is [0, %d]", idx, lenBefore-1), 0, err
		}
		return fmt.Sprintf("Removed %d from the %s node", v, humanize.Ordinal(int(idx+1))), walkedLinks(op, idx, lenBefore), nil
	case OpPop:
		v, err := s.list.Pop()
		if err != nil {
			return "Cannot pop from an empty list", 0, err
		}
		return fmt.Sprintf("Popped %d", v), walkedLinks(op, lenBefore-1, lenBefore), nil
	case OpPopFirst:
		v, err := s.list.PopFirst()
		if err != nil {
			return "Cannot pop first from an empty list", 0, err
		}
		return fmt.Sprintf("Popped first %d", v), 0, nil
	}
	return "", 0, ErrUnknownCommand
}

// readInt re-prompts on a non numeric entry and gives up after
// maxInputAttempts.
func (s *Session) readInt(ctx context.Context, prompt string) (int64, error) {
	var err error
	for attempt := 1; attempt <= maxInputAttempts; attempt++ {
		var v int64
		if v, err = ReadInt(ctx, s.in, prompt); err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrInvalidInput) {
			return 0, err
		}
		_, _ = fmt.Fprintf(s.out, "Not an integer, %s left\n",
			english.Plural(maxInputAttempts-attempt, "attempt", ""))
	}
	return 0, err
}

func (s *Session) writeHelp() {
	labels := lo.Map(ListOperations(), func(op Operation, i int) string {
		return fmt.Sprintf("%d) %s", i+1, op)
	})
	_, _ = fmt.Fprintf(s.out, "Operations: %s\nCommands: help, toggle, reset, quit\n", strings.Join(labels, "  "))
}

func (s *Session) logger() xlog.XLogger {
	return s.cfg.logger
}

func (s *Session) info(ctx context.Context, msg string, fields ...zap.Field) {
	s.logger().InfoContext(ctx, msg, fields...)
}

func inputFailure(err error) string {
	switch {
	case errors.Is(err, ErrInputCancelled):
		return "cancelled"
	case errors.Is(err, ErrInvalidInput):
		return "not an integer"
	}
	return err.Error()
}

// An index error is reported first since removing from an empty list is
// both.
func outcomeOf(err error) observability.Outcome {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, ErrInputCancelled):
		return observability.OutcomeCancelled
	case errors.Is(err, ErrInvalidInput):
		return observability.OutcomeInvalidInput
	case errors.Is(err, list.ErrIndexOutOfRange):
		return observability.OutcomeIndexOutOfRange
	case errors.Is(err, list.ErrEmptyList):
		return observability.OutcomeEmptyList
	}
	return ""
}

// walkedLinks is the number of successor links followed by op, pos
// being the target position and length the length before the call.
func walkedLinks(op Operation, pos, length int64) int64 {
	switch op {
	case OpInsert:
		if pos <= 0 || pos >= length {
			return 0
		}
		return pos - 1
	case OpRemove, OpPop:
		if pos <= 0 {
			return 0
		}
		if pos == length-1 {
			return max(length-2, 0)
		}
		return pos - 1
	}
	return 0
}
