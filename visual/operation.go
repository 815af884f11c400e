package visual

import (
	"strconv"
	"strings"

	"github.com/benz9527/dsvisual/lib/infra"
)

type Operation uint8

const (
	OpAppend Operation = iota
	OpPrepend
	OpInsert
	OpRemove
	OpPop
	OpPopFirst
	CmdHelp
	CmdToggle
	CmdReset
	CmdQuit
	_opMax
)

var opLabels = [_opMax]string{
	OpAppend:   "Append",
	OpPrepend:  "Prepend",
	OpInsert:   "Insert",
	OpRemove:   "Remove",
	OpPop:      "Pop",
	OpPopFirst: "Pop First",
	CmdHelp:    "help",
	CmdToggle:  "toggle",
	CmdReset:   "reset",
	CmdQuit:    "quit",
}

var opNames = [_opMax]string{
	OpAppend:   "append",
	OpPrepend:  "prepend",
	OpInsert:   "insert",
	OpRemove:   "remove",
	OpPop:      "pop",
	OpPopFirst: "pop_first",
	CmdHelp:    "help",
	CmdToggle:  "toggle",
	CmdReset:   "reset",
	CmdQuit:    "quit",
}

var opAliases = map[string]Operation{
	"append":    OpAppend,
	"prepend":   OpPrepend,
	"insert":    OpInsert,
	"remove":    OpRemove,
	"pop":       OpPop,
	"pop first": OpPopFirst,
	"popfirst":  OpPopFirst,
	"pop_first": OpPopFirst,
	"pop-first": OpPopFirst,
	"help":      CmdHelp,
	"?":         CmdHelp,
	"toggle":    CmdToggle,
	"reset":     CmdReset,
	"quit":      CmdQuit,
	"exit":      CmdQuit,
	"q":         CmdQuit,
}

// String returns the button label.
func (op Operation) String() string {
	if op >= _opMax {
		return "Operation(" + strconv.Itoa(int(op)) + ")"
	}
	return opLabels[op]
}

// Name is the snake case name used in logs and metrics.
func (op Operation) Name() string {
	if op >= _opMax {
		return "unknown"
	}
	return opNames[op]
}

// IsListOp reports whether op mutates the list.
func (op Operation) IsListOp() bool {
	return op <= OpPopFirst
}

// ListOperations returns the operation buttons in display order.
func ListOperations() []Operation {
	return []Operation{OpAppend, OpPrepend, OpInsert, OpRemove, OpPop, OpPopFirst}
}

// ParseCommand accepts a button label, a lower case alias or the
// 1-based button number.
func ParseCommand(cmd string) (Operation, error) {
	cmd = strings.ToLower(strings.Join(strings.Fields(cmd), " "))
	if op, ok := opAliases[cmd]; ok {
		return op, nil
	}
	if n, err := strconv.Atoi(cmd); err == nil && n >= 1 && n <= int(OpPopFirst)+1 {
		return Operation(n - 1), nil
	}
	return _opMax, infra.WrapErrorStackWithMessage(ErrUnknownCommand, strconv.Quote(cmd))
}
