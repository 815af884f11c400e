package visual

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	testcases := []struct {
		in   string
		want Operation
	}{
		{"Append", OpAppend},
		{"prepend", OpPrepend},
		{"INSERT", OpInsert},
		{"remove", OpRemove},
		{"pop", OpPop},
		{"Pop First", OpPopFirst},
		{"pop   first", OpPopFirst},
		{"popfirst", OpPopFirst},
		{"pop_first", OpPopFirst},
		{"pop-first", OpPopFirst},
		{"1", OpAppend},
		{"3", OpInsert},
		{"6", OpPopFirst},
		{"help", CmdHelp},
		{"?", CmdHelp},
		{"toggle", CmdToggle},
		{"reset", CmdReset},
		{" quit ", CmdQuit},
		{"q", CmdQuit},
	}
	for _, tc := range testcases {
		op, err := ParseCommand(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, op, tc.in)
	}

	for _, in := range []string{"", "0", "7", "-1", "push", "pop last"} {
		_, err := ParseCommand(in)
		require.ErrorIs(t, err, ErrUnknownCommand, in)
	}
}

func TestOperation_Names(t *testing.T) {
	labels := make([]string, 0, 6)
	for _, op := range ListOperations() {
		require.True(t, op.IsListOp())
		labels = append(labels, op.String())
	}
	require.Equal(t, []string{"Append", "Prepend", "Insert", "Remove", "Pop", "Pop First"}, labels)
	require.Equal(t, "pop_first", OpPopFirst.Name())
	require.False(t, CmdReset.IsListOp())
	require.Equal(t, "Operation(42)", Operation(42).String())
	require.Equal(t, "unknown", Operation(42).Name())
}
