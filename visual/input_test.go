package visual

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type closeTracker struct {
	*strings.Reader
	closed int
}

func (c *closeTracker) Close() error {
	c.closed++
	return nil
}

func TestScriptInput_SkipsCommentsAndBlankLines(t *testing.T) {
	echo := &bytes.Buffer{}
	in := NewScriptInput(strings.NewReader("# scenario\n\n  append  \n\n# value\n2\n"), echo)
	ctx := context.Background()

	line, err := in.ReadLine(ctx, "Command:")
	require.NoError(t, err)
	require.Equal(t, "append", line)
	line, err = in.ReadLine(ctx, "Enter value to append:")
	require.NoError(t, err)
	require.Equal(t, "2", line)
	_, err = in.ReadLine(ctx, "Command:")
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, "Command: append\nEnter value to append: 2\n", echo.String())
}

func TestScriptInput_Close(t *testing.T) {
	r := &closeTracker{Reader: strings.NewReader("pop\n")}
	in := NewScriptInput(r, nil)
	require.NoError(t, in.Close())
	require.NoError(t, in.Close())
	require.Equal(t, 1, r.closed)
	_, err := in.ReadLine(context.Background(), "Command:")
	require.ErrorIs(t, err, io.EOF)
}

func TestReadInt(t *testing.T) {
	testcases := []struct {
		name    string
		script  string
		want    int64
		wantErr error
	}{
		{"positive", "42\n", 42, nil},
		{"negative", " -7 \n", -7, nil},
		{"cancel token", "cancel\n", 0, ErrInputCancelled},
		{"eof", "", 0, ErrInputCancelled},
		{"not a number", "abc\n", 0, ErrInvalidInput},
		{"float", "1.5\n", 0, ErrInvalidInput},
		{"overflow", "99999999999999999999\n", 0, ErrInvalidInput},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			v, err := ReadInt(context.Background(), NewScriptInput(strings.NewReader(tc.script), nil), "Enter value:")
			if tc.wantErr != nil {
				require.ErrorIs(tt, err, tc.wantErr)
				return
			}
			require.NoError(tt, err)
			require.Equal(tt, tc.want, v)
		})
	}
}

func TestReadInt_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadInt(ctx, NewScriptInput(strings.NewReader("1\n"), nil), "Enter value:")
	require.ErrorIs(t, err, ErrInputCancelled)
}

type brokenInput struct{}

func (brokenInput) ReadLine(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("broken pipe")
}

func (brokenInput) Close() error { return nil }

func TestReadInt_InputFailure(t *testing.T) {
	_, err := ReadInt(context.Background(), brokenInput{}, "Enter value:")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInputCancelled)
	require.NotErrorIs(t, err, ErrInvalidInput)
	require.Contains(t, err.Error(), "broken pipe")
}
