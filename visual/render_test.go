package visual

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/dsvisual/lib/list"
)

func render(t *testing.T, r Renderer, l list.SinglyLinkedList[int64], st *ViewState) string {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, r.Render(buf, l, st))
	return buf.String()
}

func TestTextRenderer_Empty(t *testing.T) {
	r := TextRenderer{}
	require.Equal(t, "Length: 0\nEmpty List\n", render(t, r, list.NewSinglyLinkedList[int64](), nil))
	require.Equal(t, "Length: 0\nEmpty List\n", render(t, r, nil, nil))

	st := &ViewState{LastOp: OpPop, LastMessage: "Cannot pop from an empty list", LastErr: list.ErrEmptyList}
	require.Equal(t,
		"Length: 0\nEmpty List\nError: Cannot pop from an empty list\n",
		render(t, r, list.NewSinglyLinkedList[int64](), st),
	)
}

func TestTextRenderer_Single(t *testing.T) {
	out := render(t, TextRenderer{Width: 80}, list.NewSinglyLinkedList[int64](1), &ViewState{})
	require.Equal(t, "Length: 1\n( 1 )\nHead/Tail\n", out)
}

func TestTextRenderer_Chain(t *testing.T) {
	l := list.NewSinglyLinkedList[int64](0, 99, 2)
	out := render(t, TextRenderer{Width: 80}, l, &ViewState{})
	require.Equal(t,
		"Length: 3\n"+
			"( 0 )-->( 99 )-->( 2 )\n"+
			"Head"+strings.Repeat(" ", 13)+"Tail\n",
		out,
	)
}

func TestTextRenderer_Wrap(t *testing.T) {
	l := list.NewArenaSinglyLinkedList[int64](0, 1, 2, 3, 4, 5)
	out := render(t, TextRenderer{Width: 20}, l, nil)
	require.Equal(t,
		"Length: 5\n"+
			"( 1 )-->( 2 )\n"+
			"Head\n"+
			"-->( 3 )-->( 4 )\n"+
			"-->( 5 )\n"+
			"   Tail\n",
		out,
	)
	for _, line := range strings.Split(out, "\n") {
		require.LessOrEqual(t, len(line), 20)
	}

	// Too narrow for a single cell, one cell per row.
	out = render(t, TextRenderer{Width: 1}, list.NewSinglyLinkedList[int64](1, 2), nil)
	require.Equal(t, "Length: 2\n( 1 )\nHead\n-->( 2 )\n   Tail\n", out)
}

func TestTextRenderer_Educational(t *testing.T) {
	l := list.NewSinglyLinkedList[int64](0, 99, 2)
	st := &ViewState{
		Educational: true,
		LastOp:      OpRemove,
		LastMessage: "Removed 1 from the 3rd node",
		Walked:      1,
	}
	out := render(t, TextRenderer{Width: 80}, l, st)
	require.Equal(t,
		"Length: 3 (educational view)\n"+
			"( 0 )-->( 99 )-->( 2 )\n"+
			"[0]     [1]      [2]\n"+
			"Head"+strings.Repeat(" ", 13)+"Tail\n"+
			"Removed 1 from the 3rd node (walked 1 node)\n",
		out,
	)

	st.LastOp, st.LastMessage, st.Walked = OpPop, "Popped 2", 3
	require.True(t, strings.HasSuffix(render(t, TextRenderer{}, l, st), "Popped 2 (walked 3 nodes)\n"))

	st.LastOp, st.LastMessage = CmdToggle, "Educational view on"
	require.True(t, strings.HasSuffix(render(t, TextRenderer{}, l, st), "\nEducational view on\n"))
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("closed")
}

func TestTextRenderer_WriteFailure(t *testing.T) {
	err := TextRenderer{}.Render(failingWriter{}, list.NewSinglyLinkedList[int64](1), nil)
	require.Error(t, err)
}
