package visual

import (
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize/english"

	"github.com/benz9527/dsvisual/lib/list"
)

const (
	DefaultWidth = 80
	cellArrow    = "-->"
)

// Renderer draws the current state of the list. It only reads the list
// through traversal.
type Renderer interface {
	Render(w io.Writer, l list.SinglyLinkedList[int64], st *ViewState) error
}

var _ Renderer = TextRenderer{}

// TextRenderer draws the nodes left to right as "( v )" cells joined by
// arrows, wrapping to a new row when a cell would exceed Width. A row
// always holds at least one cell.
type TextRenderer struct {
	Width int
}

type renderCell struct {
	text   string
	col    int // column of the cell's opening parenthesis
	idx    int64
	isHead bool
	isTail bool
}

func (r TextRenderer) Render(w io.Writer, l list.SinglyLinkedList[int64], st *ViewState) error {
	if st == nil {
		st = &ViewState{}
	}
	width := r.Width
	if width <= 0 {
		width = DefaultWidth
	}

	var length int64
	if l != nil {
		length = l.Len()
	}
	sb := &strings.Builder{}
	sb.WriteString("Length: ")
	sb.WriteString(strconv.FormatInt(length, 10))
	if st.Educational {
		sb.WriteString(" (educational view)")
	}
	sb.WriteByte('\n')

	if length == 0 {
		sb.WriteString("Empty List\n")
	} else {
		for _, row := range layoutRows(l, width) {
			writeRow(sb, row, st.Educational)
		}
	}
	writeStatus(sb, st)

	_, err := io.WriteString(w, sb.String())
	return err
}

func layoutRows(l list.SinglyLinkedList[int64], width int) [][]renderCell {
	rows := make([][]renderCell, 0, 4)
	row := make([]renderCell, 0, 8)
	rowWidth := 0
	for idx, nv := range l.Traverse() {
		text := "( " + strconv.FormatInt(nv.Value, 10) + " )"
		if idx > 0 {
			text = cellArrow + text
		}
		if len(row) > 0 && rowWidth+len(text) > width {
			rows = append(rows, row)
			row = make([]renderCell, 0, 8)
			rowWidth = 0
		}
		col := rowWidth
		if idx > 0 {
			col += len(cellArrow)
		}
		row = append(row, renderCell{
			text:   text,
			col:    col,
			idx:    idx,
			isHead: nv.IsHead,
			isTail: nv.IsTail,
		})
		rowWidth += len(text)
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func writeRow(sb *strings.Builder, row []renderCell, educational bool) {
	for _, c := range row {
		sb.WriteString(c.text)
	}
	sb.WriteByte('\n')
	if educational {
		writeMarkerLine(sb, row, func(c renderCell) string {
			return "[" + strconv.FormatInt(c.idx, 10) + "]"
		})
	}
	writeMarkerLine(sb, row, func(c renderCell) string {
		switch {
		case c.isHead && c.isTail:
			return "Head/Tail"
		case c.isHead:
			return "Head"
		case c.isTail:
			return "Tail"
		}
		return ""
	})
}

// writeMarkerLine aligns each non-empty label under its cell. Nothing is
// written if no cell in the row has a label.
func writeMarkerLine(sb *strings.Builder, row []renderCell, label func(c renderCell) string) {
	buf := make([]byte, 0, 64)
	for _, c := range row {
		text := label(c)
		if len(text) == 0 {
			continue
		}
		for len(buf) < c.col {
			buf = append(buf, ' ')
		}
		if len(buf) > 0 && buf[len(buf)-1] != ' ' {
			buf = append(buf, ' ')
		}
		buf = append(buf, text...)
	}
	if len(buf) == 0 {
		return
	}
	sb.Write(buf)
	sb.WriteByte('\n')
}

func writeStatus(sb *strings.Builder, st *ViewState) {
	if len(st.LastMessage) == 0 && st.LastErr == nil {
		return
	}
	if st.LastErr != nil {
		sb.WriteString("Error: ")
	}
	sb.WriteString(st.LastMessage)
	if st.Educational && st.LastErr == nil && st.LastOp.IsListOp() {
		sb.WriteString(" (walked ")
		sb.WriteString(english.Plural(int(st.Walked), "node", ""))
		sb.WriteString(")")
	}
	sb.WriteByte('\n')
}
