package visual

// ViewState is the small mutable state shared between the session and
// the renderer. The session owns it.
type ViewState struct {
	Educational bool
	LastOp      Operation
	LastMessage string
	LastErr     error
	// Walked is the number of successor links followed by the last
	// list operation.
	Walked int64
}

func (st *ViewState) succeed(op Operation, msg string, walked int64) {
	st.LastOp = op
	st.LastMessage = msg
	st.LastErr = nil
	st.Walked = walked
}

func (st *ViewState) fail(op Operation, msg string, err error) {
	st.LastOp = op
	st.LastMessage = msg
	st.LastErr = err
	st.Walked = 0
}
