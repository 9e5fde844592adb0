package diag

import (
	"fmt"
	"strings"

	"github.com/poshlang/posh/internal/token"
)

// StackFrame is one call-stack entry recorded as the executor enters a
// function, `.`/source, or subshell — named for whichever the frame
// represents, e.g. "myfunc", ". util.sh", "subshell".
type StackFrame struct {
	Position *token.Position
	Name     string
}

// String renders a single frame as "name [line: N, column: M]".
func (sf StackFrame) String() string {
	if sf.Position == nil {
		return sf.Name
	}
	return fmt.Sprintf("%s [line: %d, column: %d]", sf.Name, sf.Position.Line, sf.Position.Column)
}

// StackTrace is a shell call stack, oldest (bottom) frame first.
type StackTrace []StackFrame

// String renders the trace newest-frame-first, one per line.
func (st StackTrace) String() string {
	if len(st) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := len(st) - 1; i >= 0; i-- {
		sb.WriteString(st[i].String())
		if i > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Top returns the most recently pushed frame, or nil if empty.
func (st StackTrace) Top() *StackFrame {
	if len(st) == 0 {
		return nil
	}
	return &st[len(st)-1]
}

// Depth returns the number of frames.
func (st StackTrace) Depth() int { return len(st) }

// NewStackFrame builds a frame.
func NewStackFrame(name string, pos *token.Position) StackFrame {
	return StackFrame{Name: name, Position: pos}
}

// RuntimeError is an executor-stage error (spec §7's "Expansion error",
// "Redirection failure", and similar categories), carrying the call
// stack active at the point of failure.
type RuntimeError struct {
	Message string
	Pos     token.Position
	Stack   StackTrace
}

func (e *RuntimeError) Error() string {
	if e.Stack.Depth() == 0 {
		return e.Message
	}
	return e.Message + "\n" + e.Stack.String()
}
