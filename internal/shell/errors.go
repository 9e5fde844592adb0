package shell

import (
	"fmt"

	"github.com/poshlang/posh/internal/diag"
	"github.com/poshlang/posh/internal/token"
)

// reportRuntime prints an executor-stage error (spec §7: expansion
// error, redirection failure, and similar rows) to the current stderr
// and attaches the active call stack for context.
func (s *Shell) reportRuntime(pos token.Position, message string) {
	err := &diag.RuntimeError{Message: message, Pos: pos, Stack: s.stack}
	if f := s.fds.Get(2); f != nil {
		fmt.Fprintln(f, s.ShellName()+": "+err.Error())
	}
}

// pushFrame/popFrame bracket function calls, dot-sourced scripts, and
// subshells with a diag.StackFrame (spec §7's stack-trace requirement).
func (s *Shell) pushFrame(name string, pos token.Position) {
	s.stack = append(s.stack, diag.NewStackFrame(name, &pos))
}

func (s *Shell) popFrame() {
	if len(s.stack) > 0 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}
