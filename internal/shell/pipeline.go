package shell

import (
	"os"

	"github.com/poshlang/posh/internal/ast"
)

// executePipeline runs one or more commands connected by `|` (spec
// §4.4/§5: every stage is spawned before any of them is waited on, and
// the pipeline's status is its rightmost stage's, inverted if Negate is
// set). A single-command pipeline runs directly against the current
// shell state — no subshell — matching spec §3.6's "each command of a
// multi-stage pipeline executes in its own subshell" rule, which simply
// doesn't apply when there is only one stage.
func (s *Shell) executePipeline(p *ast.Pipeline) (int, control) {
	if len(p.Commands) == 1 {
		status, ctrl := s.executeCommand(p.Commands[0])
		return negateStatus(status, p.Negate), ctrl
	}

	n := len(p.Commands)
	readers := make([]*os.File, n)
	writers := make([]*os.File, n)
	for i := 0; i < n-1; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			s.reportRuntime(p.Position, "pipe: "+err.Error())
			return 1, none
		}
		readers[i+1] = r
		writers[i] = w
	}

	results := make([]int, n)
	done := make(chan int, n)
	for i, cmd := range p.Commands {
		stage := s.Subshell()
		if writers[i] != nil {
			stage.fds.Bind(1, writers[i])
		}
		if readers[i] != nil {
			stage.fds.Bind(0, readers[i])
		}
		idx := i
		go func(stage *Shell, cmd ast.Command) {
			status, ctrl := stage.executeCommand(cmd)
			// A pipeline stage with more than one command runs in its
			// own subshell (spec §3.6): break/continue/return/exit all
			// end there and never reach the calling shell's loops.
			if ctrl.kind == ctrlExit {
				status = ctrl.n
			}
			if writers[idx] != nil {
				writers[idx].Close()
			}
			if readers[idx] != nil {
				readers[idx].Close()
			}
			results[idx] = status
			done <- idx
		}(stage, cmd)
	}
	for range p.Commands {
		<-done
	}
	last := results[n-1]
	return negateStatus(last, p.Negate), none
}

func negateStatus(status int, negate bool) int {
	if !negate {
		return status
	}
	if status == 0 {
		return 1
	}
	return 0
}
