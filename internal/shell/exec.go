package shell

import (
	"fmt"

	"github.com/poshlang/posh/internal/ast"
	"github.com/poshlang/posh/internal/token"
)

// Run executes a complete program against the shell's current state and
// fd table (spec §4.4's top-level execute(tree) entry point), returning
// the final exit status. A control signal that escapes the whole
// program is a defect except ctrlExit, which Run treats as "stop here".
func (s *Shell) Run(prog *ast.Program) int {
	status, ctrl := s.executeProgram(prog)
	if ctrl.kind == ctrlExit {
		s.FireExitTrap()
		return ctrl.n
	}
	return status
}

func (s *Shell) executeProgram(prog *ast.Program) (int, control) {
	status := 0
	for _, l := range prog.Commands {
		var ctrl control
		status, ctrl = s.executeList(l)
		if ctrl.kind != ctrlNone {
			return status, ctrl
		}
	}
	return status, none
}

func (s *Shell) executeList(l *ast.List) (int, control) {
	return s.executeListCtx(l, false)
}

// executeCondList runs a list as an if/while/until condition: spec
// §4.4/§7's errexit carve-out (a failing condition never trips `set -e`).
func (s *Shell) executeCondList(l *ast.List) (int, control) {
	return s.executeListCtx(l, true)
}

func (s *Shell) executeListCtx(l *ast.List, suppressErrexit bool) (int, control) {
	status := 0
	for _, item := range l.Items {
		if item.Async {
			s.spawnBackground(item.AndOr)
			status = 0
			continue
		}
		var ctrl control
		status, ctrl = s.executeAndOr(item.AndOr)
		if ctrl.kind != ctrlNone {
			return status, ctrl
		}
		if !suppressErrexit && s.options.Get('e') && status != 0 {
			return status, control{kind: ctrlExit, n: status}
		}
	}
	return status, none
}

func (s *Shell) executeAndOr(a *ast.AndOr) (int, control) {
	status, ctrl := s.executePipeline(a.First)
	s.lastStatus = status
	if ctrl.kind != ctrlNone {
		return status, ctrl
	}
	for _, term := range a.Rest {
		run := (term.Op == token.AND_IF && status == 0) || (term.Op == token.OR_IF && status != 0)
		if !run {
			continue
		}
		status, ctrl = s.executePipeline(term.Pipeline)
		s.lastStatus = status
		if ctrl.kind != ctrlNone {
			return status, ctrl
		}
	}
	return status, none
}

// spawnBackground runs an `&`-terminated and-or chain without waiting
// for it (spec §5's concurrency model: the shell's only parallelism is
// separate processes/goroutines backing them), registering it in the
// job table so `jobs`/`wait`/`$!` can observe it.
func (s *Shell) spawnBackground(a *ast.AndOr) {
	bg := s.Subshell()
	cmdText := a.String()
	job := s.jobTable.Register(cmdText, nil, nil)
	go func() {
		status, ctrl := bg.executeAndOr(a)
		if ctrl.kind == ctrlExit {
			status = ctrl.n
		}
		bg.FireExitTrap()
		s.jobTable.MarkDone(job.ID, status)
	}()
}

// executeCommand dispatches over every internal/ast.Command variant
// (spec §4.4's per-node-kind table). Redirections are applied uniformly
// around every kind, since any compound command may carry them.
func (s *Shell) executeCommand(cmd ast.Command) (int, control) {
	redirects := commandRedirects(cmd)
	restore, err := s.applyRedirects(redirects)
	if err != nil {
		s.reportRuntime(cmd.Pos(), err.Error())
		return 1, none
	}
	defer restore()

	switch c := cmd.(type) {
	case *ast.SimpleCommand:
		return s.executeSimpleCommand(c)
	case *ast.Subshell:
		return s.executeSubshell(c)
	case *ast.BraceGroup:
		return s.executeBraceGroup(c)
	case *ast.IfClause:
		return s.executeIfClause(c)
	case *ast.WhileClause:
		return s.executeWhileClause(c)
	case *ast.UntilClause:
		return s.executeUntilClause(c)
	case *ast.ForClause:
		return s.executeForClause(c)
	case *ast.CaseClause:
		return s.executeCaseClause(c)
	case *ast.FunctionDefinition:
		return s.executeFunctionDefinition(c)
	}
	panic(fmt.Sprintf("shell: unreachable command node %T", cmd))
}

func commandRedirects(cmd ast.Command) []*ast.Redirect {
	switch c := cmd.(type) {
	case *ast.SimpleCommand:
		return c.Redirects
	case *ast.Subshell:
		return c.Redirects
	case *ast.BraceGroup:
		return c.Redirects
	case *ast.IfClause:
		return c.Redirects
	case *ast.WhileClause:
		return c.Redirects
	case *ast.UntilClause:
		return c.Redirects
	case *ast.ForClause:
		return c.Redirects
	case *ast.CaseClause:
		return c.Redirects
	case *ast.FunctionDefinition:
		return c.Redirects
	}
	return nil
}

func (s *Shell) executeSubshell(c *ast.Subshell) (int, control) {
	sub := s.Subshell()
	s.pushFrame("subshell", c.Position)
	defer s.popFrame()
	status, ctrl := sub.executeList(c.Body)
	sub.FireExitTrap() // the subshell is exiting, whether by falling off the end or by `exit`
	if ctrl.kind == ctrlExit {
		return ctrl.n, none // exit inside ( ... ) only ends the subshell
	}
	return status, ctrl
}

func (s *Shell) executeBraceGroup(c *ast.BraceGroup) (int, control) {
	return s.executeList(c.Body)
}

func (s *Shell) executeIfClause(c *ast.IfClause) (int, control) {
	status, ctrl := s.executeCondList(c.Cond)
	if ctrl.kind != ctrlNone {
		return status, ctrl
	}
	if status == 0 {
		return s.executeList(c.Then)
	}
	for _, elif := range c.Elifs {
		status, ctrl = s.executeCondList(elif.Cond)
		if ctrl.kind != ctrlNone {
			return status, ctrl
		}
		if status == 0 {
			return s.executeList(elif.Then)
		}
	}
	if c.Else != nil {
		return s.executeList(c.Else)
	}
	return 0, none
}

func (s *Shell) executeWhileClause(c *ast.WhileClause) (int, control) {
	status := 0
	for {
		condStatus, ctrl := s.executeCondList(c.Cond)
		if ctrl.kind != ctrlNone {
			return condStatus, ctrl
		}
		if condStatus != 0 {
			return status, none
		}
		var bctrl control
		status, bctrl = s.executeList(c.Body)
		if stop, st, c2 := handleLoopCtrl(bctrl, status); stop {
			return st, c2
		}
	}
}

func (s *Shell) executeUntilClause(c *ast.UntilClause) (int, control) {
	status := 0
	for {
		condStatus, ctrl := s.executeCondList(c.Cond)
		if ctrl.kind != ctrlNone {
			return condStatus, ctrl
		}
		if condStatus == 0 {
			return status, none
		}
		var bctrl control
		status, bctrl = s.executeList(c.Body)
		if stop, st, c2 := handleLoopCtrl(bctrl, status); stop {
			return st, c2
		}
	}
}

// handleLoopCtrl interprets a loop body's control signal: ctrlBreak
// decremented to none stops the loop; ctrlContinue decremented to none
// restarts it; anything else (return/exit, or break/continue still
// targeting an outer loop) propagates up unchanged.
func handleLoopCtrl(c control, status int) (stop bool, outStatus int, outCtrl control) {
	switch c.kind {
	case ctrlNone:
		return false, status, none
	case ctrlBreak:
		d := c.decrement()
		if d.kind == ctrlNone {
			return true, status, none
		}
		return true, status, d
	case ctrlContinue:
		d := c.decrement()
		if d.kind == ctrlNone {
			return false, status, none
		}
		return true, status, d
	default:
		return true, status, c
	}
}

func (s *Shell) executeForClause(c *ast.ForClause) (int, control) {
	var words []string
	if c.HasIn {
		expanded, err := s.expandWords(c.Words)
		if err != nil {
			s.reportRuntime(c.Position, err.Error())
			return 1, none
		}
		words = expanded
	} else {
		words = s.positional
	}
	status := 0
	for _, w := range words {
		if err := s.Setvar(c.Name, w); err != nil {
			s.reportRuntime(c.Position, err.Error())
			return 1, none
		}
		var ctrl control
		status, ctrl = s.executeList(c.Body)
		if stop, st, c2 := handleLoopCtrl(ctrl, status); stop {
			return st, c2
		}
	}
	return status, none
}

func (s *Shell) executeFunctionDefinition(c *ast.FunctionDefinition) (int, control) {
	s.functions.Define(c.Name, c.Body)
	return 0, none
}
