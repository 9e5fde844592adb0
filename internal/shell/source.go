package shell

import (
	"io"
	"os"
	"strings"

	"github.com/poshlang/posh/internal/builtins"
)

// commandSubst implements internal/expand.Env.CommandSubst (spec §4.3
// stage 2): re-lex/parse src, run it in a cloned subshell with its
// stdout captured, and return the output with trailing newlines
// stripped.
func (s *Shell) commandSubst(src string) (string, error) {
	prog, err := parseSource(src, s.aliases)
	if err != nil {
		return "", err
	}
	sub := s.Subshell()
	r, w, perr := os.Pipe()
	if perr != nil {
		return "", perr
	}
	sub.fds.Bind(1, w)

	captured := make(chan []byte, 1)
	go func() {
		b, _ := io.ReadAll(r)
		captured <- b
	}()
	sub.Run(prog)
	sub.FireExitTrap() // idempotent: Run already fired it if an explicit `exit` occurred
	w.Close()
	out := <-captured
	r.Close()
	return strings.TrimRight(string(out), "\n"), nil
}

// bindIO temporarily rebinds fds 0-2 to io's streams (when they are
// *os.File — true for every call this implementation makes, since
// internal/builtins always threads through Shell.fds.Get(0/1/2)) and
// returns a restore closure.
func (s *Shell) bindIO(streams builtins.IO) func() {
	type entry struct {
		fd   int
		file *os.File
	}
	var saved []entry
	bind := func(fd int, v any) {
		if f, ok := v.(*os.File); ok {
			saved = append(saved, entry{fd, s.fds.Bind(fd, f)})
		}
	}
	bind(0, streams.Stdin)
	bind(1, streams.Stdout)
	bind(2, streams.Stderr)
	return func() {
		for i := len(saved) - 1; i >= 0; i-- {
			s.fds.Restore(saved[i].fd, saved[i].file)
		}
	}
}

// Eval implements the `eval` special builtin (spec §6.3): re-lex/parse
// the concatenated arguments and run them in the current shell state
// (not a subshell — assignments and `cd` inside an eval'd string
// persist).
func (s *Shell) Eval(src string, io builtins.IO) int {
	restore := s.bindIO(io)
	defer restore()
	prog, err := parseSource(src, s.aliases)
	if err != nil {
		if f := s.fds.Get(2); f != nil {
			f.WriteString(s.ShellName() + ": eval: " + err.Error() + "\n")
		}
		return 2
	}
	return s.Run(prog)
}

// FireExitTrap runs the EXIT pseudo-trap (spec §3.6/Glossary: a trap
// condition delivered "on normal exit", not just a caught signal), if one
// is set and hasn't already fired for this Shell. An action of "" is the
// ignore sentinel (`trap '' EXIT`) and is never executed. Guarded by
// exitTrapFired so a nested Run (eval/source reusing this same Shell)
// that unwinds via an explicit `exit` doesn't cause the trap to fire
// again when the top-level caller's own termination point is reached —
// cmd/posh calls this again itself after Eval/Source/the read-eval loop
// return, to cover the "fell off the end with no explicit exit" case
// Run's own ctrlExit branch can't see.
func (s *Shell) FireExitTrap() {
	if s.exitTrapFired {
		return
	}
	s.exitTrapFired = true
	action, ok := s.traps.Action("EXIT")
	if !ok || action == "" {
		return
	}
	io := builtins.IO{Stdin: s.fds.Get(0), Stdout: s.fds.Get(1), Stderr: s.fds.Get(2)}
	s.Eval(action, io)
}

// Exited reports whether an explicit `exit` has already unwound a Run
// call on this Shell — cmd/posh's read-eval loop checks this after each
// parsed chunk to stop reading further input once the script has asked
// to terminate, rather than looping until EOF regardless.
func (s *Shell) Exited() bool { return s.exitTrapFired }

// Source implements the `.` special builtin (spec §6.3): run path's
// contents in the current shell state, with positional parameters
// replaced by args for the call's duration if any were given.
func (s *Shell) Source(path string, args []string, io builtins.IO) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 1, err
	}
	prog, perr := parseSource(string(data), s.aliases)
	if perr != nil {
		return 1, perr
	}
	restore := s.bindIO(io)
	defer restore()
	if len(args) > 0 {
		saved := s.positional
		s.positional = args
		defer func() { s.positional = saved }()
	}
	s.pushFrame(". "+path, prog.Pos())
	defer s.popFrame()
	return s.Run(prog), nil
}

// Exec implements both the `exec` special builtin and the `command`
// regular builtin's fallthrough (spec §6.3): run name as an external
// program directly, bypassing function and builtin lookup. Real exec(2)
// replacement isn't used here, since `command` must run this way too
// without replacing the shell — `exec`'s own special status (it
// terminates the shell with the program's exit status) comes entirely
// from builtinExec wrapping this in a SignalExit, not from this method
// itself.
func (s *Shell) Exec(name string, args []string, io builtins.IO) (int, error) {
	status, _ := s.runExternal(name, args, nil, io)
	return status, nil
}
