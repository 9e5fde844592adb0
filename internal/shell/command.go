package shell

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/poshlang/posh/internal/ast"
	"github.com/poshlang/posh/internal/builtins"
	"github.com/poshlang/posh/internal/expand"
)

// executeSimpleCommand implements spec §4.4's simple-command execution:
// expand assignments and words, then dispatch to (in order) a shell
// function, a builtin, or an external program found on $PATH.
func (s *Shell) executeSimpleCommand(c *ast.SimpleCommand) (int, control) {
	assigns := make(map[string]string, len(c.Assignments))
	for _, a := range c.Assignments {
		value, err := expand.WordNoSplit(a.Value, s.Env())
		if err != nil {
			s.reportRuntime(a.Position, err.Error())
			return 1, none
		}
		assigns[a.Name] = value
	}

	if c.Name == nil {
		// Assignment-only simple command: persists in the current
		// environment (spec §4.4).
		for _, a := range c.Assignments {
			if err := s.Setvar(a.Name, assigns[a.Name]); err != nil {
				s.reportRuntime(a.Position, err.Error())
				return 1, none
			}
		}
		return 0, none
	}

	name, err := expand.WordNoSplit(c.Name, s.Env())
	if err != nil {
		s.reportRuntime(c.Position, err.Error())
		return 1, none
	}
	args, err := s.expandWords(c.Args)
	if err != nil {
		s.reportRuntime(c.Position, err.Error())
		return 1, none
	}

	if s.options.Get('x') {
		s.traceCommand(name, args, assigns)
	}

	if body, ok := s.functions.Lookup(name); ok {
		return s.callFunction(name, body, args, assigns)
	}

	io := builtins.IO{Stdin: s.fds.Get(0), Stdout: s.fds.Get(1), Stderr: s.fds.Get(2)}

	if fn, ok := builtins.Lookup(name); ok {
		return s.callBuiltin(name, fn, args, assigns, io)
	}

	return s.runExternal(name, args, assigns, io)
}

func (s *Shell) traceCommand(name string, args []string, assigns map[string]string) {
	f := s.fds.Get(2)
	if f == nil {
		return
	}
	var b strings.Builder
	b.WriteString(s.OptionString())
	for k, v := range assigns {
		fmt.Fprintf(&b, " %s=%s", k, v)
	}
	b.WriteString(" + " + name)
	for _, a := range args {
		b.WriteString(" " + a)
	}
	fmt.Fprintln(f, b.String())
}

// callBuiltin runs a registered builtin with assignments bound as
// temporary environment for the duration of the call (spec §4.4: a
// regular builtin's prefix assignments do not persist; a special
// builtin's do).
func (s *Shell) callBuiltin(name string, fn builtins.Func, args []string, assigns map[string]string, io builtins.IO) (int, control) {
	restore := s.applyTempAssigns(assigns, builtins.Special(name))
	defer restore()

	status, sig := fn(s, args, io)
	switch sig.Kind {
	case builtins.SignalExit:
		return status, control{kind: ctrlExit, n: status}
	case builtins.SignalReturn:
		return status, control{kind: ctrlReturn, n: status}
	case builtins.SignalBreak:
		return status, control{kind: ctrlBreak, n: max1(sig.Count)}
	case builtins.SignalContinue:
		return status, control{kind: ctrlContinue, n: max1(sig.Count)}
	}
	if status != 0 && builtins.Special(name) && !s.interactive {
		return status, control{kind: ctrlExit, n: status}
	}
	return status, none
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// applyTempAssigns binds assigns into the variable store, returning a
// restore closure. persist==true (special builtins) keeps the values
// afterward; otherwise
// the prior values (or absence) are restored once the command returns,
// matching spec §4.4's "assignments apply only to that command" rule
// for ordinary utilities.
func (s *Shell) applyTempAssigns(assigns map[string]string, persist bool) func() {
	if len(assigns) == 0 {
		return func() {}
	}
	type prior struct {
		value  string
		had    bool
		export bool
	}
	saved := make(map[string]prior, len(assigns))
	for name, value := range assigns {
		v, had := s.vars.Get(name)
		saved[name] = prior{value: v, had: had, export: s.vars.IsExported(name)}
		_ = s.vars.Set(name, value)
		_ = s.vars.Export(name)
	}
	if persist {
		return func() {}
	}
	return func() {
		for name, p := range saved {
			if !p.had {
				_ = s.vars.Unset(name)
				continue
			}
			_ = s.vars.Set(name, p.value)
			if !p.export {
				s.vars.Unexport(name)
			}
		}
	}
}

// callFunction runs a defined shell function (spec §3.5's
// function-definition, invoked as spec §4.4 describes: positional
// parameters rebound to the call's arguments, `return` unwinds only to
// here).
func (s *Shell) callFunction(name string, body ast.Command, args []string, assigns map[string]string) (int, control) {
	restore := s.applyTempAssigns(assigns, false)
	defer restore()

	savedPositional := s.positional
	s.positional = args
	s.pushFrame(name, body.Pos())
	defer func() {
		s.positional = savedPositional
		s.popFrame()
	}()

	status, ctrl := s.executeCommand(body)
	if ctrl.kind == ctrlReturn {
		return ctrl.n, none
	}
	return status, ctrl
}

// runExternal spawns name as an external program (spec §4.4: PATH
// search, fork/exec semantics via os/exec). A name containing '/' is
// used directly without searching $PATH.
func (s *Shell) runExternal(name string, args []string, assigns map[string]string, io builtins.IO) (int, control) {
	path := name
	if !strings.Contains(name, "/") {
		found, err := s.lookPath(name)
		if err != nil {
			fmt.Fprintf(io.Stderr, "%s: %s: command not found\n", s.ShellName(), name)
			return 127, none
		}
		path = found
	} else if info, err := os.Stat(path); err != nil || info.IsDir() {
		fmt.Fprintf(io.Stderr, "%s: %s: No such file or directory\n", s.ShellName(), name)
		return 127, none
	}

	cmd := exec.Command(path, args...)
	cmd.Stdin = io.Stdin
	cmd.Stdout = io.Stdout
	cmd.Stderr = io.Stderr
	cmd.ExtraFiles = s.fds.ExtraFiles()
	cmd.Dir = s.Getwd()
	env := append([]string(nil), s.vars.Environ()...)
	for k, v := range assigns {
		env = append(env, k+"="+v)
	}
	cmd.Env = env

	if err := cmd.Start(); err != nil {
		if os.IsPermission(err) {
			fmt.Fprintf(io.Stderr, "%s: %s: Permission denied\n", s.ShellName(), name)
			return 126, none
		}
		fmt.Fprintf(io.Stderr, "%s: %s: %v\n", s.ShellName(), name, err)
		return 126, none
	}
	s.jobTable.Register(strings.Join(append([]string{name}, args...), " "), []int{cmd.Process.Pid}, cmd.Process)
	err := cmd.Wait()
	if err == nil {
		s.childUser += cmd.ProcessState.UserTime()
		s.childSys += cmd.ProcessState.SystemTime()
		return 0, none
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		s.childUser += cmd.ProcessState.UserTime()
		s.childSys += cmd.ProcessState.SystemTime()
		if exitErr.ProcessState.Exited() {
			return exitErr.ExitCode(), none
		}
		// Killed by signal (spec §4.4: exit status 128+N).
		return 128 + signalNumber(exitErr), none
	}
	return 126, none
}

// signalNumber extracts the killing signal's number from a process that
// exited abnormally, for the 128+N exit-status convention (spec §4.4).
func signalNumber(exitErr *exec.ExitError) int {
	ws, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return 0
	}
	return int(ws.Signal())
}

// lookPath searches $PATH (the shell's own variable, not the process
// environment, since a script may have exported a different PATH) for
// an executable regular file named name.
func (s *Shell) lookPath(name string) (string, error) {
	pathVar, _ := s.vars.Get("PATH")
	for _, dir := range strings.Split(pathVar, ":") {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode()&0o111 != 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: not found", name)
}
