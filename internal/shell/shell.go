package shell

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/poshlang/posh/internal/diag"
	"github.com/poshlang/posh/internal/jobs"
	"github.com/poshlang/posh/internal/parser"
)

// Shell is the executor's state (spec §3.6) and the concrete type that
// satisfies both internal/builtins.Host and internal/expand.Env — the two
// narrow interfaces those packages define so they never import this one
// back. One Shell is created per process invocation (cmd/posh) or per
// subshell (Subshell, spawned for `( ... )` and command substitution).
type Shell struct {
	vars       *VarStore
	positional []string
	shellName  string

	aliases   *AliasStore
	functions *FunctionStore
	fds       *FDTable
	traps     *TrapStore
	options   *Options
	jobTable  *jobs.Table

	lastStatus  int
	umaskVal    int
	interactive bool

	// exitTrapFired guards the EXIT pseudo-trap (see FireExitTrap in
	// source.go) against running more than once per Shell instance —
	// Run can return along the ctrlExit path from a nested eval/source
	// before the top-level caller's own termination point is reached.
	exitTrapFired bool

	// lastExpandErr records a word-expansion failure (an explicit
	// ${name:?word}, or a `set -u` reference to an unset variable) since
	// neither internal/expand.Env.Get nor .ReportError's signatures leave
	// room for an error return of their own. The executor checks and
	// clears it after every expansion call (see expandWords in exec.go).
	lastExpandErr string

	// stack is the call-frame trace attached to runtime errors (spec §7),
	// pushed on function/dot-source/subshell entry and popped on exit.
	stack diag.StackTrace

	childUser, childSys time.Duration // accumulated reaped-child CPU time, for `times`
}

// New creates a Shell with its variable store seeded from the process
// environment (spec §6.5: "Initial variables are imported from the
// process environment; exported variables are exposed to child
// processes") and sane defaults for any of PATH/IFS/PS1/PS2/HOME that the
// environment didn't already supply.
func New() *Shell {
	s := &Shell{
		vars:      NewVarStore(),
		aliases:   NewAliasStore(),
		functions: NewFunctionStore(),
		fds:       NewFDTable(),
		traps:     NewTrapStore(),
		options:   NewOptions(),
		jobTable:  jobs.NewTable(),
	}
	orig := applyUmask(0)
	applyUmask(orig) // restore; applyUmask has no read-only form
	s.umaskVal = orig
	for _, kv := range os.Environ() {
		name, value, _ := strings.Cut(kv, "=")
		_ = s.vars.Set(name, value)
		_ = s.vars.Export(name)
	}
	s.ensureDefault("IFS", " \t\n")
	s.ensureDefault("PS1", "$ ")
	s.ensureDefault("PS2", "> ")
	if wd, err := os.Getwd(); err == nil {
		s.ensureDefault("PWD", wd)
	}
	s.ensureDefault("OLDPWD", "")
	return s
}

func (s *Shell) ensureDefault(name, value string) {
	if _, ok := s.vars.Get(name); !ok {
		_ = s.vars.Set(name, value)
	}
}

// --- internal/builtins.Host: variables -------------------------------------

func (s *Shell) Getvar(name string) (string, bool) {
	switch name {
	case "?":
		return strconv.Itoa(s.lastStatus), true
	case "$":
		return strconv.Itoa(os.Getpid()), true
	case "!":
		pid := s.jobTable.LastPID()
		if pid == 0 {
			return "", false
		}
		return strconv.Itoa(pid), true
	case "#":
		return strconv.Itoa(len(s.positional)), true
	case "-":
		return s.options.String(), true
	case "0":
		return s.ShellName(), true
	}
	if n, err := strconv.Atoi(name); err == nil && n >= 1 {
		return s.positionalAt(n)
	}
	v, ok := s.vars.Get(name)
	if !ok && s.options.Get('u') {
		s.lastExpandErr = name + ": parameter not set"
	}
	return v, ok
}

// takeExpandErr returns and clears any word-expansion failure recorded
// since the last call (see lastExpandErr's doc comment).
func (s *Shell) takeExpandErr() (string, bool) {
	if s.lastExpandErr == "" {
		return "", false
	}
	msg := s.lastExpandErr
	s.lastExpandErr = ""
	return msg, true
}

func (s *Shell) Setvar(name, value string) error {
	if err := s.vars.Set(name, value); err != nil {
		return err
	}
	if s.options.Get('a') {
		_ = s.vars.Export(name)
	}
	return nil
}

func (s *Shell) Unsetvar(name string) error { return s.vars.Unset(name) }

func (s *Shell) UnsetFunc(name string) { s.functions.Unset(name) }

func (s *Shell) Export(name string) error   { return s.vars.Export(name) }
func (s *Shell) Unexport(name string)       { s.vars.Unexport(name) }
func (s *Shell) MarkReadOnly(name string) error {
	return s.vars.MarkReadOnly(name)
}
func (s *Shell) IsReadOnly(name string) bool { return s.vars.IsReadOnly(name) }
func (s *Shell) IsExported(name string) bool { return s.vars.IsExported(name) }
func (s *Shell) VarNames() []string          { return s.vars.Names() }
func (s *Shell) Environ() []string           { return s.vars.Environ() }

// --- internal/builtins.Host: positional parameters -------------------------

func (s *Shell) Positional() []string { return append([]string(nil), s.positional...) }

func (s *Shell) SetPositional(args []string) { s.positional = append([]string(nil), args...) }

func (s *Shell) ShellName() string {
	if s.shellName == "" {
		return "posh"
	}
	return s.shellName
}

func (s *Shell) SetShellName(name string) { s.shellName = name }

// positionalAt returns the n'th positional parameter (1-based), backing
// both Getvar's numeric-name case and the expand.Env view (see env.go) —
// kept unexported because Host.Positional's zero-argument signature
// can't coexist on the same type as expand.Env's Positional(n int).
func (s *Shell) positionalAt(n int) (string, bool) {
	if n < 1 || n > len(s.positional) {
		return "", false
	}
	return s.positional[n-1], true
}

// --- internal/builtins.Host: working directory -----------------------------

func (s *Shell) Getwd() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	v, _ := s.vars.Get("PWD")
	return v
}

func (s *Shell) Chdir(path string) error { return os.Chdir(path) }

func (s *Shell) OldPwd() string {
	v, _ := s.vars.Get("OLDPWD")
	return v
}

// --- internal/builtins.Host: exit status and options -----------------------

func (s *Shell) LastStatus() int       { return s.lastStatus }
func (s *Shell) SetLastStatus(n int)   { s.lastStatus = n & 0xff }

func (s *Shell) SetOption(flag byte, on bool) error {
	if !strings.ContainsRune(knownOptions, rune(flag)) {
		return fmt.Errorf("%c: invalid option", flag)
	}
	s.options.Set(flag, on)
	return nil
}

func (s *Shell) Option(flag byte) bool { return s.options.Get(flag) }

func (s *Shell) OptionString() string {
	str := s.options.String()
	if str == "" {
		return ""
	}
	return "-" + str
}

// --- internal/builtins.Host: aliases ---------------------------------------

// AliasLookup exposes the shell's alias table to cmd/posh, which needs
// to hand it to parser.New/parser.Parse itself when driving the
// lexer/parser directly for interactive or streamed input.
func (s *Shell) AliasLookup() parser.AliasLookup { return s.aliases }

func (s *Shell) SetAlias(name, value string) { s.aliases.Set(name, value) }
func (s *Shell) RemoveAlias(name string)     { s.aliases.Remove(name) }
func (s *Shell) Alias(name string) (string, bool) { return s.aliases.Lookup(name) }
func (s *Shell) AliasNames() []string        { return s.aliases.Names() }

// --- internal/builtins.Host: functions --------------------------------------

func (s *Shell) HasFunction(name string) bool {
	_, ok := s.functions.Lookup(name)
	return ok
}

func (s *Shell) FunctionNames() []string { return s.functions.Names() }

// --- internal/builtins.Host: traps ------------------------------------------

func (s *Shell) SetTrap(cond, action string) error {
	s.traps.Set(cond, action)
	return nil
}

func (s *Shell) ClearTrap(cond string) { s.traps.Clear(cond) }

func (s *Shell) Traps() map[string]string { return s.traps.All() }

// --- internal/builtins.Host: job table, umask, times ------------------------

func (s *Shell) Jobs() *jobs.Table { return s.jobTable }

func (s *Shell) Interactive() bool { return s.interactive }

// SetInteractive is called by cmd/posh once it decides the shell is
// running against a terminal (spec §6.4/§7: interactive vs. script mode
// changes whether a recoverable error aborts the process).
func (s *Shell) SetInteractive(v bool) { s.interactive = v }

// Umask implements the `umask` builtin: read the current mask when set
// is false, or set it to newMask and return the previous value. Go has
// no portable umask(2) wrapper; internal/builtins/misc.go's umask
// builtin is still grounded on the teacher's flag-parsing style even
// though the syscall itself is platform code (see DESIGN.md).
func (s *Shell) Umask(newMask int, set bool) int {
	prev := s.umaskVal
	if set {
		s.umaskVal = applyUmask(newMask)
	}
	return prev
}

// Times implements the `times` builtin. Reaped external children report
// their real CPU usage through os.ProcessState at wait time (see
// command.go's runExternal), accumulated here; self time is not tracked
// since a tree-walking interpreter has no per-syscall accounting of its
// own to report.
func (s *Shell) Times() (userSelf, sysSelf, userChildren, sysChildren string) {
	return "0m0.000s", "0m0.000s", formatDuration(s.childUser), formatDuration(s.childSys)
}
