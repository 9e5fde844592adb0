// Package builtins implements the special built-in and regular built-in
// utilities of spec §6.3 as an in-process registry, grounded on the
// teacher's VM built-in registration pattern
// (internal/bytecode/vm_builtins.go's `vm.builtins[name] = fn` map,
// split into one file per functional group with a `registerXBuiltins`
// function each).
//
// A builtin never talks to *shell.Shell directly — that would make this
// package import internal/shell, which imports internal/builtins to
// dispatch simple commands. Host is the narrow seam (the same pattern
// internal/expand uses for its own Env) that breaks the cycle: shell.Shell
// implements Host, and the executor calls Lookup(name) itself.
package builtins

import (
	"io"
)

// IO is the set of streams a builtin command runs against — already
// resolved through the command's redirections by the time the executor
// calls a builtin.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// SignalKind distinguishes a builtin's plain exit status from one of the
// control-flow special builtins (spec §6.3: exit, return, break,
// continue) that unwind more than just the current command.
type SignalKind int

const (
	SignalNone SignalKind = iota
	SignalExit
	SignalReturn
	SignalBreak
	SignalContinue
)

// Signal is how a builtin reports control flow back to the executor
// instead of panicking or otherwise hijacking Go's own call stack.
type Signal struct {
	Kind  SignalKind
	Count int // loop levels for break/continue; unused otherwise
}

// Func is one builtin utility's implementation. It returns the command's
// exit status and any control-flow signal it raises.
type Func func(h Host, args []string, io IO) (int, Signal)

// Special reports whether name is one of spec §6.3's "special"
// built-ins: errors in a special built-in terminate a non-interactive
// shell, and preceding assignments to a special built-in persist after
// it returns (spec §4.4's simple-command execution rule).
func Special(name string) bool {
	_, ok := specialBuiltins[name]
	return ok
}

var specialBuiltins = map[string]bool{
	":": true, ".": true, "eval": true, "exec": true, "exit": true,
	"export": true, "readonly": true, "return": true, "set": true,
	"shift": true, "trap": true, "unset": true, "break": true, "continue": true,
}

var registry = map[string]Func{}

func register(name string, fn Func) { registry[name] = fn }

// Lookup returns the builtin named name, or (nil, false) if name isn't
// one (the executor checks shell functions before builtins and searches
// $PATH when neither matches).
func Lookup(name string) (Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Names returns every registered builtin name, for the `command -v`/
// `type` introspection builtins.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	return out
}

func init() {
	registerCoreBuiltins()
	registerVarBuiltins()
	registerDirBuiltins()
	registerIOBuiltins()
	registerTestBuiltin()
	registerMiscBuiltins()
	registerJobBuiltins()
}
