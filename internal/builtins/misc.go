package builtins

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func registerMiscBuiltins() {
	register("trap", builtinTrap)
	register("alias", builtinAlias)
	register("unalias", builtinUnalias)
	register(".", builtinDot)
	register("exec", builtinExec)
	register("command", builtinCommand)
	register("type", builtinType)
	register("umask", builtinUmask)
	register("times", builtinTimes)
	register("getopts", builtinGetopts)
	register("hash", builtinHash)
}

// builtinTrap implements `trap [action condition...]` (spec §6.3). With
// no arguments it lists the traps currently set; `trap - cond...` or
// `trap action cond...` sets/clears them.
func builtinTrap(h Host, args []string, stdio IO) (int, Signal) {
	if len(args) == 0 {
		for cond, action := range h.Traps() {
			fmt.Fprintf(stdio.Stdout, "trap -- %s %s\n", shellQuote(action), cond)
		}
		return 0, Signal{}
	}
	action := args[0]
	for _, cond := range args[1:] {
		if action == "-" {
			h.ClearTrap(cond)
			continue
		}
		if err := h.SetTrap(cond, action); err != nil {
			fmt.Fprintf(stdio.Stderr, "trap: %v\n", err)
			return 1, Signal{}
		}
	}
	return 0, Signal{}
}

// builtinAlias implements `alias [name[=value]...]` (spec §6.3): with no
// arguments, lists every alias; `alias name` (no `=`) prints that one
// alias; `alias name=value` defines one.
func builtinAlias(h Host, args []string, stdio IO) (int, Signal) {
	if len(args) == 0 {
		for _, name := range h.AliasNames() {
			v, _ := h.Alias(name)
			fmt.Fprintf(stdio.Stdout, "alias %s=%s\n", name, shellQuote(v))
		}
		return 0, Signal{}
	}
	status := 0
	for _, arg := range args {
		name, value, hasValue := strings.Cut(arg, "=")
		if !hasValue {
			v, ok := h.Alias(name)
			if !ok {
				fmt.Fprintf(stdio.Stderr, "alias: %s: not found\n", name)
				status = 1
				continue
			}
			fmt.Fprintf(stdio.Stdout, "alias %s=%s\n", name, shellQuote(v))
			continue
		}
		h.SetAlias(name, value)
	}
	return status, Signal{}
}

// builtinUnalias implements `unalias [-a] name...` (spec §6.3).
func builtinUnalias(h Host, args []string, stdio IO) (int, Signal) {
	if len(args) > 0 && args[0] == "-a" {
		for _, name := range h.AliasNames() {
			h.RemoveAlias(name)
		}
		return 0, Signal{}
	}
	for _, name := range args {
		h.RemoveAlias(name)
	}
	return 0, Signal{}
}

// builtinDot implements `. file [arg...]` (spec §6.3): reads and
// executes file in the current shell environment (not a subshell), with
// the positional parameters temporarily replaced by any extra
// arguments.
func builtinDot(h Host, args []string, stdio IO) (int, Signal) {
	if len(args) == 0 {
		fmt.Fprintln(stdio.Stderr, ".: filename argument required")
		return 2, Signal{}
	}
	status, err := h.Source(args[0], args[1:], stdio)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, ".: %v\n", err)
		return 127, Signal{}
	}
	return status, Signal{}
}

// builtinExec implements `exec [command [arg...]]` (spec §6.3): with
// arguments, replaces the shell with command (or, since this
// implementation never literally execve's itself away, runs it and
// exits the shell with its status); with none, applies any of its own
// redirections permanently (already handled by the executor before this
// builtin even runs) and does nothing further.
func builtinExec(h Host, args []string, stdio IO) (int, Signal) {
	if len(args) == 0 {
		return 0, Signal{}
	}
	status, err := h.Exec(args[0], args[1:], stdio)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "exec: %s: %v\n", args[0], err)
		return 126, Signal{Kind: SignalExit}
	}
	return status, Signal{Kind: SignalExit}
}

// builtinCommand implements `command [-v|-V] name [arg...]` (spec
// §6.3): `-v`/`-V` print what name resolves to instead of running it;
// otherwise it bypasses any function or alias named name and runs the
// builtin/external utility directly.
func builtinCommand(h Host, args []string, stdio IO) (int, Signal) {
	verbose := false
	veryVerbose := false
	for len(args) > 0 {
		switch args[0] {
		case "-v":
			verbose = true
		case "-V":
			veryVerbose = true
		default:
			goto resolved
		}
		args = args[1:]
	}
resolved:
	if len(args) == 0 {
		return 0, Signal{}
	}
	name := args[0]
	if verbose || veryVerbose {
		return describeCommand(h, name, veryVerbose, stdio), Signal{}
	}
	if fn, ok := Lookup(name); ok {
		return fn(h, args[1:], stdio)
	}
	status, err := h.Exec(name, args[1:], stdio)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "command: %s: not found\n", name)
		return 127, Signal{}
	}
	return status, Signal{}
}

// builtinType implements `type name...` (spec §6.3): classifies each
// name as a function, builtin, or external utility.
func builtinType(h Host, args []string, stdio IO) (int, Signal) {
	status := 0
	for _, name := range args {
		if describeCommand(h, name, true, stdio) != 0 {
			status = 1
		}
	}
	return status, Signal{}
}

func describeCommand(h Host, name string, full bool, stdio IO) int {
	if h.HasFunction(name) {
		fmt.Fprintf(stdio.Stdout, "%s is a function\n", name)
		return 0
	}
	if Special(name) {
		fmt.Fprintf(stdio.Stdout, "%s is a special shell builtin\n", name)
		return 0
	}
	if _, ok := Lookup(name); ok {
		fmt.Fprintf(stdio.Stdout, "%s is a shell builtin\n", name)
		return 0
	}
	if path, err := lookPath(h, name); err == nil {
		fmt.Fprintf(stdio.Stdout, "%s is %s\n", name, path)
		return 0
	}
	fmt.Fprintf(stdio.Stderr, "%s: not found\n", name)
	return 1
}

// builtinUmask implements `umask [-S] [mode]` (spec §6.3).
func builtinUmask(h Host, args []string, stdio IO) (int, Signal) {
	symbolic := false
	if len(args) > 0 && args[0] == "-S" {
		symbolic = true
		args = args[1:]
	}
	if len(args) == 0 {
		mask := h.Umask(0, false)
		if symbolic {
			fmt.Fprintf(stdio.Stdout, "u=%s,g=%s,o=%s\n", umaskSymbol(mask, 6), umaskSymbol(mask, 3), umaskSymbol(mask, 0))
		} else {
			fmt.Fprintf(stdio.Stdout, "%04o\n", mask)
		}
		return 0, Signal{}
	}
	n, err := strconv.ParseInt(args[0], 8, 64)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "umask: %s: invalid mode\n", args[0])
		return 1, Signal{}
	}
	h.Umask(int(n), true)
	return 0, Signal{}
}

func umaskSymbol(mask, shift int) string {
	bits := (mask >> shift) & 7
	perms := [8]string{"rwx", "rw", "rx", "r", "wx", "w", "x", ""}
	return perms[bits]
}

// builtinTimes implements `times` (spec §6.3): reports accumulated
// shell and child-process CPU time.
func builtinTimes(h Host, args []string, stdio IO) (int, Signal) {
	u1, s1, u2, s2 := h.Times()
	fmt.Fprintf(stdio.Stdout, "%s %s\n%s %s\n", u1, s1, u2, s2)
	return 0, Signal{}
}

// builtinGetopts implements `getopts optstring name [arg...]` (spec
// §6.3): parses one option per call from the positional parameters (or
// the supplied argument list), tracking progress in $OPTIND.
func builtinGetopts(h Host, args []string, stdio IO) (int, Signal) {
	if len(args) < 2 {
		fmt.Fprintln(stdio.Stderr, "getopts: usage: getopts optstring name [arg]")
		return 2, Signal{}
	}
	optstring, name := args[0], args[1]
	operands := args[2:]
	if len(operands) == 0 {
		operands = h.Positional()
	}

	optindStr, _ := h.Getvar("OPTIND")
	optind, err := strconv.Atoi(optindStr)
	if err != nil || optind < 1 {
		optind = 1
	}

	if optind > len(operands) {
		_ = h.Setvar(name, "?")
		return 1, Signal{}
	}
	arg := operands[optind-1]
	if len(arg) < 2 || arg[0] != '-' || arg == "--" {
		if arg == "--" {
			_ = h.Setvar("OPTIND", strconv.Itoa(optind+1))
		}
		_ = h.Setvar(name, "?")
		return 1, Signal{}
	}

	optCharIdxStr, _ := h.Getvar("__GETOPTS_CHARIDX")
	charIdx, _ := strconv.Atoi(optCharIdxStr)
	if charIdx < 1 {
		charIdx = 1
	}
	opt := arg[charIdx]
	idx := strings.IndexByte(optstring, opt)
	if idx < 0 {
		_ = h.Setvar(name, "?")
		_ = h.Setvar("OPTARG", string(opt))
		advanceGetopts(h, arg, charIdx, optind)
		if strings.HasPrefix(optstring, ":") {
			return 0, Signal{}
		}
		fmt.Fprintf(stdio.Stderr, "%s: illegal option -- %c\n", name, opt)
		return 0, Signal{}
	}

	needsArg := idx+1 < len(optstring) && optstring[idx+1] == ':'
	_ = h.Setvar(name, string(opt))
	if !needsArg {
		advanceGetopts(h, arg, charIdx, optind)
		return 0, Signal{}
	}
	if charIdx+1 < len(arg) {
		_ = h.Setvar("OPTARG", arg[charIdx+1:])
		_ = h.Setvar("OPTIND", strconv.Itoa(optind+1))
		_ = h.Setvar("__GETOPTS_CHARIDX", "1")
		return 0, Signal{}
	}
	if optind >= len(operands) {
		_ = h.Setvar(name, "?")
		fmt.Fprintf(stdio.Stderr, "%s: option requires an argument -- %c\n", name, opt)
		_ = h.Setvar("OPTIND", strconv.Itoa(optind+1))
		return 0, Signal{}
	}
	_ = h.Setvar("OPTARG", operands[optind])
	_ = h.Setvar("OPTIND", strconv.Itoa(optind+2))
	_ = h.Setvar("__GETOPTS_CHARIDX", "1")
	return 0, Signal{}
}

func advanceGetopts(h Host, arg string, charIdx, optind int) {
	if charIdx+1 < len(arg) {
		_ = h.Setvar("__GETOPTS_CHARIDX", strconv.Itoa(charIdx+1))
		return
	}
	_ = h.Setvar("__GETOPTS_CHARIDX", "1")
	_ = h.Setvar("OPTIND", strconv.Itoa(optind+1))
}

// lookPath searches $PATH (as seen by h, not the host process's own
// environment) for an executable named name, the way the executor
// resolves a simple command that isn't a function or builtin.
func lookPath(h Host, name string) (string, error) {
	if strings.Contains(name, "/") {
		if info, err := os.Stat(name); err == nil && !info.IsDir() && info.Mode()&0111 != 0 {
			return name, nil
		}
		return "", os.ErrNotExist
	}
	path, _ := h.Getvar("PATH")
	for _, dir := range strings.Split(path, ":") {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() && info.Mode()&0111 != 0 {
			return candidate, nil
		}
	}
	return "", os.ErrNotExist
}

// builtinHash implements `hash [-r] [name...]` (spec §6.3): this
// implementation resolves $PATH fresh on every command lookup instead of
// caching, so hash has nothing to remember or forget — it only validates
// its arguments and reports success.
func builtinHash(h Host, args []string, stdio IO) (int, Signal) {
	for _, name := range args {
		if name == "-r" {
			continue
		}
		if _, err := lookPath(h, name); err != nil {
			fmt.Fprintf(stdio.Stderr, "hash: %s: not found\n", name)
			return 1, Signal{}
		}
	}
	return 0, Signal{}
}
