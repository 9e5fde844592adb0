package builtins

import (
	"fmt"
	"strconv"
)

func registerCoreBuiltins() {
	register(":", builtinColon)
	register("true", builtinTrue)
	register("false", builtinFalse)
	register("exit", builtinExit)
	register("return", builtinReturn)
	register("break", builtinBreak)
	register("continue", builtinContinue)
	register("shift", builtinShift)
}

// builtinColon implements `:` (spec §6.3): does nothing, always succeeds,
// but still expands its arguments (the executor does that before calling
// any builtin) so `: ${x:=default}` works as a side-effecting no-op.
func builtinColon(h Host, args []string, stdio IO) (int, Signal) {
	return 0, Signal{}
}

func builtinTrue(h Host, args []string, stdio IO) (int, Signal) { return 0, Signal{} }

func builtinFalse(h Host, args []string, stdio IO) (int, Signal) { return 1, Signal{} }

// builtinExit implements `exit [n]` (spec §6.3): terminates the shell
// with status n, or the last command's status if n is omitted.
func builtinExit(h Host, args []string, stdio IO) (int, Signal) {
	status := h.LastStatus()
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "exit: %s: numeric argument required\n", args[0])
			return 2, Signal{Kind: SignalExit}
		}
		status = n & 0xff
	}
	return status, Signal{Kind: SignalExit}
}

// builtinReturn implements `return [n]` (spec §6.3): returns from the
// innermost executing function or dot-script with status n.
func builtinReturn(h Host, args []string, stdio IO) (int, Signal) {
	status := h.LastStatus()
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "return: %s: numeric argument required\n", args[0])
			return 2, Signal{Kind: SignalReturn}
		}
		status = n & 0xff
	}
	return status, Signal{Kind: SignalReturn}
}

// builtinBreak implements `break [n]` (spec §6.3): exits n enclosing
// for/while/until loops (default 1).
func builtinBreak(h Host, args []string, stdio IO) (int, Signal) {
	n := levelArg(args)
	return 0, Signal{Kind: SignalBreak, Count: n}
}

// builtinContinue implements `continue [n]` (spec §6.3).
func builtinContinue(h Host, args []string, stdio IO) (int, Signal) {
	n := levelArg(args)
	return 0, Signal{Kind: SignalContinue, Count: n}
}

func levelArg(args []string) int {
	if len(args) == 0 {
		return 1
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// builtinShift implements `shift [n]` (spec §6.3): removes the first n
// positional parameters (default 1); an error if n exceeds $#.
func builtinShift(h Host, args []string, stdio IO) (int, Signal) {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			fmt.Fprintf(stdio.Stderr, "shift: %s: numeric argument required\n", args[0])
			return 1, Signal{}
		}
		n = v
	}
	pos := h.Positional()
	if n > len(pos) {
		return 1, Signal{}
	}
	h.SetPositional(pos[n:])
	return 0, Signal{}
}
