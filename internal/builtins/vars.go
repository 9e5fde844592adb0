package builtins

import (
	"bufio"
	"fmt"
	"strings"
)

func registerVarBuiltins() {
	register("set", builtinSet)
	register("unset", builtinUnset)
	register("export", builtinExport)
	register("readonly", builtinReadonly)
	register("eval", builtinEval)
	register("read", builtinRead)
}

// setFlags lists the option letters the `set` builtin accepts after `-`
// or `+`; any other letter is rejected as an invalid option.
var setFlags = "abCefmnuvx"

// builtinSet implements `set` (spec §6.3): with -/+ option arguments it
// toggles shell options; with `--` (or no options at all) the remaining
// arguments replace the positional parameters; with no arguments at all
// it prints every variable (the `NAME=value` form, one per line).
func builtinSet(h Host, args []string, stdio IO) (int, Signal) {
	i := 0
	for i < len(args) {
		arg := args[i]
		if arg == "--" {
			i++
			break
		}
		if len(arg) < 2 || (arg[0] != '-' && arg[0] != '+') {
			break
		}
		on := arg[0] == '-'
		for _, f := range arg[1:] {
			if strings.IndexRune(setFlags, f) < 0 {
				fmt.Fprintf(stdio.Stderr, "set: %c: invalid option\n", f)
				return 2, Signal{}
			}
			h.SetOption(byte(f), on)
		}
		i++
	}
	if i < len(args) || (len(args) > 0 && args[len(args)-1] == "--") {
		h.SetPositional(args[i:])
		return 0, Signal{}
	}
	if len(args) == 0 {
		for _, name := range h.VarNames() {
			v, _ := h.Getvar(name)
			fmt.Fprintf(stdio.Stdout, "%s=%s\n", name, shellQuote(v))
		}
	}
	return 0, Signal{}
}

func shellQuote(v string) string {
	if v == "" {
		return "''"
	}
	if strings.IndexAny(v, " \t\n'\"$`\\") < 0 {
		return v
	}
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}

// builtinUnset implements `unset [-fv] name...` (spec §6.3): -f targets
// function names, -v (the default) targets variables.
func builtinUnset(h Host, args []string, stdio IO) (int, Signal) {
	functions := false
	names := args
	if len(args) > 0 && (args[0] == "-f" || args[0] == "-v") {
		functions = args[0] == "-f"
		names = args[1:]
	}
	status := 0
	for _, name := range names {
		if functions {
			h.UnsetFunc(name)
			continue
		}
		if h.IsReadOnly(name) {
			fmt.Fprintf(stdio.Stderr, "unset: %s: readonly variable\n", name)
			status = 1
			continue
		}
		if err := h.Unsetvar(name); err != nil {
			fmt.Fprintf(stdio.Stderr, "unset: %v\n", err)
			status = 1
		}
	}
	return status, Signal{}
}

// builtinExport implements `export [-p] [name[=value]]...` (spec §6.3).
func builtinExport(h Host, args []string, stdio IO) (int, Signal) {
	if len(args) == 0 || args[0] == "-p" {
		for _, name := range h.VarNames() {
			if h.IsExported(name) {
				v, _ := h.Getvar(name)
				fmt.Fprintf(stdio.Stdout, "export %s=%s\n", name, shellQuote(v))
			}
		}
		return 0, Signal{}
	}
	status := 0
	for _, arg := range args {
		name, value, hasValue := strings.Cut(arg, "=")
		if hasValue {
			if err := h.Setvar(name, value); err != nil {
				fmt.Fprintf(stdio.Stderr, "export: %v\n", err)
				status = 1
				continue
			}
		}
		if err := h.Export(name); err != nil {
			fmt.Fprintf(stdio.Stderr, "export: %v\n", err)
			status = 1
		}
	}
	return status, Signal{}
}

// builtinReadonly implements `readonly [-p] [name[=value]]...` (spec
// §6.3).
func builtinReadonly(h Host, args []string, stdio IO) (int, Signal) {
	if len(args) == 0 || args[0] == "-p" {
		for _, name := range h.VarNames() {
			if h.IsReadOnly(name) {
				v, _ := h.Getvar(name)
				fmt.Fprintf(stdio.Stdout, "readonly %s=%s\n", name, shellQuote(v))
			}
		}
		return 0, Signal{}
	}
	status := 0
	for _, arg := range args {
		name, value, hasValue := strings.Cut(arg, "=")
		if hasValue {
			if err := h.Setvar(name, value); err != nil {
				fmt.Fprintf(stdio.Stderr, "readonly: %v\n", err)
				status = 1
				continue
			}
		}
		if err := h.MarkReadOnly(name); err != nil {
			fmt.Fprintf(stdio.Stderr, "readonly: %v\n", err)
			status = 1
		}
	}
	return status, Signal{}
}

// builtinEval implements `eval [arg...]` (spec §6.3): concatenates its
// arguments with single spaces and executes the result as shell input in
// the current environment.
func builtinEval(h Host, args []string, stdio IO) (int, Signal) {
	if len(args) == 0 {
		return 0, Signal{}
	}
	status := h.Eval(strings.Join(args, " "), stdio)
	return status, Signal{}
}

// builtinRead implements `read [-r] name...` (spec §6.3): splits one
// line of stdin on IFS into the named variables, the last variable
// absorbing any remainder.
func builtinRead(h Host, args []string, stdio IO) (int, Signal) {
	raw := false
	i := 0
	for i < len(args) && strings.HasPrefix(args[i], "-") && args[i] != "-" {
		if args[i] == "-r" {
			raw = true
		}
		i++
	}
	names := args[i:]
	if len(names) == 0 {
		names = []string{"REPLY"}
	}

	reader := bufio.NewReader(stdio.Stdin)
	line, err := readLogicalLine(reader, raw)
	if err != nil && line == "" {
		return 1, Signal{}
	}

	ifs, ok := h.Getvar("IFS")
	if !ok {
		ifs = " \t\n"
	}
	fields := splitOnIFS(line, ifs, len(names))
	for idx, name := range names {
		var v string
		if idx < len(fields) {
			v = fields[idx]
		}
		if err := h.Setvar(name, v); err != nil {
			fmt.Fprintf(stdio.Stderr, "read: %v\n", err)
			return 1, Signal{}
		}
	}
	return 0, Signal{}
}

// readLogicalLine reads one newline-terminated line, honoring a
// trailing backslash as a line continuation unless raw is set (the `-r`
// option, spec §6.3).
func readLogicalLine(r *bufio.Reader, raw bool) (string, error) {
	var b strings.Builder
	for {
		line, err := r.ReadString('\n')
		line = strings.TrimSuffix(line, "\n")
		if !raw && strings.HasSuffix(line, "\\") {
			b.WriteString(strings.TrimSuffix(line, "\\"))
			if err != nil {
				return b.String(), err
			}
			continue
		}
		b.WriteString(line)
		return b.String(), err
	}
}

// splitOnIFS splits line on IFS characters into at most maxFields
// fields, with the final field absorbing any remaining text and
// separators (the `read` builtin's field-assignment rule, distinct from
// ordinary word splitting).
func splitOnIFS(line, ifs string, maxFields int) []string {
	ws, nonws := splitIFSBytes(ifs)
	var fields []string
	var cur strings.Builder
	started := false
	i := 0
	for i < len(line) {
		if len(fields) == maxFields-1 {
			cur.WriteString(line[i:])
			break
		}
		c := line[i]
		switch {
		case strings.IndexByte(ws, c) >= 0:
			if started {
				fields = append(fields, cur.String())
				cur.Reset()
				started = false
			}
			for i < len(line) && strings.IndexByte(ws, line[i]) >= 0 {
				i++
			}
		case strings.IndexByte(nonws, c) >= 0:
			fields = append(fields, cur.String())
			cur.Reset()
			started = false
			i++
		default:
			cur.WriteByte(c)
			started = true
			i++
		}
	}
	if started || cur.Len() > 0 || len(fields) == 0 {
		fields = append(fields, cur.String())
	}
	return fields
}

func splitIFSBytes(ifs string) (ws, nonws string) {
	for i := 0; i < len(ifs); i++ {
		c := ifs[i]
		if c == ' ' || c == '\t' || c == '\n' {
			ws += string(c)
		} else {
			nonws += string(c)
		}
	}
	return ws, nonws
}
