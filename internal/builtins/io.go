package builtins

import (
	"fmt"
	"strconv"
	"strings"
)

func registerIOBuiltins() {
	register("echo", builtinEcho)
	register("printf", builtinPrintf)
}

// builtinEcho implements `echo [-n] arg...` (spec §6.3): writes its
// arguments separated by a space, followed by a newline unless `-n` was
// given. The XSI backslash-escape repertoire (`\n \t \\ \c` ...) is
// honored so scripts written against either echo convention behave the
// same way under this shell.
func builtinEcho(h Host, args []string, stdio IO) (int, Signal) {
	newline := true
	i := 0
	for i < len(args) && args[i] == "-n" {
		newline = false
		i++
	}
	var b strings.Builder
	for j, arg := range args[i:] {
		if j > 0 {
			b.WriteByte(' ')
		}
		stop := writeEchoEscapes(&b, arg)
		if stop {
			newline = false
			break
		}
	}
	if newline {
		b.WriteByte('\n')
	}
	fmt.Fprint(stdio.Stdout, b.String())
	return 0, Signal{}
}

// writeEchoEscapes expands backslash escapes into b, returning true if a
// `\c` sequence asked for output to stop immediately (no trailing
// fields, no newline).
func writeEchoEscapes(b *strings.Builder, s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case 'c':
			return true
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i+1])
		}
		i++
	}
	return false
}

// builtinPrintf implements `printf format [arg...]` (spec §6.3): a
// restricted subset of the C printf conversions (`%d %i %o %u %x %X %c
// %s %b %%`, plus width/precision) with the format string recycled over
// the argument list until all arguments are consumed.
func builtinPrintf(h Host, args []string, stdio IO) (int, Signal) {
	if len(args) == 0 {
		fmt.Fprintln(stdio.Stderr, "printf: usage: printf format [arguments]")
		return 2, Signal{}
	}
	format := args[0]
	rest := args[1:]
	first := true
	for first || len(rest) > 0 {
		first = false
		var consumed int
		var out string
		out, consumed = expandPrintfFormat(format, rest)
		fmt.Fprint(stdio.Stdout, out)
		if consumed == 0 {
			break
		}
		rest = rest[consumed:]
	}
	return 0, Signal{}
}

func expandPrintfFormat(format string, args []string) (string, int) {
	var b strings.Builder
	argIdx := 0
	nextArg := func() string {
		if argIdx < len(args) {
			v := args[argIdx]
			argIdx++
			return v
		}
		return ""
	}
	i := 0
	for i < len(format) {
		c := format[i]
		if c != '%' {
			if c == '\\' && i+1 < len(format) {
				var esc strings.Builder
				writeEchoEscapes(&esc, format[i:i+2])
				b.WriteString(esc.String())
				i += 2
				continue
			}
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			b.WriteByte('%')
			i += 2
			continue
		}
		j := i + 1
		for j < len(format) && strings.IndexByte("-+# 0123456789.", format[j]) >= 0 {
			j++
		}
		if j >= len(format) {
			b.WriteByte('%')
			i++
			continue
		}
		verb := format[j]
		spec := format[i : j+1]
		switch verb {
		case 'd', 'i':
			n, _ := strconv.ParseInt(nextArg(), 0, 64)
			fmt.Fprintf(&b, spec[:len(spec)-1]+"d", n)
		case 'o', 'x', 'X', 'u':
			n, _ := strconv.ParseUint(nextArg(), 0, 64)
			gov := verb
			if gov == 'u' {
				gov = 'd'
			}
			fmt.Fprintf(&b, spec[:len(spec)-1]+string(gov), n)
		case 'c':
			s := nextArg()
			if len(s) > 0 {
				b.WriteByte(s[0])
			}
		case 's':
			fmt.Fprintf(&b, spec, nextArg())
		case 'b':
			writeEchoEscapes(&b, nextArg())
		default:
			b.WriteString(spec)
		}
		i = j + 1
	}
	return b.String(), argIdx
}
