package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/poshlang/posh/internal/builtins"
	"github.com/poshlang/posh/internal/lexer"
	"github.com/poshlang/posh/internal/parser"
	"github.com/poshlang/posh/internal/shell"
	"github.com/poshlang/posh/internal/token"
	"golang.org/x/term"
)

// longOptionLetter maps a `-o name`/`+o name` long option (spec §6.4)
// to its single-letter form; the `set` built-in takes only the
// single-letter forms.
var longOptionLetter = map[string]byte{
	"allexport": 'a',
	"notify":    'b',
	"noclobber": 'C',
	"errexit":   'e',
	"noglob":    'f',
	"monitor":   'm',
	"noexec":    'n',
	"nounset":   'u',
	"verbose":   'v',
	"xtrace":    'x',
}

// invocation records which of -c/-s/script_file/none selected the
// shell's input, and the operands that follow it.
type invocation struct {
	mode          string // "command", "stdin", "script", "interactive"
	commandString string
	shellNameArg  string
	scriptPath    string
	scriptArgs    []string
}

// parseInvocation hand-rolls the option scan spec §6.4 describes:
// bundled single-dash booleans (-ex), "+" to turn them off, and the
// "-o name"/"-c command_string"/"-s" forms, each its own argv token (the
// grammar never bundles -o/-c/-s with the boolean cluster, so this
// doesn't need to either) — something pflag's long/short flag model has
// no way to express.
func parseInvocation(sh *shell.Shell, args []string) (*invocation, error) {
	inv := &invocation{mode: "interactive"}
	i := 0
optloop:
	for i < len(args) {
		a := args[i]
		switch {
		case a == "--":
			i++
			break optloop
		case a == "-":
			i++
			break optloop
		case len(a) < 2 || (a[0] != '-' && a[0] != '+'):
			break optloop
		}
		on := a[0] == '-'
		switch a[1:] {
		case "o":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("-o: option name required")
			}
			letter, ok := longOptionLetter[args[i]]
			if !ok {
				return nil, fmt.Errorf("-o %s: unknown option", args[i])
			}
			if err := sh.SetOption(letter, on); err != nil {
				return nil, err
			}
			i++
		case "c":
			if !on {
				return nil, fmt.Errorf("+c: invalid option")
			}
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("-c: command_string required")
			}
			inv.mode = "command"
			inv.commandString = args[i]
			i++
			break optloop
		case "s":
			inv.mode = "stdin"
			i++
		default:
			for _, f := range a[1:] {
				if err := sh.SetOption(byte(f), on); err != nil {
					return nil, fmt.Errorf("%c: invalid option", f)
				}
			}
			i++
		}
	}

	rest := args[i:]
	switch inv.mode {
	case "command":
		if len(rest) > 0 {
			inv.shellNameArg = rest[0]
			inv.scriptArgs = rest[1:]
		}
	case "stdin":
		inv.scriptArgs = rest
	default:
		if len(rest) > 0 {
			inv.mode = "script"
			inv.scriptPath = rest[0]
			inv.scriptArgs = rest[1:]
		}
	}
	return inv, nil
}

// runInvocation implements spec §6.4's CLI contract end to end: parse
// the shell's own option syntax, pick an input source, run it, and
// return the resulting $? as a process exit status.
func runInvocation(args []string) error {
	sh := shell.New()

	inv, err := parseInvocation(sh, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "posh:", err)
		return exitCode(2)
	}

	stdio := builtins.IO{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}

	switch inv.mode {
	case "command":
		name := inv.shellNameArg
		if name == "" {
			name = "posh"
		}
		sh.SetShellName(name)
		sh.SetPositional(inv.scriptArgs)
		status := sh.Eval(inv.commandString, stdio)
		sh.FireExitTrap()
		return statusToErr(status)

	case "script":
		sh.SetShellName(inv.scriptPath)
		status, err := sh.Source(inv.scriptPath, inv.scriptArgs, stdio)
		if err != nil {
			fmt.Fprintf(os.Stderr, "posh: %s: %v\n", inv.scriptPath, err)
			return exitCode(127)
		}
		sh.FireExitTrap()
		return statusToErr(status)

	default: // "stdin" or "interactive"
		sh.SetShellName(filepath.Base(os.Args[0]))
		sh.SetPositional(inv.scriptArgs)
		interactive := inv.mode == "interactive" && term.IsTerminal(int(os.Stdin.Fd()))
		sh.SetInteractive(interactive)
		sourceStartupEnv(sh, interactive, stdio)
		status := runStream(sh, os.Stdin, interactive)
		sh.FireExitTrap()
		return statusToErr(status)
	}
}

func statusToErr(status int) error {
	if status == 0 {
		return nil
	}
	return exitCode(status)
}

// sourceStartupEnv implements spec §6.5's ENV-named profile script: an
// interactive shell sources the file $ENV names (after the process
// environment has already seeded the variable store in shell.New)
// before running anything else.
func sourceStartupEnv(sh *shell.Shell, interactive bool, stdio builtins.IO) {
	if !interactive {
		return
	}
	path, ok := sh.Getvar("ENV")
	if !ok || path == "" {
		return
	}
	if _, err := sh.Source(path, nil, stdio); err != nil {
		fmt.Fprintf(os.Stderr, "posh: %s: %v\n", path, err)
	}
}

// runStream reads complete commands from r and executes each as it
// completes, the way a non-interactive shell consumes a script or an
// interactive one consumes a terminal one logical line (or more, for an
// open compound command) at a time. Prompts are only written when
// interactive (spec's explicit non-goal: no line editor, just PS1/PS2).
func runStream(sh *shell.Shell, r io.Reader, interactive bool) int {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lx := lexer.NewStreaming()
	var pending []token.Token // tokens accumulated across Incomplete calls (spec §4.1)
	status := 0
	promptVar := "PS1"

	writePrompt := func() {
		if !interactive {
			return
		}
		p, _ := sh.Getvar(promptVar)
		fmt.Fprint(os.Stderr, p)
	}
	reset := func() {
		lx = lexer.NewStreaming()
		pending = nil
		promptVar = "PS1"
		writePrompt()
	}

	writePrompt()
	for scanner.Scan() {
		lx.AppendInput(scanner.Text() + "\n")
		var toks []token.Token
		st := lx.Tokenize(&toks)
		pending = append(pending, toks...)
		switch st {
		case lexer.Incomplete:
			promptVar = "PS2"
			writePrompt()
			continue
		case lexer.Error:
			fmt.Fprintf(os.Stderr, "posh: %s: %s\n", lx.ErrorLocation(), lx.ErrorMessage())
			status = 2
			if !interactive {
				return status
			}
			reset()
			continue
		}

		prog, pstatus, perr := parser.Parse(pending, sh.AliasLookup())
		if pstatus == parser.Error {
			fmt.Fprintf(os.Stderr, "posh: %s: %s\n", perr.Pos, perr.Message)
			status = 2
		} else {
			status = sh.Run(prog)
		}
		if sh.Exited() {
			return status
		}
		reset()
	}
	return status
}
