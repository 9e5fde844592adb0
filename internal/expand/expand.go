// Package expand implements word expansion (spec §4.3): the five-stage
// pipeline — tilde expansion, parameter/command/arithmetic expansion,
// field splitting, pathname expansion, and quote removal — that turns a
// parsed WORD token into the argument/assignment-value strings the
// executor actually sees.
//
// The pipeline walks token.Part sequences directly rather than
// re-lexing a flattened string: each Part already records which of the
// five kinds it is and whether it was quoted (internal/token's
// deriveHints), so expand never has to rediscover quoting after the
// fact the way a string-based expander would.
package expand

import (
	"strings"

	"github.com/poshlang/posh/internal/token"
)

// Env is the shell-state facade the expander reads variables through and
// calls back into for command substitution. internal/shell implements it.
type Env interface {
	// Get returns a variable's string value. ok is false for an unset
	// variable; set-but-empty returns ("", true).
	Get(name string) (value string, ok bool)
	// Set assigns name=value, used by the ${name:=word} form.
	Set(name, value string)
	// Positional returns the n'th positional parameter (1-based). ok is
	// false past the end ($#).
	Positional(n int) (string, bool)
	// NumPositional returns $#.
	NumPositional() int
	// IFS returns the current value of $IFS, defaulting to " \t\n" when
	// unset per spec §4.3 stage 3.
	IFS() string
	// NoGlob reports whether pathname expansion is disabled (`set -f`).
	NoGlob() bool
	// CommandSubst runs src as a shell program in a subshell and returns
	// its standard output, trailing newlines stripped (spec §4.3 stage
	// 2, command substitution).
	CommandSubst(src string) (string, error)
	// ExitStatus is $?.
	ExitStatus() int
	// ReportError surfaces a ${name:?word} failure to the caller; when
	// Env considers this fatal (interactive vs. script, per spec §4.4)
	// it may choose to terminate the shell itself. Expand always treats
	// the expansion as having failed once this is called.
	ReportError(message string)
}

// Field is one expanded word ready for quote-removal's result: the
// final text plus whether pathname expansion should run on it (a field
// built entirely from quoted or escaped text never globs, spec §4.3
// stage 4).
type Field struct {
	Text      string
	CanGlob   bool
	FromEmpty bool // true only for a field born from "" or '' — "$x" where x is unset and quoted yields no field at all, but "" always yields one empty field
}

// Words expands a sequence of WORD tokens into their final argument
// list, running all five stages and flattening every token's fields
// together (this is what simple-command argument lists and for-clause
// word lists need).
func Words(tokens []*token.Token, env Env) ([]string, error) {
	var out []string
	for _, tok := range tokens {
		fields, err := Word(tok, env)
		if err != nil {
			return nil, err
		}
		for _, f := range fields {
			out = append(out, finishField(f))
		}
	}
	return out, nil
}

// Word runs the full pipeline on a single token, returning the field(s)
// it expands to (more than one only when it contained an unquoted
// parameter/command/arithmetic expansion that field-split, or "$@").
func Word(tok *token.Token, env Env) ([]Field, error) {
	segs, err := expandParts(tok.Parts, env)
	if err != nil {
		return nil, err
	}
	fields := splitFields(segs, env.IFS())
	return globFields(fields, env), nil
}

// WordNoSplit runs stages 1-2 and 5 only, skipping field splitting and
// pathname expansion — the form assignment values and case/pattern
// words need (spec §4.3: "assignment... shall not be split... or
// pathname-expanded").
func WordNoSplit(tok *token.Token, env Env) (string, error) {
	segs, err := expandParts(tok.Parts, env)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.text)
	}
	return b.String(), nil
}

// segment is one run of expanded text with its splitting/globbing
// eligibility (stage 3/4 inputs), or a hard field boundary forced by an
// unquoted/double-quoted "$@" expansion.
type segment struct {
	text     string
	protect  bool // quoted or escaped: never split, never globbed
	boundary bool // forces a field break immediately after this segment
}

func finishField(f Field) string { return f.Text }
