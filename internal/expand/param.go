package expand

import (
	"strconv"
	"strings"

	"github.com/poshlang/posh/internal/glob"
	"github.com/poshlang/posh/internal/token"
)

// ParamError reports a ${name:?word} failure (spec §4.3.1's "Indicate
// Error if Null or Unset" form) — expansion must stop and the shell
// must treat the command as failed (a non-interactive shell exits).
type ParamError struct{ Message string }

func (e *ParamError) Error() string { return e.Message }

// lookupExists reports a parameter's current value and whether it is
// set at all (distinguishing unset from set-but-empty, the distinction
// every colon-vs-no-colon form in spec §4.3.1 hinges on).
func lookupExists(name string, env Env) (string, bool) {
	switch name {
	case "@", "*":
		if env.NumPositional() == 0 {
			return "", true
		}
		return "x", true
	case "#":
		return strconv.Itoa(env.NumPositional()), true
	}
	if n, err := strconv.Atoi(name); err == nil && n >= 1 {
		return env.Positional(n)
	}
	return env.Get(name)
}

// lookupScalar returns a parameter's value as a single string, joining
// positional parameters with IFS's first character (or a space) the way
// unquoted/`$*`-style contexts do. Used by length and pattern-removal
// forms, which never produce multiple fields.
func lookupScalar(name string, env Env) string {
	switch name {
	case "@", "*":
		return joinPositional(env)
	case "#":
		return strconv.Itoa(env.NumPositional())
	}
	if n, err := strconv.Atoi(name); err == nil && n >= 1 {
		v, _ := env.Positional(n)
		return v
	}
	v, _ := env.Get(name)
	return v
}

func joinPositional(env Env) string {
	sep := " "
	if ifs := env.IFS(); ifs != "" {
		sep = ifs[:1]
	}
	n := env.NumPositional()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		v, _ := env.Positional(i)
		parts = append(parts, v)
	}
	return strings.Join(parts, sep)
}

// lookupSegments expands a plain parameter reference into the segment(s)
// it contributes — more than one only for a double-quoted "$@", which
// spec §4.3.1 requires to field-split into one field per positional
// parameter regardless of IFS.
func lookupSegments(name string, env Env, quoted bool) ([]segment, error) {
	if name == "@" && quoted {
		n := env.NumPositional()
		if n == 0 {
			return nil, nil
		}
		segs := make([]segment, 0, n)
		for i := 1; i <= n; i++ {
			v, _ := env.Positional(i)
			segs = append(segs, segment{text: v, protect: true, boundary: i != n})
		}
		return segs, nil
	}
	return []segment{{text: lookupScalar(name, env), protect: quoted}}, nil
}

// expandParamWord expands the nested word to the right of a `${...}`
// operator (spec §4.3.1: this word itself undergoes tilde, parameter,
// command, and arithmetic expansion, but never field splitting or
// pathname expansion — it contributes exactly one string).
func expandParamWord(toks []token.Token, env Env) (string, error) {
	var b strings.Builder
	for i := range toks {
		segs, err := expandParts(toks[i].Parts, env)
		if err != nil {
			return "", err
		}
		for _, s := range segs {
			b.WriteString(s.text)
		}
		if i != len(toks)-1 {
			b.WriteByte(' ')
		}
	}
	return b.String(), nil
}

// expandParameter implements every ${...} form from spec §4.3.1's
// parameter-expansion table.
func expandParameter(p token.Part, env Env) ([]segment, error) {
	name := p.ParamName
	quoted := p.DoubleQuoted

	switch p.ParamSub {
	case token.ParamLength:
		n := len(lookupScalar(name, env))
		if name == "@" || name == "*" {
			n = env.NumPositional()
		}
		return []segment{{text: strconv.Itoa(n), protect: quoted}}, nil

	case token.ParamPlain:
		return lookupSegments(name, env, quoted)

	case token.ParamUseDefault, token.ParamUseDefaultNC:
		v, set := lookupExists(name, env)
		useWord := !set || (p.ParamSub == token.ParamUseDefault && v == "")
		if useWord {
			text, err := expandParamWord(p.ParamWord, env)
			if err != nil {
				return nil, err
			}
			return []segment{{text: text, protect: quoted}}, nil
		}
		return lookupSegments(name, env, quoted)

	case token.ParamAssignDefault, token.ParamAssignNC:
		v, set := lookupExists(name, env)
		useWord := !set || (p.ParamSub == token.ParamAssignDefault && v == "")
		if useWord {
			text, err := expandParamWord(p.ParamWord, env)
			if err != nil {
				return nil, err
			}
			env.Set(name, text)
			return []segment{{text: text, protect: quoted}}, nil
		}
		return lookupSegments(name, env, quoted)

	case token.ParamIndicateError, token.ParamIndicateNC:
		v, set := lookupExists(name, env)
		trigger := !set || (p.ParamSub == token.ParamIndicateError && v == "")
		if trigger {
			msg, err := expandParamWord(p.ParamWord, env)
			if err != nil {
				return nil, err
			}
			if msg == "" {
				msg = "parameter null or not set"
			}
			full := name + ": " + msg
			env.ReportError(full)
			return nil, &ParamError{Message: full}
		}
		return lookupSegments(name, env, quoted)

	case token.ParamUseAlternative, token.ParamUseAlternateNC:
		v, set := lookupExists(name, env)
		useWord := set && !(p.ParamSub == token.ParamUseAlternative && v == "")
		if useWord {
			text, err := expandParamWord(p.ParamWord, env)
			if err != nil {
				return nil, err
			}
			return []segment{{text: text, protect: quoted}}, nil
		}
		return []segment{{text: "", protect: quoted}}, nil

	case token.ParamPrefixShort, token.ParamPrefixLong, token.ParamSuffixShort, token.ParamSuffixLong:
		v := lookupScalar(name, env)
		pattern, err := expandParamWord(p.ParamWord, env)
		if err != nil {
			return nil, err
		}
		shortest := p.ParamSub == token.ParamPrefixShort || p.ParamSub == token.ParamSuffixShort
		var result string
		if p.ParamSub == token.ParamPrefixShort || p.ParamSub == token.ParamPrefixLong {
			result = glob.TrimPrefix(v, pattern, shortest)
		} else {
			result = glob.TrimSuffix(v, pattern, shortest)
		}
		return []segment{{text: result, protect: quoted}}, nil
	}
	return []segment{{text: lookupScalar(name, env), protect: quoted}}, nil
}
