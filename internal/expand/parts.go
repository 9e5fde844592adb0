package expand

import (
	"strconv"
	"strings"

	"github.com/poshlang/posh/internal/arith"
	"github.com/poshlang/posh/internal/token"
)

// arithEnv adapts Env to arith.Env, reading/writing shell variables as
// integers (spec §4.3 stage 2 arithmetic expansion's variable access).
type arithEnv struct{ env Env }

func (a arithEnv) Get(name string) int64 {
	v, ok := a.env.Get(name)
	if !ok {
		return 0
	}
	n, _ := strconv.ParseInt(strings.TrimSpace(v), 0, 64)
	return n
}

func (a arithEnv) Set(name string, v int64) {
	a.env.Set(name, strconv.FormatInt(v, 10))
}

// expandParts walks a WORD token's parts in order, producing the
// sequence of text segments stages 3-4 will split/glob.
func expandParts(parts []token.Part, env Env) ([]segment, error) {
	var segs []segment
	for _, p := range parts {
		more, err := expandPart(p, env)
		if err != nil {
			return nil, err
		}
		segs = append(segs, more...)
	}
	return segs, nil
}

func expandPart(p token.Part, env Env) ([]segment, error) {
	switch p.Kind {
	case token.PartLiteral:
		return []segment{{text: p.Literal, protect: p.IsQuoted() || p.Escaped}}, nil

	case token.PartTilde:
		return []segment{{text: expandTilde(p.TildeName, env), protect: true}}, nil

	case token.PartArithmetic:
		v, err := arith.Eval(p.ArithRaw, arithEnv{env})
		if err != nil {
			return nil, err
		}
		return []segment{{text: strconv.FormatInt(v, 10), protect: p.DoubleQuoted}}, nil

	case token.PartCommandSub:
		src := p.CmdRaw
		if src == "" && len(p.CmdTokens) > 0 {
			src = renderTokens(p.CmdTokens)
		}
		out, err := env.CommandSubst(src)
		if err != nil {
			return nil, err
		}
		out = strings.TrimRight(out, "\n")
		return []segment{{text: out, protect: p.DoubleQuoted}}, nil

	case token.PartParameter:
		return expandParameter(p, env)
	}
	return nil, nil
}

// expandTilde resolves spec §4.3 stage 1: a bare `~` (or `~+`/`~-`)
// expands to $HOME/$PWD/$OLDPWD; `~name` would require a password-
// database lookup this shell doesn't perform standalone, so it is left
// unexpanded (a conservative, POSIX-permitted fallback: "if... a valid
// login name cannot be determined, it is unspecified whether the tilde-
// prefix is left unchanged").
func expandTilde(name string, env Env) string {
	switch name {
	case "":
		if home, ok := env.Get("HOME"); ok {
			return home
		}
		return "~"
	case "+":
		if pwd, ok := env.Get("PWD"); ok {
			return pwd
		}
		return "~+"
	case "-":
		if old, ok := env.Get("OLDPWD"); ok {
			return old
		}
		return "~-"
	}
	return "~" + name
}

// renderTokens reconstitutes source text from an already-tokenized
// backtick command substitution body, used only when the lexer chose to
// tokenize eagerly instead of stashing raw text.
func renderTokens(toks []token.Token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Literal)
	}
	return b.String()
}
