package parser

import "github.com/poshlang/posh/internal/token"

// wordLiteral returns a WORD token's spelling when it is eligible for
// reserved-word promotion: exactly one part, a literal, and neither
// quoted nor backslash-escaped (spec §4.1 "Reserved-word promotion").
// Anything else — multiple parts, a quoted or escaped literal, any
// expansion part — can never become a keyword.
func wordLiteral(tok token.Token) (string, bool) {
	if tok.Type != token.WORD || len(tok.Parts) != 1 {
		return "", false
	}
	p := tok.Parts[0]
	if p.Kind != token.PartLiteral || p.IsQuoted() || p.Escaped {
		return "", false
	}
	return p.Literal, true
}

// reservedType reports the token type a WORD would promote to at a
// command-start position, honoring spec §4.2's context rule: all
// keywords except `in` are enabled at every command-start; `in` is only
// enabled when allowIn is set (inside a for/case head).
func reservedType(tok token.Token, allowIn bool) (token.Type, bool) {
	lit, ok := wordLiteral(tok)
	if !ok {
		return token.ILLEGAL, false
	}
	t, ok := token.ReservedWords[lit]
	if !ok {
		return token.ILLEGAL, false
	}
	if t == token.IN && !allowIn {
		return token.ILLEGAL, false
	}
	return t, true
}

// isReservedLiteral reports whether tok would promote to exactly the
// given reserved type, used by the list/clause parsers to recognize
// terminators (`fi`, `done`, `esac`, `then`, `elif`, `else`) without
// threading allowIn through every caller — none of those six ever
// collide with `in`.
func isReservedLiteral(tok token.Token, want token.Type) bool {
	t, ok := reservedType(tok, false)
	return ok && t == want
}
