package parser

import (
	"github.com/poshlang/posh/internal/ast"
	"github.com/poshlang/posh/internal/token"
)

func isNameStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNameByte(b byte) bool {
	return isNameStartByte(b) || (b >= '0' && b <= '9')
}

// isValidName reports whether s is a valid shell NAME (spec §3.2's
// assignment-word rule: an identifier, never a digit-led or empty
// string).
func isValidName(s string) bool {
	if s == "" || !isNameStartByte(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}
	return true
}

// tryParseAssignment recognizes an ASSIGNMENT_WORD shape (spec §3.2)
// inside a WORD token the lexer produced — the lexer stays
// context-free (DESIGN.md) and never classifies assignment words
// itself, so the parser does it here, in cmd_prefix position only.
func (p *Parser) tryParseAssignment() (*ast.Assignment, bool) {
	cur := p.cursor.Current()
	if cur.Type != token.WORD || len(cur.Parts) == 0 {
		return nil, false
	}
	first := cur.Parts[0]
	if first.Kind != token.PartLiteral || first.IsQuoted() || first.Escaped {
		return nil, false
	}
	eq := -1
	for i := 0; i < len(first.Literal); i++ {
		if first.Literal[i] == '=' {
			eq = i
			break
		}
	}
	if eq <= 0 {
		return nil, false
	}
	name := first.Literal[:eq]
	if !isValidName(name) {
		return nil, false
	}
	p.cursor.Advance()

	rest := first.Literal[eq+1:]
	var parts []token.Part
	if rest != "" || len(cur.Parts) == 1 {
		parts = append(parts, token.Part{Kind: token.PartLiteral, Literal: rest})
	}
	parts = append(parts, cur.Parts[1:]...)
	value := token.NewWord(parts, cur.Pos, cur.EndPos)
	return &ast.Assignment{Name: name, Value: &value, Position: cur.Pos}, true
}
