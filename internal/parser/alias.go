package parser

import (
	"github.com/poshlang/posh/internal/lexer"
	"github.com/poshlang/posh/internal/token"
)

// AliasLookup is the parser's view onto the shell's alias store (spec
// §4.2 "Aliasing"). Defined here rather than importing internal/shell
// directly, so internal/shell can depend on internal/parser without a
// cycle; internal/shell's AliasStore satisfies this interface as-is.
type AliasLookup interface {
	Lookup(name string) (replacement string, ok bool)
}

// expandAliasesAtCommandStart implements spec §4.2's alias-splicing rule
// at a command-start position: while the current token is a single
// unquoted WORD naming a defined alias that hasn't already been expanded
// for this command, re-tokenize the replacement text and splice it into
// the cursor in place of the WORD. If a replacement's raw text ends in a
// blank byte, the word that follows the whole splice is also considered
// once the current chain is exhausted — POSIX's "trailing blank"
// extension, letting `alias ll='ls -l '; alias l='ll'` expand both `ll`
// and `l` when written as `l file`.
func (p *Parser) expandAliasesAtCommandStart() {
	if p.aliases == nil {
		return
	}
	expanded := map[string]bool{}
	for {
		if !p.expandOneAlias(expanded) {
			return
		}
	}
}

// expandOneAlias tries exactly one splice at the current cursor
// position. It returns true if it spliced (so the caller should try
// again, since the splice may have exposed a new alias-eligible word, or
// — if the replacement text ended in a blank — the word immediately
// following the splice).
func (p *Parser) expandOneAlias(expanded map[string]bool) bool {
	lit, ok := wordLiteral(p.cursor.Current())
	if !ok {
		return false
	}
	if _, reserved := token.ReservedWords[lit]; reserved {
		return false
	}
	if expanded[lit] {
		return false
	}
	text, ok := p.aliases.Lookup(lit)
	if !ok {
		return false
	}
	expanded[lit] = true

	lx := lexer.New(text)
	var toks []token.Token
	lx.Tokenize(&toks)
	// Drop the synthetic EOF the sub-lexer produced; the outer stream
	// already has its own.
	if n := len(toks); n > 0 && toks[n-1].Type == token.EOF {
		toks = toks[:n-1]
	}
	p.cursor.Splice(toks)

	if len(text) > 0 {
		last := text[len(text)-1]
		if last == ' ' || last == '\t' {
			// The replacement ended in a blank: after this splice's own
			// tokens, the next word is eligible too. Advance past the
			// spliced tokens before letting the caller retry so it
			// inspects that following word, not the first replacement
			// token again.
			for i := 0; i < len(toks); i++ {
				p.cursor.Advance()
			}
			return true
		}
	}
	return true
}
