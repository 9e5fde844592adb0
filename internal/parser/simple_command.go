package parser

import (
	"github.com/poshlang/posh/internal/ast"
	"github.com/poshlang/posh/internal/token"
)

// parseSimpleCommand implements `simple_command ::= cmd_prefix cmd_word
// cmd_suffix | cmd_prefix cmd_word | cmd_prefix | cmd_name cmd_suffix |
// cmd_name`, folding `cmd_prefix`/`cmd_suffix` into direct loops since
// neither contributes a node of its own (spec §3.5 only names
// SimpleCommand itself).
func (p *Parser) parseSimpleCommand() *ast.SimpleCommand {
	pos := p.cursor.Current().Pos
	sc := &ast.SimpleCommand{Position: pos}

	// cmd_prefix: ASSIGNMENT_WORD and io_redirect, in any order.
	for !p.failed() {
		if r, ok := p.tryParseRedirect(len(sc.Redirects)); ok {
			sc.Redirects = append(sc.Redirects, r)
			continue
		}
		if a, ok := p.tryParseAssignment(); ok {
			sc.Assignments = append(sc.Assignments, a)
			continue
		}
		break
	}

	// cmd_word: alias-expand, then accept exactly one plain WORD as the
	// command name (spec §4.2 "Aliasing" only triggers here, at
	// command-start).
	if !p.failed() && p.cursor.Current().Type == token.WORD {
		p.expandAliasesAtCommandStart()
		if p.cursor.Current().Type == token.WORD {
			name := p.cursor.Current()
			sc.Name = &name
			p.cursor.Advance()
		}
	}

	// cmd_suffix: WORD and io_redirect, in any order. No word is
	// promoted here (spec §4.2's context-sensitivity rule), so even a
	// literal spelling of a reserved word is just an argument.
	for !p.failed() {
		if r, ok := p.tryParseRedirect(len(sc.Redirects)); ok {
			sc.Redirects = append(sc.Redirects, r)
			continue
		}
		if p.cursor.Current().Type == token.WORD {
			w := p.cursor.Current()
			sc.Args = append(sc.Args, &w)
			p.cursor.Advance()
			continue
		}
		break
	}

	if !p.failed() && sc.Name == nil && len(sc.Args) == 0 && len(sc.Assignments) == 0 && len(sc.Redirects) == 0 {
		p.fail(p.cursor.Current().Pos, "expected a command, got %s", p.cursor.Current().Type)
	}
	return sc
}
