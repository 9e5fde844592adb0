package parser

import (
	"github.com/poshlang/posh/internal/ast"
	"github.com/poshlang/posh/internal/token"
)

// parseCommand implements `command ::= simple_command | compound_command
// | compound_command redirect_list | function_definition`.
func (p *Parser) parseCommand() ast.Command {
	cur := p.cursor.Current()

	if lit, ok := wordLiteral(cur); ok {
		if _, reserved := token.ReservedWords[lit]; !reserved {
			if p.cursor.Peek(1).Type == token.LPAREN && p.cursor.Peek(2).Type == token.RPAREN {
				return p.parseFunctionDefinition(lit)
			}
		}
	}

	if node, ok := p.tryParseCompound(); ok {
		return node
	}

	return p.parseSimpleCommand()
}

// tryParseCompound dispatches one of spec §6.2's `compound_command`
// alternatives, attaching any trailing redirect_list. It returns
// (nil, false) when the current token starts neither a brace group, a
// subshell, nor one of the keyword-introduced clauses.
func (p *Parser) tryParseCompound() (ast.Command, bool) {
	cur := p.cursor.Current()

	if cur.Type == token.LPAREN {
		return p.parseSubshell(), true
	}

	t, ok := reservedType(cur, false)
	if !ok {
		return nil, false
	}
	switch t {
	case token.LBRACE:
		return p.parseBraceGroup(), true
	case token.IF:
		return p.parseIfClause(), true
	case token.WHILE:
		return p.parseWhileClause(), true
	case token.UNTIL:
		return p.parseUntilClause(), true
	case token.FOR:
		return p.parseForClause(), true
	case token.CASE:
		return p.parseCaseClause(), true
	}
	return nil, false
}

// parseFunctionDefinition implements `function_definition ::= fname '('
// ')' linebreak function_body`. fname has already been confirmed to be a
// plain, non-reserved WORD immediately followed by `()`.
func (p *Parser) parseFunctionDefinition(name string) *ast.FunctionDefinition {
	pos := p.cursor.Current().Pos
	p.cursor.Advance() // name
	p.cursor.Advance() // (
	p.cursor.Advance() // )
	p.skipNewlines()

	body, ok := p.tryParseCompound()
	if !ok {
		p.fail(p.cursor.Current().Pos, "expected compound command as function body for %q", name)
		return &ast.FunctionDefinition{Name: name, Position: pos}
	}
	fd := &ast.FunctionDefinition{Name: name, Body: body, Position: pos}
	return fd
}

// parseRedirectList collects zero or more io_redirect productions,
// shared by simple commands (interleaved with words) and every compound
// command's trailing redirect_list.
func (p *Parser) parseRedirectList(existing []*ast.Redirect) []*ast.Redirect {
	for !p.failed() {
		r, ok := p.tryParseRedirect(len(existing))
		if !ok {
			break
		}
		existing = append(existing, r)
	}
	return existing
}

// tryParseRedirect implements `io_redirect ::= io_file | IO_NUMBER
// io_file | io_here | IO_NUMBER io_here`, plus this port's IO_LOCATION
// extension (`{name}<...`) in place of a bare IO_NUMBER.
func (p *Parser) tryParseRedirect(seq int) (*ast.Redirect, bool) {
	cur := p.cursor.Current()
	r := &ast.Redirect{Seq: seq, Position: cur.Pos}

	switch cur.Type {
	case token.IO_NUMBER:
		r.HasIONumber = true
		r.IONumber = cur.IONumber
		p.cursor.Advance()
		cur = p.cursor.Current()
	case token.IO_LOCATION:
		r.HasIOLocation = true
		r.IOLocation = cur.IOLocationName
		p.cursor.Advance()
		cur = p.cursor.Current()
	}

	switch cur.Type {
	case token.LESS, token.GREAT, token.DGREAT, token.LESSAND, token.GREATAND, token.LESSGREAT, token.CLOBBER:
		r.Op = cur.Type
		p.cursor.Advance()
		target := p.cursor.Current()
		if target.Type != token.WORD {
			p.fail(target.Pos, "expected a word after redirection operator, got %s", target.Type)
			return r, true
		}
		w := target
		r.Target = &w
		p.cursor.Advance()
		return r, true
	case token.DLESS, token.DLESSDASH:
		r.Op = cur.Type
		r.HeredocBody = cur.HeredocBody
		r.HeredocQuoted = cur.HeredocDelimQuoted
		p.cursor.Advance()
		return r, true
	default:
		if r.HasIONumber || r.HasIOLocation {
			p.fail(cur.Pos, "expected a redirection operator, got %s", cur.Type)
			return r, true
		}
		return nil, false
	}
}
