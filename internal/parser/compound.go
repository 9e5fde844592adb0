package parser

import (
	"github.com/poshlang/posh/internal/ast"
	"github.com/poshlang/posh/internal/token"
)

// parseBraceGroup implements `brace_group ::= Lbrace compound_list
// Rbrace`.
func (p *Parser) parseBraceGroup() *ast.BraceGroup {
	pos := p.cursor.Current().Pos
	p.cursor.Advance() // {
	p.skipNewlines()
	body := p.parseList()
	if !isReservedLiteral(p.cursor.Current(), token.RBRACE) {
		p.fail(p.cursor.Current().Pos, "expected '}', got %s", p.cursor.Current().Type)
		return &ast.BraceGroup{Body: body, Position: pos}
	}
	p.cursor.Advance() // }
	bg := &ast.BraceGroup{Body: body, Position: pos}
	bg.Redirects = p.parseRedirectList(bg.Redirects)
	return bg
}

// parseSubshell implements `subshell ::= '(' compound_list ')'`.
func (p *Parser) parseSubshell() *ast.Subshell {
	pos := p.cursor.Current().Pos
	p.cursor.Advance() // (
	p.skipNewlines()
	body := p.parseList()
	if p.cursor.Current().Type != token.RPAREN {
		p.fail(p.cursor.Current().Pos, "expected ')', got %s", p.cursor.Current().Type)
		return &ast.Subshell{Body: body, Position: pos}
	}
	p.cursor.Advance() // )
	sub := &ast.Subshell{Body: body, Position: pos}
	sub.Redirects = p.parseRedirectList(sub.Redirects)
	return sub
}
