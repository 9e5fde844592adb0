package parser

import (
	"github.com/poshlang/posh/internal/ast"
	"github.com/poshlang/posh/internal/token"
)

// parseIfClause implements `if_clause ::= If compound_list Then
// compound_list else_part Fi | If compound_list Then compound_list Fi`,
// with `else_part` unrolled into IfClause's Elifs/Else fields.
func (p *Parser) parseIfClause() *ast.IfClause {
	pos := p.cursor.Current().Pos
	p.cursor.Advance() // if
	cond := p.parseList()
	p.expectReserved(token.THEN)
	then := p.parseList()
	ic := &ast.IfClause{Cond: cond, Then: then, Position: pos}

	for isReservedLiteral(p.cursor.Current(), token.ELIF) && !p.failed() {
		p.cursor.Advance()
		econd := p.parseList()
		p.expectReserved(token.THEN)
		ethen := p.parseList()
		ic.Elifs = append(ic.Elifs, ast.ElifClause{Cond: econd, Then: ethen})
	}
	if isReservedLiteral(p.cursor.Current(), token.ELSE) {
		p.cursor.Advance()
		ic.Else = p.parseList()
	}
	p.expectReserved(token.FI)
	ic.Redirects = p.parseRedirectList(ic.Redirects)
	return ic
}

// parseDoGroup implements `do_group ::= Do compound_list Done`, shared
// by while/until/for.
func (p *Parser) parseDoGroup() *ast.List {
	p.expectReserved(token.DO)
	body := p.parseList()
	p.expectReserved(token.DONE)
	return body
}

// parseWhileClause implements `while_clause ::= While compound_list
// do_group`.
func (p *Parser) parseWhileClause() *ast.WhileClause {
	pos := p.cursor.Current().Pos
	p.cursor.Advance() // while
	cond := p.parseList()
	body := p.parseDoGroup()
	wc := &ast.WhileClause{Cond: cond, Body: body, Position: pos}
	wc.Redirects = p.parseRedirectList(wc.Redirects)
	return wc
}

// parseUntilClause implements `until_clause ::= Until compound_list
// do_group`.
func (p *Parser) parseUntilClause() *ast.UntilClause {
	pos := p.cursor.Current().Pos
	p.cursor.Advance() // until
	cond := p.parseList()
	body := p.parseDoGroup()
	uc := &ast.UntilClause{Cond: cond, Body: body, Position: pos}
	uc.Redirects = p.parseRedirectList(uc.Redirects)
	return uc
}

// parseForClause implements `for_clause ::= For name linebreak do_group
// | For name linebreak In linebreak wlist sequential_sep do_group | For
// name linebreak In sequential_sep do_group` (empty word list). A `;`
// between `name` and `do`/`in` is also accepted where the grammar only
// names a newline — real shells (`for i; do ... done`) accept it too,
// and nothing in the grammar's intent is lost by being permissive here.
func (p *Parser) parseForClause() *ast.ForClause {
	pos := p.cursor.Current().Pos
	p.cursor.Advance() // for

	nameTok := p.cursor.Current()
	lit, ok := wordLiteral(nameTok)
	if !ok || !isValidName(lit) {
		p.fail(nameTok.Pos, "expected a name after 'for', got %s", nameTok.Type)
		return &ast.ForClause{Position: pos}
	}
	p.cursor.Advance()
	if p.cursor.Current().Type == token.SEMI {
		p.cursor.Advance()
	}
	p.skipNewlines()

	fc := &ast.ForClause{Name: lit, Position: pos}
	if t, ok := reservedType(p.cursor.Current(), true); ok && t == token.IN {
		fc.HasIn = true
		p.cursor.Advance()
		for p.cursor.Current().Type == token.WORD {
			w := p.cursor.Current()
			fc.Words = append(fc.Words, &w)
			p.cursor.Advance()
		}
		if p.cursor.Current().Type == token.SEMI {
			p.cursor.Advance()
		}
		p.skipNewlines()
	}

	fc.Body = p.parseDoGroup()
	fc.Redirects = p.parseRedirectList(fc.Redirects)
	return fc
}

// parseCaseClause implements `case_clause ::= Case WORD linebreak in
// linebreak case_list Esac | ... Esac` (the case_list/case_list_ns
// split collapses into CaseItem.Body being nil for an empty arm).
func (p *Parser) parseCaseClause() *ast.CaseClause {
	pos := p.cursor.Current().Pos
	p.cursor.Advance() // case

	wordTok := p.cursor.Current()
	if wordTok.Type != token.WORD {
		p.fail(wordTok.Pos, "expected a word after 'case', got %s", wordTok.Type)
		return &ast.CaseClause{Position: pos}
	}
	p.cursor.Advance()
	p.skipNewlines()

	if t, ok := reservedType(p.cursor.Current(), true); !ok || t != token.IN {
		p.fail(p.cursor.Current().Pos, "expected 'in', got %s", p.cursor.Current().Type)
		return &ast.CaseClause{Word: &wordTok, Position: pos}
	}
	p.cursor.Advance()
	p.skipNewlines()

	cc := &ast.CaseClause{Word: &wordTok, Position: pos}
	for !isReservedLiteral(p.cursor.Current(), token.ESAC) && !p.failed() {
		cc.Items = append(cc.Items, p.parseCaseItem())
	}
	p.expectReserved(token.ESAC)
	cc.Redirects = p.parseRedirectList(cc.Redirects)
	return cc
}

// parseCaseItem implements `case_item ::= '('? pattern ')' compound_list?
// (DSEMI | <lookahead Esac>) linebreak`.
func (p *Parser) parseCaseItem() *ast.CaseItem {
	if p.cursor.Current().Type == token.LPAREN {
		p.cursor.Advance()
	}
	item := &ast.CaseItem{}
	for {
		if p.cursor.Current().Type != token.WORD {
			p.fail(p.cursor.Current().Pos, "expected a pattern word in case item, got %s", p.cursor.Current().Type)
			return item
		}
		w := p.cursor.Current()
		item.Patterns = append(item.Patterns, &w)
		p.cursor.Advance()
		if p.cursor.Current().Type != token.PIPE {
			break
		}
		p.cursor.Advance()
	}
	if p.cursor.Current().Type != token.RPAREN {
		p.fail(p.cursor.Current().Pos, "expected ')' in case item, got %s", p.cursor.Current().Type)
		return item
	}
	p.cursor.Advance()
	p.skipNewlines()

	if !isReservedLiteral(p.cursor.Current(), token.ESAC) && p.cursor.Current().Type != token.DSEMI {
		item.Body = p.parseList()
	}
	if p.cursor.Current().Type == token.DSEMI {
		p.cursor.Advance()
		p.skipNewlines()
	}
	return item
}
