// Package parser implements the recursive-descent parser that turns a
// shell token stream into the internal/ast syntax tree (spec §4.2).
//
// Key patterns, mirrored from the teacher's parser package:
//   - A Cursor abstraction replaces hand-rolled curToken/peekToken fields
//     (cursor.go), supporting Mark/ResetTo backtracking and — unlike the
//     teacher's immutable cursor — in-place Splice for alias expansion.
//   - Structured errors (error.go) carry a source Position, not just a
//     formatted string.
//   - Context sensitivity (reserved.go) threads an allowIn flag through
//     the descent instead of mutating global parser state, so nested
//     for/case heads can't leak `in`-promotion into unrelated contexts.
//
// The grammar implemented is spec §6.2's informative summary, which is
// POSIX.1-2024's shell grammar minus the productions that contribute no
// information of their own (see internal/ast's package doc for which
// productions were collapsed and why). Table-driven LALR(1) is the
// model the specification names as intended; this implementation is
// recursive descent instead; that is the same substitution real shells
// make (dash, bash, and mvdan.cc/sh's parser — seen only as reference
// excerpts, not a dependency — are all hand-written recursive-descent
// parsers over this exact grammar, not generated LALR tables).
package parser

import (
	"github.com/poshlang/posh/internal/ast"
	"github.com/poshlang/posh/internal/token"
)

// Parser consumes a token stream and builds a syntax tree.
type Parser struct {
	cursor  *Cursor
	aliases AliasLookup
	err     *ParseError
	status  Status
}

// New creates a Parser over an already-tokenized stream. aliases may be
// nil, in which case alias expansion never triggers (used by `posh
// parse` and tests that don't need it).
func New(tokens []token.Token, aliases AliasLookup) *Parser {
	return &Parser{cursor: NewCursor(tokens), aliases: aliases, status: OK}
}

// Parse runs the parser to completion (spec §4.2's public contract:
// parse(tokens) -> Ok(tree) | Incomplete | Error(location, message)).
// This implementation never returns Incomplete itself — an unclosed
// construct that would require more tokens is the lexer's job to signal
// before the parser ever runs — but keeps the three-way Status so the
// front end can treat both stages uniformly.
func (p *Parser) Parse() (*ast.Program, Status, *ParseError) {
	prog := p.parseProgram()
	if p.err != nil {
		return nil, Error, p.err
	}
	return prog, OK, nil
}

// Parse is the package-level convenience entry point matching spec
// §4.2's contract directly: parse(tokens) -> Ok(tree) | Incomplete |
// Error(location, message).
func Parse(tokens []token.Token, aliases AliasLookup) (*ast.Program, Status, *ParseError) {
	return New(tokens, aliases).Parse()
}

func (p *Parser) fail(pos token.Position, format string, args ...interface{}) {
	if p.err == nil {
		p.err = newError(pos, format, args...)
		p.status = Error
	}
}

func (p *Parser) failed() bool { return p.err != nil }

// skipNewlines consumes spec §6.2's `linebreak`/`newline_list`: zero or
// more NEWLINE tokens.
func (p *Parser) skipNewlines() {
	for p.cursor.Is(token.NEWLINE) {
		p.cursor.Advance()
	}
}

// expectReserved requires the current token to promote to want at a
// command-start position, reporting a canonical error otherwise (spec
// §4.2 "Error recovery").
func (p *Parser) expectReserved(want token.Type) {
	if !isReservedLiteral(p.cursor.Current(), want) {
		p.fail(p.cursor.Current().Pos, "expected %q, got %s", want, p.cursor.Current().Type)
		return
	}
	p.cursor.Advance()
}

// parseProgram implements `program ::= linebreak complete_commands
// linebreak | linebreak`.
func (p *Parser) parseProgram() *ast.Program {
	pos := p.cursor.Current().Pos
	p.skipNewlines()
	prog := &ast.Program{Position: pos}
	for !p.cursor.AtEOF() && !p.failed() {
		list := p.parseList()
		if p.failed() {
			break
		}
		prog.Commands = append(prog.Commands, list)
		p.skipNewlines()
	}
	return prog
}

// parseList implements `complete_command ::= list separator_op | list`
// folded together with `list ::= list separator_op and_or | and_or`: a
// maximal run of and-or chains, each with the separator that followed
// it, terminated by a NEWLINE, EOF, or a reserved-word/`)` that closes
// an enclosing compound command.
func (p *Parser) parseList() *ast.List {
	pos := p.cursor.Current().Pos
	list := &ast.List{Position: pos}
	for {
		if p.atListTerminator() || p.failed() {
			break
		}
		andOr := p.parseAndOr()
		if p.failed() {
			break
		}
		item := ast.ListItem{AndOr: andOr}
		switch p.cursor.Current().Type {
		case token.SEMI:
			item.Explicit = true
			p.cursor.Advance()
		case token.AMP:
			item.Explicit = true
			item.Async = true
			p.cursor.Advance()
		}
		list.Items = append(list.Items, item)
		if !item.Explicit {
			break
		}
		// A separator may be followed directly by the list's end.
		if p.atListTerminator() {
			break
		}
	}
	return list
}

// atListTerminator reports whether the current token ends a list:
// end-of-input, a bare newline (complete_commands boundary), `)` (closes
// a subshell), or one of the clause-closing reserved words.
func (p *Parser) atListTerminator() bool {
	tok := p.cursor.Current()
	switch tok.Type {
	case token.EOF, token.NEWLINE, token.RPAREN, token.DSEMI:
		return true
	}
	for _, want := range []token.Type{token.FI, token.THEN, token.ELIF, token.ELSE, token.DONE, token.ESAC, token.RBRACE, token.DO} {
		if isReservedLiteral(tok, want) {
			return true
		}
	}
	return false
}

// parseAndOr implements `and_or ::= pipeline | and_or AND_IF linebreak
// pipeline | and_or OR_IF linebreak pipeline`.
func (p *Parser) parseAndOr() *ast.AndOr {
	pos := p.cursor.Current().Pos
	first := p.parsePipeline()
	node := &ast.AndOr{First: first, Position: pos}
	for !p.failed() {
		op := p.cursor.Current().Type
		if op != token.AND_IF && op != token.OR_IF {
			break
		}
		p.cursor.Advance()
		p.skipNewlines()
		next := p.parsePipeline()
		node.Rest = append(node.Rest, ast.AndOrTerm{Op: op, Pipeline: next})
	}
	return node
}

// parsePipeline implements `pipeline ::= pipe_sequence | '!'
// pipe_sequence` and `pipe_sequence ::= command | pipe_sequence '|'
// linebreak command`.
func (p *Parser) parsePipeline() *ast.Pipeline {
	pos := p.cursor.Current().Pos
	pipe := &ast.Pipeline{Position: pos}
	if isReservedLiteral(p.cursor.Current(), token.BANG) {
		pipe.Negate = true
		p.cursor.Advance()
	}
	for {
		cmd := p.parseCommand()
		if p.failed() {
			return pipe
		}
		pipe.Commands = append(pipe.Commands, cmd)
		if p.cursor.Current().Type != token.PIPE {
			break
		}
		p.cursor.Advance()
		p.skipNewlines()
	}
	return pipe
}
