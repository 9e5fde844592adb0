package parser

import "github.com/poshlang/posh/internal/token"

// Cursor is a mutable navigation cursor over a token slice. Unlike
// go-dws's TokenCursor (internal/parser/cursor.go there), which is
// immutable and grows a shared buffer on demand from a live lexer, this
// cursor owns a fully-tokenized slice up front and supports splicing —
// needed for alias expansion (spec §4.2's "Aliasing"), which replaces the
// current token in place with the re-tokenized alias body. Backtracking
// still works the same way, via Mark/ResetTo on an integer index.
type Cursor struct {
	tokens []token.Token
	pos    int
}

// NewCursor wraps a token slice for parsing. The slice must end in an
// EOF token; Current/Peek return that EOF token forever once reached.
func NewCursor(tokens []token.Token) *Cursor {
	return &Cursor{tokens: tokens}
}

// Current returns the token at the cursor's position.
func (c *Cursor) Current() token.Token {
	if c.pos >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1]
	}
	return c.tokens[c.pos]
}

// Peek returns the token n positions ahead of the current one. Peek(0)
// is Current().
func (c *Cursor) Peek(n int) token.Token {
	idx := c.pos + n
	if idx < 0 {
		idx = 0
	}
	if idx >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1]
	}
	return c.tokens[idx]
}

// Advance moves to the next token and returns it.
func (c *Cursor) Advance() token.Token {
	if c.pos < len(c.tokens)-1 {
		c.pos++
	}
	return c.Current()
}

// Is reports whether the current token has the given type.
func (c *Cursor) Is(t token.Type) bool { return c.Current().Type == t }

// AtEOF reports whether the cursor sits on the terminal EOF token.
func (c *Cursor) AtEOF() bool { return c.Current().Type == token.EOF }

// Mark saves the current position for later backtracking.
func (c *Cursor) Mark() int { return c.pos }

// ResetTo restores a previously saved position.
func (c *Cursor) ResetTo(mark int) { c.pos = mark }

// Splice replaces the current token with replacement, which must be
// non-empty and end in its own EOF sentinel already stripped by the
// caller (see alias.go). After splicing, Current() is the first
// replacement token.
func (c *Cursor) Splice(replacement []token.Token) {
	if len(replacement) == 0 {
		// Nothing to insert; just drop the current token.
		c.tokens = append(c.tokens[:c.pos], c.tokens[c.pos+1:]...)
		return
	}
	tail := append([]token.Token{}, c.tokens[c.pos+1:]...)
	head := append([]token.Token{}, c.tokens[:c.pos]...)
	head = append(head, replacement...)
	c.tokens = append(head, tail...)
}
