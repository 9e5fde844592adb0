package lexer

import (
	"github.com/poshlang/posh/internal/token"
)

// nextToken produces the next single token, or reports why it can't yet
// (spec §4.1's per-call OK/INCOMPLETE/ERROR contract).
func (l *Lexer) nextToken() (token.Token, Status) {
	if l.needDrain {
		status := l.drainHeredocs()
		if status != OK {
			return token.Token{}, status
		}
		l.needDrain = false
	}

	for {
		if l.eof() {
			if !l.closed {
				return token.Token{}, Incomplete
			}
			return token.New(token.EOF, "", l.pos0()), OK
		}

		b := l.peekByte()
		savedPos, savedLine, savedCol := l.pos, l.line, l.col

		switch {
		case b == '\\' && l.peekByteAt(1) == '\n':
			l.advance(2)
			continue

		case b == ' ' || b == '\t':
			l.advance(1)
			continue

		case b == '#':
			for !l.eof() && l.peekByte() != '\n' {
				l.advance(1)
			}
			continue

		case b == '\n':
			return l.scanNewline()

		case isOperatorStart(b):
			tok, status := l.scanOperator()
			if status == Incomplete {
				l.pos, l.line, l.col = savedPos, savedLine, savedCol
			}
			return tok, status

		default:
			tok, status := l.scanWord()
			if status == Incomplete {
				l.pos, l.line, l.col = savedPos, savedLine, savedCol
			}
			return tok, status
		}
	}
}

// scanNewline consumes a newline, emits the NEWLINE token immediately,
// and — if any heredocs are queued — marks the queue for draining on the
// very next nextToken call (spec §4.1 "Heredoc protocol": bodies are
// read in FIFO order starting right after the newline that triggers
// them).
func (l *Lexer) scanNewline() (token.Token, Status) {
	pos := l.pos0()
	l.advance(1)
	tok := token.New(token.NEWLINE, "\n", pos)
	if len(l.pendingHeredocs) > 0 {
		l.needDrain = true
	}
	return tok, OK
}

// scanOperator matches the longest operator starting at the cursor (spec
// §4.1 "Operator recognition": longest match wins, `<<-` before `<<`
// before `<`). Redirect-family operators resolve the preceding IO_NUMBER
// reclassification and, for `<<`/`<<-`, read the heredoc delimiter word
// inline and enqueue the body-drain request right here.
func (l *Lexer) scanOperator() (token.Token, Status) {
	pos := l.pos0()
	b0 := l.peekByte()
	b1 := l.peekByteAt(1)
	b2 := l.peekByteAt(2)

	three := string(b0) + string(b1) + string(b2)
	if three == "<<-" {
		l.advance(3)
		tok := token.New(token.DLESSDASH, "<<-", pos)
		delim, quoted, status := l.readHeredocDelimiter(pos)
		if status != OK {
			return token.Token{}, status
		}
		l.queueHeredoc(&tok, true, delim, quoted)
		return tok, OK
	}

	two := string(b0) + string(b1)
	switch two {
	case "&&":
		l.advance(2)
		return token.New(token.AND_IF, "&&", pos), OK
	case "||":
		l.advance(2)
		return token.New(token.OR_IF, "||", pos), OK
	case ";;":
		l.advance(2)
		return token.New(token.DSEMI, ";;", pos), OK
	case "<<":
		l.advance(2)
		tok := token.New(token.DLESS, "<<", pos)
		delim, quoted, status := l.readHeredocDelimiter(pos)
		if status != OK {
			return token.Token{}, status
		}
		l.queueHeredoc(&tok, false, delim, quoted)
		return tok, OK
	case ">>":
		l.advance(2)
		return token.New(token.DGREAT, ">>", pos), OK
	case "<&":
		l.advance(2)
		return token.New(token.LESSAND, "<&", pos), OK
	case ">&":
		l.advance(2)
		return token.New(token.GREATAND, ">&", pos), OK
	case "<>":
		l.advance(2)
		return token.New(token.LESSGREAT, "<>", pos), OK
	case ">|":
		l.advance(2)
		return token.New(token.CLOBBER, ">|", pos), OK
	}

	l.advance(1)
	switch b0 {
	case '|':
		return token.New(token.PIPE, "|", pos), OK
	case ';':
		return token.New(token.SEMI, ";", pos), OK
	case '&':
		return token.New(token.AMP, "&", pos), OK
	case '(':
		return token.New(token.LPAREN, "(", pos), OK
	case ')':
		return token.New(token.RPAREN, ")", pos), OK
	case '<':
		return token.New(token.LESS, "<", pos), OK
	case '>':
		return token.New(token.GREAT, ">", pos), OK
	}
	// Unreachable: every caller already checked isOperatorStart(b0).
	return token.New(token.ILLEGAL, string(b0), pos), OK
}

// scanWord handles the "word-start char" branch of spec §4.1's table:
// `{name}` IO_LOCATION tokens, or a plain WORD assembled by readWord.
func (l *Lexer) scanWord() (token.Token, Status) {
	pos := l.pos0()

	if l.peekByte() == '{' {
		if name, ok := l.tryIOLocation(); ok {
			tok := token.New(token.IO_LOCATION, "{"+name+"}", pos)
			tok.IOLocationName = name
			tok.EndPos = l.pos0()
			return tok, OK
		}
	}

	parts, status := l.readWord()
	if status != OK {
		return token.Token{}, status
	}
	return token.NewWord(parts, pos, l.pos0()), OK
}

// tryIOLocation speculatively scans `{name}` immediately followed by a
// redirection operator, restoring position on a non-match.
func (l *Lexer) tryIOLocation() (string, bool) {
	savedPos, savedLine, savedCol := l.pos, l.line, l.col
	l.advance(1) // {
	var name []byte
	for !l.eof() && isNameByte(l.peekByte()) {
		name = append(name, l.peekByte())
		l.advance(1)
	}
	if len(name) == 0 || l.eof() || l.peekByte() != '}' {
		l.pos, l.line, l.col = savedPos, savedLine, savedCol
		return "", false
	}
	afterBrace := l.pos + 1
	if afterBrace >= len(l.src) || (l.src[afterBrace] != '<' && l.src[afterBrace] != '>') {
		l.pos, l.line, l.col = savedPos, savedLine, savedCol
		return "", false
	}
	l.advance(1) // }
	return string(name), true
}
