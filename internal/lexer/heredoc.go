package lexer

import "github.com/poshlang/posh/internal/token"

// ExpandableParts scans a here-document body for the expansions spec
// §4.4's redirection table requires whenever the heredoc's delimiter
// wasn't quoted: parameter, command and arithmetic expansion, with
// backslash retaining its special meaning only before `$`, a backtick,
// another backslash, or a newline — the same repertoire double-quoted
// text uses. Unlike double-quoted text, a literal `"` is never special
// here and EOF (not a closing quote) ends the scan, since the body's
// own terminator (the heredoc delimiter line) has already been stripped
// by drainHeredocs by the time this runs.
func ExpandableParts(body string) ([]token.Part, *LexError) {
	l := New(body)
	parts, status := l.scanHeredocText()
	if status == Error {
		return nil, l.err
	}
	return parts, nil
}

func (l *Lexer) scanHeredocText() ([]token.Part, Status) {
	var parts []token.Part
	var lit token.Buffer
	flush := func() {
		if lit.Len() > 0 {
			parts = appendLiteral(parts, lit.String(), false, true, false)
			lit.Reset()
		}
	}
	for !l.eof() {
		b := l.peekByte()
		switch {
		case b == '\\' && isDQEscapable(l.peekByteAt(1)):
			l.advance(1)
			esc := l.peekByte()
			l.advance(1)
			if esc == '\n' {
				continue // escaped newline: line continuation, contributes nothing
			}
			lit.PushByte(esc)
		case b == '$':
			p, consumed, status := l.readDollar(true)
			if status != OK {
				return parts, status
			}
			if !consumed {
				lit.PushByte('$')
				l.advance(1)
				continue
			}
			flush()
			parts = append(parts, p)
		case b == '`':
			flush()
			p, status := l.readBacktick(true)
			if status != OK {
				return parts, status
			}
			parts = append(parts, p)
		default:
			lit.PushByte(b)
			l.advance(1)
		}
	}
	flush()
	return parts, OK
}

// readHeredocDelimiter reads the WORD immediately following a `<<`/`<<-`
// operator (spec §4.1 "Heredoc protocol": the delimiter is read as an
// ordinary word, then quote-removed to get the comparison string; if any
// part of it was quoted, the body skips expansion entirely).
func (l *Lexer) readHeredocDelimiter(opPos token.Position) (string, bool, Status) {
	for l.peekByte() == ' ' || l.peekByte() == '\t' {
		l.advance(1)
	}
	if l.eof() || isWordStop(l.peekByte()) {
		return "", false, l.incompleteOrError("expected heredoc delimiter after '<<'", opPos)
	}
	parts, status := l.readWord()
	if status != OK {
		return "", false, status
	}
	var text token.Buffer
	quoted := false
	for _, p := range parts {
		if p.IsQuoted() {
			quoted = true
		}
		text.AppendString(p.Literal)
	}
	return text.String(), quoted, OK
}

// queueHeredoc enqueues a heredoc body request for draining at the next
// unescaped newline (spec §4.1 "Heredoc protocol": FIFO order across a
// line with more than one heredoc operator), and stamps the immediately
// known fields (delimiter, quoting, tab-stripping) onto tok. The body
// itself is filled in later by Tokenize once drainHeredocs completes,
// since it isn't known until the line's closing newline is reached.
func (l *Lexer) queueHeredoc(tok *token.Token, stripTabs bool, delim string, quoted bool) {
	tok.HeredocDelim = delim
	tok.HeredocDelimQuoted = quoted
	tok.HeredocStripTabs = stripTabs
	l.pendingHeredocs = append(l.pendingHeredocs, &heredocRequest{
		delim:     delim,
		quoted:    quoted,
		stripTabs: stripTabs,
	})
}

// drainHeredocs reads heredoc bodies off the pending queue in FIFO order,
// one line at a time, until the queue is empty. It can be called again
// after an Incomplete return once more input has arrived (streaming
// mode), resuming the front-of-queue request in place. Completed
// requests are moved to l.justDrained for Tokenize to patch into the
// already-emitted operator tokens.
func (l *Lexer) drainHeredocs() Status {
	for len(l.pendingHeredocs) > 0 {
		req := l.pendingHeredocs[0]
		for {
			lineEnd := indexByteFrom(l.src, l.pos, '\n')
			if lineEnd < 0 {
				if !l.closed {
					return Incomplete
				}
				l.addError("unterminated heredoc: expected '"+req.delim+"'", l.pos0())
				return Error
			}
			line := l.src[l.pos:lineEnd]
			compare := line
			if req.stripTabs {
				i := 0
				for i < len(compare) && compare[i] == '\t' {
					i++
				}
				compare = compare[i:]
			}
			l.advance(lineEnd - l.pos + 1) // consume the line and its newline

			if compare == req.delim {
				l.pendingHeredocs = l.pendingHeredocs[1:]
				l.justDrained = append(l.justDrained, req)
				break
			}
			stored := line
			if req.stripTabs {
				i := 0
				for i < len(stored) && stored[i] == '\t' {
					i++
				}
				stored = stored[i:]
			}
			req.body.AppendString(stored)
			req.body.PushByte('\n')
		}
	}
	return OK
}

func indexByteFrom(s string, from int, b byte) int {
	for i := from; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
