package lexer

import (
	"github.com/poshlang/posh/internal/token"
)

// isOperatorStart reports whether b can begin one of the operators from
// spec §6.1.
func isOperatorStart(b byte) bool {
	switch b {
	case '&', '|', ';', '<', '>', '(', ')':
		return true
	}
	return false
}

// isWordStop reports whether, outside any quote/substitution, b ends the
// current top-level word.
func isWordStop(b byte) bool {
	return b == 0 || b == ' ' || b == '\t' || b == '\n' || isOperatorStart(b)
}

func isNameStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNameByte(b byte) bool {
	return isNameStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// specialParamChars is every single-character special parameter name
// recognised by an unbraced $ (spec §4.3.1).
const specialParamChars = "@*#?-$!"

// readWord reads a complete top-level WORD starting at the current
// position (the caller has already confirmed the current byte is a
// word-start char) and returns its parts.
func (l *Lexer) readWord() ([]token.Part, Status) {
	var parts []token.Part
	var lit token.Buffer
	flushLit := func(sq, dq bool) {
		if lit.Len() > 0 {
			parts = appendLiteral(parts, lit.String(), sq, dq, false)
			lit.Reset()
		}
	}

	for {
		if l.eof() {
			break
		}
		b := l.peekByte()
		if isWordStop(b) {
			break
		}

		switch {
		case b == '\\' && l.peekByteAt(1) == '\n':
			l.advance(2) // line continuation inside a word: swallowed entirely
			continue

		case b == '\\':
			escPos := l.pos0()
			l.advance(1)
			if l.eof() {
				flushLit(false, false)
				return parts, l.incompleteOrError("trailing backslash at end of input", escPos)
			}
			esc := l.peekByte()
			l.advance(1)
			parts = appendLiteral(parts, string(esc), false, false, true)
			continue

		case b == '\'':
			flushLit(false, false)
			s, status := l.readSingleQuoted()
			if status != OK {
				return parts, status
			}
			parts = append(parts, token.Part{Kind: token.PartLiteral, Literal: s, SingleQuoted: true})
			continue

		case b == '"':
			flushLit(false, false)
			inner, status := l.readDoubleQuoted()
			if status != OK {
				return parts, status
			}
			parts = append(parts, inner...)
			continue

		case b == '`':
			flushLit(false, false)
			p, status := l.readBacktick(false)
			if status != OK {
				return parts, status
			}
			parts = append(parts, p)
			continue

		case b == '$':
			p, consumed, status := l.readDollar(false)
			if status != OK {
				return parts, status
			}
			if !consumed {
				lit.PushByte('$')
				l.advance(1)
				continue
			}
			flushLit(false, false)
			parts = append(parts, p)
			continue

		case b == '~' && len(parts) == 0 && lit.Len() == 0:
			p := l.readTilde()
			parts = append(parts, p)
			continue

		default:
			lit.PushByte(b)
			l.advance(1)
			continue
		}
	}

	flushLit(false, false)
	if len(parts) == 0 {
		// Every byte that reaches readWord is a word-start char, so an
		// empty result only happens for a quoted-empty word (e.g. "").
		parts = append(parts, token.Part{Kind: token.PartLiteral})
	}
	return parts, OK
}

// appendLiteral fuses a new literal run into the previous part when it is
// also a literal with identical quote flags (spec §3.3 invariant),
// otherwise appends a new Part, and returns the updated slice.
func appendLiteral(parts []token.Part, s string, sq, dq, escaped bool) []token.Part {
	if n := len(parts); n > 0 {
		last := &parts[n-1]
		if last.Kind == token.PartLiteral && last.SingleQuoted == sq && last.DoubleQuoted == dq && last.Escaped == escaped {
			last.Literal += s
			return parts
		}
	}
	return append(parts, token.Part{Kind: token.PartLiteral, Literal: s, SingleQuoted: sq, DoubleQuoted: dq, Escaped: escaped})
}

// readBracedRHSWord reads the "word" to the right of a `${name:-...}`-style
// operator: parts accumulate exactly like a top-level word, except
// scanning stops at the first unescaped, unquoted '}' — any nested
// ${...} consumes its own closing brace recursively, so no depth
// tracking is needed here (spec §4.3.1, §3.3).
func (l *Lexer) readBracedRHSWord() ([]token.Part, Status) {
	var parts []token.Part
	var lit token.Buffer
	flush := func() {
		if lit.Len() > 0 {
			parts = appendLiteral(parts, lit.String(), false, false, false)
			lit.Reset()
		}
	}
	for {
		if l.eof() {
			flush()
			return parts, Incomplete
		}
		b := l.peekByte()
		if b == '}' {
			flush()
			return parts, OK
		}
		switch {
		case b == '\\' && l.peekByteAt(1) != 0:
			l.advance(1)
			esc := l.peekByte()
			l.advance(1)
			lit.PushByte(esc)
		case b == '\'':
			flush()
			s, status := l.readSingleQuoted()
			if status != OK {
				return parts, status
			}
			parts = append(parts, token.Part{Kind: token.PartLiteral, Literal: s, SingleQuoted: true})
		case b == '"':
			flush()
			inner, status := l.readDoubleQuoted()
			if status != OK {
				return parts, status
			}
			parts = append(parts, inner...)
		case b == '`':
			flush()
			p, status := l.readBacktick(false)
			if status != OK {
				return parts, status
			}
			parts = append(parts, p)
		case b == '$':
			p, consumed, status := l.readDollar(false)
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
		default:
			lit.PushByte(b)
			l.advance(1)
		}
	}
}

// readSingleQuoted consumes a '...' literal, returning its contents
// without the delimiting quotes.
func (l *Lexer) readSingleQuoted() (string, Status) {
	start := l.pos0()
	l.advance(1) // opening '
	var buf token.Buffer
	for {
		if l.eof() {
			if !l.closed {
				return "", Incomplete
			}
			l.addError("unterminated single-quoted string", start)
			return "", Error
		}
		b := l.peekByte()
		if b == '\'' {
			l.advance(1)
			return buf.String(), OK
		}
		buf.PushByte(b)
		l.advance(1)
	}
}

// readDoubleQuoted consumes a "..." construct, returning the parts found
// inside (literal runs with DoubleQuoted=true, plus any nested
// expansions, also flagged DoubleQuoted so the expander never splits or
// globs their results).
func (l *Lexer) readDoubleQuoted() ([]token.Part, Status) {
	start := l.pos0()
	l.advance(1) // opening "
	var parts []token.Part
	var lit token.Buffer
	flush := func() {
		if lit.Len() > 0 {
			parts = appendLiteral(parts, lit.String(), false, true, false)
			lit.Reset()
		}
	}
	for {
		if l.eof() {
			if !l.closed {
				flush()
				return parts, Incomplete
			}
			l.addError("unterminated double-quoted string", start)
			return nil, Error
		}
		b := l.peekByte()
		switch {
		case b == '"':
			l.advance(1)
			flush()
			if len(parts) == 0 {
				parts = append(parts, token.Part{Kind: token.PartLiteral, DoubleQuoted: true})
			}
			return parts, OK
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
}

// isDQEscapable reports whether b is one of the characters a backslash
// may escape inside double quotes (spec §4.1 "Quoting semantics").
func isDQEscapable(b byte) bool {
	switch b {
	case '$', '`', '"', '\\', '\n':
		return true
	}
	return false
}

// readTilde reads a leading unquoted ~[name] prefix at the start of a
// word (spec §4.3 stage 1, §4.1 word-assembly rule).
func (l *Lexer) readTilde() token.Part {
	l.advance(1) // ~
	var name token.Buffer
	for !l.eof() {
		b := l.peekByte()
		if b == '/' || isWordStop(b) || b == ':' {
			break
		}
		name.PushByte(b)
		l.advance(1)
	}
	return token.Part{Kind: token.PartTilde, TildeName: name.String()}
}

// readDollar dispatches on what follows an unconsumed '$'. consumed is
// false when '$' turns out to have no special meaning (end of input, or
// followed by a byte that starts nothing) and should be treated as a
// literal by the caller.
func (l *Lexer) readDollar(inDouble bool) (token.Part, bool, Status) {
	pos := l.pos0()
	next := l.peekByteAt(1)
	switch {
	case next == '{':
		p, status := l.readBracedParam(pos)
		p.DoubleQuoted = inDouble
		return p, true, status
	case next == '(' && l.peekByteAt(2) == '(':
		p, status := l.readArithmetic(pos)
		p.DoubleQuoted = inDouble
		return p, true, status
	case next == '(':
		p, status := l.readDollarParen(pos)
		p.DoubleQuoted = inDouble
		return p, true, status
	case isNameStart(next):
		l.advance(1) // $
		var name token.Buffer
		for !l.eof() && isNameByte(l.peekByte()) {
			name.PushByte(l.peekByte())
			l.advance(1)
		}
		return token.Part{Kind: token.PartParameter, ParamName: name.String(), DoubleQuoted: inDouble}, true, OK
	case isDigit(next):
		l.advance(1) // $
		d := l.peekByte()
		l.advance(1)
		return token.Part{Kind: token.PartParameter, ParamName: string(d), DoubleQuoted: inDouble}, true, OK
	case indexByte(specialParamChars, next) >= 0:
		l.advance(1) // $
		c := l.peekByte()
		l.advance(1)
		return token.Part{Kind: token.PartParameter, ParamName: string(c), DoubleQuoted: inDouble}, true, OK
	default:
		return token.Part{}, false, OK
	}
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// readBracedParam reads `${...}` after the caller has already peeked '$'
// and confirmed '{' follows.
func (l *Lexer) readBracedParam(pos token.Position) (token.Part, Status) {
	l.advance(2) // ${
	part := token.Part{Kind: token.PartParameter}

	if l.peekByte() == '#' && l.peekByteAt(1) != '}' && !isParamOpStart(l.peekByteAt(1)) {
		part.ParamSub = token.ParamLength
		l.advance(1)
	}

	name, status := l.readParamName()
	if status != OK {
		return part, status
	}
	part.ParamName = name

	if l.eof() {
		return part, l.incompleteOrError("unterminated ${ expansion", pos)
	}

	if part.ParamSub != token.ParamLength {
		if sub, ok := l.matchParamOp(); ok {
			part.ParamSub = sub
			rhs, status := l.readBracedRHSWord()
			if status != OK {
				return part, status
			}
			part.ParamWord = []token.Token{token.NewWord(rhs, pos, l.pos0())}
		}
	}

	if l.eof() || l.peekByte() != '}' {
		return part, l.incompleteOrError("malformed ${...} expansion: expected '}'", pos)
	}
	l.advance(1)
	return part, OK
}

func (l *Lexer) incompleteOrError(msg string, pos token.Position) Status {
	if !l.closed {
		return Incomplete
	}
	l.addError(msg, pos)
	return Error
}

func isParamOpStart(b byte) bool {
	switch b {
	case ':', '-', '=', '?', '+', '#', '%':
		return true
	}
	return false
}

func (l *Lexer) readParamName() (string, Status) {
	if l.eof() {
		return "", Incomplete
	}
	b := l.peekByte()
	if b == '@' || b == '*' || b == '#' || b == '?' || b == '-' || b == '$' || b == '!' || isDigit(b) {
		l.advance(1)
		return string(b), OK
	}
	var name token.Buffer
	for !l.eof() && isNameByte(l.peekByte()) {
		name.PushByte(l.peekByte())
		l.advance(1)
	}
	return name.String(), OK
}

// matchParamOp matches the longest operator spelling immediately at the
// cursor, per spec §4.3.1's table (colon-form checked before its
// colon-less twin, ## before #, %% before %).
func (l *Lexer) matchParamOp() (token.ParamSubKind, bool) {
	two := string(l.peekByte()) + string(l.peekByteAt(1))
	switch two {
	case ":-":
		l.advance(2)
		return token.ParamUseDefault, true
	case ":=":
		l.advance(2)
		return token.ParamAssignDefault, true
	case ":?":
		l.advance(2)
		return token.ParamIndicateError, true
	case ":+":
		l.advance(2)
		return token.ParamUseAlternative, true
	case "##":
		l.advance(2)
		return token.ParamPrefixLong, true
	case "%%":
		l.advance(2)
		return token.ParamSuffixLong, true
	}
	switch l.peekByte() {
	case '-':
		l.advance(1)
		return token.ParamUseDefaultNC, true
	case '=':
		l.advance(1)
		return token.ParamAssignNC, true
	case '?':
		l.advance(1)
		return token.ParamIndicateNC, true
	case '+':
		l.advance(1)
		return token.ParamUseAlternateNC, true
	case '#':
		l.advance(1)
		return token.ParamPrefixShort, true
	case '%':
		l.advance(1)
		return token.ParamSuffixShort, true
	}
	return 0, false
}

// readDollarParen reads `$(...)`, balancing nested parens and quotes, and
// stores the raw inner text for the expander to re-lex and re-parse.
func (l *Lexer) readDollarParen(pos token.Position) (token.Part, Status) {
	l.advance(2) // $(
	inner, status := l.readBalanced('(', ')')
	if status != OK {
		return token.Part{}, status
	}
	return token.Part{Kind: token.PartCommandSub, CmdRaw: inner}, OK
}

// readArithmetic reads `$((...))`, the raw expression text between the
// double parens.
func (l *Lexer) readArithmetic(pos token.Position) (token.Part, Status) {
	l.advance(3) // $((
	var depth int
	var buf token.Buffer
	for {
		if l.eof() {
			return token.Part{}, l.incompleteOrError("unterminated arithmetic expansion", pos)
		}
		if l.peekByte() == ')' && l.peekByteAt(1) == ')' && depth == 0 {
			l.advance(2)
			return token.Part{Kind: token.PartArithmetic, ArithRaw: buf.String()}, OK
		}
		if l.peekByte() == '(' {
			depth++
		} else if l.peekByte() == ')' {
			depth--
		}
		buf.PushByte(l.peekByte())
		l.advance(1)
	}
}

// readBalanced consumes up to and including the matching close byte,
// tracking nesting of open/close and skipping over quoted regions so a
// close byte inside a string literal doesn't end the substitution early.
// It returns the text strictly between the delimiters.
func (l *Lexer) readBalanced(open, closeB byte) (string, Status) {
	var buf token.Buffer
	depth := 0
	for {
		if l.eof() {
			return "", Incomplete
		}
		b := l.peekByte()
		switch {
		case b == '\\' && l.peekByteAt(1) != 0:
			buf.PushByte(b)
			l.advance(1)
			buf.PushByte(l.peekByte())
			l.advance(1)
			continue
		case b == '\'':
			buf.PushByte(b)
			l.advance(1)
			for !l.eof() && l.peekByte() != '\'' {
				buf.PushByte(l.peekByte())
				l.advance(1)
			}
			if l.eof() {
				return "", Incomplete
			}
			buf.PushByte('\'')
			l.advance(1)
			continue
		case b == '"':
			buf.PushByte(b)
			l.advance(1)
			for !l.eof() && l.peekByte() != '"' {
				if l.peekByte() == '\\' && l.peekByteAt(1) != 0 {
					buf.PushByte(l.peekByte())
					l.advance(1)
				}
				buf.PushByte(l.peekByte())
				l.advance(1)
			}
			if l.eof() {
				return "", Incomplete
			}
			buf.PushByte('"')
			l.advance(1)
			continue
		case b == open:
			depth++
			buf.PushByte(b)
			l.advance(1)
		case b == closeB:
			if depth == 0 {
				l.advance(1)
				return buf.String(), OK
			}
			depth--
			buf.PushByte(b)
			l.advance(1)
		default:
			buf.PushByte(b)
			l.advance(1)
		}
	}
}

// readBacktick reads a `...` old-style command substitution. A backslash
// retains its special meaning only before $, ` or \ (spec's backtick
// rules); any other escape is kept verbatim in the raw text for the
// re-parse stage.
func (l *Lexer) readBacktick(inDouble bool) (token.Part, Status) {
	pos := l.pos0()
	l.advance(1) // opening `
	var buf token.Buffer
	for {
		if l.eof() {
			return token.Part{}, l.incompleteOrError("unterminated command substitution", pos)
		}
		b := l.peekByte()
		if b == '`' {
			l.advance(1)
			return token.Part{Kind: token.PartCommandSub, CmdRaw: buf.String(), DoubleQuoted: inDouble}, OK
		}
		if b == '\\' {
			n := l.peekByteAt(1)
			if n == '$' || n == '`' || n == '\\' {
				buf.PushByte(n)
				l.advance(2)
				continue
			}
		}
		buf.PushByte(b)
		l.advance(1)
	}
}
