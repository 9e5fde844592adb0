// Package lexer turns shell source bytes into a stream of tokens.
//
// The public surface mirrors spec §4.1's contract: AppendInput never
// blocks and never consumes, Tokenize drains whatever is available and
// reports OK/Incomplete/Error, and PopFirstToken hands ownership of the
// frontmost finished token to the caller. Internally the lexer is a
// recursive-descent scanner rather than a literal mode-stack virtual
// machine — nested contexts ($(...), ${...}, backticks, arithmetic) are
// each handled by a dedicated read* function that knows how to find its
// own closing delimiter, which keeps the nesting depth implicit in Go's
// own call stack instead of an explicit frame stack. See DESIGN.md for
// why this reading of "mode stack" was chosen over a literal one.
package lexer

import (
	"unicode/utf8"

	"github.com/poshlang/posh/internal/token"
)

// Status is the outcome of a single Tokenize call.
type Status int

const (
	// OK means at least one token was emitted, or the input was
	// exhausted cleanly (EOF token emitted).
	OK Status = iota
	// Incomplete means the lexer needs more input before it can make
	// progress — an open quote, an open substitution, or a heredoc whose
	// terminator line hasn't arrived yet.
	Incomplete
	// Error means the lexer hit something unrecoverable; see Error().
	Error
)

// LexError is the lexer's single recorded error (spec §4.1: "first
// wins"). Named apart from the Status value Error above — a type and a
// constant can't share one identifier in the same package scope.
type LexError struct {
	Message string
	Pos     token.Position
}

func (e *LexError) Error() string { return e.Message }

// heredocRequest is one entry in the FIFO heredoc queue. readyIdx/outIdx
// record where the DLESS/DLESSDASH token that spawned this request
// ended up, so its HeredocBody can be patched in after the fact: the
// token is emitted (with an empty body) well before the body is known,
// since the body doesn't arrive until the line's closing newline.
type heredocRequest struct {
	delim     string
	quoted    bool
	stripTabs bool
	body      token.Buffer
	readyIdx  int
	outIdx    int
}

// Lexer is a streaming shell tokenizer.
type Lexer struct {
	src    string // all bytes appended so far
	pos    int    // byte offset of the next unread byte
	line   int
	col    int // rune count from the start of the current line
	closed bool

	pendingHeredocs []*heredocRequest
	ready           []token.Token

	// needDrain marks that the heredoc queue must be drained before the
	// next token is produced (set once the triggering newline has been
	// returned), and justDrained lists requests a drain just completed so
	// Tokenize can patch their token's HeredocBody into its out slice.
	needDrain   bool
	justDrained []*heredocRequest

	err *LexError
}

// New creates a one-shot Lexer over a complete, already-known source —
// the common case for `posh -c`, `-e`, and script-file execution. The
// stream is immediately closed, so an unterminated construct is reported
// as Error rather than Incomplete.
func New(input string) *Lexer {
	l := &Lexer{line: 1, col: 0}
	l.AppendInput(input)
	l.Close()
	return l
}

// NewStreaming creates a Lexer with no input yet, suited to interactive
// use where AppendInput is called repeatedly as lines arrive.
func NewStreaming() *Lexer {
	return &Lexer{line: 1, col: 0}
}

// AppendInput pushes more source bytes. It never blocks and never
// consumes; the new bytes simply extend what future Tokenize calls can
// see.
func (l *Lexer) AppendInput(s string) {
	l.src += s
}

// Close marks the stream as finished. After Close, any construct that
// would otherwise report Incomplete is reported as Error instead.
func (l *Lexer) Close() {
	l.closed = true
}

// ResetError clears the recorded error, allowing the caller to retry
// after, e.g., supplying more input in streaming mode.
func (l *Lexer) ResetError() {
	l.err = nil
}

// ErrorMessage returns the recorded error's message, or "" if none.
func (l *Lexer) ErrorMessage() string {
	if l.err == nil {
		return ""
	}
	return l.err.Message
}

// ErrorLocation returns the recorded error's position.
func (l *Lexer) ErrorLocation() token.Position {
	if l.err == nil {
		return token.Position{}
	}
	return l.err.Pos
}

// PopFirstToken removes and returns the frontmost completed token
// produced by a prior Tokenize call.
func (l *Lexer) PopFirstToken() (token.Token, bool) {
	if len(l.ready) == 0 {
		return token.Token{}, false
	}
	tok := l.ready[0]
	l.ready = l.ready[1:]
	return tok, true
}

// Tokenize drains the buffer, appending completed tokens to out, and
// stops at a safe boundary: EOF, an empty heredoc queue with the mode
// stack back at top level, or Incomplete/Error.
func (l *Lexer) Tokenize(out *[]token.Token) Status {
	for {
		tok, status := l.nextToken()
		switch status {
		case Incomplete:
			return Incomplete
		case Error:
			return Error
		}
		if n := len(*out); n > 0 && isRedirectOperator(tok.Type) {
			reclassifyIONumber(&(*out)[n-1])
			reclassifyIONumber(&l.ready[len(l.ready)-1])
		}
		*out = append(*out, tok)
		l.ready = append(l.ready, tok)

		if isHeredocOperator(tok.Type) && len(l.pendingHeredocs) > 0 {
			req := l.pendingHeredocs[len(l.pendingHeredocs)-1]
			req.readyIdx = len(l.ready) - 1
			req.outIdx = len(*out) - 1
		}
		for _, req := range l.justDrained {
			l.ready[req.readyIdx].HeredocBody = req.body.String()
			(*out)[req.outIdx].HeredocBody = req.body.String()
		}
		l.justDrained = l.justDrained[:0]

		if tok.Type == token.EOF {
			return OK
		}
	}
}

// isHeredocOperator reports whether t starts a heredoc redirection.
func isHeredocOperator(t token.Type) bool {
	return t == token.DLESS || t == token.DLESSDASH
}

// isRedirectOperator reports whether t is one of the operators that can
// be immediately preceded by an IO_NUMBER (spec §4.1 "IO_NUMBER
// reclassification").
func isRedirectOperator(t token.Type) bool {
	switch t {
	case token.LESS, token.GREAT, token.DLESS, token.DLESSDASH, token.DGREAT,
		token.LESSAND, token.GREATAND, token.LESSGREAT, token.CLOBBER:
		return true
	}
	return false
}

// reclassifyIONumber turns tok into an IO_NUMBER in place when it is a
// WORD made of a single unquoted all-digit literal, per spec §4.1: such a
// word immediately before a redirection operator names the target file
// descriptor rather than being an ordinary argument word.
func reclassifyIONumber(tok *token.Token) {
	if tok.Type != token.WORD || len(tok.Parts) != 1 {
		return
	}
	p := tok.Parts[0]
	if p.Kind != token.PartLiteral || p.IsQuoted() || p.Escaped || p.Literal == "" {
		return
	}
	n := 0
	for i := 0; i < len(p.Literal); i++ {
		if p.Literal[i] < '0' || p.Literal[i] > '9' {
			return
		}
		n = n*10 + int(p.Literal[i]-'0')
	}
	tok.Type = token.IO_NUMBER
	tok.IONumber = n
}

// --- character-level primitives -------------------------------------------------

// eof reports whether the cursor is at the end of everything appended so
// far (not necessarily the end of the whole logical stream unless Close
// was called).
func (l *Lexer) eof() bool { return l.pos >= len(l.src) }

func (l *Lexer) peekByte() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

// advance consumes n bytes, tracking line/column. Column counts runes.
func (l *Lexer) advance(n int) {
	for i := 0; i < n; {
		_, size := utf8.DecodeRuneInString(l.src[l.pos+i:])
		if size == 0 {
			size = 1
		}
		if l.src[l.pos+i] == '\n' {
			l.line++
			l.col = 0
		} else {
			l.col++
		}
		i += size
	}
	l.pos += n
}

func (l *Lexer) pos0() token.Position {
	return token.Position{Line: l.line, Column: l.col + 1, Offset: l.pos}
}

func (l *Lexer) addError(msg string, pos token.Position) {
	if l.err == nil {
		l.err = &LexError{Message: msg, Pos: pos}
	}
}
