package parser

import (
	"fmt"

	"github.com/poshlang/posh/internal/token"
)

// Status mirrors the lexer's OK/Incomplete/Error contract, so the front
// end (cmd/posh) can treat "need another line" the same way for both
// stages (spec §4.2's public contract: parse(tokens) -> Ok | Incomplete
// | Error).
type Status int

const (
	OK Status = iota
	Incomplete
	Error
)

// ParseError is the parser's single reported syntax error (spec §4.2
// "Error recovery": "the first syntax error is reported with the
// offending token's location and a canonical message").
type ParseError struct {
	Message string
	Pos     token.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}

func newError(pos token.Position, format string, args ...interface{}) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Pos: pos}
}
