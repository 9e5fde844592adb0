package shell

import (
	"github.com/poshlang/posh/internal/expand"
	"github.com/poshlang/posh/internal/token"
)

// expandWords runs the full word-expansion pipeline over a word list and
// turns a recorded ${name:?word}/`set -u` failure (see lastExpandErr)
// into a returned error, since expand.Env's Get/ReportError methods
// can't surface one directly.
func (s *Shell) expandWords(words []*token.Token) ([]string, error) {
	out, err := expand.Words(words, s.Env())
	if err != nil {
		return nil, err
	}
	if msg, ok := s.takeExpandErr(); ok {
		return nil, &expandError{msg}
	}
	return out, nil
}

type expandError struct{ msg string }

func (e *expandError) Error() string { return e.msg }
