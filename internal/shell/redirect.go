package shell

import (
	"os"
	"strconv"

	"github.com/poshlang/posh/internal/ast"
	"github.com/poshlang/posh/internal/expand"
	"github.com/poshlang/posh/internal/lexer"
	"github.com/poshlang/posh/internal/token"
)

// applyRedirects opens and binds every redirection in order (Redirect.Seq
// records encounter order so `2>&1 cmd >file` and `cmd >file 2>&1` bind
// differently, spec §4.4 step 3), returning a function that restores the
// fd table to how it looked before. On error, already-applied bindings
// are restored before returning.
func (s *Shell) applyRedirects(redirects []*ast.Redirect) (restore func(), err error) {
	type saved struct {
		fd   int
		file *os.File
	}
	var undo []saved
	restore = func() {
		for i := len(undo) - 1; i >= 0; i-- {
			s.fds.Restore(undo[i].fd, undo[i].file)
		}
	}

	for _, r := range redirects {
		fd := defaultFD(r.Op)
		if r.HasIONumber {
			fd = r.IONumber
		}
		switch r.Op {
		case token.LESS, token.GREAT, token.DGREAT, token.CLOBBER, token.LESSGREAT:
			path, werr := expand.WordNoSplit(r.Target, s.Env())
			if werr != nil {
				restore()
				return nil, werr
			}
			f, oerr := openRedirectFile(r.Op, path, s.options.Get('C'))
			if oerr != nil {
				restore()
				return nil, oerr
			}
			undo = append(undo, saved{fd, s.fds.Bind(fd, f)})

		case token.LESSAND, token.GREATAND:
			target, werr := expand.WordNoSplit(r.Target, s.Env())
			if werr != nil {
				restore()
				return nil, werr
			}
			if target == "-" {
				undo = append(undo, saved{fd, s.fds.Close(fd)})
				continue
			}
			srcFD, cerr := strconv.Atoi(target)
			if cerr != nil {
				restore()
				return nil, &dupFDError{target}
			}
			src := s.fds.Get(srcFD)
			if src == nil {
				restore()
				return nil, &dupFDError{target}
			}
			undo = append(undo, saved{fd, s.fds.Bind(fd, src)})

		case token.DLESS, token.DLESSDASH:
			body := r.HeredocBody
			if !r.HeredocQuoted {
				expanded, eerr := s.expandHeredocBody(body)
				if eerr != nil {
					restore()
					return nil, eerr
				}
				body = expanded
			}
			f, herr := heredocFile(body)
			if herr != nil {
				restore()
				return nil, herr
			}
			undo = append(undo, saved{fd, s.fds.Bind(fd, f)})
		}
	}
	return restore, nil
}

func defaultFD(op token.Type) int {
	switch op {
	case token.LESS, token.LESSAND, token.LESSGREAT, token.DLESS, token.DLESSDASH:
		return 0
	default:
		return 1
	}
}

// openRedirectFile opens path per a single redirection operator.
// noclobber implements `set -C`: a plain `>` onto an existing regular
// file fails unless the operator was `>|` (CLOBBER, which always wins).
func openRedirectFile(op token.Type, path string, noclobber bool) (*os.File, error) {
	switch op {
	case token.LESS:
		return os.Open(path)
	case token.GREAT:
		flags := os.O_WRONLY | os.O_CREATE
		if noclobber {
			flags |= os.O_EXCL
		} else {
			flags |= os.O_TRUNC
		}
		return os.OpenFile(path, flags, 0o666)
	case token.CLOBBER:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	case token.DGREAT:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o666)
	case token.LESSGREAT:
		return os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	}
	panic("unreachable redirection operator")
}

// expandHeredocBody runs parameter/command/arithmetic expansion over an
// unquoted-delimiter heredoc's body (spec §4.4's redirection table: `<<`
// expands the body "unless the delimiter was quoted"), without field
// splitting or pathname expansion — the same stages WordNoSplit runs for
// an assignment value.
func (s *Shell) expandHeredocBody(body string) (string, error) {
	parts, lerr := lexer.ExpandableParts(body)
	if lerr != nil {
		return "", lerr
	}
	word := token.NewWord(parts, token.Position{}, token.Position{})
	return expand.WordNoSplit(&word, s.Env())
}

// heredocFile materializes a here-document body (already expanded by
// expandHeredocBody when the delimiter was unquoted) into a readable
// file — a temporary file rather than an in-memory pipe, since the body
// is always fully known up front and a file lets the reading command
// seek/reread the way a real fd would.
func heredocFile(body string) (*os.File, error) {
	f, err := os.CreateTemp("", "posh-heredoc-")
	if err != nil {
		return nil, err
	}
	os.Remove(f.Name()) // unlinked immediately; the open fd keeps it alive
	if _, err := f.WriteString(body); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.Seek(0, 0); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

type dupFDError struct{ target string }

func (e *dupFDError) Error() string { return e.target + ": bad file descriptor" }
