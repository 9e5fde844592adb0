package shell

import (
	"fmt"

	"github.com/poshlang/posh/internal/ast"
	"github.com/poshlang/posh/internal/lexer"
	"github.com/poshlang/posh/internal/parser"
	"github.com/poshlang/posh/internal/token"
)

// parseSource lexes and parses a complete, already-known string of shell
// source (the common input shape for eval/`.`/command substitution/`-c`,
// none of which stream — spec §4.1's AppendInput/Incomplete contract
// exists for interactive/pipe reading, not for these). aliases may be
// nil.
func parseSource(src string, aliases parser.AliasLookup) (*ast.Program, error) {
	lx := lexer.New(src)
	var toks []token.Token
	status := lx.Tokenize(&toks)
	if status == lexer.Error {
		return nil, fmt.Errorf("%s: %s", lx.ErrorLocation(), lx.ErrorMessage())
	}
	prog, pstatus, perr := parser.Parse(toks, aliases)
	if pstatus == parser.Error {
		return nil, fmt.Errorf("%s: %s", perr.Pos, perr.Message)
	}
	return prog, nil
}
