package shell

import (
	"github.com/poshlang/posh/internal/ast"
	"github.com/poshlang/posh/internal/expand"
	"github.com/poshlang/posh/internal/glob"
)

// executeCaseClause implements spec §4.4's case-clause: the subject word
// is expanded once (tilde/parameter/command/arithmetic plus quote
// removal, no field splitting or pathname expansion — the same rule
// assignment values follow), then matched against each item's patterns
// in order; the first match's body runs and no further items are tried.
func (s *Shell) executeCaseClause(c *ast.CaseClause) (int, control) {
	subject, err := expand.WordNoSplit(c.Word, s.Env())
	if err != nil {
		s.reportRuntime(c.Position, err.Error())
		return 1, none
	}
	for _, item := range c.Items {
		if s.caseItemMatches(item, subject) {
			if item.Body == nil {
				return 0, none
			}
			return s.executeList(item.Body)
		}
	}
	return 0, none
}

func (s *Shell) caseItemMatches(item *ast.CaseItem, subject string) bool {
	for _, pat := range item.Patterns {
		text, err := expand.WordNoSplit(pat, s.Env())
		if err != nil {
			continue
		}
		if glob.Match(text, subject) {
			return true
		}
	}
	return false
}
