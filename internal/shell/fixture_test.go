package shell

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// endToEndScenario is one script-in/stdout-out fixture, modeled on
// go-dws's directory-of-fixtures snapshot harness
// (internal/interp/fixture_test.go's testCategories table plus
// runFixtureTest), generalized from a corpus of external .pas/.txt pairs
// to an inline table since this module's end-to-end scenarios are each a
// handful of lines rather than a large external test suite.
//
// ls is avoided in the alias-expansion scenario (its output depends on
// the working directory's contents) in favor of an alias to echo, so
// every scenario's captured stdout is fully deterministic across runs
// and machines.
var endToEndScenarios = []struct {
	name string
	src  string
}{
	{"EchoSingleQuoted", `echo 'hello world'`},
	{"ArithmeticExpansionAcrossAssignments", `x=1; y=2; echo $((x+y))`},
	{"ForLoopOverWordList", `for i in a b c; do echo $i; done`},
	{"IfElseFalseBranch", `if false; then echo T; else echo F; fi`},
	{"ParameterExpansionDefaultOnUnset", `unset U; echo "${U:-fallback}"; echo "$U"`},
	{"HeredocQuotedDelimiterSkipsExpansion", "cat <<'END'\n$HOME\nEND\n"},
	{"BraceGroupPipedThroughWc", `{ echo a; echo b; } | wc -l`},
	{"AliasReTokenizedAtParseTime", `alias ll='echo listing'; ll`},
}

// TestEndToEndScenarios runs each scenario through a fresh Shell and
// snapshots its captured stdout, the way go-dws's fixture harness
// snapshots each fixture's interpreter output rather than hand-writing
// an expected string per case in the test body itself.
func TestEndToEndScenarios(t *testing.T) {
	for _, sc := range endToEndScenarios {
		t.Run(sc.name, func(t *testing.T) {
			status, out, _ := runCapture(t, nil, sc.src)
			snaps.MatchSnapshot(t, fmt.Sprintf("%s_status", sc.name), status)
			snaps.MatchSnapshot(t, fmt.Sprintf("%s_stdout", sc.name), out)
		})
	}
}
