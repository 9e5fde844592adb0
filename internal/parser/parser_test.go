package parser

import (
	"testing"

	"github.com/poshlang/posh/internal/ast"
	"github.com/poshlang/posh/internal/lexer"
	"github.com/poshlang/posh/internal/token"
)

// checkParserErrors fails the test with a readable message if parsing
// reported an error, mirroring the teacher's checkParserErrors helper.
func checkParserErrors(t *testing.T, status Status, err *ParseError) {
	t.Helper()
	if status == Error {
		t.Fatalf("parser error: %s", err.Error())
	}
}

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	var toks []token.Token
	if st := l.Tokenize(&toks); st == lexer.Error {
		t.Fatalf("lex error: %s", l.ErrorMessage())
	}
	prog, status, err := Parse(toks, nil)
	checkParserErrors(t, status, err)
	return prog
}

func TestParseSimpleCommand(t *testing.T) {
	prog := parseProgram(t, "echo hello world\n")
	if len(prog.Commands) != 1 {
		t.Fatalf("want 1 list, got %d", len(prog.Commands))
	}
	sc := soleSimpleCommand(t, prog)
	if sc.Name.Literal != "echo" {
		t.Errorf("Name = %q, want echo", sc.Name.Literal)
	}
	if len(sc.Args) != 2 || sc.Args[0].Literal != "hello" || sc.Args[1].Literal != "world" {
		t.Errorf("Args = %v, want [hello world]", sc.Args)
	}
}

func TestParseAssignmentPrefix(t *testing.T) {
	prog := parseProgram(t, "FOO=bar echo $FOO\n")
	sc := soleSimpleCommand(t, prog)
	if len(sc.Assignments) != 1 || sc.Assignments[0].Name != "FOO" {
		t.Fatalf("Assignments = %+v", sc.Assignments)
	}
	if sc.Assignments[0].Value.Literal != "bar" {
		t.Errorf("assignment value = %q, want bar", sc.Assignments[0].Value.Literal)
	}
	if sc.Name.Literal != "echo" {
		t.Errorf("Name = %q, want echo", sc.Name.Literal)
	}
}

func TestParseBareAssignment(t *testing.T) {
	prog := parseProgram(t, "FOO=bar\n")
	sc := soleSimpleCommand(t, prog)
	if sc.Name != nil {
		t.Errorf("Name = %v, want nil for a bare assignment", sc.Name)
	}
	if len(sc.Assignments) != 1 {
		t.Fatalf("Assignments = %+v", sc.Assignments)
	}
}

func TestParsePipeline(t *testing.T) {
	prog := parseProgram(t, "a | b | c\n")
	list := prog.Commands[0]
	andOr := list.Items[0].AndOr
	if len(andOr.First.Commands) != 3 {
		t.Fatalf("want 3 pipeline commands, got %d", len(andOr.First.Commands))
	}
}

func TestParseNegatedPipeline(t *testing.T) {
	prog := parseProgram(t, "! false\n")
	pipe := prog.Commands[0].Items[0].AndOr.First
	if !pipe.Negate {
		t.Error("expected Negate = true")
	}
}

func TestParseAndOr(t *testing.T) {
	prog := parseProgram(t, "a && b || c\n")
	andOr := prog.Commands[0].Items[0].AndOr
	if len(andOr.Rest) != 2 {
		t.Fatalf("want 2 and-or terms, got %d", len(andOr.Rest))
	}
	if andOr.Rest[0].Op != token.AND_IF || andOr.Rest[1].Op != token.OR_IF {
		t.Errorf("ops = %v %v", andOr.Rest[0].Op, andOr.Rest[1].Op)
	}
}

func TestParseListSeparators(t *testing.T) {
	prog := parseProgram(t, "a; b &\n")
	items := prog.Commands[0].Items
	if len(items) != 2 {
		t.Fatalf("want 2 list items, got %d", len(items))
	}
	if items[0].Async {
		t.Error("first item should not be async")
	}
	if !items[1].Async {
		t.Error("second item should be async")
	}
}

func TestParseIfClause(t *testing.T) {
	prog := parseProgram(t, "if true; then echo yes; elif false; then echo maybe; else echo no; fi\n")
	cmd := prog.Commands[0].Items[0].AndOr.First.Commands[0]
	ic, ok := cmd.(*ast.IfClause)
	if !ok {
		t.Fatalf("got %T, want *ast.IfClause", cmd)
	}
	if len(ic.Elifs) != 1 {
		t.Fatalf("want 1 elif, got %d", len(ic.Elifs))
	}
	if ic.Else == nil {
		t.Fatal("want an else body")
	}
}

func TestParseWhileClause(t *testing.T) {
	prog := parseProgram(t, "while true; do echo x; done\n")
	cmd := prog.Commands[0].Items[0].AndOr.First.Commands[0]
	if _, ok := cmd.(*ast.WhileClause); !ok {
		t.Fatalf("got %T, want *ast.WhileClause", cmd)
	}
}

func TestParseForClauseWithIn(t *testing.T) {
	prog := parseProgram(t, "for x in a b c; do echo $x; done\n")
	cmd := prog.Commands[0].Items[0].AndOr.First.Commands[0]
	fc, ok := cmd.(*ast.ForClause)
	if !ok {
		t.Fatalf("got %T, want *ast.ForClause", cmd)
	}
	if !fc.HasIn || len(fc.Words) != 3 {
		t.Errorf("fc = %+v", fc)
	}
}

func TestParseForClauseWithoutIn(t *testing.T) {
	prog := parseProgram(t, "for x; do echo $x; done\n")
	cmd := prog.Commands[0].Items[0].AndOr.First.Commands[0]
	fc, ok := cmd.(*ast.ForClause)
	if !ok {
		t.Fatalf("got %T, want *ast.ForClause", cmd)
	}
	if fc.HasIn {
		t.Error("expected HasIn = false")
	}
}

func TestParseCaseClause(t *testing.T) {
	prog := parseProgram(t, "case $x in a|b) echo ab;; *) echo other;; esac\n")
	cmd := prog.Commands[0].Items[0].AndOr.First.Commands[0]
	cc, ok := cmd.(*ast.CaseClause)
	if !ok {
		t.Fatalf("got %T, want *ast.CaseClause", cmd)
	}
	if len(cc.Items) != 2 {
		t.Fatalf("want 2 case items, got %d", len(cc.Items))
	}
	if len(cc.Items[0].Patterns) != 2 {
		t.Errorf("first item patterns = %+v", cc.Items[0].Patterns)
	}
}

func TestParseSubshellAndBraceGroup(t *testing.T) {
	prog := parseProgram(t, "(echo a)\n{ echo b; }\n")
	if len(prog.Commands) != 2 {
		t.Fatalf("want 2 lists, got %d", len(prog.Commands))
	}
	if _, ok := prog.Commands[0].Items[0].AndOr.First.Commands[0].(*ast.Subshell); !ok {
		t.Error("first command should be a Subshell")
	}
	if _, ok := prog.Commands[1].Items[0].AndOr.First.Commands[0].(*ast.BraceGroup); !ok {
		t.Error("second command should be a BraceGroup")
	}
}

func TestParseFunctionDefinition(t *testing.T) {
	prog := parseProgram(t, "greet() { echo hi; }\n")
	cmd := prog.Commands[0].Items[0].AndOr.First.Commands[0]
	fd, ok := cmd.(*ast.FunctionDefinition)
	if !ok {
		t.Fatalf("got %T, want *ast.FunctionDefinition", cmd)
	}
	if fd.Name != "greet" {
		t.Errorf("Name = %q, want greet", fd.Name)
	}
	if _, ok := fd.Body.(*ast.BraceGroup); !ok {
		t.Errorf("Body = %T, want *ast.BraceGroup", fd.Body)
	}
}

func TestParseRedirects(t *testing.T) {
	prog := parseProgram(t, "cmd > out < in 2>&1\n")
	sc := soleSimpleCommand(t, prog)
	if len(sc.Redirects) != 3 {
		t.Fatalf("want 3 redirects, got %d", len(sc.Redirects))
	}
	if sc.Redirects[0].Op != token.GREAT || sc.Redirects[0].Target.Literal != "out" {
		t.Errorf("redirect 0 = %+v", sc.Redirects[0])
	}
	if sc.Redirects[1].Op != token.LESS || sc.Redirects[1].Target.Literal != "in" {
		t.Errorf("redirect 1 = %+v", sc.Redirects[1])
	}
	if !sc.Redirects[2].HasIONumber || sc.Redirects[2].IONumber != 2 || sc.Redirects[2].Op != token.GREATAND {
		t.Errorf("redirect 2 = %+v", sc.Redirects[2])
	}
}

func TestParseAliasExpansion(t *testing.T) {
	aliases := fakeAliases{"ll": "ls -l"}
	l := lexer.New("ll /tmp\n")
	var toks []token.Token
	l.Tokenize(&toks)
	prog, status, err := Parse(toks, aliases)
	checkParserErrors(t, status, err)

	sc := soleSimpleCommand(t, prog)
	if sc.Name.Literal != "ls" {
		t.Errorf("Name = %q, want ls (alias-expanded)", sc.Name.Literal)
	}
	if len(sc.Args) != 2 || sc.Args[0].Literal != "-l" || sc.Args[1].Literal != "/tmp" {
		t.Errorf("Args = %v", sc.Args)
	}
}

func TestParseUnterminatedIfIsError(t *testing.T) {
	l := lexer.New("if true; then echo yes\n")
	var toks []token.Token
	l.Tokenize(&toks)
	_, status, err := Parse(toks, nil)
	if status != Error {
		t.Fatalf("want Error, got %v", status)
	}
	if err == nil {
		t.Fatal("want a non-nil ParseError")
	}
}

type fakeAliases map[string]string

func (f fakeAliases) Lookup(name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

func soleSimpleCommand(t *testing.T, prog *ast.Program) *ast.SimpleCommand {
	t.Helper()
	if len(prog.Commands) != 1 || len(prog.Commands[0].Items) != 1 {
		t.Fatalf("expected exactly one simple command, got program %+v", prog)
	}
	cmd := prog.Commands[0].Items[0].AndOr.First.Commands[0]
	sc, ok := cmd.(*ast.SimpleCommand)
	if !ok {
		t.Fatalf("got %T, want *ast.SimpleCommand", cmd)
	}
	return sc
}
