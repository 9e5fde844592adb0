package expand

import (
	"fmt"
	"testing"

	"github.com/poshlang/posh/internal/token"
)

type fakeEnv struct {
	vars  map[string]string
	pos   []string
	ifs   string
	noGlob bool
	status int
	subst  func(string) (string, error)
	errs   []string
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{vars: map[string]string{}, ifs: " \t\n"}
}

func (f *fakeEnv) Get(name string) (string, bool) {
	v, ok := f.vars[name]
	return v, ok
}
func (f *fakeEnv) Set(name, value string) { f.vars[name] = value }
func (f *fakeEnv) Positional(n int) (string, bool) {
	if n < 1 || n > len(f.pos) {
		return "", false
	}
	return f.pos[n-1], true
}
func (f *fakeEnv) NumPositional() int { return len(f.pos) }
func (f *fakeEnv) IFS() string        { return f.ifs }
func (f *fakeEnv) NoGlob() bool       { return f.noGlob }
func (f *fakeEnv) CommandSubst(src string) (string, error) {
	if f.subst != nil {
		return f.subst(src)
	}
	return "", nil
}
func (f *fakeEnv) ExitStatus() int { return f.status }
func (f *fakeEnv) ReportError(msg string) { f.errs = append(f.errs, msg) }

func literalWord(s string) *token.Token {
	w := token.NewWord([]token.Part{{Kind: token.PartLiteral, Literal: s}}, token.Position{}, token.Position{})
	return &w
}

func paramWord(name string, quoted bool) *token.Token {
	w := token.NewWord([]token.Part{{Kind: token.PartParameter, ParamName: name, DoubleQuoted: quoted}}, token.Position{}, token.Position{})
	return &w
}

func TestExpandLiteralNoMeta(t *testing.T) {
	env := newFakeEnv()
	got, err := Words([]*token.Token{literalWord("hello")}, env)
	if err != nil || len(got) != 1 || got[0] != "hello" {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestExpandUnquotedSplitsOnIFS(t *testing.T) {
	env := newFakeEnv()
	env.vars["X"] = "a  b\tc"
	got, err := Words([]*token.Token{paramWord("X", false)}, env)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExpandQuotedDoesNotSplit(t *testing.T) {
	env := newFakeEnv()
	env.vars["X"] = "a b c"
	got, err := Words([]*token.Token{paramWord("X", true)}, env)
	if err != nil || len(got) != 1 || got[0] != "a b c" {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestExpandUnsetUnquotedVanishes(t *testing.T) {
	env := newFakeEnv()
	got, err := Words([]*token.Token{paramWord("UNSET", false)}, env)
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v, want no fields", got, err)
	}
}

func TestExpandQuotedAtSplitsPerPositional(t *testing.T) {
	env := newFakeEnv()
	env.pos = []string{"one", "two three", "four"}
	tok := token.NewWord([]token.Part{{Kind: token.PartParameter, ParamName: "@", DoubleQuoted: true}}, token.Position{}, token.Position{})
	got, err := Words([]*token.Token{&tok}, env)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"one", "two three", "four"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExpandUseDefault(t *testing.T) {
	env := newFakeEnv()
	word := []token.Token{*literalWord("fallback")}
	tok := token.NewWord([]token.Part{{
		Kind: token.PartParameter, ParamName: "X", ParamSub: token.ParamUseDefault, ParamWord: word,
	}}, token.Position{}, token.Position{})
	got, err := Words([]*token.Token{&tok}, env)
	if err != nil || len(got) != 1 || got[0] != "fallback" {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestExpandAssignDefaultSetsVariable(t *testing.T) {
	env := newFakeEnv()
	word := []token.Token{*literalWord("assigned")}
	tok := token.NewWord([]token.Part{{
		Kind: token.PartParameter, ParamName: "X", ParamSub: token.ParamAssignDefault, ParamWord: word,
	}}, token.Position{}, token.Position{})
	got, err := Words([]*token.Token{&tok}, env)
	if err != nil || len(got) != 1 || got[0] != "assigned" {
		t.Fatalf("got %v, %v", got, err)
	}
	if env.vars["X"] != "assigned" {
		t.Errorf("X = %q, want assigned", env.vars["X"])
	}
}

func TestExpandIndicateErrorReportsAndFails(t *testing.T) {
	env := newFakeEnv()
	tok := token.NewWord([]token.Part{{
		Kind: token.PartParameter, ParamName: "X", ParamSub: token.ParamIndicateError,
	}}, token.Position{}, token.Position{})
	_, err := Words([]*token.Token{&tok}, env)
	if err == nil {
		t.Fatal("want an error for unset parameter with ':?'")
	}
	if len(env.errs) != 1 {
		t.Errorf("want one reported error, got %v", env.errs)
	}
}

func TestExpandArithmetic(t *testing.T) {
	env := newFakeEnv()
	tok := token.NewWord([]token.Part{{Kind: token.PartArithmetic, ArithRaw: "2 + 3 * 4"}}, token.Position{}, token.Position{})
	got, err := Words([]*token.Token{&tok}, env)
	if err != nil || len(got) != 1 || got[0] != "14" {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestExpandCommandSub(t *testing.T) {
	env := newFakeEnv()
	env.subst = func(src string) (string, error) { return "output\n", nil }
	tok := token.NewWord([]token.Part{{Kind: token.PartCommandSub, CmdRaw: "echo output"}}, token.Position{}, token.Position{})
	got, err := Words([]*token.Token{&tok}, env)
	if err != nil || len(got) != 1 || got[0] != "output" {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestExpandTilde(t *testing.T) {
	env := newFakeEnv()
	env.vars["HOME"] = "/home/me"
	tok := token.NewWord([]token.Part{
		{Kind: token.PartTilde},
		{Kind: token.PartLiteral, Literal: "/bin"},
	}, token.Position{}, token.Position{})
	got, err := Words([]*token.Token{&tok}, env)
	if err != nil || len(got) != 1 || got[0] != "/home/me/bin" {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestExpandPrefixRemoval(t *testing.T) {
	env := newFakeEnv()
	env.vars["X"] = "file.tar.gz"
	word := []token.Token{*literalWord("*.")}
	tok := token.NewWord([]token.Part{{
		Kind: token.PartParameter, ParamName: "X", ParamSub: token.ParamPrefixLong, ParamWord: word,
	}}, token.Position{}, token.Position{})
	got, err := Words([]*token.Token{&tok}, env)
	if err != nil || len(got) != 1 || got[0] != "gz" {
		t.Fatalf("got %v, %v, want [gz]", got, err)
	}
}

func TestExpandSuffixRemoval(t *testing.T) {
	env := newFakeEnv()
	env.vars["X"] = "file.tar.gz"
	word := []token.Token{*literalWord(".*")}
	tok := token.NewWord([]token.Part{{
		Kind: token.PartParameter, ParamName: "X", ParamSub: token.ParamSuffixShort, ParamWord: word,
	}}, token.Position{}, token.Position{})
	got, err := Words([]*token.Token{&tok}, env)
	if err != nil || len(got) != 1 || got[0] != "file.tar" {
		t.Fatalf("got %v, %v, want [file.tar]", got, err)
	}
}

func TestWordNoSplitSkipsFieldSplitting(t *testing.T) {
	env := newFakeEnv()
	env.vars["X"] = "a b c"
	got, err := WordNoSplit(paramWord("X", false), env)
	if err != nil || got != "a b c" {
		t.Fatalf("got %q, %v", got, err)
	}
}
