package shell

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/poshlang/posh/internal/builtins"
)

// runCapture runs src through a fresh Shell and returns its exit status,
// captured stdout and captured stderr. Stdout/stderr are piped through
// real *os.File pairs (like commandSubst does for `$(...)`) since
// Shell.bindIO only rebinds fds that are *os.File, not an arbitrary
// io.Writer.
func runCapture(t *testing.T, sh *Shell, src string) (status int, stdout, stderr string) {
	t.Helper()
	if sh == nil {
		sh = New()
	}

	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	outCh := make(chan string, 1)
	errCh := make(chan string, 1)
	go func() {
		b, _ := io.ReadAll(outR)
		outCh <- string(b)
	}()
	go func() {
		b, _ := io.ReadAll(errR)
		errCh <- string(b)
	}()

	status = sh.Eval(src, builtins.IO{Stdin: strings.NewReader(""), Stdout: outW, Stderr: errW})
	outW.Close()
	errW.Close()
	stdout = <-outCh
	stderr = <-errCh
	outR.Close()
	errR.Close()
	return status, stdout, stderr
}

func TestEvalSimpleCommand(t *testing.T) {
	status, out, _ := runCapture(t, nil, "echo hello world")
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	if out != "hello world\n" {
		t.Fatalf("stdout = %q, want %q", out, "hello world\n")
	}
}

func TestEvalExitStatusOfLastCommand(t *testing.T) {
	status, _, _ := runCapture(t, nil, "false; true")
	if status != 0 {
		t.Fatalf("status = %d, want 0 (exit status follows the last command in a list)", status)
	}
	status, _, _ = runCapture(t, nil, "true; false")
	if status != 1 {
		t.Fatalf("status = %d, want 1", status)
	}
}

func TestEvalAndOrShortCircuit(t *testing.T) {
	status, out, _ := runCapture(t, nil, "false && echo unreached; true || echo unreached")
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	if out != "" {
		t.Fatalf("stdout = %q, want empty: both branches should have been skipped", out)
	}
}

func TestEvalPipeline(t *testing.T) {
	status, out, _ := runCapture(t, nil, `printf 'b\na\nc\n' | sort`)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	if out != "a\nb\nc\n" {
		t.Fatalf("stdout = %q, want sorted lines", out)
	}
}

func TestEvalIfClause(t *testing.T) {
	status, out, _ := runCapture(t, nil, `if true; then echo yes; else echo no; fi`)
	if status != 0 || out != "yes\n" {
		t.Fatalf("status=%d out=%q, want 0/yes", status, out)
	}
	status, out, _ = runCapture(t, nil, `if false; then echo yes; else echo no; fi`)
	if status != 0 || out != "no\n" {
		t.Fatalf("status=%d out=%q, want 0/no", status, out)
	}
}

func TestEvalForClauseOverArgs(t *testing.T) {
	status, out, _ := runCapture(t, nil, `for x in a b c; do echo "item $x"; done`)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	want := "item a\nitem b\nitem c\n"
	if out != want {
		t.Fatalf("stdout = %q, want %q", out, want)
	}
}

func TestEvalWhileClauseAndVariables(t *testing.T) {
	status, out, _ := runCapture(t, nil, `i=0; while [ "$i" -lt 3 ]; do echo "n=$i"; i=$((i+1)); done`)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	want := "n=0\nn=1\nn=2\n"
	if out != want {
		t.Fatalf("stdout = %q, want %q", out, want)
	}
}

func TestEvalFunctionDefinitionAndCall(t *testing.T) {
	status, out, _ := runCapture(t, nil, `greet() { echo "hi $1"; return 3; }; greet world; echo "status=$?"`)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	want := "hi world\nstatus=3\n"
	if out != want {
		t.Fatalf("stdout = %q, want %q", out, want)
	}
}

func TestEvalParameterExpansionDefault(t *testing.T) {
	status, out, _ := runCapture(t, nil, `unset FOO; echo "${FOO:-fallback}"`)
	if status != 0 || out != "fallback\n" {
		t.Fatalf("status=%d out=%q, want 0/fallback", status, out)
	}
}

func TestEvalCommandSubstitution(t *testing.T) {
	status, out, _ := runCapture(t, nil, `echo "result: $(echo inner)"`)
	if status != 0 || out != "result: inner\n" {
		t.Fatalf("status=%d out=%q, want 0/\"result: inner\"", status, out)
	}
}

func TestEvalCaseClause(t *testing.T) {
	src := `
for w in cat dog fish; do
  case $w in
    cat|dog) echo "$w: pet" ;;
    *) echo "$w: other" ;;
  esac
done`
	status, out, _ := runCapture(t, nil, src)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	want := "cat: pet\ndog: pet\nfish: other\n"
	if out != want {
		t.Fatalf("stdout = %q, want %q", out, want)
	}
}

func TestEvalSubshellDoesNotLeakVariables(t *testing.T) {
	sh := New()
	status, out, _ := runCapture(t, sh, `x=outer; (x=inner; echo "in subshell: $x"); echo "after: $x"`)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	want := "in subshell: inner\nafter: outer\n"
	if out != want {
		t.Fatalf("stdout = %q, want %q", out, want)
	}
}

func TestEvalAliasExpansion(t *testing.T) {
	sh := New()
	sh.SetAlias("ll", "echo listing")
	status, out, _ := runCapture(t, sh, "ll")
	if status != 0 || out != "listing\n" {
		t.Fatalf("status=%d out=%q, want 0/listing", status, out)
	}
}

func TestEvalExportedVariableReachesChildProcess(t *testing.T) {
	sh := New()
	if err := sh.Setvar("GREETING", "hi from parent"); err != nil {
		t.Fatal(err)
	}
	if err := sh.Export("GREETING"); err != nil {
		t.Fatal(err)
	}
	status, out, _ := runCapture(t, sh, `env | grep ^GREETING=`)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	if out != "GREETING=hi from parent\n" {
		t.Fatalf("stdout = %q, want exported var visible to child `env`", out)
	}
}

func TestEvalSyntaxErrorReportsNonZeroStatus(t *testing.T) {
	status, _, errOut := runCapture(t, nil, "if true; then echo oops")
	if status == 0 {
		t.Fatalf("status = 0, want nonzero for an unterminated if")
	}
	if errOut == "" {
		t.Fatalf("stderr is empty, want a diagnostic for the syntax error")
	}
}
