package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poshlang/posh/internal/shell"
)

func newTestShell(t *testing.T) *shell.Shell {
	t.Helper()
	return shell.New()
}

// captureStdio swaps os.Stdout/os.Stderr/os.Stdin for the duration of fn,
// returning what was written to stdout/stderr. Mirrors the teacher's own
// os.Pipe-based stdout capture around runScript in cmd/dwscript/cmd.
func captureStdio(t *testing.T, stdin string, fn func()) (stdout, stderr string) {
	t.Helper()

	oldStdout, oldStderr, oldStdin := os.Stdout, os.Stderr, os.Stdin

	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	inR, inW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	os.Stdout, os.Stderr, os.Stdin = outW, errW, inR
	defer func() { os.Stdout, os.Stderr, os.Stdin = oldStdout, oldStderr, oldStdin }()

	go func() {
		io.WriteString(inW, stdin)
		inW.Close()
	}()

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

	fn()

	outW.Close()
	errW.Close()
	return <-outCh, <-errCh
}

func TestRunInvocationCommandString(t *testing.T) {
	var err error
	out, _ := captureStdio(t, "", func() {
		err = runInvocation([]string{"-c", "echo hello from -c"})
	})
	if err != nil {
		t.Fatalf("runInvocation returned %v, want nil", err)
	}
	if out != "hello from -c\n" {
		t.Fatalf("stdout = %q, want %q", out, "hello from -c\n")
	}
}

func TestRunInvocationCommandStringExitStatus(t *testing.T) {
	var err error
	captureStdio(t, "", func() {
		err = runInvocation([]string{"-c", "exit 7"})
	})
	ec, ok := err.(exitCode)
	if !ok {
		t.Fatalf("err = %v (%T), want an exitCode", err, err)
	}
	if int(ec) != 7 {
		t.Fatalf("exit code = %d, want 7", int(ec))
	}
}

func TestRunInvocationCommandStringSetsPositionalParameters(t *testing.T) {
	var err error
	out, _ := captureStdio(t, "", func() {
		err = runInvocation([]string{"-c", `echo "$0 $1 $2"`, "myshell", "first", "second"})
	})
	if err != nil {
		t.Fatalf("runInvocation returned %v, want nil", err)
	}
	if out != "myshell first second\n" {
		t.Fatalf("stdout = %q, want %q", out, "myshell first second\n")
	}
}

func TestRunInvocationScriptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greet.sh")
	script := "echo \"hello $1\"\nexit 0\n"
	if err := os.WriteFile(path, []byte(script), 0644); err != nil {
		t.Fatal(err)
	}

	var err error
	out, _ := captureStdio(t, "", func() {
		err = runInvocation([]string{path, "world"})
	})
	if err != nil {
		t.Fatalf("runInvocation returned %v, want nil", err)
	}
	if out != "hello world\n" {
		t.Fatalf("stdout = %q, want %q", out, "hello world\n")
	}
}

func TestRunInvocationScriptFileNotFound(t *testing.T) {
	var err error
	_, errOut := captureStdio(t, "", func() {
		err = runInvocation([]string{"/nonexistent/path/to/script.sh"})
	})
	ec, ok := err.(exitCode)
	if !ok || int(ec) != 127 {
		t.Fatalf("err = %v, want exitCode(127)", err)
	}
	if !strings.Contains(errOut, "nonexistent") {
		t.Fatalf("stderr = %q, want it to name the missing script", errOut)
	}
}

func TestRunInvocationReadsStdinWhenNonInteractive(t *testing.T) {
	var err error
	out, _ := captureStdio(t, "echo from stdin\n", func() {
		err = runInvocation(nil)
	})
	if err != nil {
		t.Fatalf("runInvocation returned %v, want nil", err)
	}
	if out != "from stdin\n" {
		t.Fatalf("stdout = %q, want %q", out, "from stdin\n")
	}
}

func TestParseInvocationBooleanOptionBundle(t *testing.T) {
	sh := newTestShell(t)
	inv, err := parseInvocation(sh, []string{"-ex", "script.sh", "a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if !sh.Option('e') || !sh.Option('x') {
		t.Fatalf("want -e and -x both set")
	}
	if inv.mode != "script" || inv.scriptPath != "script.sh" {
		t.Fatalf("inv = %+v, want script.sh", inv)
	}
	if len(inv.scriptArgs) != 2 || inv.scriptArgs[0] != "a" || inv.scriptArgs[1] != "b" {
		t.Fatalf("scriptArgs = %v, want [a b]", inv.scriptArgs)
	}
}

func TestParseInvocationLongOption(t *testing.T) {
	sh := newTestShell(t)
	_, err := parseInvocation(sh, []string{"-o", "noexec"})
	if err != nil {
		t.Fatal(err)
	}
	if !sh.Option('n') {
		t.Fatalf("want -o noexec to set the 'n' option")
	}
}

func TestParseInvocationPlusNegatesOption(t *testing.T) {
	sh := newTestShell(t)
	if _, err := parseInvocation(sh, []string{"-v"}); err != nil {
		t.Fatal(err)
	}
	if _, err := parseInvocation(sh, []string{"+v"}); err != nil {
		t.Fatal(err)
	}
	if sh.Option('v') {
		t.Fatalf("want +v to clear the option set by a prior -v")
	}
}

func TestParseInvocationCommandStringRequiresArgument(t *testing.T) {
	sh := newTestShell(t)
	if _, err := parseInvocation(sh, []string{"-c"}); err == nil {
		t.Fatalf("want an error when -c has no command_string")
	}
}
