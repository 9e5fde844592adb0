package builtins

import (
	"bytes"
	"testing"
)

func runBuiltin(t *testing.T, name string, args []string) (status int, stdout, stderr string) {
	t.Helper()
	fn, ok := Lookup(name)
	if !ok {
		t.Fatalf("builtin %q not registered", name)
	}
	var out, errBuf bytes.Buffer
	status, _ = fn(nil, args, IO{Stdin: nil, Stdout: &out, Stderr: &errBuf})
	return status, out.String(), errBuf.String()
}

func TestBuiltinTest(t *testing.T) {
	tests := []struct {
		args []string
		want int
	}{
		{[]string{"-z", ""}, 0},
		{[]string{"-z", "nonempty"}, 1},
		{[]string{"-n", "nonempty"}, 0},
		{[]string{"foo", "=", "foo"}, 0},
		{[]string{"foo", "=", "bar"}, 1},
		{[]string{"foo", "!=", "bar"}, 0},
		{[]string{"3", "-lt", "5"}, 0},
		{[]string{"5", "-lt", "3"}, 1},
		{[]string{"3", "-eq", "3"}, 0},
		{[]string{"!", "-z", "x"}, 0},
	}
	for _, tc := range tests {
		status, _, _ := runBuiltin(t, "test", tc.args)
		if status != tc.want {
			t.Errorf("test %v = %d, want %d", tc.args, status, tc.want)
		}
	}
}

func TestBuiltinBracketRequiresClosingBracket(t *testing.T) {
	status, _, _ := runBuiltin(t, "[", []string{"-z", "", "]"})
	if status != 0 {
		t.Errorf("[ -z \"\" ] = %d, want 0", status)
	}
	status, _, _ = runBuiltin(t, "[", []string{"-z", ""})
	if status != 2 {
		t.Errorf("[ -z \"\" (no closing bracket) = %d, want 2", status)
	}
}

func TestBuiltinEcho(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"hello", "world"}, "hello world\n"},
		{[]string{"-n", "no newline"}, "no newline"},
		{[]string{`a\tb`}, "a\tb\n"},
	}
	for _, tc := range tests {
		_, out, _ := runBuiltin(t, "echo", tc.args)
		if out != tc.want {
			t.Errorf("echo %v = %q, want %q", tc.args, out, tc.want)
		}
	}
}

func TestBuiltinPrintf(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"%s\n", "hi"}, "hi\n"},
		{[]string{"%d-%d\n", "3", "4"}, "3-4\n"},
		{[]string{"%5s|\n", "ab"}, "   ab|\n"},
	}
	for _, tc := range tests {
		_, out, _ := runBuiltin(t, "printf", tc.args)
		if out != tc.want {
			t.Errorf("printf %v = %q, want %q", tc.args, out, tc.want)
		}
	}
}

func TestBuiltinPrintfRecyclesFormatOverExtraArgs(t *testing.T) {
	_, out, _ := runBuiltin(t, "printf", []string{"%s\n", "a", "b", "c"})
	want := "a\nb\nc\n"
	if out != want {
		t.Errorf("printf recycling = %q, want %q", out, want)
	}
}

func TestSpecialReportsControlFlowBuiltins(t *testing.T) {
	for _, name := range []string{":", ".", "eval", "exec", "exit", "export", "readonly", "return", "set", "shift", "trap", "unset", "break", "continue"} {
		if !Special(name) {
			t.Errorf("Special(%q) = false, want true", name)
		}
	}
	if Special("echo") {
		t.Errorf("Special(\"echo\") = true, want false")
	}
}
