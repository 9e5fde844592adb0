package cmd

import (
	"strings"
	"testing"
)

func TestRunParseCmdPrintsSyntaxTree(t *testing.T) {
	parseEval = "if true; then echo yes; fi"
	defer func() { parseEval = "" }()

	var err error
	out, _ := captureStdio(t, "", func() {
		err = runParseCmd(parseCmd, nil)
	})
	if err != nil {
		t.Fatalf("runParseCmd returned %v, want nil", err)
	}
	for _, want := range []string{"Program", "IfClause", "cond:", "then:", `"true"`, `"echo"`, `"yes"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("out = %q, want it to contain %q", out, want)
		}
	}
}

func TestRunParseCmdReportsParseError(t *testing.T) {
	parseEval = "if true; then echo yes"
	defer func() { parseEval = "" }()

	var err error
	_, errOut := captureStdio(t, "", func() {
		err = runParseCmd(parseCmd, nil)
	})
	ec, ok := err.(exitCode)
	if !ok || int(ec) != 2 {
		t.Fatalf("err = %v, want exitCode(2) for an unterminated if", err)
	}
	if errOut == "" {
		t.Fatalf("want a diagnostic on stderr")
	}
}

func TestDumpRedirectsHandlesHeredocWithNilTarget(t *testing.T) {
	parseEval = "cat <<EOF\nhello\nEOF\n"
	defer func() { parseEval = "" }()

	var err error
	out, _ := captureStdio(t, "", func() {
		err = runParseCmd(parseCmd, nil)
	})
	if err != nil {
		t.Fatalf("runParseCmd returned %v, want nil", err)
	}
	if !strings.Contains(out, "<<heredoc>>") {
		t.Fatalf("out = %q, want a heredoc placeholder instead of a nil-pointer panic", out)
	}
}
