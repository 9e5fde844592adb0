package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadSourceFromEval(t *testing.T) {
	src, err := readSource("echo hi", nil)
	if err != nil {
		t.Fatal(err)
	}
	if src != "echo hi" {
		t.Fatalf("src = %q, want %q", src, "echo hi")
	}
}

func TestReadSourceFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.sh")
	if err := os.WriteFile(path, []byte("echo file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	src, err := readSource("", []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if src != "echo file\n" {
		t.Fatalf("src = %q, want %q", src, "echo file\n")
	}
}

func TestReadSourceMissingFile(t *testing.T) {
	if _, err := readSource("", []string{"/nonexistent/file.sh"}); err == nil {
		t.Fatalf("want an error for a missing file")
	}
}

func TestRunLexPrintsTokens(t *testing.T) {
	lexEval = "echo hi"
	lexShowPos = false
	defer func() { lexEval = ""; lexShowPos = false }()

	var err error
	out, _ := captureStdio(t, "", func() {
		err = runLex(lexCmd, nil)
	})
	if err != nil {
		t.Fatalf("runLex returned %v, want nil", err)
	}
	if !strings.Contains(out, `"echo"`) || !strings.Contains(out, `"hi"`) {
		t.Fatalf("out = %q, want it to list the echo/hi word tokens", out)
	}
	if !strings.HasSuffix(strings.TrimRight(out, "\n"), "EOF") {
		t.Fatalf("out = %q, want it to end with the EOF token", out)
	}
}

func TestRunLexReportsLexError(t *testing.T) {
	lexEval = "echo \""
	lexShowPos = false
	defer func() { lexEval = "" }()

	var err error
	_, errOut := captureStdio(t, "", func() {
		err = runLex(lexCmd, nil)
	})
	ec, ok := err.(exitCode)
	if !ok || int(ec) != 2 {
		t.Fatalf("err = %v, want exitCode(2) for an unterminated quote", err)
	}
	if errOut == "" {
		t.Fatalf("want a diagnostic on stderr")
	}
}
