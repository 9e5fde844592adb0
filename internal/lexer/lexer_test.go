package lexer

import (
	"testing"

	"github.com/poshlang/posh/internal/token"
)

func tokenize(t *testing.T, input string) []token.Token {
	t.Helper()
	l := New(input)
	var out []token.Token
	status := l.Tokenize(&out)
	if status != OK {
		t.Fatalf("Tokenize(%q): status=%v err=%s", input, status, l.ErrorMessage())
	}
	return out
}

func TestNextTokenOperators(t *testing.T) {
	input := "a && b || c; d & e | f ( g ) h <<- i << j >> k <& l >& m <> n >| o < p > q\ni\nj\n"

	tests := []struct {
		expectedType token.Type
	}{
		{token.WORD}, {token.AND_IF}, {token.WORD}, {token.OR_IF}, {token.WORD},
		{token.SEMI}, {token.WORD}, {token.AMP}, {token.WORD}, {token.PIPE},
		{token.WORD}, {token.LPAREN}, {token.WORD}, {token.RPAREN}, {token.WORD},
		{token.DLESSDASH}, {token.DLESS}, {token.DGREAT},
		{token.WORD}, {token.LESSAND}, {token.WORD}, {token.GREATAND}, {token.WORD},
		{token.LESSGREAT}, {token.WORD}, {token.CLOBBER}, {token.WORD}, {token.LESS},
		{token.WORD}, {token.GREAT}, {token.WORD}, {token.NEWLINE}, {token.EOF},
	}

	l := New(input)
	var out []token.Token
	status := l.Tokenize(&out)
	if status != OK {
		t.Fatalf("unexpected status %v: %s", status, l.ErrorMessage())
	}
	if len(out) < len(tests) {
		t.Fatalf("got %d tokens, want at least %d", len(out), len(tests))
	}
	for i, tt := range tests {
		if out[i].Type != tt.expectedType {
			t.Fatalf("tests[%d] - type wrong. expected=%s, got=%s (literal=%q)",
				i, tt.expectedType, out[i].Type, out[i].Literal)
		}
	}
}

func TestReservedWordsStayAsWords(t *testing.T) {
	// The lexer never promotes reserved words (spec §4.1 keeps it
	// context-free); every one of these must come back as a plain WORD.
	out := tokenize(t, "if then else elif fi do done case esac while until for in")
	for i, tok := range out {
		if tok.Type == token.EOF {
			break
		}
		if tok.Type != token.WORD {
			t.Fatalf("token %d: expected WORD, got %s", i, tok.Type)
		}
	}
}

func TestSingleQuoted(t *testing.T) {
	out := tokenize(t, `'hello $world'`)
	if out[0].Type != token.WORD || len(out[0].Parts) != 1 {
		t.Fatalf("unexpected token: %+v", out[0])
	}
	p := out[0].Parts[0]
	if p.Kind != token.PartLiteral || p.Literal != "hello $world" || !p.SingleQuoted {
		t.Fatalf("unexpected part: %+v", p)
	}
	if !out[0].WasQuoted {
		t.Fatalf("expected WasQuoted=true")
	}
}

func TestDoubleQuotedWithParameter(t *testing.T) {
	out := tokenize(t, `"hello $name!"`)
	tok := out[0]
	if tok.Type != token.WORD {
		t.Fatalf("expected WORD, got %s", tok.Type)
	}
	if len(tok.Parts) != 3 {
		t.Fatalf("expected 3 parts, got %d: %+v", len(tok.Parts), tok.Parts)
	}
	if tok.Parts[0].Literal != "hello " || !tok.Parts[0].DoubleQuoted {
		t.Fatalf("part 0 wrong: %+v", tok.Parts[0])
	}
	if tok.Parts[1].Kind != token.PartParameter || tok.Parts[1].ParamName != "name" {
		t.Fatalf("part 1 wrong: %+v", tok.Parts[1])
	}
	if tok.Parts[2].Literal != "!" {
		t.Fatalf("part 2 wrong: %+v", tok.Parts[2])
	}
}

func TestCommandSubstitutionRawText(t *testing.T) {
	out := tokenize(t, "echo $(ls -la | grep foo)")
	sub := out[1]
	if len(sub.Parts) != 1 || sub.Parts[0].Kind != token.PartCommandSub {
		t.Fatalf("unexpected parts: %+v", sub.Parts)
	}
	if sub.Parts[0].CmdRaw != "ls -la | grep foo" {
		t.Fatalf("unexpected raw text: %q", sub.Parts[0].CmdRaw)
	}
}

func TestArithmeticExpansion(t *testing.T) {
	out := tokenize(t, "echo $((1 + 2 * (3 - 1)))")
	sub := out[1]
	if len(sub.Parts) != 1 || sub.Parts[0].Kind != token.PartArithmetic {
		t.Fatalf("unexpected parts: %+v", sub.Parts)
	}
	if sub.Parts[0].ArithRaw != "1 + 2 * (3 - 1)" {
		t.Fatalf("unexpected raw text: %q", sub.Parts[0].ArithRaw)
	}
}

func TestParameterExpansionForms(t *testing.T) {
	tests := []struct {
		input string
		sub   token.ParamSubKind
	}{
		{"${x:-default}", token.ParamUseDefault},
		{"${x-default}", token.ParamUseDefaultNC},
		{"${x:=default}", token.ParamAssignDefault},
		{"${x=default}", token.ParamAssignNC},
		{"${x:?msg}", token.ParamIndicateError},
		{"${x?msg}", token.ParamIndicateNC},
		{"${x:+alt}", token.ParamUseAlternative},
		{"${x+alt}", token.ParamUseAlternateNC},
		{"${x#pat}", token.ParamPrefixShort},
		{"${x##pat}", token.ParamPrefixLong},
		{"${x%pat}", token.ParamSuffixShort},
		{"${x%%pat}", token.ParamSuffixLong},
	}
	for _, tt := range tests {
		out := tokenize(t, tt.input)
		p := out[0].Parts[0]
		if p.Kind != token.PartParameter || p.ParamSub != tt.sub {
			t.Fatalf("%s: unexpected part %+v", tt.input, p)
		}
	}
}

func TestParamLength(t *testing.T) {
	out := tokenize(t, "${#x}")
	p := out[0].Parts[0]
	if p.ParamSub != token.ParamLength || p.ParamName != "x" {
		t.Fatalf("unexpected part: %+v", p)
	}
}

func TestIONumberReclassification(t *testing.T) {
	out := tokenize(t, "2>&1")
	if out[0].Type != token.IO_NUMBER || out[0].IONumber != 2 {
		t.Fatalf("expected IO_NUMBER(2), got %+v", out[0])
	}
	if out[1].Type != token.GREATAND {
		t.Fatalf("expected GREATAND, got %s", out[1].Type)
	}
}

func TestIONumberNotReclassifiedWhenQuoted(t *testing.T) {
	out := tokenize(t, `"2">&1`)
	if out[0].Type != token.WORD {
		t.Fatalf("quoted digit word must not become IO_NUMBER, got %s", out[0].Type)
	}
}

func TestIOLocation(t *testing.T) {
	out := tokenize(t, "{fd}>&2")
	if out[0].Type != token.IO_LOCATION || out[0].IOLocationName != "fd" {
		t.Fatalf("unexpected token: %+v", out[0])
	}
}

func TestHeredocSimple(t *testing.T) {
	input := "cat <<EOF\nline one\nline two\nEOF\necho done\n"
	out := tokenize(t, input)
	var heredocTok token.Token
	found := false
	for _, tok := range out {
		if tok.Type == token.DLESS {
			heredocTok = tok
			found = true
		}
	}
	if !found {
		t.Fatalf("no DLESS token found")
	}
	if heredocTok.HeredocDelim != "EOF" {
		t.Fatalf("unexpected delimiter: %q", heredocTok.HeredocDelim)
	}
	if heredocTok.HeredocBody != "line one\nline two\n" {
		t.Fatalf("unexpected body: %q", heredocTok.HeredocBody)
	}
}

func TestHeredocTabStrip(t *testing.T) {
	input := "cat <<-EOF\n\t\tindented\nEOF\n"
	out := tokenize(t, input)
	var heredocTok token.Token
	for _, tok := range out {
		if tok.Type == token.DLESSDASH {
			heredocTok = tok
		}
	}
	if heredocTok.HeredocBody != "indented\n" {
		t.Fatalf("unexpected body: %q", heredocTok.HeredocBody)
	}
}

func TestHeredocFIFOOrder(t *testing.T) {
	input := "cat <<A <<B\nfirst\nA\nsecond\nB\n"
	out := tokenize(t, input)
	var bodies []string
	for _, tok := range out {
		if tok.Type == token.DLESS {
			bodies = append(bodies, tok.HeredocBody)
		}
	}
	if len(bodies) != 2 {
		t.Fatalf("expected 2 heredoc tokens, got %d", len(bodies))
	}
	if bodies[0] != "first\n" || bodies[1] != "second\n" {
		t.Fatalf("unexpected FIFO bodies: %q, %q", bodies[0], bodies[1])
	}
}

func TestCommentSkipped(t *testing.T) {
	out := tokenize(t, "echo hi # this is a comment\n")
	var types []token.Type
	for _, tok := range out {
		types = append(types, tok.Type)
	}
	want := []token.Type{token.WORD, token.WORD, token.NEWLINE, token.EOF}
	if len(types) != len(want) {
		t.Fatalf("got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, types[i], want[i])
		}
	}
}

func TestLineContinuation(t *testing.T) {
	out := tokenize(t, "echo \\\nhi\n")
	if len(out) != 4 || out[0].Type != token.WORD || out[1].Type != token.WORD {
		t.Fatalf("unexpected tokens: %+v", out)
	}
}

func TestStreamingIncomplete(t *testing.T) {
	l := NewStreaming()
	l.AppendInput("echo 'hello")
	var out []token.Token
	if status := l.Tokenize(&out); status != Incomplete {
		t.Fatalf("expected Incomplete, got %v", status)
	}
	l.AppendInput(" world'\n")
	l.Close()
	if status := l.Tokenize(&out); status != OK {
		t.Fatalf("expected OK, got %v: %s", status, l.ErrorMessage())
	}
	if out[1].Parts[0].Literal != "hello world" {
		t.Fatalf("unexpected literal: %q", out[1].Parts[0].Literal)
	}
}

func TestUnterminatedSingleQuoteIsError(t *testing.T) {
	l := New("'unterminated")
	var out []token.Token
	if status := l.Tokenize(&out); status != Error {
		t.Fatalf("expected Error, got %v", status)
	}
}

func TestTrailingBackslashIsError(t *testing.T) {
	l := New("echo \\")
	var out []token.Token
	if status := l.Tokenize(&out); status != Error {
		t.Fatalf("expected Error, got %v", status)
	}
}

func TestTildeExpansionPart(t *testing.T) {
	out := tokenize(t, "~alice/bin")
	if len(out[0].Parts) != 2 || out[0].Parts[0].Kind != token.PartTilde || out[0].Parts[0].TildeName != "alice" {
		t.Fatalf("unexpected parts: %+v", out[0].Parts)
	}
}

func TestBacktickCommandSubstitution(t *testing.T) {
	out := tokenize(t, "echo `echo hi`")
	sub := out[1]
	if sub.Parts[0].Kind != token.PartCommandSub || sub.Parts[0].CmdRaw != "echo hi" {
		t.Fatalf("unexpected part: %+v", sub.Parts[0])
	}
}
