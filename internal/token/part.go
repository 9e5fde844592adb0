package token

// PartKind identifies which of the five part shapes a Part carries
// (spec §3.3). Parts are a closed, tagged variant the same way the syntax
// tree's node payloads are (§3.5) — every Part records its own kind so
// that no caller ever has to guess a shape from which fields are set.
type PartKind int

const (
	PartLiteral PartKind = iota
	PartParameter
	PartCommandSub
	PartArithmetic
	PartTilde
)

// ParamSubKind enumerates the `${...}` complex forms from spec §4.3.1.
type ParamSubKind int

const (
	ParamPlain         ParamSubKind = iota // $name or ${name}
	ParamLength                           // ${#name}
	ParamUseDefault                       // ${name:-word}
	ParamUseDefaultNC                     // ${name-word} (no-colon variant)
	ParamAssignDefault                    // ${name:=word}
	ParamAssignNC                         // ${name=word}
	ParamIndicateError                    // ${name:?word}
	ParamIndicateNC                       // ${name?word}
	ParamUseAlternative                   // ${name:+word}
	ParamUseAlternateNC                   // ${name+word}
	ParamPrefixShort                      // ${name#pat}
	ParamPrefixLong                       // ${name##pat}
	ParamSuffixShort                      // ${name%pat}
	ParamSuffixLong                       // ${name%%pat}
)

// Part is one segment of a WORD's content (spec §3.3). It is a tagged
// variant: Kind says which of the fields below are meaningful.
type Part struct {
	Kind PartKind

	// SingleQuoted/DoubleQuoted record the quoting context the part was
	// read in. SingleQuoted only ever applies to PartLiteral (nothing
	// expands inside single quotes); DoubleQuoted applies to every kind,
	// since a parameter/command/arithmetic expansion occurring inside
	// double quotes must still skip field splitting and pathname
	// expansion (spec §4.3 stages 3-4).
	SingleQuoted bool
	DoubleQuoted bool

	// Escaped marks a literal built from a backslash escape outside any
	// quotes. It does not count as quoted for splitting/globbing
	// purposes, but per spec §4.1 it does mark the owning token
	// was_quoted.
	Escaped bool

	// PartLiteral
	Literal string

	// PartParameter
	ParamName string
	ParamSub  ParamSubKind
	ParamWord []Token // the "word" to the right of :-, :=, etc. (nested token list)

	// PartCommandSub
	CmdRaw    string  // raw inner text, reparsed lazily by the expander
	CmdTokens []Token // never set by this lexer, which fills CmdRaw for both $(...) and backticks

	// PartArithmetic
	ArithRaw string

	// PartTilde
	TildeName string // login name after ~, empty for a bare ~
}

// IsQuoted reports whether this part originated inside any quoting
// context, used to decide whether field splitting and pathname expansion
// apply to the field it contributes to (spec §4.3 stages 3-4).
func (p Part) IsQuoted() bool { return p.SingleQuoted || p.DoubleQuoted }
