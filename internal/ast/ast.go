// Package ast defines the syntax tree node types the parser builds from a
// shell token stream (spec §3.5). Every node kind in the POSIX grammar's
// generic-node sense becomes its own concrete Go struct — Go's type
// system is the tagged variant, so there is never a node whose shape is
// decided at runtime (see DESIGN.md's Open Question notes on
// "indeterminate" payloads).
package ast

import "github.com/poshlang/posh/internal/token"

// Node is the base interface every syntax tree node implements.
type Node interface {
	Pos() token.Position
	String() string
}

// Word is a single shell word, carried through unchanged from the token
// stream into the tree (its Parts are exactly spec §3.3's five-kind
// sequence); the parser never re-shapes it.
type Word = token.Token

// Command is any node that can appear as a pipe_sequence element: a
// simple command, one of the compound-command forms, or a function
// definition.
type Command interface {
	Node
	commandNode()
}

// Program is the root node (spec §3.5 "program"): a sequence of complete
// commands, each a List.
type Program struct {
	Commands []*List
	Position token.Position
}

func (p *Program) Pos() token.Position { return p.Position }
func (p *Program) String() string      { return "program" }

// List is spec §3.5's "list"/"complete-command": an ordered sequence of
// and-or chains, each followed by its own separator (`;` sequences
// unconditionally, `&` backgrounds).
type List struct {
	Items    []ListItem
	Position token.Position
}

// ListItem pairs one and-or chain with the separator that followed it.
// Async is true when the separator was `&`; the final item in a List may
// have no trailing separator at all, in which case Async is false and
// Explicit is false.
type ListItem struct {
	AndOr    *AndOr
	Async    bool
	Explicit bool // whether a separator token was actually present
}

func (l *List) Pos() token.Position { return l.Position }
func (l *List) String() string      { return "list" }

// AndOr is spec §3.5's "and-or": a pipeline followed by zero or more
// `&&`/`||`-joined pipelines, left-associative.
type AndOr struct {
	First    *Pipeline
	Rest     []AndOrTerm
	Position token.Position
}

// AndOrTerm is one `&&`/`||` step.
type AndOrTerm struct {
	Op       token.Type // AND_IF or OR_IF
	Pipeline *Pipeline
}

func (a *AndOr) Pos() token.Position { return a.Position }
func (a *AndOr) String() string      { return "and-or" }

// Pipeline is spec §3.5's "pipeline"/"pipe-sequence": one or more
// commands connected by `|`, with an optional leading `!` that inverts
// the overall exit status.
type Pipeline struct {
	Negate   bool
	Commands []Command
	Position token.Position
}

func (p *Pipeline) Pos() token.Position { return p.Position }
func (p *Pipeline) String() string      { return "pipeline" }

// Assignment is one `name=value` pair, used both as a simple command's
// leading assignment prefix and as the payload of an ASSIGNMENT_WORD.
type Assignment struct {
	Name     string
	Value    *Word
	Position token.Position
}

// SimpleCommand is spec §3.5's "simple-command": leading assignments,
// an optional command name and arguments, and redirections interleaved
// anywhere among them (order matters for `2>&1 cmd` vs `cmd 2>&1`, so
// the parser records Redirects separately but in encounter order via
// Redirect.Seq).
type SimpleCommand struct {
	Assignments []*Assignment
	Name        *Word
	Args        []*Word
	Redirects   []*Redirect
	Position    token.Position
}

func (s *SimpleCommand) commandNode()           {}
func (s *SimpleCommand) Pos() token.Position    { return s.Position }
func (s *SimpleCommand) String() string         { return "simple-command" }

// Redirect is spec §3.5's "io-redirect"/"io-file"/"io-here".
type Redirect struct {
	Seq            int  // encounter order, for faithful fd-table replay
	HasIONumber    bool
	IONumber       int
	HasIOLocation  bool
	IOLocation     string
	Op             token.Type // LESS, GREAT, DGREAT, LESSAND, GREATAND, LESSGREAT, CLOBBER, DLESS, DLESSDASH
	Target         *Word      // filename, or the fd/`-` word for *AND forms
	HeredocBody    string
	HeredocQuoted  bool
	Position       token.Position
}

func (r *Redirect) Pos() token.Position { return r.Position }
func (r *Redirect) String() string      { return "io-redirect" }

// Subshell is spec §3.5's "subshell": `( list )`, run in a cloned state.
type Subshell struct {
	Body      *List
	Redirects []*Redirect
	Position  token.Position
}

func (s *Subshell) commandNode()        {}
func (s *Subshell) Pos() token.Position { return s.Position }
func (s *Subshell) String() string      { return "subshell" }

// BraceGroup is spec §3.5's "brace-group": `{ list ; }`, run in the
// current state.
type BraceGroup struct {
	Body      *List
	Redirects []*Redirect
	Position  token.Position
}

func (b *BraceGroup) commandNode()        {}
func (b *BraceGroup) Pos() token.Position { return b.Position }
func (b *BraceGroup) String() string      { return "brace-group" }

// ElifClause is one `elif cond; then body` arm of an IfClause.
type ElifClause struct {
	Cond *List
	Then *List
}

// IfClause is spec §3.5's "if-clause".
type IfClause struct {
	Cond      *List
	Then      *List
	Elifs     []ElifClause
	Else      *List // nil if no else-body
	Redirects []*Redirect
	Position  token.Position
}

func (i *IfClause) commandNode()        {}
func (i *IfClause) Pos() token.Position { return i.Position }
func (i *IfClause) String() string      { return "if-clause" }

// WhileClause is spec §3.5's "while-clause".
type WhileClause struct {
	Cond      *List
	Body      *List
	Redirects []*Redirect
	Position  token.Position
}

func (w *WhileClause) commandNode()        {}
func (w *WhileClause) Pos() token.Position { return w.Position }
func (w *WhileClause) String() string      { return "while-clause" }

// UntilClause is spec §3.5's "until-clause".
type UntilClause struct {
	Cond      *List
	Body      *List
	Redirects []*Redirect
	Position  token.Position
}

func (u *UntilClause) commandNode()        {}
func (u *UntilClause) Pos() token.Position { return u.Position }
func (u *UntilClause) String() string      { return "until-clause" }

// ForClause is spec §3.5's "for-clause". HasIn distinguishes `for x; do`
// (iterate over positional parameters) from `for x in ...; do` with an
// explicitly empty word list — both have Words == nil but differ in
// semantics per spec §4.4.
type ForClause struct {
	Name      string
	HasIn     bool
	Words     []*Word
	Body      *List
	Redirects []*Redirect
	Position  token.Position
}

func (f *ForClause) commandNode()        {}
func (f *ForClause) Pos() token.Position { return f.Position }
func (f *ForClause) String() string      { return "for-clause" }

// CaseItem is spec §3.5's "case-item"/"case-item-ns": one `pattern) body`
// arm. Body is nil for an empty arm (`pattern) ;;`).
type CaseItem struct {
	Patterns []*Word
	Body     *List
}

// CaseClause is spec §3.5's "case-clause".
type CaseClause struct {
	Word      *Word
	Items     []*CaseItem
	Redirects []*Redirect
	Position  token.Position
}

func (c *CaseClause) commandNode()        {}
func (c *CaseClause) Pos() token.Position { return c.Position }
func (c *CaseClause) String() string      { return "case-clause" }

// FunctionDefinition is spec §3.5's "function-definition": `name() body`.
type FunctionDefinition struct {
	Name      string
	Body      Command // Subshell, BraceGroup, or any compound command
	Redirects []*Redirect
	Position  token.Position
}

func (f *FunctionDefinition) commandNode()        {}
func (f *FunctionDefinition) Pos() token.Position { return f.Position }
func (f *FunctionDefinition) String() string      { return "function-definition" }
