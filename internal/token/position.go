package token

import "fmt"

// Position identifies a byte offset in the source together with its
// 1-indexed line and column (column counts runes, not display width,
// matching the convention the rest of this port uses for diagnostics).
type Position struct {
	Line   int
	Column int
	Offset int
}

// String renders the position as "line:column" for error messages.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position was ever set (the zero Position is
// used as a sentinel for synthetic/unknown locations).
func (p Position) IsValid() bool { return p.Line > 0 }
