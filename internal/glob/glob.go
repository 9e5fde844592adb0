// Package glob implements shell pattern matching (spec §4.3 stage 4
// pathname expansion, §4.3.1's pattern-removal forms, and case-clause
// pattern matching) — the `* ? [...]` pattern language POSIX calls
// "patterns", distinct from regular expressions.
//
// No pack repo ships a shell-glob-semantics library: go-dws has no
// filesystem pattern concept at all, and Go's own path/filepath.Match
// is close but not quite this grammar (it additionally treats `/` and
// escaping differently across platforms, and doesn't expose the
// shortest/longest-match split §4.3.1's `#`/`##`/`%`/`%%` forms need).
// This package is accordingly hand-written, grounded directly on
// POSIX.1-2024's pattern-matching notation rather than on any retrieved
// source (see DESIGN.md).
package glob

import "strings"

// Match reports whether name matches pattern under shell pattern rules:
// `*` matches any run of bytes (including none), `?` matches exactly one
// byte, and `[...]` matches any one byte from the bracket expression
// (`[!...]`/`[^...]` negate it; a leading `]` or a `-` at either end is
// literal). A backslash escapes the following byte, making it literal.
func Match(pattern, name string) bool {
	return matchFrom(pattern, name)
}

func matchFrom(pattern, name string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			// Collapse consecutive `*` and try every suffix of name,
			// shortest match first isn't required here (Match is a
			// yes/no predicate), so first success wins.
			pattern = pattern[1:]
			if pattern == "" {
				return true
			}
			for i := 0; i <= len(name); i++ {
				if matchFrom(pattern, name[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(name) == 0 {
				return false
			}
			pattern = pattern[1:]
			name = name[1:]
		case '[':
			end, ok := bracketEnd(pattern)
			if !ok {
				// Unterminated bracket: POSIX treats `[` as literal.
				if len(name) == 0 || name[0] != '[' {
					return false
				}
				pattern = pattern[1:]
				name = name[1:]
				continue
			}
			if len(name) == 0 {
				return false
			}
			if !matchBracket(pattern[1:end], name[0]) {
				return false
			}
			pattern = pattern[end+1:]
			name = name[1:]
		case '\\':
			if len(pattern) > 1 {
				pattern = pattern[1:]
			}
			if len(name) == 0 || name[0] != pattern[0] {
				return false
			}
			pattern = pattern[1:]
			name = name[1:]
		default:
			if len(name) == 0 || name[0] != pattern[0] {
				return false
			}
			pattern = pattern[1:]
			name = name[1:]
		}
	}
	return len(name) == 0
}

// bracketEnd finds the index of the `]` that closes the bracket
// expression starting at pattern[0] == '['. A `]` immediately after `[`
// or `[!`/`[^` is literal, not a terminator.
func bracketEnd(pattern string) (int, bool) {
	i := 1
	if i < len(pattern) && (pattern[i] == '!' || pattern[i] == '^') {
		i++
	}
	if i < len(pattern) && pattern[i] == ']' {
		i++
	}
	for i < len(pattern) {
		if pattern[i] == ']' {
			return i, true
		}
		i++
	}
	return 0, false
}

// matchBracket tests b against a bracket expression's contents (the
// bytes strictly between `[` and its closing `]`).
func matchBracket(expr string, b byte) bool {
	negate := false
	if len(expr) > 0 && (expr[0] == '!' || expr[0] == '^') {
		negate = true
		expr = expr[1:]
	}
	matched := false
	for i := 0; i < len(expr); i++ {
		if expr[i] == '-' && i > 0 && i+1 < len(expr) {
			lo, hi := expr[i-1], expr[i+1]
			if lo <= hi && b >= lo && b <= hi {
				matched = true
			}
			i++
			continue
		}
		if expr[i] == b {
			matched = true
		}
	}
	return matched != negate
}

// HasMeta reports whether s contains any unescaped pattern metacharacter,
// the check the expander uses (spec §4.3 stage 4) to decide whether a
// field's pathname-expansion flag is even worth testing against the
// filesystem.
func HasMeta(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[':
			return true
		case '\\':
			i++
		}
	}
	return false
}

// TrimPrefix removes a matching prefix of s using pattern, per spec
// §4.3.1's `${name#pat}`/`${name##pat}`. shortest selects the `#` form
// (shortest matching prefix); otherwise the `##` form (longest) is used.
func TrimPrefix(s, pattern string, shortest bool) string {
	if shortest {
		for i := 0; i <= len(s); i++ {
			if matchFrom(pattern, s[:i]) {
				return s[i:]
			}
		}
		return s
	}
	for i := len(s); i >= 0; i-- {
		if matchFrom(pattern, s[:i]) {
			return s[i:]
		}
	}
	return s
}

// TrimSuffix removes a matching suffix of s using pattern, per spec
// §4.3.1's `${name%pat}`/`${name%%pat}`. shortest selects the `%` form
// (shortest matching suffix); otherwise the `%%` form (longest).
func TrimSuffix(s, pattern string, shortest bool) string {
	if shortest {
		for i := len(s); i >= 0; i-- {
			if matchFrom(pattern, s[i:]) {
				return s[:i]
			}
		}
		return s
	}
	for i := 0; i <= len(s); i++ {
		if matchFrom(pattern, s[i:]) {
			return s[:i]
		}
	}
	return s
}

// SplitPath breaks a pathname pattern into its `/`-separated components,
// used by the expander to glob one directory level at a time instead of
// matching the whole path as one opaque string (a literal component,
// e.g. `usr`, is never re-tested against the filesystem as a pattern).
func SplitPath(pattern string) []string {
	return strings.Split(pattern, "/")
}
