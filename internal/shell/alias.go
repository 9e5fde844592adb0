package shell

import "strings"

// invalidAliasBytes are the bytes spec §3.6 excludes from a valid alias
// name: space, tab, newline, `$`, `=`, `#`, `&`, `*`.
const invalidAliasBytes = " \t\n$=#&*"

// ValidAliasName reports whether name is non-empty and free of the bytes
// spec §3.6 reserves.
func ValidAliasName(name string) bool {
	return name != "" && !strings.ContainsAny(name, invalidAliasBytes)
}

// AliasStore is the shell's name-to-replacement-text table (spec §3.6).
// It implements internal/parser.AliasLookup directly, so a Shell's
// *AliasStore can be handed to parser.New/parser.Parse without an
// adapter.
type AliasStore struct {
	order []string
	vals  map[string]string
}

// NewAliasStore creates an empty alias store.
func NewAliasStore() *AliasStore {
	return &AliasStore{vals: map[string]string{}}
}

// Lookup implements internal/parser.AliasLookup.
func (s *AliasStore) Lookup(name string) (string, bool) {
	v, ok := s.vals[name]
	return v, ok
}

// Set defines or replaces an alias.
func (s *AliasStore) Set(name, value string) {
	if _, ok := s.vals[name]; !ok {
		s.order = append(s.order, name)
	}
	s.vals[name] = value
}

// Remove deletes an alias definition; a no-op if name isn't defined.
func (s *AliasStore) Remove(name string) {
	if _, ok := s.vals[name]; !ok {
		return
	}
	delete(s.vals, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Names returns every alias name in definition order.
func (s *AliasStore) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Clone returns a deep copy, for subshell snapshotting.
func (s *AliasStore) Clone() *AliasStore {
	c := NewAliasStore()
	c.order = append(c.order, s.order...)
	for k, v := range s.vals {
		c.vals[k] = v
	}
	return c
}
