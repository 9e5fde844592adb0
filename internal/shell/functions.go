package shell

import "github.com/poshlang/posh/internal/ast"

// FunctionStore is the shell's name-to-body table (spec §3.6), grounded
// on the teacher's `functions map[string]*ast.FunctionDecl` field
// (internal/interp/interpreter.go), generalized from DWScript function
// declarations to a shell compound command body.
type FunctionStore struct {
	order []string
	defs  map[string]ast.Command
}

// NewFunctionStore creates an empty function store.
func NewFunctionStore() *FunctionStore {
	return &FunctionStore{defs: map[string]ast.Command{}}
}

// Define binds name to body, replacing any prior definition.
func (s *FunctionStore) Define(name string, body ast.Command) {
	if _, ok := s.defs[name]; !ok {
		s.order = append(s.order, name)
	}
	s.defs[name] = body
}

// Lookup returns a function's body, or (nil, false) if undefined.
func (s *FunctionStore) Lookup(name string) (ast.Command, bool) {
	b, ok := s.defs[name]
	return b, ok
}

// Unset removes a function definition.
func (s *FunctionStore) Unset(name string) {
	if _, ok := s.defs[name]; !ok {
		return
	}
	delete(s.defs, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Names returns every function name in definition order.
func (s *FunctionStore) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Clone returns a shallow copy: function bodies are immutable syntax
// trees shared between a subshell and its parent, only the name table
// itself is copied.
func (s *FunctionStore) Clone() *FunctionStore {
	c := NewFunctionStore()
	c.order = append(c.order, s.order...)
	for k, v := range s.defs {
		c.defs[k] = v
	}
	return c
}
