package shell

// Subshell returns a logically independent snapshot of s for `( ... )`
// and command substitution (spec §3.6: variable/alias/function/fd
// tables are cloned; traps reset to default except those set to
// ignore). The clone shares the parent's job table and process —
// Go has no fork(2), so "subshell" here means "separate Shell state
// walking the same AST inside the same OS process/goroutine", not a
// separate address space; external commands spawned from within it are
// still real child processes.
func (s *Shell) Subshell() *Shell {
	c := &Shell{
		vars:        s.vars.Clone(),
		positional:  append([]string(nil), s.positional...),
		shellName:   s.shellName,
		aliases:     s.aliases.Clone(),
		functions:   s.functions.Clone(),
		fds:         s.fds.Clone(),
		traps:       resetTraps(s.traps),
		options:     s.options.Clone(),
		jobTable:    s.jobTable,
		lastStatus:  s.lastStatus,
		umaskVal:    s.umaskVal,
		interactive: s.interactive,
	}
	return c
}

// resetTraps implements spec §3.6's "subshell traps reset to default
// except those set to ignore" rule: every trap whose action isn't the
// empty-string ignore sentinel is dropped.
func resetTraps(t *TrapStore) *TrapStore {
	c := t.Clone()
	for cond, action := range c.All() {
		if action != "" {
			c.Clear(cond)
		}
	}
	return c
}
