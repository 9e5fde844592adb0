package shell

import "github.com/poshlang/posh/internal/expand"

// shellEnv adapts *Shell to internal/expand.Env. It exists as a separate
// type rather than methods directly on Shell because Host.Positional()
// and Env.Positional(n int) share a name but not a signature — Go has no
// method overloading, so the two interfaces can't both be satisfied by
// the same set of exported methods.
type shellEnv struct{ s *Shell }

// Env returns the internal/expand.Env view of s.
func (s *Shell) Env() expand.Env { return shellEnv{s} }

func (e shellEnv) Get(name string) (string, bool) { return e.s.Getvar(name) }

func (e shellEnv) Set(name, value string) {
	if err := e.s.Setvar(name, value); err != nil {
		e.s.ReportError(err.Error())
	}
}

func (e shellEnv) Positional(n int) (string, bool) { return e.s.positionalAt(n) }

func (e shellEnv) NumPositional() int { return len(e.s.positional) }

func (e shellEnv) IFS() string {
	if v, ok := e.s.vars.Get("IFS"); ok {
		return v
	}
	return " \t\n"
}

func (e shellEnv) NoGlob() bool { return e.s.options.Get('f') }

func (e shellEnv) CommandSubst(src string) (string, error) { return e.s.commandSubst(src) }

func (e shellEnv) ExitStatus() int { return e.s.lastStatus }

func (e shellEnv) ReportError(message string) { e.s.ReportError(message) }

// ReportError records an expansion failure (spec §4.3 ${name:?word},
// §7's expansion-error row): printed to stderr, and left for the
// executor to turn into an aborted command with status 1.
func (s *Shell) ReportError(message string) {
	s.lastExpandErr = message
}
