package builtins

import "github.com/poshlang/posh/internal/jobs"

// Host is the shell-state surface a builtin is allowed to touch.
// internal/shell.Shell implements this; builtins never see the concrete
// type (see the package doc for why).
type Host interface {
	// Variables (spec §6.3: set, unset, export, readonly).
	Getvar(name string) (string, bool)
	Setvar(name, value string) error
	Unsetvar(name string) error
	UnsetFunc(name string)
	Export(name string) error
	Unexport(name string)
	MarkReadOnly(name string) error
	IsReadOnly(name string) bool
	IsExported(name string) bool
	VarNames() []string // insertion order
	Environ() []string  // "NAME=value" pairs for exported vars, for exec/external commands

	// Positional parameters and $0 (spec §6.3: shift, set).
	Positional() []string
	SetPositional(args []string)
	ShellName() string
	SetShellName(name string)

	// Working directory (spec §6.3: cd, pwd).
	Getwd() string
	Chdir(path string) error
	OldPwd() string

	// Exit status and options (spec §6.3: set, exit).
	LastStatus() int
	SetLastStatus(int)
	SetOption(flag byte, on bool) error
	Option(flag byte) bool
	OptionString() string // the "set -o"-style summary, e.g. "-e" flags currently on

	// Aliases (spec §6.3: alias, unalias).
	SetAlias(name, value string)
	RemoveAlias(name string)
	Alias(name string) (string, bool)
	AliasNames() []string

	// Functions (spec §6.3: command lookup for `type`/`command -v`).
	HasFunction(name string) bool
	FunctionNames() []string

	// Traps (spec §6.3: trap).
	SetTrap(cond, action string) error
	ClearTrap(cond string)
	Traps() map[string]string

	// eval/`.`/exec (spec §6.3).
	Eval(src string, io IO) int
	Source(path string, args []string, io IO) (int, error)
	Exec(name string, args []string, io IO) (int, error)

	// Jobs (spec §6.3: jobs, fg, bg, wait, kill, and $!).
	Jobs() *jobs.Table

	// Umask (spec §6.3).
	Umask(newMask int, set bool) int

	// Times (spec §6.3).
	Times() (userSelf, sysSelf, userChildren, sysChildren string)

	// Interactive guides whether a special builtin's
	// error should terminate the shell (spec §4.4/§7).
	Interactive() bool
}
