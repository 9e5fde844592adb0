package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "posh [-abCefmnuvx] [-o option]... [-c command_string | -s | script_file] [argument...]",
	Short: "posh is a POSIX-compliant shell",
	Long: `posh is a Go implementation of a POSIX.1-2024 "sh" command-language
interpreter: lexer, grammar-driven parser and tree-walking executor,
built-ins, job control and parameter/command/arithmetic expansion.

Invoked with no script_file and no -c/-s, it reads and executes commands
from its own standard input.`,
	Version: Version,
	// The shell's own option syntax (bundled single-dash booleans, "+"
	// negation, "-o name") isn't expressible by pflag, so option parsing
	// is done by hand in runInvocation; cobra is only asked to route
	// between this command and the lex/parse debug subcommands.
	DisableFlagParsing: true,
	Args:               cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInvocation(args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitCode carries a RunE's desired process exit status without forcing
// cobra's own error-printing path (a nonzero $? is not a usage error).
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

// Execute runs the root command and returns the process exit status.
func Execute() int {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	if err := rootCmd.Execute(); err != nil {
		var code exitCode
		if ec, ok := err.(exitCode); ok {
			code = ec
		} else {
			fmt.Fprintln(os.Stderr, "posh:", err)
			code = 2
		}
		return int(code)
	}
	return 0
}
