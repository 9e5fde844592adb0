// Command posh is a POSIX-compliant shell command-language interpreter.
package main

import (
	"os"

	"github.com/poshlang/posh/cmd/posh/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
