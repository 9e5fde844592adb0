package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/poshlang/posh/internal/lexer"
	"github.com/poshlang/posh/internal/token"
	"github.com/spf13/cobra"
)

var (
	lexEval    string
	lexShowPos bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize shell source and print the resulting tokens",
	Long: `Tokenize (lex) shell source and print the resulting tokens, one per
line. Useful for debugging the lexer and inspecting how a piece of shell
source is split into words, operators and reserved words.

If no file is given and -e isn't used, source is read from standard input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline source instead of reading from a file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show each token's line:column")
}

func runLex(cmd *cobra.Command, args []string) error {
	src, err := readSource(lexEval, args)
	if err != nil {
		return err
	}

	lx := lexer.New(src)
	var toks []token.Token
	status := lx.Tokenize(&toks)

	for _, tok := range toks {
		printToken(tok)
	}
	if status == lexer.Error {
		fmt.Fprintf(os.Stderr, "lex error at %s: %s\n", lx.ErrorLocation(), lx.ErrorMessage())
		return exitCode(2)
	}
	return nil
}

func printToken(tok token.Token) {
	var out string
	if tok.Type == token.EOF {
		out = "EOF"
	} else {
		out = fmt.Sprintf("%-14s %q", tok.Type, tok.Literal)
	}
	if lexShowPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(out)
}

// readSource picks a lex/parse subcommand's input: -e's inline string,
// the named file, or standard input.
func readSource(eval string, args []string) (string, error) {
	if eval != "" {
		return eval, nil
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
