package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/poshlang/posh/internal/ast"
	"github.com/poshlang/posh/internal/lexer"
	"github.com/poshlang/posh/internal/parser"
	"github.com/poshlang/posh/internal/token"
	"github.com/spf13/cobra"
)

var parseEval string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse shell source and print its syntax tree",
	Long: `Parse shell source and print the resulting syntax tree.

If no file is given and -e isn't used, source is read from standard input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse an inline string instead of reading from a file")
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	src, err := readSource(parseEval, args)
	if err != nil {
		return err
	}

	lx := lexer.New(src)
	var toks []token.Token
	if status := lx.Tokenize(&toks); status == lexer.Error {
		fmt.Fprintf(os.Stderr, "lex error at %s: %s\n", lx.ErrorLocation(), lx.ErrorMessage())
		return exitCode(2)
	}

	prog, status, perr := parser.Parse(toks, nil)
	if status == parser.Error {
		fmt.Fprintf(os.Stderr, "parse error at %s: %s\n", perr.Pos, perr.Message)
		return exitCode(2)
	}

	dumpNode(prog, 0)
	return nil
}

// dumpNode renders the syntax tree produced by parser.Parse as an
// indented outline, one compound-command node per line, descending into
// every child List/AndOr/Pipeline/Command field.
func dumpNode(n any, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := n.(type) {
	case *ast.Program:
		fmt.Printf("%sProgram (%d command(s))\n", indent, len(v.Commands))
		for _, c := range v.Commands {
			dumpNode(c, depth+1)
		}
	case *ast.List:
		fmt.Printf("%sList (%d item(s))\n", indent, len(v.Items))
		for _, item := range v.Items {
			suffix := ""
			if item.Async {
				suffix = " &"
			}
			fmt.Printf("%s  item%s:\n", indent, suffix)
			dumpNode(item.AndOr, depth+2)
		}
	case *ast.AndOr:
		dumpNode(v.First, depth)
		for _, t := range v.Rest {
			fmt.Printf("%s%s\n", indent, t.Op)
			dumpNode(t.Pipeline, depth)
		}
	case *ast.Pipeline:
		neg := ""
		if v.Negate {
			neg = "! "
		}
		fmt.Printf("%sPipeline %s(%d stage(s))\n", indent, neg, len(v.Commands))
		for _, c := range v.Commands {
			dumpNode(c, depth+1)
		}
	case *ast.SimpleCommand:
		fmt.Printf("%sSimpleCommand", indent)
		if v.Name != nil {
			fmt.Printf(" %q", v.Name.Literal)
		}
		for _, a := range v.Args {
			fmt.Printf(" %q", a.Literal)
		}
		fmt.Println()
		for _, asn := range v.Assignments {
			fmt.Printf("%s  %s=%q\n", indent, asn.Name, asn.Value.Literal)
		}
		dumpRedirects(indent, v.Redirects)
	case *ast.Subshell:
		fmt.Printf("%sSubshell\n", indent)
		dumpNode(v.Body, depth+1)
		dumpRedirects(indent, v.Redirects)
	case *ast.BraceGroup:
		fmt.Printf("%sBraceGroup\n", indent)
		dumpNode(v.Body, depth+1)
		dumpRedirects(indent, v.Redirects)
	case *ast.IfClause:
		fmt.Printf("%sIfClause\n", indent)
		fmt.Printf("%s  cond:\n", indent)
		dumpNode(v.Cond, depth+2)
		fmt.Printf("%s  then:\n", indent)
		dumpNode(v.Then, depth+2)
		for _, e := range v.Elifs {
			fmt.Printf("%s  elif:\n", indent)
			dumpNode(e.Cond, depth+2)
			dumpNode(e.Then, depth+2)
		}
		if v.Else != nil {
			fmt.Printf("%s  else:\n", indent)
			dumpNode(v.Else, depth+2)
		}
		dumpRedirects(indent, v.Redirects)
	case *ast.WhileClause:
		fmt.Printf("%sWhileClause\n", indent)
		dumpNode(v.Cond, depth+1)
		dumpNode(v.Body, depth+1)
		dumpRedirects(indent, v.Redirects)
	case *ast.UntilClause:
		fmt.Printf("%sUntilClause\n", indent)
		dumpNode(v.Cond, depth+1)
		dumpNode(v.Body, depth+1)
		dumpRedirects(indent, v.Redirects)
	case *ast.ForClause:
		words := make([]string, len(v.Words))
		for i, w := range v.Words {
			words[i] = w.Literal
		}
		fmt.Printf("%sForClause %s in [%s] (hasIn=%v)\n", indent, v.Name, strings.Join(words, " "), v.HasIn)
		dumpNode(v.Body, depth+1)
		dumpRedirects(indent, v.Redirects)
	case *ast.CaseClause:
		fmt.Printf("%sCaseClause %q\n", indent, v.Word.Literal)
		for _, item := range v.Items {
			pats := make([]string, len(item.Patterns))
			for i, p := range item.Patterns {
				pats[i] = p.Literal
			}
			fmt.Printf("%s  pattern %s:\n", indent, strings.Join(pats, "|"))
			if item.Body != nil {
				dumpNode(item.Body, depth+2)
			}
		}
		dumpRedirects(indent, v.Redirects)
	case *ast.FunctionDefinition:
		fmt.Printf("%sFunctionDefinition %s()\n", indent, v.Name)
		dumpNode(v.Body, depth+1)
		dumpRedirects(indent, v.Redirects)
	default:
		fmt.Printf("%s%T\n", indent, n)
	}
}

func dumpRedirects(indent string, redirects []*ast.Redirect) {
	for _, r := range redirects {
		if r.Target != nil {
			fmt.Printf("%s  redirect %s %s\n", indent, r.Op, r.Target.Literal)
			continue
		}
		fmt.Printf("%s  redirect %s <<heredoc>>\n", indent, r.Op)
	}
}
