package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/starlight-tv/bsc/internal/lexer"
)

var (
	showPos  bool
	showKind bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a source file",
	Long: `Tokenize a source file and print the resulting tokens, for debugging
the lexer or for editor tooling that needs a raw token stream.`,
	Args: cobra.ExactArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showKind, "show-kind", false, "show token kind names")
}

func runLex(cmd *cobra.Command, args []string) error {
	fileName := args[0]
	src, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", fileName, err)
	}

	lex, err := lexer.New(string(src), lexer.WithFileName(fileName))
	if err != nil {
		return fmt.Errorf("failed to initialise lexer: %w", err)
	}

	tokens := lex.TokenizeAll()
	if jsonOutput {
		return printTokensJSON(tokens)
	}
	for _, tok := range tokens {
		printToken(tok)
		if tok.Kind == lexer.Eof {
			break
		}
	}
	if len(lex.Diagnostics) > 0 {
		return fmt.Errorf("found %d lexical error(s)", len(lex.Diagnostics))
	}
	return nil
}

func printToken(tok lexer.Token) {
	output := ""
	if showKind {
		output += fmt.Sprintf("[%-14s]", tok.Kind.String())
	}
	output += fmt.Sprintf(" %q", tok.Text)
	if showPos {
		output += fmt.Sprintf(" @%d:%d", tok.Range.Start.Line, tok.Range.Start.Column)
	}
	fmt.Println(output)
}

func printTokensJSON(tokens []lexer.Token) error {
	doc := "[]"
	for i, tok := range tokens {
		var err error
		base := fmt.Sprintf("%d.", i)
		doc, err = sjson.Set(doc, base+"kind", tok.Kind.String())
		if err != nil {
			return err
		}
		doc, err = sjson.Set(doc, base+"text", tok.Text)
		if err != nil {
			return err
		}
		doc, err = sjson.Set(doc, base+"line", tok.Range.Start.Line)
		if err != nil {
			return err
		}
		doc, err = sjson.Set(doc, base+"column", tok.Range.Start.Column)
		if err != nil {
			return err
		}
	}
	fmt.Println(doc)
	return nil
}
