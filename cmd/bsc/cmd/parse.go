package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/starlight-tv/bsc/internal/diagnostics"
	"github.com/starlight-tv/bsc/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a source file and report diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	fileName := args[0]
	src, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", fileName, err)
	}

	prog, bag := parser.Parse(string(src), fileName)
	reportDiagnostics(bag.All(), map[string]string{fileName: string(src)})

	if !jsonOutput && !bag.HasErrors() {
		fmt.Printf("%s: parsed %d top-level statement(s)\n", fileName, len(prog.Statements))
	}
	os.Exit(exitCode(bag.HasErrors()))
	return nil
}

func reportDiagnostics(diags []diagnostics.Diagnostic, sources map[string]string) {
	if jsonOutput {
		for _, d := range diags {
			js, err := d.JSON()
			if err != nil {
				continue
			}
			fmt.Println(js)
		}
		return
	}
	if out := diagnostics.FormatAll(diags, sources); out != "" {
		fmt.Print(out)
	}
}
