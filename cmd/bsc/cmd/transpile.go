package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/starlight-tv/bsc/pkg/program"
)

var writeSourceMap bool

var transpileCmd = &cobra.Command{
	Use:   "transpile [files...]",
	Short: "Lower S-dialect source files to L-dialect text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTranspile,
}

func init() {
	rootCmd.AddCommand(transpileCmd)
	transpileCmd.Flags().BoolVar(&writeSourceMap, "source-map", false, "also write a .map file alongside each output")
}

func runTranspile(cmd *cobra.Command, args []string) error {
	prog := program.New(".")

	for _, fileName := range args {
		src, err := os.ReadFile(fileName)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", fileName, err)
		}
		_, bag := prog.AddOrReplaceFile(fileName, string(src))
		if bag.HasErrors() {
			reportDiagnostics(bag.All(), map[string]string{fileName: string(src)})
			os.Exit(1)
		}

		result, err := prog.GetTranspiledFileContents(fileName)
		if err != nil {
			return err
		}

		outName := fileName[:len(fileName)-len(filepath.Ext(fileName))] + ".brs"
		if err := os.WriteFile(outName, []byte(result.Code), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outName, err)
		}
		if writeSourceMap {
			if err := os.WriteFile(outName+".map", []byte(result.Map), 0o644); err != nil {
				return fmt.Errorf("failed to write source map for %s: %w", outName, err)
			}
		}
		fmt.Printf("%s -> %s\n", fileName, outName)
	}
	return nil
}
