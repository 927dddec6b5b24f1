package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/starlight-tv/bsc/internal/diagnostics"
	"github.com/starlight-tv/bsc/pkg/program"
)

var patchFile string

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate one or more source files as a single program",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&patchFile, "patch-file", "", "JSON document of {logicalPath: text} overrides applied before validating, for editor tooling with unsaved buffers")
}

// loadPatches reads patchFile (if set) as a flat JSON object mapping a
// logical path to replacement source text.
func loadPatches() (map[string]string, error) {
	if patchFile == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(patchFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read patch file %s: %w", patchFile, err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("patch file %s is not valid JSON", patchFile)
	}
	patches := map[string]string{}
	gjson.ParseBytes(raw).ForEach(func(key, value gjson.Result) bool {
		patches[key.String()] = value.String()
		return true
	})
	return patches, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	prog := program.New(".")
	sources := map[string]string{}
	parseErrors := diagnostics.NewBag()

	patches, err := loadPatches()
	if err != nil {
		exitWithConfigError("%v", err)
	}

	for _, fileName := range args {
		text := patches[fileName]
		if text == "" {
			src, err := os.ReadFile(fileName)
			if err != nil {
				return fmt.Errorf("failed to read file %s: %w", fileName, err)
			}
			text = string(src)
		}
		sources[fileName] = text
		if strings.EqualFold(filepath.Ext(fileName), ".xml") {
			if _, err := prog.AddOrReplaceComponent([]byte(text)); err != nil {
				exitWithConfigError("%s: %v", fileName, err)
			}
			continue
		}
		_, fileBag := prog.AddOrReplaceFile(fileName, text)
		parseErrors.Merge(fileBag)
	}

	bag := prog.Validate()
	bag.Merge(parseErrors)
	reportDiagnostics(bag.All(), sources)
	if !jsonOutput && !bag.HasErrors() {
		fmt.Println("no errors")
	}
	os.Exit(exitCode(bag.HasErrors()))
	return nil
}
