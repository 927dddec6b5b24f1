package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	jsonOutput bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "bsc",
	Short: "Compiler and language-service core for the component BASIC dialect",
	Long: `bsc lexes, parses, validates and transpiles source files for a set-top
BASIC dialect with an S (classes, namespaces, imports, templated strings)
and L (legacy) surface, plus XML component descriptors.`,
	Version:           Version,
	PersistentPreRunE: applyGlobalFlags,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit machine-readable JSON instead of formatted text")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured diagnostic output")
}

func applyGlobalFlags(cmd *cobra.Command, args []string) error {
	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
	return nil
}

// exitCode maps a run's outcome to the exit codes in SPEC_FULL.md §6:
// 0 success, 1 diagnostics with Error severity, 2 configuration error.
func exitCode(hasErrors bool) int {
	if hasErrors {
		return 1
	}
	return 0
}

func exitWithConfigError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "configuration error: "+msg+"\n", args...)
	os.Exit(2)
}
