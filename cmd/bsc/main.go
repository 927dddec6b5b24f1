// Command bsc is the CLI front end for the lex/parse/validate/transpile
// pipeline in internal/ and pkg/program.
package main

import (
	"fmt"
	"os"

	"github.com/starlight-tv/bsc/cmd/bsc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
