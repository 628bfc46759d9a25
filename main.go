// ABOUTME: Entry point for the storefront CLI
// ABOUTME: Interactive client and scripting commands for the storefront backend

package main

import (
	"fmt"
	"os"

	"github.com/markalston/storefront-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
