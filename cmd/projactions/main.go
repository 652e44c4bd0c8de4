// Package main provides the entry point for the projactions CLI.
package main

import (
	"fmt"
	"os"

	"github.com/telnet2/projactions/cmd/projactions/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
