package main

import (
	"fmt"
	"os"

	"github-commit-insights/cmd/insights/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
