package main

import (
	"fmt"
	"os"

	"github.com/FerdinandUkwayi/cals-legal-summarization/cmd/cals/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
