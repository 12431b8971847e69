package main

import (
	"os"

	"github.com/julienv/daygate/cmd/daygate/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
