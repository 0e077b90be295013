package main

import (
	"os"

	"github.com/pulsegraph-io/pulsegraph-stack/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
