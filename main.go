package main

import (
	"os"

	"github.com/flywheel-dev/flywheel-hooks/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
