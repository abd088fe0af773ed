package main

import (
	"os"

	"github.com/openroad/roadgraph/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
