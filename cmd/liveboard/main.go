package main

import (
	"os"

	"github.com/bmadlabs/liveboard/internal/infrastructure/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
