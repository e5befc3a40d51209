package main

import (
	"os"

	"github.com/lexicon-dev/lexicon/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
