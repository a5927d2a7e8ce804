package main

import (
	"os"

	"github.com/libstack-dev/libstack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
