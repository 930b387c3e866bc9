package main

import (
	"os"

	"github.com/nmkale/subtide/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
