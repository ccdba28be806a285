package main

import (
	"fmt"
	"os"

	"toolwatch/internal/console/delivery/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing console CLI: %s\n", err)
		os.Exit(1)
	}
}
