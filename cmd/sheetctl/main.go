package main

import (
	"os"

	"delivery-tracker/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(cli.DefaultDeps()).Execute(); err != nil {
		os.Exit(1)
	}
}
