package main

import (
	"os"

	"github.com/issueops/issueops/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
