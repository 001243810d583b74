package main

import (
	"os"

	"github.com/contaudit/contaudit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
