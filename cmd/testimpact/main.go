// Package main is the entry point for the testimpact CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/testimpact/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
