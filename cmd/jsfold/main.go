package main

import (
	"os"

	"github.com/evanw/jsfold/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
