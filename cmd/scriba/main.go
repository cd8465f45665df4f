package main

import (
	"os"

	"github.com/jymfony/scriba/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args))
}
