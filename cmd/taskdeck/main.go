package main

import (
	"os"

	"taskdeck-cli/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
