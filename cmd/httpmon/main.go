package main

import (
	"os"

	"httpmon/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
