package main

import (
	"os"

	"autodevstack/internal/cli"
)

func main() { os.Exit(cli.Main()) }
