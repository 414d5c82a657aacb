// Package main provides the csvtable command-line tool.
package main

import (
	"os"

	"github.com/JonMunkholm/csvtable/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
