// Package main provides the entry point for the fontdoctor CLI.
package main

import (
	"os"

	"github.com/fontdoctor/fontdoctor/cmd/fontdoctor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
