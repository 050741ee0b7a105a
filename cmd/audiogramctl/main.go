// Package main is the entry point for the audiogram CLI.
package main

import (
	"os"

	"github.com/RMahshie/audiogram/cmd/audiogramctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
