// Package main provides the entry point for the argos CLI.
package main

import (
	"os"

	"github.com/shanks-ir/argos/cmd/argos/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
