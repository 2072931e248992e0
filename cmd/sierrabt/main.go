package main

import (
	"os"

	"github.com/rustyeddy/sierrabt/cmd/sierrabt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
