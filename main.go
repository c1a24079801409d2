package main

import (
	"os"

	"github.com/Bradwave/parabolawhat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
