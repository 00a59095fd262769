package main

import (
	"os"

	"github.com/varunkk24/portfolio/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
