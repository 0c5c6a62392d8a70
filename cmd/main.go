package main

import (
	"os"

	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
