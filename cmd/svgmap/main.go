package main

import (
	"os"

	"github.com/benoitkugler/svgmap/cmd/svgmap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
