package main

import (
	"os"

	"github.com/bnema/observation-displayer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
