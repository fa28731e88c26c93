package main

import (
	"os"

	"github.com/camden-git/astrogallery/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
