package main

import (
	"os"

	"github.com/adalundhe/mentor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
