package main

import (
	"os"

	"github.com/htmlweld/htmlweld/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
