package main

import (
	"os"

	"tradebook/cmd/tradebook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
