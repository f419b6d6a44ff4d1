package main

import (
	"fmt"
	"os"

	"github.com/rustup-find/rustup-find/cmd/rustup-find/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
