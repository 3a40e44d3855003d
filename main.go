package main

import (
	"fmt"
	"os"

	"ccm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ccm: startup failed: %v\n", err)
		os.Exit(1)
	}
}
