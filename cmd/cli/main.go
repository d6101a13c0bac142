// Command cli is a small client for the query backend.
package main

import (
	"fmt"
	"os"

	"dynasource/pkg/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
