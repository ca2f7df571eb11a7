// Package main provides the kibitz CLI tool for analyzing chess games
// and positions with a pool of UCI engines.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
