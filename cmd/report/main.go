// Package main is the quantdash command-line report.
//
// It runs the same analytics pass as the API server for one parameter set
// and prints the market overview, performance, regression and risk tables.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
