// =============================================================================
// Cart Parser - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Cart Parser CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   cartparser parse <file|->   - Parse one cart file and print the JSON result
//   cartparser validate <file>  - Report every validation error in a cart file
//   cartparser process          - Process all CSV files in the input directory
//   cartparser version          - Display the application version
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/cart-parser/cmd"
)

func main() {
	cmd.Execute()
}
