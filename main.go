// Package main provides a short usage banner for coherencesim.
// coherencesim simulates a snoop-based cache-coherence subsystem.
//
// For the full CLI, use: go run ./cmd/coherencesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("coherencesim - snoop-based cache-coherence simulator")
	fmt.Println("Supports MSI, MESI, MESIF, MOESI, and FESI")
	fmt.Println("")
	fmt.Println("Usage: coherencesim [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -trace        Path to trace file (default: stdin)")
	fmt.Println("  -cores        Number of cores (caches)")
	fmt.Println("  -sets         Sets per cache")
	fmt.Println("  -ways         Associativity (ways per set)")
	fmt.Println("  -offset-bits  Block offset bits")
	fmt.Println("  -v            Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/coherencesim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/coherencesim' instead.")
	}
}
