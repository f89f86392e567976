package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "editor",
	Short: "Percenty edit agent - Bulk product editing tool",
	Long: `Percenty edit agent automates bulk product editing on the Percenty
seller console. It drives a Chrome session over the DevTools Protocol,
pulling products from a staging group one at a time, editing them through
the product modal, and routing them to their destination groups.`,
	Version: version,
}

func init() {
	rootCmd.AddCommand(singleCmd)
	rootCmd.AddCommand(fanoutCmd)
}
