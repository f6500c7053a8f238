// Package main provides the entry point for the careers portal API server and
// its offline scoring tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "careers_portal",
	Short: "Careers portal HTTP API server",
	Long: "Careers portal serves the public careers site, the blog and marketing CMS, " +
		"and the admin dashboard, and scores job applications against each job's ATS config.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
