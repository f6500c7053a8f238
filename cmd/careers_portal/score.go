package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/careers-portal/internal/ats"
	"github.com/jonathan/careers-portal/internal/schemas"
	"github.com/spf13/cobra"
)

var scoreProfile string

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Print resume-builder diagnostics for a draft",
	Long:  "Reads a CandidateProfile JSON draft and prints its accuracy, ATS match and impact scores.",
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreProfile, "profile", "p", "", "Path to CandidateProfile JSON file (required)")
	if err := scoreCmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}
	rootCmd.AddCommand(scoreCmd)
}

// readProfile loads and schema-checks a builder draft.
func readProfile(path string) (*ats.CandidateProfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	if err := schemas.Validate(schemas.CandidateProfile, content); err != nil {
		return nil, fmt.Errorf("profile does not match schema: %w", err)
	}
	var profile ats.CandidateProfile
	if err := json.Unmarshal(content, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile JSON: %w", err)
	}
	return &profile, nil
}

func runScore(cmd *cobra.Command, _ []string) error {
	profile, err := readProfile(scoreProfile)
	if err != nil {
		return err
	}
	return writeJSON(cmd, ats.Diagnose(*profile))
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
