package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jonathan/careers-portal/internal/ats"
	"github.com/jonathan/careers-portal/internal/rendering"
	"github.com/spf13/cobra"
)

var (
	renderProfile string
	renderOutput  string
	renderTimeout time.Duration
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume-builder draft to HTML or PDF",
	Long:  "Renders a CandidateProfile JSON draft. Output ending in .html is written as HTML; anything else is printed to PDF with headless Chrome.",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderProfile, "profile", "p", "", "Path to CandidateProfile JSON file (required)")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Output path, .html or .pdf (required)")
	renderCmd.Flags().DurationVar(&renderTimeout, "timeout", 30*time.Second, "PDF rendering timeout")

	for _, name := range []string{"profile", "out"} {
		if err := renderCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	profile, err := readProfile(renderProfile)
	if err != nil {
		return err
	}

	html, err := rendering.RenderHTML(*profile, ats.Diagnose(*profile))
	if err != nil {
		return err
	}

	out := html
	if !strings.HasSuffix(strings.ToLower(renderOutput), ".html") {
		if out, err = rendering.NewChrome(renderTimeout).RenderPDF(cmd.Context(), html); err != nil {
			return err
		}
	}

	if err := os.WriteFile(renderOutput, out, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", renderOutput)
	return nil
}
