package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/careers-portal/internal/ats"
	"github.com/jonathan/careers-portal/internal/ingestion"
	"github.com/jonathan/careers-portal/internal/logger"
	"github.com/jonathan/careers-portal/internal/observability"
	"github.com/jonathan/careers-portal/internal/schemas"
	"github.com/jonathan/careers-portal/internal/types"
	"github.com/spf13/cobra"
)

var (
	evaluateResume    string
	evaluateJob       string
	evaluateConfig    string
	evaluateSkills    string
	evaluateYears     float64
	evaluateEducation string
	evaluateVerbose   bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a resume file against a job",
	Long: `Extracts the text of a .pdf, .docx or .doc resume and scores it the way a
submitted application is scored, printing the breakdown and the automatic decision.
The ATS config is taken from --config, else from the job's ats_config, else the defaults.`,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateResume, "resume", "r", "", "Path to resume file (required)")
	evaluateCmd.Flags().StringVarP(&evaluateJob, "job", "j", "", "Path to job JSON file (title, description, requirements, ats_config)")
	evaluateCmd.Flags().StringVarP(&evaluateConfig, "config", "c", "", "Path to ATS config JSON file")
	evaluateCmd.Flags().StringVar(&evaluateSkills, "skills", "", "Comma separated declared skills")
	evaluateCmd.Flags().Float64Var(&evaluateYears, "years", -1, "Declared years of experience")
	evaluateCmd.Flags().StringVar(&evaluateEducation, "education", "", "Declared education")
	evaluateCmd.Flags().BoolVarP(&evaluateVerbose, "verbose", "v", false, "Print a readable breakdown to stderr")

	if err := evaluateCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	rootCmd.AddCommand(evaluateCmd)
}

// EvaluationResult is printed by the evaluate command.
type EvaluationResult struct {
	Resume    string        `json:"resume"`
	Decision  ats.Status    `json:"decision"`
	Threshold int           `json:"min_accuracy_threshold"`
	Breakdown ats.Breakdown `json:"breakdown"`
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(evaluateResume)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	var job types.JobRequest
	if evaluateJob != "" {
		content, err := os.ReadFile(evaluateJob)
		if err != nil {
			return fmt.Errorf("failed to read job file: %w", err)
		}
		if err := json.Unmarshal(content, &job); err != nil {
			return fmt.Errorf("failed to unmarshal job JSON: %w", err)
		}
	}

	raw := job.ATSConfig
	if evaluateConfig != "" {
		if raw, err = os.ReadFile(evaluateConfig); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	cfg := ats.DefaultConfig()
	if len(raw) > 0 {
		if err := schemas.Validate(schemas.ATSConfig, raw); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: ATS config does not match schema, defaults applied: %v\n", err)
		}
		cfg = ats.ParseConfig(raw)
	}

	extractor, err := ingestion.NewExtractor(cmd.Context(), logger.NewNoOpLogger())
	if err != nil {
		return err
	}
	doc, err := extractor.Extract(cmd.Context(), filepath.Base(evaluateResume), data)
	if err != nil {
		return fmt.Errorf("failed to extract resume: %w", err)
	}

	app := ats.Application{
		ResumeText: doc.Text,
		Education:  evaluateEducation,
	}
	for _, s := range strings.Split(evaluateSkills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			app.Skills = append(app.Skills, s)
		}
	}
	if evaluateYears >= 0 {
		years := evaluateYears
		app.YearsExperience = &years
	}

	input := job.Input(cfg)
	breakdown := ats.Evaluate(cfg, ats.Job{
		Title:            input.Title,
		Description:      input.Description,
		Qualification:    input.Qualification,
		Requirements:     input.Requirements,
		Responsibilities: input.Responsibilities,
	}, app)

	decision := ats.Decide(breakdown.Accuracy, cfg)
	if evaluateVerbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintATSConfig(cfg)
		printer.PrintBreakdown(&breakdown)
		printer.PrintDecision(breakdown.Accuracy, decision)
	}

	return writeJSON(cmd, EvaluationResult{
		Resume:    filepath.Base(evaluateResume),
		Decision:  decision,
		Threshold: cfg.MinAccuracyThreshold,
		Breakdown: breakdown,
	})
}
