package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/careers-portal/internal/ats"
	"github.com/stretchr/testify/assert"
)

func TestPrintATSConfig(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	years := 3
	reject := 20
	edu := "Bachelor"
	cfg := ats.DefaultConfig()
	cfg.MinAccuracyThreshold = 70
	cfg.AutoRejectThreshold = &reject
	cfg.MinExperienceYears = &years
	cfg.RequiredEducation = &edu
	cfg.RequiredSkills = []string{"Go", "PostgreSQL"}
	cfg.PreferredSkills = []string{"Kubernetes"}

	p.PrintATSConfig(cfg)
	output := buf.String()

	assert.Contains(t, output, "ATS CONFIG")
	assert.Contains(t, output, "70%")
	assert.Contains(t, output, "below 20%")
	assert.Contains(t, output, "Min years:      3")
	assert.Contains(t, output, "Bachelor")
	assert.Contains(t, output, "PostgreSQL")
	assert.Contains(t, output, "Kubernetes")
}

func TestPrintATSConfig_Defaults(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintATSConfig(ats.DefaultConfig())
	output := buf.String()

	assert.NotContains(t, output, "Auto-reject")
	assert.NotContains(t, output, "Required skills")
}

func TestPrintBreakdown(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	years := 5.0
	p.PrintBreakdown(&ats.Breakdown{
		Skill:                 50,
		Experience:            100,
		Education:             60,
		Qualification:         40,
		OverallFit:            70,
		MatchedRequiredSkills: []string{"Go"},
		MissingRequiredSkills: []string{"Rust"},
		YearsExperience:       &years,
		Accuracy:              64,
	})
	output := buf.String()

	assert.Contains(t, output, "SCORE BREAKDOWN")
	assert.Contains(t, output, "(5.0 years)")
	assert.Contains(t, output, "Matched required:")
	assert.Contains(t, output, "Missing required:")
	assert.Contains(t, output, "• Rust")
	assert.NotContains(t, output, "Matched preferred")
}

func TestPrintBreakdown_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintBreakdown(nil)
	assert.Empty(t, buf.String())
}

func TestPrintBreakdown_TruncatesLongLists(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintBreakdown(&ats.Breakdown{
		MissingRequiredSkills: []string{"a", "b", "c", "d", "e", "f", "g"},
	})
	assert.Contains(t, buf.String(), "... and 2 more")
}

func TestPrintDecision(t *testing.T) {
	tests := []struct {
		status ats.Status
		want   string
	}{
		{ats.StatusSelected, "✅ ACCURACY 90% → SELECTED"},
		{ats.StatusPending, "⏳ ACCURACY 90% → PENDING"},
		{ats.StatusRejected, "❌ ACCURACY 90% → REJECTED"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).PrintDecision(90, tt.status)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printBox("TITLE", strings.Repeat("x", 100))
	assert.Contains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), strings.Repeat("x", 60))
}
