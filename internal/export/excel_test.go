package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/jonathan/careers-portal/internal/ats"
	"github.com/jonathan/careers-portal/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteApplications(t *testing.T) {
	applied := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	apps := []db.Application{
		{
			Name: "Asha Rao", Email: "asha@example.com", JobTitle: "Backend Engineer",
			Status: ats.StatusSelected, AppliedDate: applied,
			Resume: db.ResumeFile{Filename: "asha.pdf"},
			AIAnalysis: &db.AIAnalysis{Accuracy: 90, Breakdown: &ats.Breakdown{
				Skill: 100, Experience: 100, Education: 100, Qualification: 60, OverallFit: 40,
				MatchedRequiredSkills: []string{"go", "sql"}, MissingRequiredSkills: []string{},
			}},
		},
		{
			Name: "Ben Ito", Email: "ben@example.com", JobTitle: "Backend Engineer",
			Status: ats.StatusPending, AppliedDate: applied,
			AIAnalysis: &db.AIAnalysis{Accuracy: 40},
		},
		{Name: "Cy", Email: "cy@example.com", Status: ats.StatusPending, AppliedDate: applied},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteApplications(&buf, "Backend Engineer", apps, applied))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, ApplicationsSheet}, f.GetSheetList())

	v, _ := f.GetCellValue(SummarySheet, "B2")
	assert.Equal(t, "Backend Engineer", v)
	v, _ = f.GetCellValue(SummarySheet, "B4")
	assert.Equal(t, "3", v)
	v, _ = f.GetCellValue(SummarySheet, "B5")
	assert.Equal(t, "65.0", v)
	v, _ = f.GetCellValue(SummarySheet, "A6")
	assert.Equal(t, "Pending:", v)
	v, _ = f.GetCellValue(SummarySheet, "B6")
	assert.Equal(t, "2", v)

	rows, err := f.GetRows(ApplicationsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, applicationHeaders, rows[0])
	assert.Equal(t, "Asha Rao", rows[1][0])
	assert.Equal(t, "selected", rows[1][5])
	assert.Equal(t, "90", rows[1][6])
	assert.Equal(t, "go, sql", rows[1][12])
	assert.Equal(t, "asha.pdf", rows[1][14])
	assert.Equal(t, "40", rows[2][6])
	assert.Equal(t, "Cy", rows[3][0])
}

func TestWriteApplications_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteApplications(&buf, "", nil, time.Now()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, _ := f.GetCellValue(SummarySheet, "B2")
	assert.Equal(t, "All jobs", v)
	rows, _ := f.GetRows(ApplicationsSheet)
	assert.Len(t, rows, 1)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "applications-2024-05-01.xlsx", Filename(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
}
