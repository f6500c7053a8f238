// Package export writes application lists as Excel workbooks for recruiters.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/careers-portal/internal/ats"
	"github.com/jonathan/careers-portal/internal/db"
	"github.com/xuri/excelize/v2"
)

// Sheet names
const (
	SummarySheet      = "Summary"
	ApplicationsSheet = "Applications"
)

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var applicationHeaders = []string{
	"Name", "Email", "Phone", "Job", "Applied", "Status", "Accuracy",
	"Skills", "Experience", "Education", "Qualification", "Overall Fit",
	"Matched Skills", "Missing Skills", "Resume",
}

// Filename returns a download name for an export, e.g. applications-2024-05-01.xlsx.
func Filename(now time.Time) string {
	return fmt.Sprintf("applications-%s.xlsx", now.Format("2006-01-02"))
}

// WriteApplications writes a two-sheet workbook: a status summary and one
// row per application.
func WriteApplications(w io.Writer, title string, apps []db.Application, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(ApplicationsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummary(f, headerStyle, title, apps, now); err != nil {
		return err
	}
	if err := writeApplications(f, headerStyle, apps); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, headerStyle int, title string, apps []db.Application, now time.Time) error {
	sheet := SummarySheet
	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "B", "B", 40)

	if err := f.SetCellValue(sheet, "A1", "Applications Report"); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	_ = f.SetCellStyle(sheet, "A1", "B1", headerStyle)
	_ = f.MergeCell(sheet, "A1", "B1")

	if title == "" {
		title = "All jobs"
	}
	rows := [][2]any{
		{"Job:", title},
		{"Generated:", now.Format("2006-01-02 15:04:05")},
		{"Total applications:", len(apps)},
	}

	counts := make(map[ats.Status]int)
	total := 0
	scored := 0
	for _, a := range apps {
		counts[a.Status]++
		if a.AIAnalysis != nil {
			total += a.AIAnalysis.Accuracy
			scored++
		}
	}
	if scored > 0 {
		rows = append(rows, [2]any{"Average accuracy:", fmt.Sprintf("%.1f", float64(total)/float64(scored))})
	}
	for _, s := range ats.Statuses {
		rows = append(rows, [2]any{strings.ToUpper(string(s[:1])) + string(s[1:]) + ":", counts[s]})
	}

	for i, r := range rows {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r[0])
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r[1])
	}
	return nil
}

func writeApplications(f *excelize.File, headerStyle int, apps []db.Application) error {
	sheet := ApplicationsSheet
	for i, h := range applicationHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(applicationHeaders), 1)
	_ = f.SetCellStyle(sheet, "A1", last, headerStyle)
	_ = f.SetColWidth(sheet, "A", "B", 26)
	_ = f.SetColWidth(sheet, "M", "N", 30)
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for i, a := range apps {
		values := []any{
			a.Name, a.Email, a.Phone, a.JobTitle,
			a.AppliedDate.Format("2006-01-02"), string(a.Status),
		}
		if an := a.AIAnalysis; an != nil && an.Breakdown != nil {
			b := an.Breakdown
			values = append(values, an.Accuracy, b.Skill, b.Experience, b.Education, b.Qualification, b.OverallFit,
				strings.Join(b.MatchedRequiredSkills, ", "), strings.Join(b.MissingRequiredSkills, ", "))
		} else if an != nil {
			values = append(values, an.Accuracy, "", "", "", "", "", "", "")
		} else {
			values = append(values, "", "", "", "", "", "", "", "")
		}
		values = append(values, a.Resume.Filename)

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return nil
}
