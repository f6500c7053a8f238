// Package rendering turns resume-builder drafts into HTML and printable PDFs.
package rendering

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/jonathan/careers-portal/internal/ats"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var resumeTemplate = template.Must(
	template.New("resume.html.tmpl").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/resume.html.tmpl"),
)

// TemplateData is what the resume template renders.
type TemplateData struct {
	Profile ats.CandidateProfile
	Scores  ats.Diagnostics
}

// RenderHTML renders a draft. Blank list entries are dropped first.
func RenderHTML(profile ats.CandidateProfile, scores ats.Diagnostics) ([]byte, error) {
	profile.TechnicalSkills = nonBlank(profile.TechnicalSkills)
	profile.NonTechnicalSkills = nonBlank(profile.NonTechnicalSkills)
	profile.Languages = nonBlank(profile.Languages)
	profile.Certifications = nonBlank(profile.Certifications)
	if !strings.HasPrefix(profile.Photo, "data:image/") && !strings.HasPrefix(profile.Photo, "https://") {
		profile.Photo = ""
	}

	var buf bytes.Buffer
	if err := resumeTemplate.Execute(&buf, TemplateData{Profile: profile, Scores: scores}); err != nil {
		return nil, &TemplateError{Message: "failed to execute resume template", Cause: err}
	}
	return buf.Bytes(), nil
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
