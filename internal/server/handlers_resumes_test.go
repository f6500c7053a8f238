package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/careers-portal/internal/ats"
	"github.com/jonathan/careers-portal/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfile() ats.CandidateProfile {
	return ats.CandidateProfile{
		FullName:           "Ada Lovelace",
		Email:              "ada@example.com",
		TechnicalSkills:    []string{"Go", "PostgreSQL", "Docker"},
		NonTechnicalSkills: []string{"Mentoring"},
		Education:          "BSc Mathematics",
		Company:            "Analytical Engines Ltd",
		Role:               "Engineer",
		Duration:           "3 years",
		DesiredRole:        "Staff Engineer",
		Languages:          []string{"English"},
		Certifications:     []string{"CKA"},
	}
}

func TestScoreResume(t *testing.T) {
	env := newTestEnv(t)
	profile := sampleProfile()

	rec := env.do(t, http.MethodPost, "/api/resumes/score", profile, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, ats.Diagnose(profile), decode[ats.Diagnostics](t, rec))

	rec = env.do(t, http.MethodPost, "/api/resumes/score", `{"technicalSkills": "Go"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "technicalSkills")

	rec = env.do(t, http.MethodPost, "/api/resumes/score", `{"fullName":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAndFetchResume(t *testing.T) {
	env := newTestEnv(t)
	profile := sampleProfile()

	rec := env.do(t, http.MethodPost, "/api/resumes", profile, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	snapshot := decode[db.ResumeSnapshot](t, rec)
	assert.Equal(t, "ada@example.com", snapshot.Email)
	assert.Equal(t, ats.Diagnose(profile), snapshot.Scores)
	assert.Equal(t, profile.TechnicalSkills, snapshot.Profile.TechnicalSkills)

	rec = env.do(t, http.MethodGet, "/api/resumes/"+snapshot.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, snapshot.ID, decode[db.ResumeSnapshot](t, rec).ID)

	list := decode[[]db.ResumeSnapshot](t, env.do(t, http.MethodGet, "/api/resumes?email=ada@example.com", nil, ""))
	require.Len(t, list, 1)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/resumes", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/resumes/"+uuid.NewString(), nil, "").Code)
}

func TestCreateResume_RequiresEmail(t *testing.T) {
	env := newTestEnv(t)
	profile := sampleProfile()
	profile.Email = "  "

	rec := env.do(t, http.MethodPost, "/api/resumes", profile, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "email")
}

func TestResumePDF(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/resumes", sampleProfile(), "")
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[db.ResumeSnapshot](t, rec).ID.String()

	rec = env.do(t, http.MethodGet, "/api/resumes/"+id+"/pdf", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=Ada_Lovelace_resume.pdf", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 fake", rec.Body.String())
	assert.Contains(t, string(env.pdf.html), "Ada Lovelace")
	assert.Contains(t, string(env.pdf.html), "PostgreSQL")

	env.pdf.err = errors.New("chrome not found")
	rec = env.do(t, http.MethodGet, "/api/resumes/"+id+"/pdf", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "PDF rendering is unavailable", errorMessage(t, rec))

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/resumes/"+uuid.NewString()+"/pdf", nil, "").Code)
}
