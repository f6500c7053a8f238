package db

import (
	"strings"
	"testing"

	"github.com/jonathan/careers-portal/internal/ats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	names, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "migrations/001_init.sql", names[0])

	body, err := migrationFS.ReadFile(names[0])
	require.NoError(t, err)
	for _, table := range []string{"admins", "jobs", "applications", "contacts", "blog_posts",
		"testimonials", "projects", "case_studies", "resumes"} {
		assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
}

func TestMigrations_StatusCheckMatchesStatuses(t *testing.T) {
	body, err := migrationFS.ReadFile("migrations/001_init.sql")
	require.NoError(t, err)
	for _, st := range ats.Statuses {
		assert.True(t, strings.Contains(string(body), "'"+string(st)+"'"), "status %s missing from CHECK", st)
	}
}

func TestJob_ATSJob(t *testing.T) {
	j := Job{
		Title:            "Backend Engineer",
		Description:      "Build APIs",
		Qualification:    "BSc",
		Requirements:     []string{"Go"},
		Responsibilities: []string{"Own services"},
		Location:         "Remote",
	}
	assert.Equal(t, ats.Job{
		Title:            "Backend Engineer",
		Description:      "Build APIs",
		Qualification:    "BSc",
		Requirements:     []string{"Go"},
		Responsibilities: []string{"Own services"},
	}, j.ATSJob())
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []string{}, nonNil(nil))
	assert.Equal(t, []string{"a"}, nonNil([]string{"a"}))
}
