//go:build integration

package db

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/careers-portal/internal/ats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func TestIntegration_Migrate_Idempotent(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	applied, err := db.Migrate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestIntegration_JobAndApplication(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	cfg := ats.ParseConfig([]byte(`{"required_skills": ["Go"], "min_accuracy_threshold": 70}`))
	job, err := db.CreateJob(ctx, JobInput{
		Title:        "Integration Engineer " + uuid.NewString(),
		Requirements: []string{"Go"},
		ATSConfig:    cfg,
	})
	require.NoError(t, err)
	defer func() { _, _ = db.DeleteJob(ctx, job.ID) }()

	assert.Equal(t, JobStatusActive, job.Status)
	assert.Equal(t, 70, job.ATSConfig.MinAccuracyThreshold)
	assert.Equal(t, []string{"Go"}, job.ATSConfig.RequiredSkills)

	t.Run("status toggle keeps config", func(t *testing.T) {
		updated, err := db.UpdateJobStatus(ctx, job.ID, JobStatusClosed)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, JobStatusClosed, updated.Status)
		assert.Equal(t, job.ATSConfig, updated.ATSConfig)
		assert.Equal(t, job.PostedDate, updated.PostedDate)
	})

	t.Run("application round trip", func(t *testing.T) {
		email := uuid.NewString() + "@example.com"
		app, err := db.CreateApplication(ctx, &Application{
			JobID:      job.ID,
			JobTitle:   job.Title,
			Name:       "Jo",
			Email:      email,
			Resume:     ResumeFile{Filename: "cv.pdf", Size: 3, ContentType: "application/pdf"},
			ResumeText: "Go developer",
			Status:     ats.StatusSelected,
			AIAnalysis: &AIAnalysis{Accuracy: 90, RawAnalysis: "fit", Decision: ats.StatusSelected},
		}, []byte("pdf"))
		require.NoError(t, err)
		assert.Equal(t, ats.StatusSelected, app.Status)
		require.NotNil(t, app.AIAnalysis)
		assert.Equal(t, 90, app.AIAnalysis.Accuracy)

		data, err := db.GetResumeData(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("pdf"), data)

		byEmail, err := db.ListApplicationsByEmail(ctx, email)
		require.NoError(t, err)
		assert.Len(t, byEmail, 1)

		moved, err := db.UpdateApplicationStatus(ctx, app.ID, ats.StatusReviewing)
		require.NoError(t, err)
		assert.Equal(t, ats.StatusReviewing, moved.Status)
	})

	t.Run("missing rows", func(t *testing.T) {
		got, err := db.GetJob(ctx, uuid.New())
		assert.NoError(t, err)
		assert.Nil(t, got)

		deleted, err := db.DeleteJob(ctx, uuid.New())
		assert.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestIntegration_Counts(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	c, err := db.Counts(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, c.Applications, 0)
	assert.NotNil(t, c.ApplicationsPerStatus)
}
