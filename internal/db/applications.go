package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/careers-portal/internal/ats"
)

const applicationColumns = `id, job_id, job_title, name, email, phone, cover_letter, skills,
	years_experience, education, resume_key, resume_filename, resume_size, resume_content_type,
	resume_text, status, ai_analysis, applied_date, updated_date`

func scanApplication(row scanner) (*Application, error) {
	var a Application
	var status string
	var analysisJSON []byte
	if err := row.Scan(&a.ID, &a.JobID, &a.JobTitle, &a.Name, &a.Email, &a.Phone, &a.CoverLetter,
		&a.Skills, &a.YearsExperience, &a.Education, &a.Resume.Key, &a.Resume.Filename,
		&a.Resume.Size, &a.Resume.ContentType, &a.ResumeText, &status, &analysisJSON,
		&a.AppliedDate, &a.UpdatedDate); err != nil {
		return nil, err
	}
	a.Status = ats.Status(status)
	a.Skills = nonNil(a.Skills)
	if len(analysisJSON) > 0 {
		var analysis AIAnalysis
		if err := json.Unmarshal(analysisJSON, &analysis); err == nil {
			a.AIAnalysis = &analysis
		}
	}
	return &a, nil
}

// CreateApplication inserts a submission. resumeData is stored inline only
// when the file was not placed in object storage (empty Resume.Key).
func (db *DB) CreateApplication(ctx context.Context, a *Application, resumeData []byte) (*Application, error) {
	var analysisJSON []byte
	if a.AIAnalysis != nil {
		var err error
		analysisJSON, err = json.Marshal(a.AIAnalysis)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal ai analysis: %w", err)
		}
	}
	if a.Resume.Key != "" {
		resumeData = nil
	}
	status := a.Status
	if status == "" {
		status = ats.StatusPending
	}

	created, err := scanApplication(db.pool.QueryRow(ctx,
		`INSERT INTO applications (job_id, job_title, name, email, phone, cover_letter, skills,
		                           years_experience, education, resume_key, resume_filename,
		                           resume_size, resume_content_type, resume_data, resume_text,
		                           status, ai_analysis)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 RETURNING `+applicationColumns,
		a.JobID, a.JobTitle, a.Name, a.Email, a.Phone, a.CoverLetter, nonNil(a.Skills),
		a.YearsExperience, a.Education, a.Resume.Key, a.Resume.Filename, a.Resume.Size,
		a.Resume.ContentType, resumeData, a.ResumeText, string(status), analysisJSON,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return created, nil
}

// GetApplication retrieves an application by ID. Returns nil, nil when missing.
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*Application, error) {
	app, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// ListApplications returns applications newest first.
func (db *DB) ListApplications(ctx context.Context, filters ApplicationFilters) ([]Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.JobID != nil {
		query += fmt.Sprintf(" AND job_id = $%d", argNum)
		args = append(args, *filters.JobID)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
	}
	query += " ORDER BY applied_date DESC"

	return db.queryApplications(ctx, query, args...)
}

// ListApplicationsByEmail returns a candidate's applications, newest first.
func (db *DB) ListApplicationsByEmail(ctx context.Context, email string) ([]Application, error) {
	return db.queryApplications(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE lower(email) = lower($1) ORDER BY applied_date DESC`, email)
}

func (db *DB) queryApplications(ctx context.Context, query string, args ...any) ([]Application, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// UpdateApplicationStatus sets an admin-chosen status. Returns nil, nil when missing.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status ats.Status) (*Application, error) {
	app, err := scanApplication(db.pool.QueryRow(ctx,
		`UPDATE applications SET status = $2, updated_date = NOW()
		 WHERE id = $1 RETURNING `+applicationColumns,
		id, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	return app, nil
}

// GetResumeData returns the inline resume bytes, or nil when the file lives
// in object storage or the application does not exist.
func (db *DB) GetResumeData(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT resume_data FROM applications WHERE id = $1`, id,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume data: %w", err)
	}
	return data, nil
}
