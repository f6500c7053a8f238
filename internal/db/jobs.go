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

const jobColumns = `id, title, department, location, type, description, qualification,
	timings, requirements, responsibilities, status, ats_config, posted_date, updated_date`

func scanJob(row scanner) (*Job, error) {
	var j Job
	var cfgJSON []byte
	if err := row.Scan(&j.ID, &j.Title, &j.Department, &j.Location, &j.Type, &j.Description,
		&j.Qualification, &j.Timings, &j.Requirements, &j.Responsibilities, &j.Status,
		&cfgJSON, &j.PostedDate, &j.UpdatedDate); err != nil {
		return nil, err
	}
	j.ATSConfig = ats.ParseConfig(cfgJSON)
	if j.Requirements == nil {
		j.Requirements = []string{}
	}
	if j.Responsibilities == nil {
		j.Responsibilities = []string{}
	}
	return &j, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// CreateJob inserts an active job.
func (db *DB) CreateJob(ctx context.Context, in JobInput) (*Job, error) {
	cfgJSON, err := json.Marshal(in.ATSConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ats config: %w", err)
	}

	job, err := scanJob(db.pool.QueryRow(ctx,
		`INSERT INTO jobs (title, department, location, type, description, qualification,
		                   timings, requirements, responsibilities, ats_config)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+jobColumns,
		in.Title, in.Department, in.Location, in.Type, in.Description, in.Qualification,
		in.Timings, nonNil(in.Requirements), nonNil(in.Responsibilities), cfgJSON,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

// GetJob retrieves a job by ID. Returns nil, nil when it does not exist.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	job, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// ListJobs returns jobs newest first, optionally filtered by status.
func (db *DB) ListJobs(ctx context.Context, status string) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY posted_date DESC`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// UpdateJob replaces the editable fields; status and posted_date are kept.
func (db *DB) UpdateJob(ctx context.Context, id uuid.UUID, in JobInput) (*Job, error) {
	cfgJSON, err := json.Marshal(in.ATSConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ats config: %w", err)
	}

	job, err := scanJob(db.pool.QueryRow(ctx,
		`UPDATE jobs SET title = $2, department = $3, location = $4, type = $5,
		        description = $6, qualification = $7, timings = $8, requirements = $9,
		        responsibilities = $10, ats_config = $11, updated_date = NOW()
		 WHERE id = $1
		 RETURNING `+jobColumns,
		id, in.Title, in.Department, in.Location, in.Type, in.Description, in.Qualification,
		in.Timings, nonNil(in.Requirements), nonNil(in.Responsibilities), cfgJSON,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return job, nil
}

// UpdateJobStatus sets a job active or closed.
func (db *DB) UpdateJobStatus(ctx context.Context, id uuid.UUID, status string) (*Job, error) {
	job, err := scanJob(db.pool.QueryRow(ctx,
		`UPDATE jobs SET status = $2, updated_date = NOW() WHERE id = $1 RETURNING `+jobColumns,
		id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}
	return job, nil
}

// DeleteJob removes a job and its applications. Reports whether a row existed.
func (db *DB) DeleteJob(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete job: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
