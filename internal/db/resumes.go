package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func scanResume(row scanner) (*ResumeSnapshot, error) {
	var r ResumeSnapshot
	var profileJSON []byte
	if err := row.Scan(&r.ID, &r.Email, &profileJSON, &r.Scores.Accuracy, &r.Scores.ATSMatch,
		&r.Scores.Impact, &r.CreatedDate); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(profileJSON, &r.Profile); err != nil {
		return nil, fmt.Errorf("failed to decode resume profile: %w", err)
	}
	return &r, nil
}

// CreateResumeSnapshot stores a builder draft with its scores.
func (db *DB) CreateResumeSnapshot(ctx context.Context, r *ResumeSnapshot) (*ResumeSnapshot, error) {
	profileJSON, err := json.Marshal(r.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume profile: %w", err)
	}
	out, err := scanResume(db.pool.QueryRow(ctx,
		`INSERT INTO resumes (email, profile, accuracy, ats_match, impact)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, email, profile, accuracy, ats_match, impact, created_date`,
		r.Email, profileJSON, r.Scores.Accuracy, r.Scores.ATSMatch, r.Scores.Impact,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resume snapshot: %w", err)
	}
	return out, nil
}

// GetResumeSnapshot retrieves a snapshot by ID. Returns nil, nil when missing.
func (db *DB) GetResumeSnapshot(ctx context.Context, id uuid.UUID) (*ResumeSnapshot, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT id, email, profile, accuracy, ats_match, impact, created_date
		 FROM resumes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume snapshot: %w", err)
	}
	return r, nil
}

// ListResumeSnapshots returns the snapshots saved for an email, newest first.
func (db *DB) ListResumeSnapshots(ctx context.Context, email string) ([]ResumeSnapshot, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, email, profile, accuracy, ats_match, impact, created_date
		 FROM resumes WHERE lower(email) = lower($1) ORDER BY created_date DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume snapshots: %w", err)
	}
	defer rows.Close()

	out := []ResumeSnapshot{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume snapshot: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}
