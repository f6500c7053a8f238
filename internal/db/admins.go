package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateAdmin inserts an admin account.
func (db *DB) CreateAdmin(ctx context.Context, username, email, passwordHash string) (*Admin, error) {
	var a Admin
	err := db.pool.QueryRow(ctx,
		`INSERT INTO admins (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, username, email, password_hash, created_date`,
		username, email, passwordHash,
	).Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return &a, nil
}

// GetAdminByUsername retrieves an admin. Returns nil, nil when missing.
func (db *DB) GetAdminByUsername(ctx context.Context, username string) (*Admin, error) {
	return db.getAdmin(ctx, `WHERE username = $1`, username)
}

// GetAdminByID retrieves an admin. Returns nil, nil when missing.
func (db *DB) GetAdminByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	return db.getAdmin(ctx, `WHERE id = $1`, id)
}

func (db *DB) getAdmin(ctx context.Context, where string, arg any) (*Admin, error) {
	var a Admin
	err := db.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_date FROM admins `+where, arg,
	).Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &a, nil
}
