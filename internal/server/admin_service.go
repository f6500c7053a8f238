package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/careers-portal/internal/config"
	"github.com/jonathan/careers-portal/internal/db"
	"github.com/jonathan/careers-portal/internal/types"
)

// AdminService provides business logic for admin accounts
type AdminService struct {
	store             Store
	passwordConfig    *config.PasswordConfig
	allowRegistration bool
	emailDomain       string
}

// NewAdminService creates an AdminService from the admin settings.
func NewAdminService(store Store, passwordConfig *config.PasswordConfig, cfg config.AdminConfig) *AdminService {
	return &AdminService{
		store:             store,
		passwordConfig:    passwordConfig,
		allowRegistration: cfg.AllowRegistration,
		emailDomain:       cfg.EmailDomain,
	}
}

// Register creates an admin whose email is <username>@<email domain>.
func (s *AdminService) Register(ctx context.Context, req *types.AdminRegisterRequest) (*db.Admin, error) {
	if !s.allowRegistration {
		return nil, &ErrRegistrationDisabled{}
	}

	username := strings.TrimSpace(req.Username)
	existing, err := s.store.GetAdminByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, &ErrUsernameTaken{Username: username}
	}

	hash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	admin, err := s.store.CreateAdmin(ctx, username, username+"@"+s.emailDomain, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, nil
}

// Login checks credentials. Unknown usernames and wrong passwords produce
// the same error.
func (s *AdminService) Login(ctx context.Context, req *types.AdminLoginRequest) (*db.Admin, error) {
	admin, err := s.store.GetAdminByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	if admin == nil || !s.passwordConfig.VerifyPassword(req.Password, admin.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}
	return admin, nil
}

// Get returns the admin or ErrNotFound.
func (s *AdminService) Get(ctx context.Context, id uuid.UUID) (*db.Admin, error) {
	admin, err := s.store.GetAdminByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	if admin == nil {
		return nil, &ErrNotFound{Resource: "admin", ID: id.String()}
	}
	return admin, nil
}
