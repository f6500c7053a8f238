package server

import (
	"net/http"

	"github.com/jonathan/careers-portal/internal/cache"
	"github.com/jonathan/careers-portal/internal/db"
	"github.com/jonathan/careers-portal/internal/server/middleware"
	"github.com/jonathan/careers-portal/internal/types"
)

// handleRegister creates an admin account and returns a session token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req types.AdminRegisterRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	admin, err := s.adminService.Register(r.Context(), &req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.issueToken(w, http.StatusCreated, admin)
}

// handleLogin authenticates an admin.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.AdminLoginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	admin, err := s.adminService.Login(r.Context(), &req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.issueToken(w, http.StatusOK, admin)
}

func (s *Server) issueToken(w http.ResponseWriter, status int, admin *db.Admin) {
	token, err := s.jwtService.GenerateToken(admin.ID)
	if err != nil {
		s.log.WithError(err).Error("failed to generate token", nil)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	s.jsonResponse(w, status, types.LoginResponse{Admin: admin, Token: token})
}

// handleMe returns the authenticated admin.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	adminID, err := middleware.GetAdminID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	admin, err := s.adminService.Get(r.Context(), adminID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, admin)
}

// handleAnalytics returns dashboard counts with a generated summary, cached briefly.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cached types.Analytics
	if ok, err := s.cache.Get(ctx, cache.KeyAnalytics, &cached); err != nil {
		s.log.WithError(err).Warn("analytics cache read failed", nil)
	} else if ok {
		s.jsonResponse(w, http.StatusOK, cached)
		return
	}

	counts, err := s.store.Counts(ctx)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	analytics := types.Analytics{
		Counts:    *counts,
		AISummary: s.writer.AnalyticsSummary(ctx, counts),
	}

	if err := s.cache.Set(ctx, cache.KeyAnalytics, analytics, s.cfg.Redis.TTL); err != nil {
		s.log.WithError(err).Warn("analytics cache write failed", nil)
	}
	s.jsonResponse(w, http.StatusOK, analytics)
}
