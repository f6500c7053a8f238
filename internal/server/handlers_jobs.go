package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jonathan/careers-portal/internal/ats"
	"github.com/jonathan/careers-portal/internal/cache"
	"github.com/jonathan/careers-portal/internal/db"
	"github.com/jonathan/careers-portal/internal/schemas"
	"github.com/jonathan/careers-portal/internal/types"
)

// jobConfig normalizes a submitted ats_config. Shape problems are logged and
// absorbed by the defaults.
func (s *Server) jobConfig(raw json.RawMessage) ats.Config {
	if len(raw) == 0 || string(raw) == "null" {
		return ats.DefaultConfig()
	}
	if err := schemas.Validate(schemas.ATSConfig, raw); err != nil {
		s.log.Warn("ats_config does not match schema, applying defaults", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return ats.ParseConfig(raw)
}

func validJobStatus(status string) bool {
	return status == db.JobStatusActive || status == db.JobStatusClosed
}

// handleCreateJob creates an active job posting.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req types.JobRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	job, err := s.store.CreateJob(r.Context(), req.Input(s.jobConfig(req.ATSConfig)))
	if err != nil {
		s.handleError(w, r, &SubmissionTransportError{Op: "save job", Cause: err})
		return
	}
	s.invalidateJobs(r.Context())
	s.jsonResponse(w, http.StatusCreated, job)
}

// handleListJobs lists jobs newest first, optionally filtered by status.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := r.URL.Query().Get("status")
	if status != "" && !validJobStatus(status) {
		s.errorResponse(w, http.StatusBadRequest, "status must be active or closed")
		return
	}

	key := cache.JobListKey(status)
	var jobs []db.Job
	if ok, err := s.cache.Get(ctx, key, &jobs); err != nil {
		s.log.WithError(err).Warn("job list cache read failed", nil)
	} else if ok {
		s.jsonResponse(w, http.StatusOK, jobs)
		return
	}

	jobs, err := s.store.ListJobs(ctx, status)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.cache.Set(ctx, key, jobs, s.cfg.Redis.TTL); err != nil {
		s.log.WithError(err).Warn("job list cache write failed", nil)
	}
	s.jsonResponse(w, http.StatusOK, jobs)
}

// handleGetJob returns one job.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if job == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "job", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleUpdateJob replaces the editable fields and the ats_config. Status and
// posted date are kept.
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	var req types.JobRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	job, err := s.store.UpdateJob(r.Context(), id, req.Input(s.jobConfig(req.ATSConfig)))
	if err != nil {
		s.handleError(w, r, &SubmissionTransportError{Op: "update job", Cause: err})
		return
	}
	if job == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "job", ID: id.String()})
		return
	}
	s.invalidateJobs(r.Context())
	s.jsonResponse(w, http.StatusOK, job)
}

// handleUpdateJobStatus opens or closes a job.
func (s *Server) handleUpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	status := r.URL.Query().Get("status")
	if !validJobStatus(status) {
		s.errorResponse(w, http.StatusBadRequest, "status must be active or closed")
		return
	}

	job, err := s.store.UpdateJobStatus(r.Context(), id, status)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if job == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "job", ID: id.String()})
		return
	}
	s.invalidateJobs(r.Context())
	s.jsonResponse(w, http.StatusOK, job)
}

// handleDeleteJob removes a job.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	deleted, err := s.store.DeleteJob(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if !deleted {
		s.handleError(w, r, &ErrNotFound{Resource: "job", ID: id.String()})
		return
	}
	s.invalidateJobs(r.Context())
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Job deleted successfully"})
}

func (s *Server) invalidateJobs(ctx context.Context) {
	if err := cache.InvalidateJobs(ctx, s.cache); err != nil {
		s.log.WithError(err).Warn("failed to invalidate job cache", nil)
	}
	if err := s.cache.Delete(ctx, cache.KeyAnalytics); err != nil {
		s.log.WithError(err).Debug("failed to invalidate analytics cache", nil)
	}
}
