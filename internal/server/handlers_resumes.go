package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/jonathan/careers-portal/internal/ats"
	"github.com/jonathan/careers-portal/internal/db"
	"github.com/jonathan/careers-portal/internal/rendering"
	"github.com/jonathan/careers-portal/internal/schemas"
)

// maxDraftBytes bounds a builder draft, photo data URL included.
const maxDraftBytes = 5 << 20

// readDraft reads and schema-checks a builder draft.
func (s *Server) readDraft(w http.ResponseWriter, r *http.Request) (*ats.CandidateProfile, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDraftBytes))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: "draft is too large or unreadable"}
	}
	if err := schemas.Validate(schemas.CandidateProfile, body); err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			return nil, &ErrValidation{Field: "profile", Message: verr.Summary()}
		}
		return nil, err
	}

	var profile ats.CandidateProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, &ErrValidation{Field: "profile", Message: "invalid JSON"}
	}
	return &profile, nil
}

// handleCreateResume stores a builder draft with its diagnostic scores.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	profile, err := s.readDraft(w, r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	email := strings.TrimSpace(profile.Email)
	if email == "" {
		s.handleError(w, r, &ErrValidation{Field: "email", Message: "required"})
		return
	}

	snapshot, err := s.store.CreateResumeSnapshot(r.Context(), &db.ResumeSnapshot{
		Email:   email,
		Profile: *profile,
		Scores:  ats.Diagnose(*profile),
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, snapshot)
}

// handleScoreResume scores a draft without saving it.
func (s *Server) handleScoreResume(w http.ResponseWriter, r *http.Request) {
	profile, err := s.readDraft(w, r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ats.Diagnose(*profile))
}

// handleListResumes lists the snapshots saved for ?email=.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		s.errorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	snapshots, err := s.store.ListResumeSnapshots(r.Context(), email)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snapshots)
}

func (s *Server) resumeSnapshot(r *http.Request) (*db.ResumeSnapshot, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	snapshot, err := s.store.GetResumeSnapshot(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, &ErrNotFound{Resource: "resume", ID: id.String()}
	}
	return snapshot, nil
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.resumeSnapshot(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snapshot)
}

// handleResumePDF renders a saved draft to PDF.
func (s *Server) handleResumePDF(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.resumeSnapshot(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	html, err := rendering.RenderHTML(snapshot.Profile, snapshot.Scores)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	pdf, err := s.pdf.RenderPDF(r.Context(), html)
	if err != nil {
		s.log.WithError(err).Error("pdf rendering failed", map[string]interface{}{"resume_id": snapshot.ID.String()})
		s.errorResponse(w, http.StatusServiceUnavailable, "PDF rendering is unavailable")
		return
	}

	name := "resume.pdf"
	if snapshot.Profile.FullName != "" {
		name = strings.ReplaceAll(strings.TrimSpace(snapshot.Profile.FullName), " ", "_") + "_resume.pdf"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
