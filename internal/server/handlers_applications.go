package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/careers-portal/internal/ats"
	"github.com/jonathan/careers-portal/internal/db"
	"github.com/jonathan/careers-portal/internal/export"
	"github.com/jonathan/careers-portal/internal/types"
)

// multipartOverhead is the room left for form fields next to the file.
const multipartOverhead = 1 << 20

// handleSubmitApplication accepts a multipart application with a resume file.
func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxResume+multipartOverhead)
	if err := r.ParseMultipartForm(s.maxResume); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, s.resumeTooLarge())
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	form, err := parseApplicationForm(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := types.Validate(form); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "validation error: "+types.FirstError(err))
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "resume file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxResume+1))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read resume file")
		return
	}
	if int64(len(data)) > s.maxResume {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, s.resumeTooLarge())
		return
	}

	app, err := s.applications.Submit(r.Context(), Submission{
		Form:     *form,
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, types.SubmitApplicationResponse{
		Message:       "Application submitted successfully",
		ApplicationID: app.ID,
		Accuracy:      app.AIAnalysis.Accuracy,
		Status:        app.Status,
	})
}

func (s *Server) resumeTooLarge() string {
	return fmt.Sprintf("resume exceeds the %d MB limit", s.maxResume>>20)
}

// parseApplicationForm reads the text fields of the multipart form.
func parseApplicationForm(r *http.Request) (*types.ApplicationForm, error) {
	form := &types.ApplicationForm{
		JobTitle:    strings.TrimSpace(r.FormValue("job_title")),
		Name:        strings.TrimSpace(r.FormValue("name")),
		Email:       strings.TrimSpace(r.FormValue("email")),
		Phone:       strings.TrimSpace(r.FormValue("phone")),
		CoverLetter: strings.TrimSpace(r.FormValue("cover_letter")),
		Education:   strings.TrimSpace(r.FormValue("education")),
		Skills:      splitList(r.FormValue("skills")),
	}

	jobID, err := uuid.Parse(strings.TrimSpace(r.FormValue("job_id")))
	if err != nil {
		return nil, &ErrValidation{Field: "job_id", Message: "must be a valid UUID"}
	}
	form.JobID = jobID

	if raw := strings.TrimSpace(r.FormValue("years_experience")); raw != "" {
		years, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &ErrValidation{Field: "years_experience", Message: "must be a number"}
		}
		form.YearsExperience = &years
	}
	return form, nil
}

// splitList splits a comma separated list and drops blanks.
func splitList(raw string) []string {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// applicationFilters reads the job_id and status query parameters.
func applicationFilters(r *http.Request) (db.ApplicationFilters, error) {
	var filters db.ApplicationFilters
	q := r.URL.Query()
	if raw := q.Get("job_id"); raw != "" {
		jobID, err := uuid.Parse(raw)
		if err != nil {
			return filters, &ErrValidation{Field: "job_id", Message: "must be a valid UUID"}
		}
		filters.JobID = &jobID
	}
	if raw := q.Get("status"); raw != "" {
		status, err := ats.ParseStatus(raw)
		if err != nil {
			return filters, &ErrValidation{Field: "status", Message: err.Error()}
		}
		filters.Status = string(status)
	}
	return filters, nil
}

// handleListApplications lists applications newest first.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	filters, err := applicationFilters(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	apps, err := s.store.ListApplications(r.Context(), filters)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, apps)
}

// handleGetApplication returns one application with its analysis.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	app, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if app == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "application", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// handleApplicationsByEmail is the public status check.
func (s *Server) handleApplicationsByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		s.errorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	apps, err := s.store.ListApplicationsByEmail(r.Context(), email)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.StatusViews(apps))
}

// handleUpdateApplicationStatus applies an admin status change.
func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	status, err := ats.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	app, err := s.applications.UpdateStatus(r.Context(), id, status)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// handleDownloadResume streams the original resume file.
func (s *Server) handleDownloadResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	app, data, err := s.applications.Resume(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	contentType := app.Resume.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": app.Resume.Filename,
	}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleExportApplications downloads applications as an Excel workbook.
func (s *Server) handleExportApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filters, err := applicationFilters(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	title := "All jobs"
	if filters.JobID != nil {
		job, err := s.store.GetJob(ctx, *filters.JobID)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		if job == nil {
			s.handleError(w, r, &ErrNotFound{Resource: "job", ID: filters.JobID.String()})
			return
		}
		title = job.Title
	}

	apps, err := s.store.ListApplications(ctx, filters)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	now := time.Now()
	var buf bytes.Buffer
	if err := export.WriteApplications(&buf, title, apps, now); err != nil {
		s.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": export.Filename(now),
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
