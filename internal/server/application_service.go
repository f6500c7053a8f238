package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/careers-portal/internal/ats"
	"github.com/jonathan/careers-portal/internal/cache"
	"github.com/jonathan/careers-portal/internal/db"
	"github.com/jonathan/careers-portal/internal/events"
	"github.com/jonathan/careers-portal/internal/ingestion"
	"github.com/jonathan/careers-portal/internal/llm"
	"github.com/jonathan/careers-portal/internal/logger"
	"github.com/jonathan/careers-portal/internal/metrics"
	"github.com/jonathan/careers-portal/internal/notify"
	"github.com/jonathan/careers-portal/internal/storage"
	"github.com/jonathan/careers-portal/internal/types"
)

// Submission is a validated application form plus the uploaded resume.
type Submission struct {
	Form     types.ApplicationForm
	Filename string
	Data     []byte
}

// ApplicationService runs the submission pipeline and admin status changes.
type ApplicationService struct {
	store     Store
	extractor ResumeExtractor
	files     storage.ResumeStore
	writer    *llm.Writer
	events    events.Publisher
	mailer    notify.Mailer
	cache     cache.Cache
	log       logger.Logger
}

// Submit extracts the resume text, stores the file, scores the application
// against the job's config and persists the result. Publishing the event and
// sending the acknowledgment are best effort.
func (s *ApplicationService) Submit(ctx context.Context, sub Submission) (*db.Application, error) {
	format, err := ingestion.FormatFromFilename(sub.Filename)
	if err != nil {
		return nil, &ErrValidation{Field: "resume", Message: err.Error()}
	}

	job, err := s.store.GetJob(ctx, sub.Form.JobID)
	if err != nil {
		return nil, &SubmissionTransportError{Op: "load job", Cause: err}
	}
	if job == nil {
		return nil, &ErrNotFound{Resource: "job", ID: sub.Form.JobID.String()}
	}

	doc, err := s.extractor.Extract(ctx, sub.Filename, sub.Data)
	if err != nil {
		if errors.Is(err, ingestion.ErrUnsupportedFormat) || errors.Is(err, ingestion.ErrNoText) {
			return nil, &ErrValidation{Field: "resume", Message: err.Error()}
		}
		return nil, fmt.Errorf("failed to extract resume: %w", err)
	}

	key, err := s.files.PutResume(ctx, sub.Filename, format.ContentType(), sub.Data)
	if err != nil {
		return nil, &SubmissionTransportError{Op: "store resume", Cause: err}
	}

	cfg := job.ATSConfig
	breakdown := ats.Evaluate(cfg, job.ATSJob(), ats.Application{
		Skills:          sub.Form.Skills,
		YearsExperience: sub.Form.YearsExperience,
		Education:       sub.Form.Education,
		ResumeText:      doc.Text,
		CoverLetter:     sub.Form.CoverLetter,
	})
	decided := ats.Decide(breakdown.Accuracy, cfg)
	status := ats.ApplyAutomatic(ats.StatusPending, decided)
	raw, review := s.writer.ReviewApplication(ctx, job, breakdown, doc.Text)
	analysis := &db.AIAnalysis{
		Accuracy:     breakdown.Accuracy,
		RawAnalysis:  raw,
		ResumeLength: len(doc.Text),
		Decision:     decided,
		Breakdown:    &breakdown,
	}
	if review != nil {
		analysis.Summary = review.Summary
		analysis.Strengths = review.Strengths
		analysis.Weaknesses = review.Weaknesses
	}

	jobTitle := sub.Form.JobTitle
	if jobTitle == "" {
		jobTitle = job.Title
	}

	app, err := s.store.CreateApplication(ctx, &db.Application{
		JobID:           job.ID,
		JobTitle:        jobTitle,
		Name:            sub.Form.Name,
		Email:           sub.Form.Email,
		Phone:           sub.Form.Phone,
		CoverLetter:     sub.Form.CoverLetter,
		Skills:          sub.Form.Skills,
		YearsExperience: sub.Form.YearsExperience,
		Education:       sub.Form.Education,
		Resume: db.ResumeFile{
			Key:         key,
			Filename:    sub.Filename,
			Size:        int64(len(sub.Data)),
			ContentType: format.ContentType(),
		},
		ResumeText: doc.Text,
		Status:     status,
		AIAnalysis: analysis,
	}, sub.Data)
	if err != nil {
		if key != "" {
			if delErr := s.files.DeleteResume(ctx, key); delErr != nil {
				s.log.WithError(delErr).Warn("failed to remove orphaned resume", map[string]interface{}{"key": key})
			}
		}
		return nil, &SubmissionTransportError{Op: "save application", Cause: err}
	}

	metrics.ObserveEvaluation(string(app.Status), breakdown.Accuracy)
	s.log.Info("application evaluated", map[string]interface{}{
		"application_id": app.ID.String(),
		"job_id":         job.ID.String(),
		"accuracy":       breakdown.Accuracy,
		"status":         string(app.Status),
	})

	s.publish(ctx, events.ApplicationSubmitted, map[string]any{
		"application_id": app.ID.String(),
		"job_id":         job.ID.String(),
		"accuracy":       breakdown.Accuracy,
		"status":         string(app.Status),
	})
	s.acknowledge(ctx, app)
	s.invalidate(ctx)

	return app, nil
}

// UpdateStatus applies an admin-chosen status. Setting the current status
// again returns the application unchanged.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id uuid.UUID, status ats.Status) (*db.Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if app == nil {
		return nil, &ErrNotFound{Resource: "application", ID: id.String()}
	}
	if !ats.CanTransition(app.Status, status) {
		return app, nil
	}

	previous := app.Status
	updated, err := s.store.UpdateApplicationStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	if updated == nil {
		return nil, &ErrNotFound{Resource: "application", ID: id.String()}
	}

	s.publish(ctx, events.ApplicationStatusChanged, map[string]any{
		"application_id": id.String(),
		"from":           string(previous),
		"to":             string(status),
	})
	s.invalidate(ctx)
	return updated, nil
}

// Resume returns the stored file of an application.
func (s *ApplicationService) Resume(ctx context.Context, id uuid.UUID) (*db.Application, []byte, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get application: %w", err)
	}
	if app == nil {
		return nil, nil, &ErrNotFound{Resource: "application", ID: id.String()}
	}

	var data []byte
	if app.Resume.Key != "" {
		data, err = s.files.GetResume(ctx, app.Resume.Key)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, &ErrNotFound{Resource: "resume", ID: id.String()}
		}
	} else {
		data, err = s.store.GetResumeData(ctx, id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load resume: %w", err)
	}
	if len(data) == 0 {
		return nil, nil, &ErrNotFound{Resource: "resume", ID: id.String()}
	}
	return app, data, nil
}

func (s *ApplicationService) publish(ctx context.Context, eventType string, data map[string]any) {
	if err := s.events.Publish(ctx, events.New(eventType, data)); err != nil {
		s.log.WithError(err).Warn("failed to publish event", map[string]interface{}{"type": eventType})
	}
}

func (s *ApplicationService) acknowledge(ctx context.Context, app *db.Application) {
	body := s.writer.ApplicationReply(ctx, app.Name, app.JobTitle)
	err := s.mailer.Send(ctx, notify.Message{
		To:      app.Email,
		Subject: "Application received: " + app.JobTitle,
		Body:    body,
	})
	if err != nil {
		s.log.WithError(err).Warn("failed to send application acknowledgment", map[string]interface{}{
			"application_id": app.ID.String(),
		})
	}
}

func (s *ApplicationService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.KeyAnalytics); err != nil {
		s.log.WithError(err).Debug("failed to invalidate analytics cache", nil)
	}
}
