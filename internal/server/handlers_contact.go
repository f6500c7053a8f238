package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/careers-portal/internal/cache"
	"github.com/jonathan/careers-portal/internal/db"
	"github.com/jonathan/careers-portal/internal/events"
	"github.com/jonathan/careers-portal/internal/notify"
	"github.com/jonathan/careers-portal/internal/types"
)

// handleCreateContact stores a contact message with a generated acknowledgment
// and mails the acknowledgment to the sender.
func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req types.ContactRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	ctx := r.Context()

	reply := s.writer.ContactReply(ctx, req.Name, req.Subject, req.Message)
	contact, err := s.store.CreateContact(ctx, &db.Contact{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: req.Subject,
		Message: req.Message,
		AIReply: reply,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	subject := "We received your message"
	if req.Subject != "" {
		subject = "Re: " + req.Subject
	}
	if err := s.mailer.Send(ctx, notify.Message{To: contact.Email, Subject: subject, Body: reply}); err != nil {
		s.log.WithError(err).Warn("failed to send contact acknowledgment", map[string]interface{}{
			"contact_id": contact.ID.String(),
		})
	}
	if err := s.events.Publish(ctx, events.New(events.ContactReceived, map[string]any{
		"contact_id": contact.ID.String(),
		"subject":    contact.Subject,
	})); err != nil {
		s.log.WithError(err).Warn("failed to publish contact event", nil)
	}
	if err := s.cache.Delete(ctx, cache.KeyAnalytics); err != nil {
		s.log.WithError(err).Debug("failed to invalidate analytics cache", nil)
	}

	s.jsonResponse(w, http.StatusCreated, contact)
}

// handleListContacts returns contact messages newest first.
func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.store.ListContacts(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, contacts)
}

// pathID parses a UUID path value.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "must be a valid UUID"}
	}
	return id, nil
}
