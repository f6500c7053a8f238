package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/careers-portal/internal/db"
	"github.com/jonathan/careers-portal/internal/types"
)

func (s *Server) handleCreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req types.TestimonialRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	t, err := s.store.CreateTestimonial(r.Context(), &db.Testimonial{
		ClientName: req.ClientName,
		Company:    req.Company,
		Position:   req.Position,
		Content:    req.Content,
		Rating:     req.Rating,
		Avatar:     req.Avatar,
		Featured:   req.Featured,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, t)
}

// handleListTestimonials lists testimonials; ?featured=true|false filters.
func (s *Server) handleListTestimonials(w http.ResponseWriter, r *http.Request) {
	featured, err := optionalBool(r, "featured")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	out, err := s.store.ListTestimonials(r.Context(), featured)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, out)
}

// handleGenerateTestimonial drafts testimonial copy. Nothing is stored.
func (s *Server) handleGenerateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateTestimonialRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	text := s.writer.Testimonial(r.Context(), req.Prompt, req.Context)
	s.jsonResponse(w, http.StatusOK, map[string]string{"testimonial": text})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req types.ProjectRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	p, err := s.store.CreateProject(r.Context(), &db.Project{
		Title:          req.Title,
		Description:    req.Description,
		Technologies:   req.Technologies,
		Category:       req.Category,
		Image:          req.Image,
		Client:         req.Client,
		CompletionDate: req.CompletionDate,
		Featured:       req.Featured,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.invalidateAnalytics(r.Context())
	s.jsonResponse(w, http.StatusCreated, p)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, projects)
}

// handleSearchProjects matches ?tech= against project technologies.
func (s *Server) handleSearchProjects(w http.ResponseWriter, r *http.Request) {
	tech := strings.TrimSpace(r.URL.Query().Get("tech"))
	if tech == "" {
		s.errorResponse(w, http.StatusBadRequest, "tech is required")
		return
	}

	projects, err := s.store.SearchProjectsByTech(r.Context(), tech)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, projects)
}

// handleCreateCaseStudy stores a case study with a generated summary.
func (s *Server) handleCreateCaseStudy(w http.ResponseWriter, r *http.Request) {
	var req types.CaseStudyRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	ctx := r.Context()

	cs, err := s.store.CreateCaseStudy(ctx, &db.CaseStudy{
		Title:        req.Title,
		Client:       req.Client,
		Challenge:    req.Challenge,
		Solution:     req.Solution,
		Results:      req.Results,
		AISummary:    s.writer.CaseStudySummary(ctx, req.Challenge, req.Solution, req.Results),
		Technologies: req.Technologies,
		Image:        req.Image,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, cs)
}

func (s *Server) handleListCaseStudies(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListCaseStudies(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, out)
}

// handleChat answers a visitor question in one response.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"response": s.writer.Chat(r.Context(), req.Message)})
}

// handleChatStream answers a visitor question as SSE "message" chunks
// followed by "complete".
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.writer.ChatStream(r.Context(), req.Message, sse.WriteChunk); err != nil {
		s.log.WithError(err).Warn("chat stream interrupted", nil)
		sse.WriteError("stream interrupted")
		return
	}
	sse.WriteComplete()
}
