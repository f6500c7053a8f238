// Package types holds the request and response bodies of the portal API.
package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/careers-portal/internal/ats"
	"github.com/jonathan/careers-portal/internal/db"
)

var validate = validator.New()

// Validate runs the struct's validate tags.
func Validate(v any) error {
	return validate.Struct(v)
}

// FirstError renders the first failed rule as "field: rule".
func FirstError(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		if fe.Param() != "" {
			return fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s: %s", fe.Field(), fe.Tag())
	}
	return "invalid request"
}

// AdminRegisterRequest creates a dashboard account.
type AdminRegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password string `json:"password" validate:"required,min=8"`
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by register and login.
type LoginResponse struct {
	Admin *db.Admin `json:"admin"`
	Token string    `json:"token"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject,omitempty" validate:"max=300"`
	Message string `json:"message" validate:"required,max=10000"`
}

// JobRequest is the body of job create and full edit. ATSConfig is kept raw
// so it can be normalized field by field.
type JobRequest struct {
	Title            string          `json:"title" validate:"required"`
	Department       string          `json:"department"`
	Location         string          `json:"location"`
	Type             string          `json:"type"`
	Description      string          `json:"description" validate:"required"`
	Qualification    string          `json:"qualification"`
	Timings          string          `json:"timings"`
	Requirements     []string        `json:"requirements"`
	Responsibilities []string        `json:"responsibilities"`
	ATSConfig        json.RawMessage `json:"ats_config,omitempty"`
}

// Input converts the request with an already normalized config.
func (r *JobRequest) Input(cfg ats.Config) db.JobInput {
	return db.JobInput{
		Title:            r.Title,
		Department:       r.Department,
		Location:         r.Location,
		Type:             r.Type,
		Description:      r.Description,
		Qualification:    r.Qualification,
		Timings:          r.Timings,
		Requirements:     r.Requirements,
		Responsibilities: r.Responsibilities,
		ATSConfig:        cfg,
	}
}

type BlogPostRequest struct {
	Title         string   `json:"title" validate:"required,max=300"`
	Content       string   `json:"content" validate:"required"`
	Author        string   `json:"author"`
	Tags          []string `json:"tags"`
	FeaturedImage string   `json:"featured_image,omitempty"`
	Published     bool     `json:"published"`
}

type TestimonialRequest struct {
	ClientName string `json:"client_name" validate:"required"`
	Company    string `json:"company" validate:"required"`
	Position   string `json:"position,omitempty"`
	Content    string `json:"content" validate:"required"`
	Rating     int    `json:"rating" validate:"min=1,max=5"`
	Avatar     string `json:"avatar,omitempty"`
	Featured   bool   `json:"featured"`
}

type GenerateTestimonialRequest struct {
	Prompt  string `json:"prompt" validate:"required"`
	Context string `json:"context,omitempty"`
}

type ProjectRequest struct {
	Title          string   `json:"title" validate:"required"`
	Description    string   `json:"description" validate:"required"`
	Technologies   []string `json:"technologies"`
	Category       string   `json:"category" validate:"required"`
	Image          string   `json:"image,omitempty"`
	Client         string   `json:"client,omitempty"`
	CompletionDate string   `json:"completion_date,omitempty"`
	Featured       bool     `json:"featured"`
}

type CaseStudyRequest struct {
	Title        string   `json:"title" validate:"required"`
	Client       string   `json:"client" validate:"required"`
	Challenge    string   `json:"challenge" validate:"required"`
	Solution     string   `json:"solution" validate:"required"`
	Results      string   `json:"results" validate:"required"`
	Technologies []string `json:"technologies"`
	Image        string   `json:"image,omitempty"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// ApplicationForm holds the text fields of a multipart application.
type ApplicationForm struct {
	JobID           uuid.UUID `validate:"required"`
	JobTitle        string
	Name            string `validate:"required"`
	Email           string `validate:"required,email"`
	Phone           string `validate:"required"`
	CoverLetter     string
	Skills          []string
	YearsExperience *float64 `validate:"omitempty,min=0,max=80"`
	Education       string
}

// SubmitApplicationResponse is returned after a successful submission.
type SubmitApplicationResponse struct {
	Message       string     `json:"message"`
	ApplicationID uuid.UUID  `json:"application_id"`
	Accuracy      int        `json:"accuracy"`
	Status        ats.Status `json:"status"`
}

// ApplicationStatusView is the public status-check projection.
type ApplicationStatusView struct {
	ID          uuid.UUID  `json:"id"`
	JobTitle    string     `json:"job_title"`
	Status      ats.Status `json:"status"`
	AppliedDate time.Time  `json:"applied_date"`
}

// StatusViews projects applications for the public status check.
func StatusViews(apps []db.Application) []ApplicationStatusView {
	out := make([]ApplicationStatusView, 0, len(apps))
	for _, a := range apps {
		out = append(out, ApplicationStatusView{
			ID:          a.ID,
			JobTitle:    a.JobTitle,
			Status:      a.Status,
			AppliedDate: a.AppliedDate,
		})
	}
	return out
}

// Analytics is the admin dashboard payload.
type Analytics struct {
	db.Counts
	AISummary string `json:"ai_summary"`
}
