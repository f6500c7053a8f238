package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/careers-portal/internal/ats"
)

// Job status values
const (
	JobStatusActive = "active"
	JobStatusClosed = "closed"
)

// Job is a posting on the careers page together with its scoring policy.
type Job struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Department       string     `json:"department"`
	Location         string     `json:"location"`
	Type             string     `json:"type"`
	Description      string     `json:"description"`
	Qualification    string     `json:"qualification"`
	Timings          string     `json:"timings"`
	Requirements     []string   `json:"requirements"`
	Responsibilities []string   `json:"responsibilities"`
	Status           string     `json:"status"`
	ATSConfig        ats.Config `json:"ats_config"`
	PostedDate       time.Time  `json:"posted_date"`
	UpdatedDate      time.Time  `json:"updated_date"`
}

// JobInput holds the editable fields of a Job.
type JobInput struct {
	Title            string
	Department       string
	Location         string
	Type             string
	Description      string
	Qualification    string
	Timings          string
	Requirements     []string
	Responsibilities []string
	ATSConfig        ats.Config
}

// ATSJob projects the text fields the evaluator reads.
func (j *Job) ATSJob() ats.Job {
	return ats.Job{
		Title:            j.Title,
		Description:      j.Description,
		Qualification:    j.Qualification,
		Requirements:     j.Requirements,
		Responsibilities: j.Responsibilities,
	}
}

// ResumeFile references a stored resume upload.
type ResumeFile struct {
	Key         string `json:"key,omitempty"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// AIAnalysis is persisted with each application.
type AIAnalysis struct {
	Accuracy     int            `json:"accuracy"`
	RawAnalysis  string         `json:"raw_analysis"`
	ResumeLength int            `json:"resume_length"`
	Decision     ats.Status     `json:"decision"`
	Breakdown    *ats.Breakdown `json:"breakdown,omitempty"`
	Summary      string         `json:"summary,omitempty"`
	Strengths    []string       `json:"strengths,omitempty"`
	Weaknesses   []string       `json:"weaknesses,omitempty"`
}

// Application is a candidate submission for a Job.
type Application struct {
	ID              uuid.UUID   `json:"id"`
	JobID           uuid.UUID   `json:"job_id"`
	JobTitle        string      `json:"job_title"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	CoverLetter     string      `json:"cover_letter,omitempty"`
	Skills          []string    `json:"skills"`
	YearsExperience *float64    `json:"years_experience,omitempty"`
	Education       string      `json:"education,omitempty"`
	Resume          ResumeFile  `json:"resume"`
	ResumeText      string      `json:"resume_text,omitempty"`
	Status          ats.Status  `json:"status"`
	AIAnalysis      *AIAnalysis `json:"ai_analysis,omitempty"`
	AppliedDate     time.Time   `json:"applied_date"`
	UpdatedDate     time.Time   `json:"updated_date"`
}

// ApplicationFilters narrows ListApplications.
type ApplicationFilters struct {
	JobID  *uuid.UUID
	Status string
}

// Contact is a message from the contact form.
type Contact struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject,omitempty"`
	Message     string    `json:"message"`
	AIReply     string    `json:"ai_reply,omitempty"`
	CreatedDate time.Time `json:"timestamp"`
}

// BlogPost is a CMS article addressed by slug.
type BlogPost struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Content        string    `json:"content"`
	Excerpt        string    `json:"excerpt"`
	Summary        string    `json:"summary,omitempty"`
	Author         string    `json:"author"`
	Tags           []string  `json:"tags"`
	FeaturedImage  string    `json:"featured_image,omitempty"`
	SEODescription string    `json:"seo_description,omitempty"`
	Published      bool      `json:"published"`
	CreatedDate    time.Time `json:"created_date"`
	UpdatedDate    time.Time `json:"updated_date"`
}

type Testimonial struct {
	ID          uuid.UUID `json:"id"`
	ClientName  string    `json:"client_name"`
	Company     string    `json:"company"`
	Position    string    `json:"position,omitempty"`
	Content     string    `json:"content"`
	Rating      int       `json:"rating"`
	Avatar      string    `json:"avatar,omitempty"`
	Featured    bool      `json:"featured"`
	CreatedDate time.Time `json:"created_date"`
}

type Project struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Technologies   []string  `json:"technologies"`
	Category       string    `json:"category"`
	Image          string    `json:"image,omitempty"`
	Client         string    `json:"client,omitempty"`
	CompletionDate string    `json:"completion_date,omitempty"`
	Featured       bool      `json:"featured"`
	CreatedDate    time.Time `json:"created_date"`
}

type CaseStudy struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Client       string    `json:"client"`
	Challenge    string    `json:"challenge"`
	Solution     string    `json:"solution"`
	Results      string    `json:"results"`
	AISummary    string    `json:"ai_summary,omitempty"`
	Technologies []string  `json:"technologies"`
	Image        string    `json:"image,omitempty"`
	CreatedDate  time.Time `json:"created_date"`
}

// ResumeSnapshot is a saved resume-builder draft with its diagnostic scores.
type ResumeSnapshot struct {
	ID          uuid.UUID            `json:"id"`
	Email       string               `json:"email"`
	Profile     ats.CandidateProfile `json:"profile"`
	Scores      ats.Diagnostics      `json:"scores"`
	CreatedDate time.Time            `json:"created_date"`
}

// Admin is a dashboard account.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize to JSON
	CreatedDate  time.Time `json:"created_date"`
}

// Counts backs the admin analytics view.
type Counts struct {
	Contacts              int            `json:"total_contacts"`
	Applications          int            `json:"total_applications"`
	ActiveJobs            int            `json:"active_jobs"`
	PublishedBlogs        int            `json:"published_blogs"`
	Projects              int            `json:"total_projects"`
	ApplicationsPerStatus map[string]int `json:"applications_by_status"`
}
