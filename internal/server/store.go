package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/careers-portal/internal/ats"
	"github.com/jonathan/careers-portal/internal/db"
	"github.com/jonathan/careers-portal/internal/ingestion"
)

// Store is the persistence the handlers need. *db.DB satisfies it.
type Store interface {
	Ping(ctx context.Context) error

	CreateJob(ctx context.Context, in db.JobInput) (*db.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (*db.Job, error)
	ListJobs(ctx context.Context, status string) ([]db.Job, error)
	UpdateJob(ctx context.Context, id uuid.UUID, in db.JobInput) (*db.Job, error)
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status string) (*db.Job, error)
	DeleteJob(ctx context.Context, id uuid.UUID) (bool, error)

	CreateApplication(ctx context.Context, a *db.Application, resumeData []byte) (*db.Application, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*db.Application, error)
	ListApplications(ctx context.Context, filters db.ApplicationFilters) ([]db.Application, error)
	ListApplicationsByEmail(ctx context.Context, email string) ([]db.Application, error)
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status ats.Status) (*db.Application, error)
	GetResumeData(ctx context.Context, id uuid.UUID) ([]byte, error)

	SlugExists(ctx context.Context, slug string) (bool, error)
	CreateBlogPost(ctx context.Context, p *db.BlogPost) (*db.BlogPost, error)
	GetBlogPost(ctx context.Context, slug string) (*db.BlogPost, error)
	ListBlogPosts(ctx context.Context, published *bool) ([]db.BlogPost, error)
	UpdateBlogPost(ctx context.Context, slug string, p *db.BlogPost) (*db.BlogPost, error)
	SetBlogSummary(ctx context.Context, slug, summary string) error
	DeleteBlogPost(ctx context.Context, slug string) (bool, error)

	CreateContact(ctx context.Context, c *db.Contact) (*db.Contact, error)
	ListContacts(ctx context.Context) ([]db.Contact, error)
	CreateTestimonial(ctx context.Context, t *db.Testimonial) (*db.Testimonial, error)
	ListTestimonials(ctx context.Context, featured *bool) ([]db.Testimonial, error)
	CreateProject(ctx context.Context, p *db.Project) (*db.Project, error)
	ListProjects(ctx context.Context, category string) ([]db.Project, error)
	SearchProjectsByTech(ctx context.Context, tech string) ([]db.Project, error)
	CreateCaseStudy(ctx context.Context, c *db.CaseStudy) (*db.CaseStudy, error)
	ListCaseStudies(ctx context.Context) ([]db.CaseStudy, error)

	CreateResumeSnapshot(ctx context.Context, r *db.ResumeSnapshot) (*db.ResumeSnapshot, error)
	GetResumeSnapshot(ctx context.Context, id uuid.UUID) (*db.ResumeSnapshot, error)
	ListResumeSnapshots(ctx context.Context, email string) ([]db.ResumeSnapshot, error)

	CreateAdmin(ctx context.Context, username, email, passwordHash string) (*db.Admin, error)
	GetAdminByUsername(ctx context.Context, username string) (*db.Admin, error)
	GetAdminByID(ctx context.Context, id uuid.UUID) (*db.Admin, error)

	Counts(ctx context.Context) (*db.Counts, error)
}

var _ Store = (*db.DB)(nil)

// ResumeExtractor turns an uploaded resume into text. *ingestion.Extractor satisfies it.
type ResumeExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (*ingestion.Document, error)
}

var _ ResumeExtractor = (*ingestion.Extractor)(nil)
