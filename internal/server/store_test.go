package server

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/careers-portal/internal/ats"
	"github.com/jonathan/careers-portal/internal/db"
)

var errStoreDown = errors.New("connection refused")

// memStore is an in-memory Store for handler tests.
type memStore struct {
	mu           sync.Mutex
	jobs         map[uuid.UUID]*db.Job
	applications map[uuid.UUID]*db.Application
	resumeData   map[uuid.UUID][]byte
	posts        map[string]*db.BlogPost
	contacts     []db.Contact
	testimonials []db.Testimonial
	projects     []db.Project
	caseStudies  []db.CaseStudy
	resumes      map[uuid.UUID]*db.ResumeSnapshot
	admins       map[uuid.UUID]*db.Admin
	failWrites   bool
	clock        time.Time
}

func newMemStore() *memStore {
	return &memStore{
		jobs:         map[uuid.UUID]*db.Job{},
		applications: map[uuid.UUID]*db.Application{},
		resumeData:   map[uuid.UUID][]byte{},
		posts:        map[string]*db.BlogPost{},
		resumes:      map[uuid.UUID]*db.ResumeSnapshot{},
		admins:       map[uuid.UUID]*db.Admin{},
		clock:        time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so newest-first order is stable.
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memStore) Ping(context.Context) error { return nil }

func (m *memStore) CreateJob(_ context.Context, in db.JobInput) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return nil, errStoreDown
	}
	now := m.tick()
	j := &db.Job{
		ID: uuid.New(), Title: in.Title, Department: in.Department, Location: in.Location,
		Type: in.Type, Description: in.Description, Qualification: in.Qualification,
		Timings: in.Timings, Requirements: in.Requirements, Responsibilities: in.Responsibilities,
		Status: db.JobStatusActive, ATSConfig: in.ATSConfig, PostedDate: now, UpdatedDate: now,
	}
	m.jobs[j.ID] = j
	out := *j
	return &out, nil
}

func (m *memStore) GetJob(_ context.Context, id uuid.UUID) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	out := *j
	return &out, nil
}

func (m *memStore) ListJobs(_ context.Context, status string) ([]db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Job{}
	for _, j := range m.jobs {
		if status == "" || j.Status == status {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].PostedDate.After(out[b].PostedDate) })
	return out, nil
}

func (m *memStore) UpdateJob(_ context.Context, id uuid.UUID, in db.JobInput) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return nil, errStoreDown
	}
	j, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	j.Title, j.Department, j.Location, j.Type = in.Title, in.Department, in.Location, in.Type
	j.Description, j.Qualification, j.Timings = in.Description, in.Qualification, in.Timings
	j.Requirements, j.Responsibilities, j.ATSConfig = in.Requirements, in.Responsibilities, in.ATSConfig
	j.UpdatedDate = m.tick()
	out := *j
	return &out, nil
}

func (m *memStore) UpdateJobStatus(_ context.Context, id uuid.UUID, status string) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	j.Status = status
	out := *j
	return &out, nil
}

func (m *memStore) DeleteJob(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.jobs[id]
	delete(m.jobs, id)
	return ok, nil
}

func (m *memStore) CreateApplication(_ context.Context, a *db.Application, resumeData []byte) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return nil, errStoreDown
	}
	out := *a
	out.ID = uuid.New()
	out.AppliedDate = m.tick()
	out.UpdatedDate = out.AppliedDate
	if out.Status == "" {
		out.Status = ats.StatusPending
	}
	m.applications[out.ID] = &out
	if out.Resume.Key == "" {
		m.resumeData[out.ID] = resumeData
	}
	ret := out
	return &ret, nil
}

func (m *memStore) GetApplication(_ context.Context, id uuid.UUID) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (m *memStore) ListApplications(_ context.Context, f db.ApplicationFilters) ([]db.Application, error) {
	return m.filterApplications(func(a *db.Application) bool {
		return (f.JobID == nil || a.JobID == *f.JobID) && (f.Status == "" || string(a.Status) == f.Status)
	}), nil
}

func (m *memStore) ListApplicationsByEmail(_ context.Context, email string) ([]db.Application, error) {
	return m.filterApplications(func(a *db.Application) bool {
		return strings.EqualFold(a.Email, email)
	}), nil
}

func (m *memStore) filterApplications(keep func(*db.Application) bool) []db.Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Application{}
	for _, a := range m.applications {
		if keep(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedDate.After(out[j].AppliedDate) })
	return out
}

func (m *memStore) UpdateApplicationStatus(_ context.Context, id uuid.UUID, status ats.Status) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok {
		return nil, nil
	}
	a.Status = status
	a.UpdatedDate = m.tick()
	out := *a
	return &out, nil
}

func (m *memStore) GetResumeData(_ context.Context, id uuid.UUID) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resumeData[id], nil
}

func (m *memStore) SlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.posts[slug]
	return ok, nil
}

func (m *memStore) CreateBlogPost(_ context.Context, p *db.BlogPost) (*db.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := *p
	out.ID = uuid.New()
	out.CreatedDate = m.tick()
	out.UpdatedDate = out.CreatedDate
	m.posts[out.Slug] = &out
	ret := out
	return &ret, nil
}

func (m *memStore) GetBlogPost(_ context.Context, slug string) (*db.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[slug]
	if !ok {
		return nil, nil
	}
	out := *p
	return &out, nil
}

func (m *memStore) ListBlogPosts(_ context.Context, published *bool) ([]db.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.BlogPost{}
	for _, p := range m.posts {
		if published == nil || p.Published == *published {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedDate.After(out[j].CreatedDate) })
	return out, nil
}

func (m *memStore) UpdateBlogPost(_ context.Context, slug string, p *db.BlogPost) (*db.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.posts[slug]
	if !ok {
		return nil, nil
	}
	out := *p
	out.ID, out.Slug, out.CreatedDate = existing.ID, existing.Slug, existing.CreatedDate
	out.UpdatedDate = m.tick()
	m.posts[slug] = &out
	ret := out
	return &ret, nil
}

func (m *memStore) SetBlogSummary(_ context.Context, slug, summary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[slug]; ok {
		p.Summary = summary
	}
	return nil
}

func (m *memStore) DeleteBlogPost(_ context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.posts[slug]
	delete(m.posts, slug)
	return ok, nil
}

func (m *memStore) CreateContact(_ context.Context, c *db.Contact) (*db.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := *c
	out.ID = uuid.New()
	out.CreatedDate = m.tick()
	m.contacts = append([]db.Contact{out}, m.contacts...)
	return &out, nil
}

func (m *memStore) ListContacts(context.Context) ([]db.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]db.Contact{}, m.contacts...), nil
}

func (m *memStore) CreateTestimonial(_ context.Context, t *db.Testimonial) (*db.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := *t
	out.ID = uuid.New()
	out.CreatedDate = m.tick()
	m.testimonials = append([]db.Testimonial{out}, m.testimonials...)
	return &out, nil
}

func (m *memStore) ListTestimonials(_ context.Context, featured *bool) ([]db.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Testimonial{}
	for _, t := range m.testimonials {
		if featured == nil || t.Featured == *featured {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) CreateProject(_ context.Context, p *db.Project) (*db.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := *p
	out.ID = uuid.New()
	out.CreatedDate = m.tick()
	m.projects = append([]db.Project{out}, m.projects...)
	return &out, nil
}

func (m *memStore) ListProjects(_ context.Context, category string) ([]db.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Project{}
	for _, p := range m.projects {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) SearchProjectsByTech(_ context.Context, tech string) ([]db.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Project{}
	for _, p := range m.projects {
		for _, t := range p.Technologies {
			if strings.Contains(strings.ToLower(t), strings.ToLower(tech)) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (m *memStore) CreateCaseStudy(_ context.Context, c *db.CaseStudy) (*db.CaseStudy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := *c
	out.ID = uuid.New()
	out.CreatedDate = m.tick()
	m.caseStudies = append([]db.CaseStudy{out}, m.caseStudies...)
	return &out, nil
}

func (m *memStore) ListCaseStudies(context.Context) ([]db.CaseStudy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]db.CaseStudy{}, m.caseStudies...), nil
}

func (m *memStore) CreateResumeSnapshot(_ context.Context, r *db.ResumeSnapshot) (*db.ResumeSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := *r
	out.ID = uuid.New()
	out.CreatedDate = m.tick()
	m.resumes[out.ID] = &out
	ret := out
	return &ret, nil
}

func (m *memStore) GetResumeSnapshot(_ context.Context, id uuid.UUID) (*db.ResumeSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resumes[id]
	if !ok {
		return nil, nil
	}
	out := *r
	return &out, nil
}

func (m *memStore) ListResumeSnapshots(_ context.Context, email string) ([]db.ResumeSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.ResumeSnapshot{}
	for _, r := range m.resumes {
		if strings.EqualFold(r.Email, email) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedDate.After(out[j].CreatedDate) })
	return out, nil
}

func (m *memStore) CreateAdmin(_ context.Context, username, email, passwordHash string) (*db.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := &db.Admin{ID: uuid.New(), Username: username, Email: email, PasswordHash: passwordHash, CreatedDate: m.tick()}
	m.admins[a.ID] = a
	out := *a
	return &out, nil
}

func (m *memStore) GetAdminByUsername(_ context.Context, username string) (*db.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Username == username {
			out := *a
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetAdminByID(_ context.Context, id uuid.UUID) (*db.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (m *memStore) Counts(context.Context) (*db.Counts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &db.Counts{
		Contacts:              len(m.contacts),
		Applications:          len(m.applications),
		Projects:              len(m.projects),
		ApplicationsPerStatus: map[string]int{},
	}
	for _, j := range m.jobs {
		if j.Status == db.JobStatusActive {
			c.ActiveJobs++
		}
	}
	for _, p := range m.posts {
		if p.Published {
			c.PublishedBlogs++
		}
	}
	for _, a := range m.applications {
		c.ApplicationsPerStatus[string(a.Status)]++
	}
	return c, nil
}

var _ Store = (*memStore)(nil)
