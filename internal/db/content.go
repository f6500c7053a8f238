package db

import (
	"context"
	"fmt"
)

// CreateContact stores a contact form message.
func (db *DB) CreateContact(ctx context.Context, c *Contact) (*Contact, error) {
	var out Contact
	err := db.pool.QueryRow(ctx,
		`INSERT INTO contacts (name, email, subject, message, ai_reply)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, name, email, subject, message, ai_reply, created_date`,
		c.Name, c.Email, c.Subject, c.Message, c.AIReply,
	).Scan(&out.ID, &out.Name, &out.Email, &out.Subject, &out.Message, &out.AIReply, &out.CreatedDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return &out, nil
}

// ListContacts returns messages newest first.
func (db *DB) ListContacts(ctx context.Context) ([]Contact, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, email, subject, message, ai_reply, created_date
		 FROM contacts ORDER BY created_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []Contact{}
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.AIReply, &c.CreatedDate); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// CreateTestimonial stores a testimonial.
func (db *DB) CreateTestimonial(ctx context.Context, t *Testimonial) (*Testimonial, error) {
	var out Testimonial
	err := db.pool.QueryRow(ctx,
		`INSERT INTO testimonials (client_name, company, position, content, rating, avatar, featured)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, client_name, company, position, content, rating, avatar, featured, created_date`,
		t.ClientName, t.Company, t.Position, t.Content, t.Rating, t.Avatar, t.Featured,
	).Scan(&out.ID, &out.ClientName, &out.Company, &out.Position, &out.Content, &out.Rating,
		&out.Avatar, &out.Featured, &out.CreatedDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create testimonial: %w", err)
	}
	return &out, nil
}

// ListTestimonials returns testimonials newest first; featured filters when non-nil.
func (db *DB) ListTestimonials(ctx context.Context, featured *bool) ([]Testimonial, error) {
	query := `SELECT id, client_name, company, position, content, rating, avatar, featured, created_date
		FROM testimonials`
	args := []any{}
	if featured != nil {
		query += ` WHERE featured = $1`
		args = append(args, *featured)
	}
	query += ` ORDER BY created_date DESC`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	defer rows.Close()

	out := []Testimonial{}
	for rows.Next() {
		var t Testimonial
		if err := rows.Scan(&t.ID, &t.ClientName, &t.Company, &t.Position, &t.Content, &t.Rating,
			&t.Avatar, &t.Featured, &t.CreatedDate); err != nil {
			return nil, fmt.Errorf("failed to scan testimonial: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const projectColumns = `id, title, description, technologies, category, image, client,
	completion_date, featured, created_date`

func scanProject(row scanner) (*Project, error) {
	var p Project
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Technologies, &p.Category, &p.Image,
		&p.Client, &p.CompletionDate, &p.Featured, &p.CreatedDate); err != nil {
		return nil, err
	}
	p.Technologies = nonNil(p.Technologies)
	return &p, nil
}

// CreateProject stores a portfolio project.
func (db *DB) CreateProject(ctx context.Context, p *Project) (*Project, error) {
	out, err := scanProject(db.pool.QueryRow(ctx,
		`INSERT INTO projects (title, description, technologies, category, image, client,
		                       completion_date, featured)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+projectColumns,
		p.Title, p.Description, nonNil(p.Technologies), p.Category, p.Image, p.Client,
		p.CompletionDate, p.Featured,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return out, nil
}

// ListProjects returns projects newest first, optionally in one category.
func (db *DB) ListProjects(ctx context.Context, category string) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY created_date DESC`
	return db.queryProjects(ctx, query, args...)
}

// SearchProjectsByTech matches technologies case-insensitively by substring.
func (db *DB) SearchProjectsByTech(ctx context.Context, tech string) ([]Project, error) {
	return db.queryProjects(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE EXISTS (SELECT 1 FROM unnest(technologies) t WHERE t ILIKE '%' || $1 || '%')
		 ORDER BY created_date DESC`, tech)
}

func (db *DB) queryProjects(ctx context.Context, query string, args ...any) ([]Project, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	out := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

const caseStudyColumns = `id, title, client, challenge, solution, results, ai_summary,
	technologies, image, created_date`

func scanCaseStudy(row scanner) (*CaseStudy, error) {
	var c CaseStudy
	if err := row.Scan(&c.ID, &c.Title, &c.Client, &c.Challenge, &c.Solution, &c.Results,
		&c.AISummary, &c.Technologies, &c.Image, &c.CreatedDate); err != nil {
		return nil, err
	}
	c.Technologies = nonNil(c.Technologies)
	return &c, nil
}

// CreateCaseStudy stores a case study.
func (db *DB) CreateCaseStudy(ctx context.Context, c *CaseStudy) (*CaseStudy, error) {
	out, err := scanCaseStudy(db.pool.QueryRow(ctx,
		`INSERT INTO case_studies (title, client, challenge, solution, results, ai_summary,
		                           technologies, image)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+caseStudyColumns,
		c.Title, c.Client, c.Challenge, c.Solution, c.Results, c.AISummary,
		nonNil(c.Technologies), c.Image,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create case study: %w", err)
	}
	return out, nil
}

// ListCaseStudies returns case studies newest first.
func (db *DB) ListCaseStudies(ctx context.Context) ([]CaseStudy, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+caseStudyColumns+` FROM case_studies ORDER BY created_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list case studies: %w", err)
	}
	defer rows.Close()

	out := []CaseStudy{}
	for rows.Next() {
		c, err := scanCaseStudy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case study: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
