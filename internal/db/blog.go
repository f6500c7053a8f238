package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const blogColumns = `id, title, slug, content, excerpt, summary, author, tags, featured_image,
	seo_description, published, created_date, updated_date`

func scanBlogPost(row scanner) (*BlogPost, error) {
	var p BlogPost
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Summary, &p.Author,
		&p.Tags, &p.FeaturedImage, &p.SEODescription, &p.Published, &p.CreatedDate, &p.UpdatedDate); err != nil {
		return nil, err
	}
	p.Tags = nonNil(p.Tags)
	return &p, nil
}

// SlugExists reports whether a post already uses slug.
func (db *DB) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM blog_posts WHERE slug = $1)`, slug,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

// CreateBlogPost inserts p and returns the stored row.
func (db *DB) CreateBlogPost(ctx context.Context, p *BlogPost) (*BlogPost, error) {
	created, err := scanBlogPost(db.pool.QueryRow(ctx,
		`INSERT INTO blog_posts (title, slug, content, excerpt, summary, author, tags,
		                         featured_image, seo_description, published)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+blogColumns,
		p.Title, p.Slug, p.Content, p.Excerpt, p.Summary, p.Author, nonNil(p.Tags),
		p.FeaturedImage, p.SEODescription, p.Published,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create blog post: %w", err)
	}
	return created, nil
}

// GetBlogPost retrieves a post by slug. Returns nil, nil when missing.
func (db *DB) GetBlogPost(ctx context.Context, slug string) (*BlogPost, error) {
	p, err := scanBlogPost(db.pool.QueryRow(ctx,
		`SELECT `+blogColumns+` FROM blog_posts WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}
	return p, nil
}

// ListBlogPosts returns posts newest first; published filters when non-nil.
func (db *DB) ListBlogPosts(ctx context.Context, published *bool) ([]BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts`
	args := []any{}
	if published != nil {
		query += ` WHERE published = $1`
		args = append(args, *published)
	}
	query += ` ORDER BY created_date DESC`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	defer rows.Close()

	posts := []BlogPost{}
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	return posts, nil
}

// UpdateBlogPost overwrites the post stored under slug. The slug itself never changes.
func (db *DB) UpdateBlogPost(ctx context.Context, slug string, p *BlogPost) (*BlogPost, error) {
	updated, err := scanBlogPost(db.pool.QueryRow(ctx,
		`UPDATE blog_posts SET title = $2, content = $3, excerpt = $4, summary = $5, author = $6,
		        tags = $7, featured_image = $8, seo_description = $9, published = $10,
		        updated_date = NOW()
		 WHERE slug = $1
		 RETURNING `+blogColumns,
		slug, p.Title, p.Content, p.Excerpt, p.Summary, p.Author, nonNil(p.Tags),
		p.FeaturedImage, p.SEODescription, p.Published,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update blog post: %w", err)
	}
	return updated, nil
}

// SetBlogSummary stores a generated summary.
func (db *DB) SetBlogSummary(ctx context.Context, slug, summary string) error {
	if _, err := db.pool.Exec(ctx,
		`UPDATE blog_posts SET summary = $2 WHERE slug = $1`, slug, summary); err != nil {
		return fmt.Errorf("failed to store blog summary: %w", err)
	}
	return nil
}

// DeleteBlogPost removes a post. Reports whether it existed.
func (db *DB) DeleteBlogPost(ctx context.Context, slug string) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM blog_posts WHERE slug = $1`, slug)
	if err != nil {
		return false, fmt.Errorf("failed to delete blog post: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
