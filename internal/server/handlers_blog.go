package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jonathan/careers-portal/internal/cache"
	"github.com/jonathan/careers-portal/internal/content"
	"github.com/jonathan/careers-portal/internal/db"
	"github.com/jonathan/careers-portal/internal/types"
	"golang.org/x/sync/errgroup"
)

// blogFields are the generated fields of a post.
type blogFields struct {
	excerpt string
	summary string
	seo     string
}

// generateBlogFields asks for excerpt, summary and SEO description in parallel.
// The writer never fails, so neither does this.
func (s *Server) generateBlogFields(ctx context.Context, title, body string) blogFields {
	var f blogFields
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f.excerpt = s.writer.BlogExcerpt(gctx, title, body)
		return nil
	})
	g.Go(func() error {
		f.summary = s.writer.BlogSummary(gctx, title, body)
		return nil
	})
	g.Go(func() error {
		f.seo = s.writer.BlogSEO(gctx, title, body)
		return nil
	})
	_ = g.Wait()
	return f
}

// handleCreateBlogPost creates a post under a unique slug derived from its title.
func (s *Server) handleCreateBlogPost(w http.ResponseWriter, r *http.Request) {
	var req types.BlogPostRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	ctx := r.Context()

	slug, err := content.UniqueSlug(ctx, req.Title, s.store.SlugExists)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	fields := s.generateBlogFields(ctx, req.Title, req.Content)

	post, err := s.store.CreateBlogPost(ctx, &db.BlogPost{
		Title:          req.Title,
		Slug:           slug,
		Content:        req.Content,
		Excerpt:        fields.excerpt,
		Summary:        fields.summary,
		Author:         authorOrDefault(req.Author),
		Tags:           req.Tags,
		FeaturedImage:  req.FeaturedImage,
		SEODescription: fields.seo,
		Published:      req.Published,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.invalidateAnalytics(ctx)
	s.jsonResponse(w, http.StatusCreated, post)
}

func authorOrDefault(author string) string {
	if author == "" {
		return "Admin"
	}
	return author
}

// handleListBlogPosts lists posts newest first; ?published=true|false filters.
func (s *Server) handleListBlogPosts(w http.ResponseWriter, r *http.Request) {
	published, err := optionalBool(r, "published")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	posts, err := s.store.ListBlogPosts(r.Context(), published)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, posts)
}

// handleGetBlogPost returns a post by slug.
func (s *Server) handleGetBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.blogPost(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, post)
}

func (s *Server) blogPost(r *http.Request) (*db.BlogPost, error) {
	slug := r.PathValue("slug")
	post, err := s.store.GetBlogPost(r.Context(), slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, &ErrNotFound{Resource: "blog post", ID: slug}
	}
	return post, nil
}

// handleUpdateBlogPost edits a post. Generated fields are refreshed only when
// the title or content changed.
func (s *Server) handleUpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	existing, err := s.blogPost(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	var req types.BlogPostRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	ctx := r.Context()

	next := *existing
	next.Title = req.Title
	next.Content = req.Content
	next.Author = authorOrDefault(req.Author)
	next.Tags = req.Tags
	next.FeaturedImage = req.FeaturedImage
	next.Published = req.Published
	if req.Title != existing.Title || req.Content != existing.Content {
		fields := s.generateBlogFields(ctx, req.Title, req.Content)
		next.Excerpt = fields.excerpt
		next.Summary = fields.summary
		next.SEODescription = fields.seo
	}

	post, err := s.store.UpdateBlogPost(ctx, existing.Slug, &next)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if post == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "blog post", ID: existing.Slug})
		return
	}
	s.invalidateAnalytics(ctx)
	s.jsonResponse(w, http.StatusOK, post)
}

// handleDeleteBlogPost removes a post.
func (s *Server) handleDeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	deleted, err := s.store.DeleteBlogPost(r.Context(), slug)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if !deleted {
		s.handleError(w, r, &ErrNotFound{Resource: "blog post", ID: slug})
		return
	}
	s.invalidateAnalytics(r.Context())
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Blog post deleted successfully"})
}

// handleSummarizeBlogPost returns the stored summary or generates and stores one.
func (s *Server) handleSummarizeBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.blogPost(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if post.Summary != "" {
		s.jsonResponse(w, http.StatusOK, map[string]any{"summary": post.Summary, "cached": true})
		return
	}

	summary := s.writer.BlogSummary(r.Context(), post.Title, post.Content)
	if err := s.store.SetBlogSummary(r.Context(), post.Slug, summary); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"summary": summary, "cached": false})
}

// optionalBool parses a true/false query parameter; absent means nil.
func optionalBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &ErrValidation{Field: name, Message: "must be true or false"}
	}
	return &v, nil
}

func (s *Server) invalidateAnalytics(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.KeyAnalytics); err != nil {
		s.log.WithError(err).Debug("failed to invalidate analytics cache", nil)
	}
}
