package server

import (
	"bufio"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/jonathan/careers-portal/internal/config"
	"github.com/jonathan/careers-portal/internal/db"
	"github.com/jonathan/careers-portal/internal/events"
	"github.com/jonathan/careers-portal/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLLM answers every prompt with the same text and streams it word by word.
type scriptedLLM struct {
	reply string
}

func (s scriptedLLM) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	return s.reply, nil
}

func (s scriptedLLM) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return "not json", nil
}

func (s scriptedLLM) StreamContent(_ context.Context, _ string, _ llm.ModelTier, fn func(string) error) error {
	for _, word := range strings.Fields(s.reply) {
		if err := fn(word + " "); err != nil {
			return err
		}
	}
	return nil
}

func (scriptedLLM) GetModel(llm.ModelTier) string { return "scripted" }
func (scriptedLLM) Close() error                  { return nil }

func withLLM(client llm.Client) envOption {
	return func(_ *config.Config, d *Deps) { d.Writer = llm.NewWriter(client, "Acme", nil) }
}

func TestContact(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rec := env.do(t, http.MethodPost, "/api/contact", map[string]string{
		"name":    " Grace Hopper ",
		"email":   "grace@example.com",
		"subject": "Partnership",
		"message": "Let's talk about compilers.",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	contact := decode[db.Contact](t, rec)
	assert.Equal(t, "Grace Hopper", contact.Name)
	assert.Equal(t, llm.FallbackText, contact.AIReply)

	sent := env.mailer.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "Re: Partnership", sent[0].Subject)
	assert.Equal(t, "grace@example.com", sent[0].To)

	evts := env.events.Events()
	require.Len(t, evts, 1)
	assert.Equal(t, events.ContactReceived, evts[0].Type)

	contacts := decode[[]db.Contact](t, env.do(t, http.MethodGet, "/api/contact", nil, token))
	require.Len(t, contacts, 1)
	assert.Equal(t, contact.ID, contacts[0].ID)

	rec = env.do(t, http.MethodPost, "/api/contact", map[string]string{"name": "x", "email": "bad", "message": "m"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContact_GeneratedReply(t *testing.T) {
	env := newTestEnv(t, withLLM(scriptedLLM{reply: "Thanks for reaching out!"}))

	rec := env.do(t, http.MethodPost, "/api/contact", map[string]string{
		"name": "Grace", "email": "grace@example.com", "message": "Hi",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Thanks for reaching out!", decode[db.Contact](t, rec).AIReply)
	assert.Equal(t, "We received your message", env.mailer.messages()[0].Subject)
}

func TestBlog_CreateUniqueSlugs(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)
	body := map[string]any{"title": "Hello, World!", "content": "<p>Some <b>body</b> text</p>", "published": true}

	rec := env.do(t, http.MethodPost, "/api/blog", body, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[db.BlogPost](t, rec)
	assert.Equal(t, "hello-world", first.Slug)
	assert.Equal(t, "Admin", first.Author)
	assert.Equal(t, "Some body text", first.Excerpt)
	assert.Equal(t, "Some body text", first.SEODescription)

	rec = env.do(t, http.MethodPost, "/api/blog", body, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "hello-world-1", decode[db.BlogPost](t, rec).Slug)

	rec = env.do(t, http.MethodGet, "/api/blog/hello-world-1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/blog/missing", nil, "").Code)
}

func TestBlog_ListPublishedFilter(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)
	for _, p := range []map[string]any{
		{"title": "Live", "content": "a", "published": true},
		{"title": "Draft", "content": "b", "published": false},
	} {
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/blog", p, token).Code)
	}

	assert.Len(t, decode[[]db.BlogPost](t, env.do(t, http.MethodGet, "/api/blog", nil, "")), 2)
	posts := decode[[]db.BlogPost](t, env.do(t, http.MethodGet, "/api/blog?published=true", nil, ""))
	require.Len(t, posts, 1)
	assert.Equal(t, "live", posts[0].Slug)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/blog?published=maybe", nil, "").Code)
}

func TestBlog_UpdateRegeneratesOnlyOnTextChange(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)
	rec := env.do(t, http.MethodPost, "/api/blog", map[string]any{"title": "Release notes", "content": "Version one"}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/blog/release-notes", map[string]any{
		"title": "Release notes", "content": "Version one", "published": true, "author": "Jo",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	post := decode[db.BlogPost](t, rec)
	assert.True(t, post.Published)
	assert.Equal(t, "Jo", post.Author)
	assert.Equal(t, "Version one", post.Excerpt)

	rec = env.do(t, http.MethodPut, "/api/blog/release-notes", map[string]any{
		"title": "Release notes v2", "content": "Version two",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	post = decode[db.BlogPost](t, rec)
	assert.Equal(t, "release-notes", post.Slug, "slug is stable")
	assert.Equal(t, "Version two", post.Excerpt)
	assert.Equal(t, "Admin", post.Author)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPut, "/api/blog/missing",
		map[string]any{"title": "x", "content": "y"}, token).Code)
}

func TestBlog_SummarizeAndDelete(t *testing.T) {
	env := newTestEnv(t, withLLM(scriptedLLM{reply: "A short summary."}))
	token := env.adminToken(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/blog",
		map[string]any{"title": "Go tips", "content": "Use contexts."}, token).Code)

	rec := env.do(t, http.MethodPost, "/api/blog/go-tips/summarize", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.Equal(t, "A short summary.", got["summary"])
	assert.Equal(t, true, got["cached"])

	require.NoError(t, env.store.SetBlogSummary(context.Background(), "go-tips", ""))
	got = decode[map[string]any](t, env.do(t, http.MethodPost, "/api/blog/go-tips/summarize", nil, ""))
	assert.Equal(t, false, got["cached"])
	post, err := env.store.GetBlogPost(context.Background(), "go-tips")
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", post.Summary)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/api/blog/go-tips", nil, token).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/blog/go-tips", nil, token).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/api/blog/go-tips/summarize", nil, "").Code)
}

func TestTestimonials(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rec := env.do(t, http.MethodPost, "/api/testimonials", map[string]any{
		"client_name": "Linus", "company": "Acme", "content": "Great work", "rating": 5, "featured": true,
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/testimonials", map[string]any{
		"client_name": "Ken", "company": "Bell", "content": "Solid", "rating": 4,
	}, token).Code)

	rec = env.do(t, http.MethodPost, "/api/testimonials", map[string]any{
		"client_name": "Bad", "company": "Co", "content": "x", "rating": 6,
	}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation error: Rating: max=5", errorMessage(t, rec))

	assert.Len(t, decode[[]db.Testimonial](t, env.do(t, http.MethodGet, "/api/testimonials", nil, "")), 2)
	featured := decode[[]db.Testimonial](t, env.do(t, http.MethodGet, "/api/testimonials?featured=true", nil, ""))
	require.Len(t, featured, 1)
	assert.Equal(t, "Linus", featured[0].ClientName)

	rec = env.do(t, http.MethodPost, "/api/testimonials/generate", map[string]string{"prompt": "cloud migration"}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, llm.FallbackText, decode[map[string]string](t, rec)["testimonial"])
	assert.Len(t, decode[[]db.Testimonial](t, env.do(t, http.MethodGet, "/api/testimonials", nil, "")), 2, "generate stores nothing")
}

func TestProjects(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)
	for _, p := range []map[string]any{
		{"title": "Billing", "description": "Invoices", "category": "fintech", "technologies": []string{"Go", "PostgreSQL"}},
		{"title": "Storefront", "description": "Shop", "category": "retail", "technologies": []string{"React"}},
	} {
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/projects", p, token).Code)
	}

	assert.Len(t, decode[[]db.Project](t, env.do(t, http.MethodGet, "/api/projects", nil, "")), 2)
	fintech := decode[[]db.Project](t, env.do(t, http.MethodGet, "/api/projects?category=fintech", nil, ""))
	require.Len(t, fintech, 1)
	assert.Equal(t, "Billing", fintech[0].Title)

	found := decode[[]db.Project](t, env.do(t, http.MethodGet, "/api/projects/search?tech=postgres", nil, ""))
	require.Len(t, found, 1)
	assert.Equal(t, "Billing", found[0].Title)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/projects/search", nil, "").Code)
}

func TestCaseStudies(t *testing.T) {
	env := newTestEnv(t, withLLM(scriptedLLM{reply: "Cut costs by half."}))
	token := env.adminToken(t)

	rec := env.do(t, http.MethodPost, "/api/case-studies", map[string]any{
		"title": "Cloud move", "client": "Acme", "challenge": "Old servers",
		"solution": "Kubernetes", "results": "50% cheaper",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Cut costs by half.", decode[db.CaseStudy](t, rec).AISummary)

	studies := decode[[]db.CaseStudy](t, env.do(t, http.MethodGet, "/api/case-studies", nil, ""))
	require.Len(t, studies, 1)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/case-studies",
		map[string]any{"title": "x"}, token).Code)
}

func TestChat(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/chat", map[string]string{"message": "Are you hiring?"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, llm.FallbackText, decode[map[string]string](t, rec)["response"])

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/chat", map[string]string{}, "").Code)
}

// sseEvents returns the event names and data lines of an event stream.
func sseEvents(t *testing.T, body string) (names, data []string) {
	t.Helper()
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			names = append(names, strings.TrimPrefix(line, "event: "))
		case strings.HasPrefix(line, "data: "):
			data = append(data, strings.TrimPrefix(line, "data: "))
		}
	}
	require.NoError(t, sc.Err())
	return names, data
}

func TestChatStream(t *testing.T) {
	t.Run("chunks then complete", func(t *testing.T) {
		env := newTestEnv(t, withLLM(scriptedLLM{reply: "We are hiring"}))
		rec := env.do(t, http.MethodPost, "/api/chat/stream", map[string]string{"message": "Hiring?"}, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

		names, data := sseEvents(t, rec.Body.String())
		assert.Equal(t, []string{"message", "message", "message", "complete"}, names)
		assert.Equal(t, `{"content":"We "}`, data[0])
		assert.Equal(t, `{"status":"done"}`, data[3])
	})

	t.Run("fallback when model is unavailable", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/chat/stream", map[string]string{"message": "Hiring?"}, "")
		require.Equal(t, http.StatusOK, rec.Code)

		names, data := sseEvents(t, rec.Body.String())
		assert.Equal(t, []string{"message", "complete"}, names)
		assert.Contains(t, data[0], llm.FallbackText)
	})
}
