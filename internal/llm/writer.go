package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/careers-portal/internal/ats"
	"github.com/jonathan/careers-portal/internal/content"
	"github.com/jonathan/careers-portal/internal/db"
	"github.com/jonathan/careers-portal/internal/logger"
	"github.com/jonathan/careers-portal/internal/metrics"
	"github.com/jonathan/careers-portal/internal/prompts"
	"github.com/jonathan/careers-portal/internal/schemas"
)

// FallbackText replaces generated copy when the model is unavailable.
const FallbackText = "Content generation temporarily unavailable."

// Input limits, in runes, applied to text placed into prompts.
const (
	maxMessageChars  = 200
	maxExcerptInput  = 500
	maxSummaryInput  = 1000
	maxSEOInput      = 300
	maxResumeChars   = 3000
	maxExcerptChars  = 150
	maxSEOChars      = 160
	defaultCompany   = "MasterSolis InfoTech"
	fallbackAnalysis = "Automated review unavailable."
)

// Analysis is the recruiter-facing narrative of an application.
type Analysis struct {
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Skills     []string `json:"skills,omitempty"`
}

// Writer produces the portal's generated copy. Every method degrades to
// static text when the model fails, so callers never see a model error.
type Writer struct {
	client  Client
	company string
	log     logger.Logger
}

// NewWriter builds a Writer. company defaults to MasterSolis InfoTech.
func NewWriter(client Client, company string, log logger.Logger) *Writer {
	if client == nil {
		client = NoopClient{}
	}
	if company == "" {
		company = defaultCompany
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Writer{client: client, company: company, log: log}
}

func (w *Writer) generate(ctx context.Context, file, key string, data map[string]string, tier ModelTier) (string, error) {
	prompt, err := prompts.Render(file, key, data)
	if err != nil {
		return "", err
	}
	text, err := w.client.GenerateContent(ctx, prompt, tier)
	if err != nil {
		w.log.Warn("content generation failed", map[string]interface{}{"prompt": key, "error": err.Error()})
		metrics.ContentFallbacks.WithLabelValues(key).Inc()
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (w *Writer) generateOr(ctx context.Context, key string, data map[string]string, tier ModelTier, fallback string) string {
	text, err := w.generate(ctx, prompts.ContentFile, key, data, tier)
	if err != nil || text == "" {
		return fallback
	}
	return text
}

// ContactReply drafts the acknowledgment for a contact form message.
func (w *Writer) ContactReply(ctx context.Context, name, subject, message string) string {
	if strings.TrimSpace(subject) == "" {
		subject = "General Inquiry"
	}
	return w.generateOr(ctx, "contact-reply", map[string]string{
		"Name":    name,
		"Subject": subject,
		"Message": content.Truncate(message, maxMessageChars),
	}, TierLite, FallbackText)
}

// ApplicationReply drafts the acknowledgment sent to an applicant.
func (w *Writer) ApplicationReply(ctx context.Context, name, jobTitle string) string {
	fallback := fmt.Sprintf("Dear %s,\n\nThank you for applying for the %s position at %s. We have received your application and will review it shortly.",
		name, jobTitle, w.company)
	return w.generateOr(ctx, "application-reply", map[string]string{
		"Name":     name,
		"JobTitle": jobTitle,
		"Company":  w.company,
	}, TierLite, fallback)
}

// BlogExcerpt falls back to the opening of the post's plain text.
func (w *Writer) BlogExcerpt(ctx context.Context, title, body string) string {
	text := w.generateOr(ctx, "blog-excerpt", map[string]string{
		"Title":   title,
		"Content": content.Truncate(content.PlainText(body), maxExcerptInput),
	}, TierLite, "")
	if text == "" {
		return content.Excerpt(body, maxExcerptChars)
	}
	return text
}

// BlogSummary writes a 3-4 sentence summary.
func (w *Writer) BlogSummary(ctx context.Context, title, body string) string {
	return w.generateOr(ctx, "blog-summary", map[string]string{
		"Title":   title,
		"Content": content.Truncate(content.PlainText(body), maxSummaryInput),
	}, TierStandard, FallbackText)
}

// BlogSEO writes a meta description, cut to 160 characters.
func (w *Writer) BlogSEO(ctx context.Context, title, body string) string {
	text := w.generateOr(ctx, "blog-seo", map[string]string{
		"Title":   title,
		"Content": content.Truncate(content.PlainText(body), maxSEOInput),
	}, TierLite, "")
	if text == "" {
		return content.Excerpt(body, maxSEOChars)
	}
	return content.Truncate(text, maxSEOChars)
}

// Testimonial drafts client feedback from an admin prompt.
func (w *Writer) Testimonial(ctx context.Context, prompt, extra string) string {
	return w.generateOr(ctx, "testimonial", map[string]string{
		"Prompt":  prompt,
		"Context": extra,
	}, TierStandard, FallbackText)
}

// CaseStudySummary condenses a case study into 2-3 sentences.
func (w *Writer) CaseStudySummary(ctx context.Context, challenge, solution, results string) string {
	return w.generateOr(ctx, "case-study-summary", map[string]string{
		"Challenge": challenge,
		"Solution":  solution,
		"Results":   results,
	}, TierLite, FallbackText)
}

func (w *Writer) chatPrompt(message string) (string, error) {
	return prompts.Render(prompts.ContentFile, "chat", map[string]string{
		"Company": w.company,
		"Message": message,
	})
}

// Chat answers a visitor question.
func (w *Writer) Chat(ctx context.Context, message string) string {
	return w.generateOr(ctx, "chat", map[string]string{
		"Company": w.company,
		"Message": message,
	}, TierStandard, FallbackText)
}

// ChatStream sends the answer to fn chunk by chunk. If the model fails
// before producing anything, fn receives the fallback text once.
func (w *Writer) ChatStream(ctx context.Context, message string, fn func(chunk string) error) error {
	prompt, err := w.chatPrompt(message)
	if err != nil {
		return err
	}

	sent := false
	err = w.client.StreamContent(ctx, prompt, TierStandard, func(chunk string) error {
		sent = true
		return fn(chunk)
	})
	if err == nil {
		return nil
	}
	if sent || ctx.Err() != nil {
		return err
	}
	w.log.Warn("chat stream failed", map[string]interface{}{"error": err.Error()})
	metrics.ContentFallbacks.WithLabelValues("chat-stream").Inc()
	return fn(FallbackText)
}

// AnalyticsSummary writes 2-3 insights about the dashboard counts.
func (w *Writer) AnalyticsSummary(ctx context.Context, c *db.Counts) string {
	statuses := make([]string, 0, len(c.ApplicationsPerStatus))
	for status, n := range c.ApplicationsPerStatus {
		statuses = append(statuses, fmt.Sprintf("%s=%d", status, n))
	}
	sort.Strings(statuses)

	return w.generateOr(ctx, "analytics-summary", map[string]string{
		"Contacts":       strconv.Itoa(c.Contacts),
		"Applications":   strconv.Itoa(c.Applications),
		"ActiveJobs":     strconv.Itoa(c.ActiveJobs),
		"PublishedBlogs": strconv.Itoa(c.PublishedBlogs),
		"Projects":       strconv.Itoa(c.Projects),
		"ByStatus":       strings.Join(statuses, ", "),
	}, TierLite, FallbackText)
}

// ReviewApplication asks the model for a narrative review of an already
// scored application. The returned string is what gets stored as
// raw_analysis: the model's JSON when it validates, else a plain rubric
// summary. The score itself is never read from the model.
func (w *Writer) ReviewApplication(ctx context.Context, job *db.Job, b ats.Breakdown, resumeText string) (string, *Analysis) {
	criteria := "None"
	if job.ATSConfig.EvaluationCriteria != nil {
		criteria = *job.ATSConfig.EvaluationCriteria
	}
	preamble, err := prompts.Render(prompts.ATSFile, "application-analysis", map[string]string{
		"JobTitle":           job.Title,
		"Qualification":      job.Qualification,
		"Requirements":       strings.Join(job.Requirements, "; "),
		"Description":        content.Truncate(job.Description, maxSummaryInput),
		"Criteria":           criteria,
		"Accuracy":           strconv.Itoa(b.Accuracy),
		"Threshold":          strconv.Itoa(job.ATSConfig.MinAccuracyThreshold),
		"Skill":              formatScore(b.Skill),
		"Experience":         formatScore(b.Experience),
		"Education":          formatScore(b.Education),
		"QualificationScore": formatScore(b.Qualification),
		"OverallFit":         formatScore(b.OverallFit),
		"Matched":            listOrNone(b.MatchedRequiredSkills),
		"Missing":            listOrNone(b.MissingRequiredSkills),
	})
	if err != nil {
		return RubricSummary(b, job.ATSConfig), nil
	}

	prompt := BuildExtractionPrompt(ApplicationAnalysisSchema(preamble), content.Truncate(resumeText, maxResumeChars))
	raw, err := w.client.GenerateJSON(ctx, prompt, TierStandard)
	if err != nil {
		w.log.Warn("application review failed", map[string]interface{}{"job_id": job.ID.String(), "error": err.Error()})
		metrics.ContentFallbacks.WithLabelValues("application-analysis").Inc()
		return RubricSummary(b, job.ATSConfig), nil
	}

	raw = CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.AIAnalysis, []byte(raw)); err != nil {
		w.log.Warn("application review rejected", map[string]interface{}{"job_id": job.ID.String(), "error": err.Error()})
		return RubricSummary(b, job.ATSConfig), nil
	}
	var analysis Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return RubricSummary(b, job.ATSConfig), nil
	}
	return raw, &analysis
}

// RubricSummary describes a breakdown without the model.
func RubricSummary(b ats.Breakdown, cfg ats.Config) string {
	return fmt.Sprintf("%s Accuracy %d%% against a threshold of %d%%. Matched required skills: %s. Missing required skills: %s.",
		fallbackAnalysis, b.Accuracy, cfg.MinAccuracyThreshold,
		listOrNone(b.MatchedRequiredSkills), listOrNone(b.MissingRequiredSkills))
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
