// Package content holds the text helpers behind the blog CMS: HTML to plain
// text, excerpts, and URL slugs.
package content

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips markup from blog content and collapses whitespace.
// Input without tags comes back whitespace-normalized.
func PlainText(body string) string {
	if !strings.Contains(body, "<") {
		return collapse(body)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return collapse(body)
	}
	doc.Find("script, style, noscript").Remove()
	// Keep block boundaries as word breaks
	doc.Find("p, br, li, h1, h2, h3, h4, h5, h6, div").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	return collapse(doc.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate cuts s to at most max runes without splitting a rune.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// Excerpt returns the plain text of body shortened to max runes at a word
// boundary, with "..." appended when anything was cut.
func Excerpt(body string, max int) string {
	text := PlainText(body)
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	cut := Truncate(text, max-3)
	if idx := strings.LastIndex(cut, " "); idx > len(cut)/2 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,.;:") + "..."
}

var nonSlug = regexp.MustCompile(`[^a-z0-9-]`)

// Slugify lowercases title, turns spaces and slashes into hyphens, and drops
// every other character outside [a-z0-9-].
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.NewReplacer(" ", "-", "/", "-").Replace(s)
	return nonSlug.ReplaceAllString(s, "")
}

// UniqueSlug returns the slug of title, suffixed -1, -2, ... until exists
// reports it free. An empty slug becomes "post".
func UniqueSlug(ctx context.Context, title string, exists func(context.Context, string) (bool, error)) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "post"
	}
	slug := base
	for i := 1; ; i++ {
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", slug, err)
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
