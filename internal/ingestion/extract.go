// Package ingestion turns uploaded resume files into plain text for scoring.
package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/jonathan/careers-portal/internal/logger"
)

const parseTimeout = 30 * time.Second

// maxTextBytes caps the raw text taken from any one upload.
const maxTextBytes = 1 << 20

// Document is the result of extracting one resume.
type Document struct {
	Text     string
	Metadata *Metadata
}

// Extractor extracts text from .pdf, .docx and .doc uploads.
type Extractor struct {
	pdf *pdf.PDFParser
	log logger.Logger
}

// NewExtractor builds an Extractor whose PDF parser returns the whole
// document as one text.
func NewExtractor(ctx context.Context, log logger.Logger) (*Extractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF parser: %w", err)
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Extractor{pdf: p, log: log}, nil
}

// Extract returns the cleaned text of a resume upload. It fails with
// ErrUnsupportedFormat for other extensions and ErrNoText when nothing
// readable came out of the file.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (*Document, error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var raw string
	switch format {
	case FormatPDF:
		raw, err = e.extractPDF(ctx, filename, data)
	case FormatDOCX:
		raw, err = extractDOCX(data)
	case FormatDOC:
		raw, err = extractLegacyDOC(data)
	}
	if err != nil {
		e.log.Warn("resume extraction failed", map[string]interface{}{
			"filename": filename,
			"format":   string(format),
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%w: %w", ErrNoText, err)
	}

	if len(raw) > maxTextBytes {
		e.log.Warn("resume text truncated", map[string]interface{}{
			"filename": filename,
			"bytes":    len(raw),
		})
		raw = raw[:maxTextBytes]
	}
	text := CleanText(raw)
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	meta := newMetadata(filename, format, data, text)
	e.log.Debug("resume extracted", map[string]interface{}{
		"filename":    filename,
		"format":      string(format),
		"chars":       meta.CharCount,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return &Document{Text: text, Metadata: meta}, nil
}

func (e *Extractor) extractPDF(ctx context.Context, uri string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, parseTimeout)
	defer cancel()

	docs, err := e.pdf.Parse(ctx, bytes.NewReader(data),
		einoParser.WithURI(uri),
		einoParser.WithExtraMeta(map[string]any{"source": "application_upload"}),
	)
	if err != nil {
		return "", fmt.Errorf("pdf parser failed for %s: %w", uri, err)
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, doc.Content)
	}
	return strings.Join(parts, "\n\n"), nil
}
