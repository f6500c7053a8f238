package ingestion

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an accepted resume file type.
type Format string

// Accepted formats
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatDOC  Format = "doc"
)

// ErrUnsupportedFormat is returned for any extension other than .pdf, .docx or .doc.
var ErrUnsupportedFormat = errors.New("unsupported resume format: upload a .pdf, .docx or .doc file")

// ErrNoText is returned when a file parses but yields no text.
var ErrNoText = errors.New("could not extract text from resume")

// ErrDocumentTooLarge is returned when a compressed upload expands past the
// extraction limit.
var ErrDocumentTooLarge = errors.New("resume document is too large to extract")

// FormatFromFilename picks the format by extension, case-insensitively.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".doc":
		return FormatDOC, nil
	default:
		return "", fmt.Errorf("%w (got %q)", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// ContentType returns the MIME type stored with the file.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatDOC:
		return "application/msword"
	default:
		return "application/octet-stream"
	}
}
