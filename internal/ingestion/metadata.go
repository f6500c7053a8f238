package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode/utf8"
)

// Metadata describes an extracted resume.
type Metadata struct {
	Filename    string `json:"filename"`
	Format      Format `json:"format"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Hash        string `json:"hash"`       // SHA256 hex digest of the file
	CharCount   int    `json:"char_count"` // runes in the cleaned text
	Timestamp   string `json:"timestamp"`  // RFC3339
}

func newMetadata(filename string, format Format, data []byte, text string) *Metadata {
	return &Metadata{
		Filename:    filename,
		Format:      format,
		ContentType: format.ContentType(),
		Size:        int64(len(data)),
		Hash:        computeHash(data),
		CharCount:   utf8.RuneCountInString(text),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

func computeHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
