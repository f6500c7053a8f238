package ingestion

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// maxDocumentXML bounds the decompressed size of word/document.xml.
const maxDocumentXML = 8 << 20

// extractDOCX reads the paragraphs of word/document.xml.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		if f.UncompressedSize64 > maxDocumentXML {
			return "", fmt.Errorf("%w: document.xml is %d bytes", ErrDocumentTooLarge, f.UncompressedSize64)
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document.xml: %w", err)
		}
		defer rc.Close()
		return readDocumentXML(rc, maxDocumentXML)
	}
	return "", errors.New("docx archive has no word/document.xml")
}

// readDocumentXML stops after limit bytes, whatever the zip header claims.
func readDocumentXML(r io.Reader, limit int64) (string, error) {
	lr := &io.LimitedReader{R: r, N: limit + 1}
	text, err := documentText(lr)
	if lr.N <= 0 {
		return "", fmt.Errorf("%w: document.xml exceeds %d bytes", ErrDocumentTooLarge, limit)
	}
	return text, err
}

// documentText walks the WordprocessingML token stream: w:t carries text,
// w:tab and w:br are whitespace, and each w:p ends a line.
func documentText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// extractLegacyDOC handles .doc uploads. Files that are really OOXML are read
// as docx; otherwise printable runs of at least four characters are kept.
func extractLegacyDOC(data []byte) (string, error) {
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		text, err := extractDOCX(data)
		if err == nil {
			return text, nil
		}
		if errors.Is(err, ErrDocumentTooLarge) {
			return "", err
		}
	}

	var sb strings.Builder
	var run []rune
	flush := func() {
		if len(run) >= 4 {
			sb.WriteString(string(run))
			sb.WriteByte('\n')
		}
		run = run[:0]
	}
	for _, b := range data {
		r := rune(b)
		if r < 0x80 && (unicode.IsPrint(r) || r == '\t') {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()
	return sb.String(), nil
}
