package ingestion

import (
	"regexp"
	"strings"
)

var (
	multiSpace = regexp.MustCompile(`[ \t\f\v]+`)
	blankRuns  = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes extracted resume text while keeping its line structure.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, " ", " ")
	content = strings.ReplaceAll(content, "\x00", "")
	content = strings.ToValidUTF8(content, "")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = blankRuns.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine trims a line and collapses inner runs of spaces. Bullet markers
// from word processors are normalized to "- ".
func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	for _, bullet := range []string{"• ", "· ", "▪ ", "* "} {
		if strings.HasPrefix(line, bullet) {
			line = "- " + strings.TrimSpace(strings.TrimPrefix(line, bullet))
			break
		}
	}
	return multiSpace.ReplaceAllString(line, " ")
}
