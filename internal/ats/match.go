package ats

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// skillAliases maps common variants to one canonical lower-case form.
var skillAliases = map[string]string{
	"golang":   "go",
	"go lang":  "go",
	"js":       "javascript",
	"ts":       "typescript",
	"k8s":      "kubernetes",
	"react.js": "react",
	"reactjs":  "react",
	"vue.js":   "vue",
	"vuejs":    "vue",
	"nodejs":   "node.js",
	"node":     "node.js",
	"postgres": "postgresql",
	"py":       "python",
	"ml":       "machine learning",
	"gcp":      "google cloud",
}

// degree levels, higher is more advanced
const (
	degreeNone = iota
	degreeAssociate
	degreeBachelor
	degreeMaster
	degreePhD
)

// degreePatterns only match wording that names an awarded degree, so job
// titles such as "Scrum Master" or phrases like "undergraduate courses" do
// not count. Patterns run on lower-cased text.
var degreePatterns = []struct {
	rank    int
	pattern *regexp.Regexp
}{
	{degreePhD, regexp.MustCompile(`\bph\.?\s?d\b|\bdoctorate\b|\bdoctoral degree\b|\bdoctor of (?:philosophy|science|engineering)\b`)},
	{degreeMaster, regexp.MustCompile(`\bmaster(?:'s|’s|s)?\s+(?:degree|of|in)\b|\bmaster(?:'s|’s)|\bm\.?sc\b|\bmba\b|\bm\.?tech\b|\bm\.s\.|\bms\s+in\b|\bpostgraduate degree\b`)},
	{degreeBachelor, regexp.MustCompile(`\bbachelor(?:'s|’s|s)?\b|\bb\.?sc\b|\bb\.?tech\b|\bb\.e\.|\bb\.s\.|\bbs\s+in\b|\bb\.a\.|\bundergraduate degree\b`)},
	{degreeAssociate, regexp.MustCompile(`\bassociate(?:'s|’s)?\s+degree\b|\bassociate of (?:arts|science|applied)\b|\bdiploma\b`)},
}

// nonDegreePhrases are removed before degree detection.
var nonDegreePhrases = regexp.MustCompile(`\bscrum master\b|\b(?:high|secondary) school diploma\b|\bged\b`)

var yearsPattern = regexp.MustCompile(`(?i)(\d{1,2}(?:\.\d+)?)\s*\+?\s*(?:years?|yrs?)\b`)

var stopWords = map[string]bool{
	"with": true, "that": true, "this": true, "from": true, "have": true,
	"will": true, "your": true, "their": true, "they": true, "them": true,
	"into": true, "also": true, "about": true, "must": true, "should": true,
	"able": true, "using": true, "work": true, "working": true, "years": true,
	"year": true, "strong": true, "good": true, "other": true, "such": true,
	"more": true, "than": true, "what": true, "when": true, "where": true,
}

// normalizeSkill lower-cases, trims and resolves aliases.
func normalizeSkill(skill string) string {
	s := strings.ToLower(strings.TrimSpace(skill))
	if canonical, ok := skillAliases[s]; ok {
		return canonical
	}
	return s
}

// skillVariants returns every spelling that should count as the skill.
func skillVariants(skill string) []string {
	canonical := normalizeSkill(skill)
	variants := []string{canonical}
	lower := strings.ToLower(strings.TrimSpace(skill))
	if lower != canonical {
		variants = append(variants, lower)
	}
	for alias, target := range skillAliases {
		if target == canonical && len(alias) > 2 {
			variants = append(variants, alias)
		}
	}
	return variants
}

// shortSkillLen is the longest skill name that must appear capitalized in
// the resume, since "go" or "r" in running text is usually an ordinary word.
const shortSkillLen = 2

// hasSkill reports whether a skill is declared or appears in the resume.
// lower is raw lower-cased.
func hasSkill(skill string, declared map[string]bool, raw, lower string) bool {
	if declared[normalizeSkill(skill)] {
		return true
	}
	for _, v := range skillVariants(skill) {
		if len(v) > shortSkillLen {
			if containsTerm(lower, v) {
				return true
			}
			continue
		}
		if containsTerm(raw, capitalize(v)) || containsTerm(raw, strings.ToUpper(v)) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// containsTerm finds term in text with no letter or digit directly on either side.
func containsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	start := 0
	for {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return false
		}
		pos := start + idx
		end := pos + len(term)
		if boundaryBefore(text, pos) && boundaryAfter(text, end) {
			return true
		}
		start = pos + 1
		if start >= len(text) {
			return false
		}
	}
}

func boundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r := rune(text[pos-1])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r := rune(text[end])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// yearsFromText returns the largest "N years" figure found, if any.
func yearsFromText(text string) (float64, bool) {
	best := -1.0
	for _, m := range yearsPattern.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v > 50 {
			continue
		}
		if v > best {
			best = v
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// degreeLevel returns the highest degree level mentioned in lower-cased text.
func degreeLevel(text string) int {
	text = nonDegreePhrases.ReplaceAllString(text, " ")
	for _, d := range degreePatterns {
		if d.pattern.MatchString(text) {
			return d.rank
		}
	}
	return degreeNone
}

// tokenize splits lower-cased text into words, keeping symbols that belong
// to technology names such as c++ and c#.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
}

// significantWords collects distinct words longer than three characters.
func significantWords(texts ...string) map[string]bool {
	words := make(map[string]bool)
	for _, t := range texts {
		for _, w := range tokenize(t) {
			if len([]rune(w)) <= 3 || stopWords[w] {
				continue
			}
			words[w] = true
		}
	}
	return words
}

// coverage returns the percentage of words present in the token set, or 100
// when there is nothing to match.
func coverage(words, tokens map[string]bool) float64 {
	if len(words) == 0 {
		return 100
	}
	matched := 0
	for w := range words {
		if tokens[w] {
			matched++
		}
	}
	return 100 * float64(matched) / float64(len(words))
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range tokenize(text) {
		set[w] = true
	}
	return set
}
