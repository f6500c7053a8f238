// Package ats implements applicant tracking scoring: the per-job weighting
// policy, the weighted fit evaluation of an application, the automatic status
// decision, and the diagnostic scores shown in the resume builder.
package ats

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Default weights and threshold applied when a job's config omits them.
const (
	DefaultSkillWeight         = 0.30
	DefaultExperienceWeight    = 0.25
	DefaultEducationWeight     = 0.20
	DefaultQualificationWeight = 0.15
	DefaultOverallFitWeight    = 0.10
	DefaultMinAccuracy         = 85
)

// Config is the normalized scoring policy attached to a job posting.
// Weights are used as given; they are not rescaled to sum to 1.
type Config struct {
	MinAccuracyThreshold int      `json:"min_accuracy_threshold"`
	AutoRejectThreshold  *int     `json:"auto_reject_threshold,omitempty"`
	SkillWeight          float64  `json:"skill_weight"`
	ExperienceWeight     float64  `json:"experience_weight"`
	EducationWeight      float64  `json:"education_weight"`
	QualificationWeight  float64  `json:"qualification_weight"`
	OverallFitWeight     float64  `json:"overall_fit_weight"`
	RequiredSkills       []string `json:"required_skills"`
	PreferredSkills      []string `json:"preferred_skills"`
	MinExperienceYears   *int     `json:"min_experience_years,omitempty"`
	RequiredEducation    *string  `json:"required_education,omitempty"`
	EvaluationCriteria   *string  `json:"evaluation_criteria,omitempty"`
}

// DefaultConfig returns the policy used for jobs without a config.
func DefaultConfig() Config {
	return NormalizeConfig(nil)
}

// NormalizeConfig fills defaults into a loosely typed config object.
// Missing or non-numeric weights and threshold take their defaults, list
// entries are trimmed and blanks dropped. It never fails.
func NormalizeConfig(raw map[string]any) Config {
	cfg := Config{
		MinAccuracyThreshold: DefaultMinAccuracy,
		SkillWeight:          numberOr(raw, "skill_weight", DefaultSkillWeight),
		ExperienceWeight:     numberOr(raw, "experience_weight", DefaultExperienceWeight),
		EducationWeight:      numberOr(raw, "education_weight", DefaultEducationWeight),
		QualificationWeight:  numberOr(raw, "qualification_weight", DefaultQualificationWeight),
		OverallFitWeight:     numberOr(raw, "overall_fit_weight", DefaultOverallFitWeight),
		RequiredSkills:       cleanList(raw["required_skills"]),
		PreferredSkills:      cleanList(raw["preferred_skills"]),
		RequiredEducation:    cleanText(raw["required_education"]),
		EvaluationCriteria:   cleanText(raw["evaluation_criteria"]),
	}

	if v, ok := number(raw["min_accuracy_threshold"]); ok {
		cfg.MinAccuracyThreshold = clampPercent(v)
	}
	if v, ok := number(raw["auto_reject_threshold"]); ok {
		t := clampPercent(v)
		cfg.AutoRejectThreshold = &t
	}
	if v, ok := number(raw["min_experience_years"]); ok && v >= 0 {
		years := int(math.Round(v))
		cfg.MinExperienceYears = &years
	}

	return cfg
}

// ParseConfig decodes and normalizes a JSON config. Anything that is not a
// JSON object yields the default config.
func ParseConfig(data []byte) Config {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return DefaultConfig()
	}
	return NormalizeConfig(raw)
}

// UnmarshalJSON normalizes while decoding so a stored or submitted config is
// always usable as-is.
func (c *Config) UnmarshalJSON(data []byte) error {
	*c = ParseConfig(data)
	return nil
}

// WeightSum returns the total of the five weights. It is informational only.
func (c Config) WeightSum() float64 {
	return c.SkillWeight + c.ExperienceWeight + c.EducationWeight + c.QualificationWeight + c.OverallFitWeight
}

func numberOr(raw map[string]any, key string, fallback float64) float64 {
	if v, ok := number(raw[key]); ok {
		return v
	}
	return fallback
}

// number accepts JSON numbers and numeric strings.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func clampPercent(v float64) int {
	p := int(math.Round(v))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// cleanList keeps trimmed, non-empty strings, dropping case-insensitive repeats.
func cleanList(v any) []string {
	out := []string{}
	var items []any
	switch list := v.(type) {
	case []any:
		items = list
	case []string:
		for _, s := range list {
			items = append(items, s)
		}
	case string:
		for _, s := range strings.Split(list, ",") {
			items = append(items, s)
		}
	default:
		return out
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func cleanText(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
