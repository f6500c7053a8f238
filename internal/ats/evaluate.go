package ats

import (
	"math"
	"strings"
)

// Job holds the posting text the evaluator compares against.
type Job struct {
	Title            string
	Description      string
	Qualification    string
	Requirements     []string
	Responsibilities []string
}

// Application is what a candidate supplied: optional declared fields plus
// the text extracted from the resume file.
type Application struct {
	Skills          []string
	YearsExperience *float64
	Education       string
	ResumeText      string
	CoverLetter     string
}

// Breakdown is the per-factor result of an evaluation. Sub-scores are 0-100.
type Breakdown struct {
	Skill                 float64  `json:"skill"`
	Experience            float64  `json:"experience"`
	Education             float64  `json:"education"`
	Qualification         float64  `json:"qualification"`
	OverallFit            float64  `json:"overall_fit"`
	MatchedRequiredSkills []string `json:"matched_required_skills"`
	MissingRequiredSkills []string `json:"missing_required_skills"`
	MatchedPreferred      []string `json:"matched_preferred_skills"`
	YearsExperience       *float64 `json:"years_experience,omitempty"`
	Accuracy              int      `json:"accuracy"`
}

// preferredBonus is the most the preferred skills can add to the skill score.
const preferredBonus = 20.0

// Evaluate scores an application against a job and its config. The result is
// the weighted sum of five sub-scores, rounded and clamped to 0-100.
func Evaluate(cfg Config, job Job, app Application) Breakdown {
	raw := app.ResumeText + "\n" + app.CoverLetter
	text := strings.ToLower(raw)
	declared := make(map[string]bool, len(app.Skills))
	for _, s := range app.Skills {
		if n := normalizeSkill(s); n != "" {
			declared[n] = true
		}
	}

	b := Breakdown{
		MatchedRequiredSkills: []string{},
		MissingRequiredSkills: []string{},
		MatchedPreferred:      []string{},
	}

	b.Skill = skillScore(cfg, declared, raw, text, &b)
	b.YearsExperience = candidateYears(app, text)
	b.Experience = experienceScore(cfg, b.YearsExperience)
	b.Education = educationScore(cfg, strings.ToLower(app.Education)+"\n"+text)

	tokens := tokenSet(text)
	b.Qualification = coverage(significantWords(append([]string{job.Qualification}, job.Requirements...)...), tokens)
	b.OverallFit = coverage(significantWords(append([]string{job.Title, job.Description}, job.Responsibilities...)...), tokens)

	total := cfg.SkillWeight*b.Skill +
		cfg.ExperienceWeight*b.Experience +
		cfg.EducationWeight*b.Education +
		cfg.QualificationWeight*b.Qualification +
		cfg.OverallFitWeight*b.OverallFit
	b.Accuracy = clampPercent(total)

	return b
}

func skillScore(cfg Config, declared map[string]bool, raw, text string, b *Breakdown) float64 {
	for _, s := range cfg.PreferredSkills {
		if hasSkill(s, declared, raw, text) {
			b.MatchedPreferred = append(b.MatchedPreferred, s)
		}
	}
	if len(cfg.RequiredSkills) == 0 {
		return 100
	}

	for _, s := range cfg.RequiredSkills {
		if hasSkill(s, declared, raw, text) {
			b.MatchedRequiredSkills = append(b.MatchedRequiredSkills, s)
		} else {
			b.MissingRequiredSkills = append(b.MissingRequiredSkills, s)
		}
	}

	score := 100 * float64(len(b.MatchedRequiredSkills)) / float64(len(cfg.RequiredSkills))
	if len(cfg.PreferredSkills) > 0 {
		score += preferredBonus * float64(len(b.MatchedPreferred)) / float64(len(cfg.PreferredSkills))
	}
	return math.Min(score, 100)
}

func candidateYears(app Application, text string) *float64 {
	if app.YearsExperience != nil && *app.YearsExperience >= 0 {
		y := *app.YearsExperience
		return &y
	}
	if y, ok := yearsFromText(text); ok {
		return &y
	}
	return nil
}

func experienceScore(cfg Config, years *float64) float64 {
	if cfg.MinExperienceYears == nil || *cfg.MinExperienceYears == 0 {
		return 100
	}
	if years != nil && *years >= float64(*cfg.MinExperienceYears) {
		return 100
	}
	return 0
}

func educationScore(cfg Config, text string) float64 {
	if cfg.RequiredEducation == nil {
		return 100
	}
	required := strings.ToLower(*cfg.RequiredEducation)

	if reqRank := degreeLevel(required); reqRank > degreeNone {
		have := degreeLevel(text)
		switch {
		case have >= reqRank:
			return 100
		case have == reqRank-1 && have > degreeNone:
			return 50
		default:
			return 0
		}
	}

	if containsTerm(text, required) {
		return 100
	}
	return 0
}
