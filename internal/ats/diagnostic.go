package ats

import "strings"

// CandidateProfile is a resume-builder draft.
type CandidateProfile struct {
	Photo              string   `json:"photo,omitempty"`
	FullName           string   `json:"fullName"`
	Email              string   `json:"email"`
	TechnicalSkills    []string `json:"technicalSkills"`
	NonTechnicalSkills []string `json:"nonTechnicalSkills"`
	Education          string   `json:"education"`
	Company            string   `json:"company"`
	Role               string   `json:"role"`
	Duration           string   `json:"duration"`
	DesiredRole        string   `json:"desiredRole"`
	Languages          []string `json:"languages"`
	Certifications     []string `json:"certifications"`
	AIQuestion         string   `json:"aiQuestion,omitempty"`
}

// Diagnostics are the advisory resume-builder scores, each 0-100.
type Diagnostics struct {
	Accuracy int `json:"accuracy"`
	ATSMatch int `json:"ats_match"`
	Impact   int `json:"impact"`
}

// Diagnose computes all three diagnostic scores.
func Diagnose(p CandidateProfile) Diagnostics {
	return Diagnostics{
		Accuracy: AccuracyScore(p),
		ATSMatch: ATSMatchScore(p),
		Impact:   ImpactScore(p),
	}
}

// AccuracyScore rewards a complete profile.
func AccuracyScore(p CandidateProfile) int {
	score := 0
	tech := count(p.TechnicalSkills)

	if present(p.FullName) {
		score += 15
	}
	if present(p.Email) {
		score += 10
	}
	switch {
	case tech >= 5:
		score += 20
	case tech >= 3:
		score += 15
	case tech > 0:
		score += 10
	}
	if present(p.Role) && present(p.Company) {
		score += 15
	}
	if present(p.Education) {
		score += 10
	}
	if present(p.Duration) {
		score += 10
	}
	if count(p.NonTechnicalSkills) >= 3 {
		score += 10
	}
	if count(p.Languages) >= 2 {
		score += 5
	}
	if count(p.Certifications) >= 1 {
		score += 5
	}
	return min(score, 100)
}

// ATSMatchScore estimates how well the draft parses in a tracking system.
func ATSMatchScore(p CandidateProfile) int {
	score := 0
	tech := count(p.TechnicalSkills)

	switch {
	case tech >= 5:
		score += 30
	case tech >= 3:
		score += 20
	}
	if present(p.DesiredRole) {
		score += 15
	}
	if present(p.Role) && present(p.Company) && present(p.Duration) {
		score += 20
	}
	if present(p.Education) {
		score += 15
	}
	if strings.Contains(p.Email, "@") {
		score += 10
	}
	if count(p.Certifications) > 0 {
		score += 10
	}
	return min(score, 100)
}

// ImpactScore weighs breadth of skills and credentials.
func ImpactScore(p CandidateProfile) int {
	score := 0
	tech := count(p.TechnicalSkills)
	soft := count(p.NonTechnicalSkills)
	certs := count(p.Certifications)

	switch {
	case tech >= 6:
		score += 25
	case tech >= 4:
		score += 20
	}
	switch {
	case soft >= 4:
		score += 15
	case soft >= 2:
		score += 10
	}
	if present(p.Role) {
		score += 20
	}
	switch {
	case certs >= 2:
		score += 20
	case certs >= 1:
		score += 10
	}
	if count(p.Languages) >= 2 {
		score += 10
	}
	return min(score, 100)
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

// count ignores blank entries, which the builder form leaves behind.
func count(items []string) int {
	n := 0
	for _, s := range items {
		if present(s) {
			n++
		}
	}
	return n
}
