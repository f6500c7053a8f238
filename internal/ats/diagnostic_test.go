package ats

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullProfile() CandidateProfile {
	return CandidateProfile{
		FullName:           "Jo",
		Email:              "a@b.com",
		TechnicalSkills:    []string{"Go", "SQL", "Docker", "AWS", "React"},
		Role:               "Eng",
		Company:            "X",
		Education:          "bachelors",
		Duration:           "2020-2023",
		NonTechnicalSkills: []string{"Leadership", "Communication", "Mentoring"},
		Languages:          []string{"English", "Hindi"},
		Certifications:     []string{"CKA"},
	}
}

func TestAccuracyScore_FullProfile(t *testing.T) {
	assert.Equal(t, 100, AccuracyScore(fullProfile()))
}

func TestDiagnose_EmptyProfile(t *testing.T) {
	assert.Equal(t, Diagnostics{}, Diagnose(CandidateProfile{}))
}

func TestDiagnose_BlankEntriesIgnored(t *testing.T) {
	p := CandidateProfile{TechnicalSkills: []string{""}, Languages: []string{"", " "}, FullName: "  "}
	assert.Equal(t, Diagnostics{}, Diagnose(p))
}

func TestATSMatchScore(t *testing.T) {
	p := fullProfile()
	p.DesiredRole = "Staff Engineer"
	// 30 + 15 + 20 + 15 + 10 + 10
	assert.Equal(t, 100, ATSMatchScore(p))

	p.Email = "not-an-email"
	assert.Equal(t, 90, ATSMatchScore(p))

	p.Duration = ""
	assert.Equal(t, 70, ATSMatchScore(p))
}

func TestImpactScore(t *testing.T) {
	p := fullProfile()
	// tech 5 -> 20, soft 3 -> 10, role 20, certs 1 -> 10, languages 2 -> 10
	assert.Equal(t, 70, ImpactScore(p))

	p.TechnicalSkills = append(p.TechnicalSkills, "Kafka")
	p.NonTechnicalSkills = append(p.NonTechnicalSkills, "Negotiation")
	p.Certifications = append(p.Certifications, "AWS SA")
	// 25 + 15 + 20 + 20 + 10
	assert.Equal(t, 90, ImpactScore(p))
}

func TestDiagnose_Bounded(t *testing.T) {
	profiles := []CandidateProfile{{}, fullProfile(), {Email: "@"}, {TechnicalSkills: make([]string, 50)}}
	for i, p := range profiles {
		d := Diagnose(p)
		for _, v := range []int{d.Accuracy, d.ATSMatch, d.Impact} {
			assert.GreaterOrEqual(t, v, 0, "profile %d", i)
			assert.LessOrEqual(t, v, 100, "profile %d", i)
		}
	}
}

func TestDiagnose_AddingTechnicalSkillNeverLowersScores(t *testing.T) {
	base := fullProfile()
	base.TechnicalSkills = nil
	base.Certifications = nil

	prev := Diagnose(base)
	for i := 1; i <= 8; i++ {
		base.TechnicalSkills = append(base.TechnicalSkills, fmt.Sprintf("skill-%d", i))
		next := Diagnose(base)
		assert.GreaterOrEqual(t, next.Accuracy, prev.Accuracy)
		assert.GreaterOrEqual(t, next.ATSMatch, prev.ATSMatch)
		assert.GreaterOrEqual(t, next.Impact, prev.Impact)
		prev = next
	}
}

func TestDiagnose_Idempotent(t *testing.T) {
	p := fullProfile()
	assert.Equal(t, Diagnose(p), Diagnose(p))
}
