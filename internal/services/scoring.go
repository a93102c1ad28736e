package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/anonto42/proconnect/backend/internal/models"
)

const (
	fallbackBaseScore   = 50
	fallbackSkillPoints = 30
	advancedDegreeBonus = 10
)

var advancedDegreeMarkers = []string{"master", "phd", "doctorate"}

// CalculateFallbackScore rates an applicant locally when the external scorer
// is unavailable. It depends only on its arguments.
func CalculateFallbackScore(profile models.ProfileSummary, job models.JobDetails, now time.Time) models.ScoreResult {
	matched, required := matchedSkills(profile.Skills, job.RequiredSkills)

	score := fallbackBaseScore
	match := 0
	if required > 0 {
		fraction := float64(matched) / float64(required)
		score += int(math.Round(fallbackSkillPoints * fraction))
		match = int(math.Round(100 * fraction))
	}

	months := experienceMonths(profile.Experiences, now)
	switch {
	case months > 60:
		score += 20
	case months > 36:
		score += 15
	case months > 12:
		score += 10
	}

	if hasAdvancedDegree(profile.Educations) {
		score += advancedDegreeBonus
	}

	score = clampScore(score)
	return models.ScoreResult{
		Score:           score,
		MatchPercentage: clampScore(match),
		Feedback: fmt.Sprintf(
			"Automatic assessment: %d of %d required skills matched, about %d months of experience.",
			matched, required, months,
		),
	}
}

// matchedSkills counts required skills that textually match one of the
// applicant's skills, case-insensitively and in either direction.
func matchedSkills(skills []models.Skill, required []string) (matched, total int) {
	have := make([]string, 0, len(skills))
	for _, s := range skills {
		if name := strings.ToLower(strings.TrimSpace(s.Name)); name != "" {
			have = append(have, name)
		}
	}

	for _, r := range required {
		want := strings.ToLower(strings.TrimSpace(r))
		if want == "" {
			continue
		}
		total++
		for _, h := range have {
			if strings.Contains(h, want) || strings.Contains(want, h) {
				matched++
				break
			}
		}
	}
	return matched, total
}

// experienceMonths sums whole months across entries; open-ended entries run
// until now.
func experienceMonths(experiences []models.Experience, now time.Time) int {
	total := 0
	for _, e := range experiences {
		end := now
		if e.EndDate != nil {
			end = *e.EndDate
		}
		if end.After(now) {
			end = now
		}
		months := (end.Year()-e.StartDate.Year())*12 + int(end.Month()) - int(e.StartDate.Month())
		if months > 0 {
			total += months
		}
	}
	return total
}

func hasAdvancedDegree(educations []models.Education) bool {
	for _, e := range educations {
		degree := strings.ToLower(e.Degree)
		for _, marker := range advancedDegreeMarkers {
			if strings.Contains(degree, marker) {
				return true
			}
		}
	}
	return false
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
