package services

import (
	"testing"
	"time"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func monthsAgo(now time.Time, n int) time.Time { return now.AddDate(0, -n, 0) }

func TestCalculateFallbackScore(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	skills := func(names ...string) []models.Skill {
		out := make([]models.Skill, 0, len(names))
		for _, n := range names {
			out = append(out, models.Skill{Name: n})
		}
		return out
	}
	job := models.JobDetails{RequiredSkills: []string{"Go", "Kubernetes", "SQL"}}

	tests := []struct {
		name      string
		profile   models.ProfileSummary
		job       models.JobDetails
		wantScore int
		wantMatch int
	}{
		{
			name:      "empty profile",
			job:       job,
			wantScore: 50,
		},
		{
			name:      "no required skills",
			profile:   models.ProfileSummary{Skills: skills("go")},
			job:       models.JobDetails{},
			wantScore: 50,
		},
		{
			name:      "partial match is case-insensitive",
			profile:   models.ProfileSummary{Skills: skills("golang", "PostgreSQL")},
			job:       job,
			wantScore: 70,
			wantMatch: 67,
		},
		{
			name: "experience bands",
			profile: models.ProfileSummary{Experiences: []models.Experience{
				{StartDate: monthsAgo(now, 40)},
			}},
			job:       job,
			wantScore: 65,
		},
		{
			name: "experience sums closed and open entries",
			profile: models.ProfileSummary{Experiences: []models.Experience{
				{StartDate: monthsAgo(now, 80), EndDate: ptrTime(monthsAgo(now, 50))},
				{StartDate: monthsAgo(now, 20)},
			}},
			job:       job,
			wantScore: 65,
		},
		{
			name: "short experience earns nothing",
			profile: models.ProfileSummary{Experiences: []models.Experience{
				{StartDate: monthsAgo(now, 12)},
			}},
			job:       job,
			wantScore: 50,
		},
		{
			name:      "advanced degree",
			profile:   models.ProfileSummary{Educations: []models.Education{{Degree: "PhD in Physics"}}},
			job:       job,
			wantScore: 60,
		},
		{
			name: "everything is clamped to 100",
			profile: models.ProfileSummary{
				Skills:      skills("go", "kubernetes", "sql"),
				Experiences: []models.Experience{{StartDate: monthsAgo(now, 100)}},
				Educations:  []models.Education{{Degree: "Master of Science"}},
			},
			job:       job,
			wantScore: 100,
			wantMatch: 100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateFallbackScore(tt.profile, tt.job, now)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantMatch, got.MatchPercentage)
			assert.NotEmpty(t, got.Feedback)
		})
	}
}

func TestCalculateFallbackScoreIsDeterministic(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	profile := models.ProfileSummary{
		Skills:      []models.Skill{{Name: "Go"}},
		Experiences: []models.Experience{{StartDate: monthsAgo(now, 30)}},
	}
	job := models.JobDetails{RequiredSkills: []string{"go", "rust"}}

	assert.Equal(t, CalculateFallbackScore(profile, job, now), CalculateFallbackScore(profile, job, now))
}

func ptrTime(t time.Time) *time.Time { return &t }
