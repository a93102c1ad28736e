package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anonto42/proconnect/backend/internal/models"
)

const scoreSystemPrompt = `You are an expert technical recruiter. Compare the candidate profile with the job.
Respond with a JSON object: {"score": <0-100>, "matchPercentage": <0-100>, "feedback": "<two or three sentences>"}.`

const describeSystemPrompt = `You write clear, professional job descriptions. Reply with the description text only, no preamble.`

// ScoreApplicant asks the model to rate profile against job.
func (c *Client) ScoreApplicant(ctx context.Context, profile models.ProfileSummary, job models.JobDetails) (*models.ScoreResult, error) {
	input, err := json.Marshal(struct {
		UserProfile models.ProfileSummary `json:"userProfile"`
		JobDetails  models.JobDetails     `json:"jobDetails"`
	}{profile, job})
	if err != nil {
		return nil, fmt.Errorf("marshal scoring input: %w", err)
	}

	content, err := c.complete(ctx, scoreSystemPrompt, string(input), true)
	if err != nil {
		return nil, err
	}

	var result models.ScoreResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("decode score: %w", err)
	}
	if result.Score < 0 || result.Score > 100 || result.MatchPercentage < 0 || result.MatchPercentage > 100 {
		return nil, fmt.Errorf("score out of range: %d/%d", result.Score, result.MatchPercentage)
	}
	return &result, nil
}

// GenerateDescription writes a description from the structured job fields.
func (c *Client) GenerateDescription(ctx context.Context, job models.JobDetails) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", job.Title)
	fmt.Fprintf(&b, "Location: %s\n", job.Location)
	fmt.Fprintf(&b, "Employment type: %s\n", job.EmploymentType)
	if job.ExperienceLevel != "" {
		fmt.Fprintf(&b, "Experience level: %s\n", job.ExperienceLevel)
	}
	if len(job.RequiredSkills) > 0 {
		fmt.Fprintf(&b, "Required skills: %s\n", strings.Join(job.RequiredSkills, ", "))
	}
	if job.Description != "" {
		fmt.Fprintf(&b, "Notes: %s\n", job.Description)
	}

	return c.text(ctx, "Write a job description for this position.\n\n"+b.String())
}

// EnhanceDescription rewrites an existing description.
func (c *Client) EnhanceDescription(ctx context.Context, description string) (string, error) {
	return c.text(ctx, "Improve the following job description. Keep every fact, fix the structure and tone.\n\n"+description)
}

func (c *Client) text(ctx context.Context, prompt string) (string, error) {
	out, err := c.complete(ctx, describeSystemPrompt, prompt, false)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("empty description")
	}
	return out, nil
}
