package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ApplicantStatus string

const (
	ApplicantPending  ApplicantStatus = "pending"
	ApplicantAccepted ApplicantStatus = "accepted"
	ApplicantRejected ApplicantStatus = "rejected"
)

// Applicant is embedded in its JobOffer.
type Applicant struct {
	UserID               uint            `json:"user_id" bson:"user_id"`
	ResumeURL            string          `json:"resume_url" bson:"resume_url"`
	AdditionalAttachment string          `json:"additional_attachment,omitempty" bson:"additional_attachment,omitempty"`
	Status               ApplicantStatus `json:"status" bson:"status"`
	Score                int             `json:"score" bson:"score"`
	MatchPercentage      int             `json:"match_percentage" bson:"match_percentage"`
	AIFeedback           string          `json:"ai_feedback" bson:"ai_feedback"`
	AppliedAt            time.Time       `json:"applied_at" bson:"applied_at"`
}

// JobOffer is a position published by a company (MongoDB)
type JobOffer struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID       uint               `json:"company_id" bson:"company_id"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description" bson:"description"`
	Location        string             `json:"location" bson:"location"`
	EmploymentType  string             `json:"employment_type" bson:"employment_type"`
	ExperienceLevel string             `json:"experience_level" bson:"experience_level"`
	SalaryRange     string             `json:"salary_range,omitempty" bson:"salary_range,omitempty"`
	RequiredSkills  []string           `json:"required_skills" bson:"required_skills"`
	IsActive        bool               `json:"is_active" bson:"is_active"`
	Applicants      []Applicant        `json:"applicants,omitempty" bson:"applicants"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// HasApplied scans the embedded applicants for userID.
func (j *JobOffer) HasApplied(userID uint) bool {
	for _, a := range j.Applicants {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

type CreateJobRequest struct {
	Title           string   `json:"title" validate:"required,min=2,max=120"`
	Description     string   `json:"description" validate:"max=10000"`
	Location        string   `json:"location" validate:"required,max=100"`
	EmploymentType  string   `json:"employment_type" validate:"required,oneof=full-time part-time contract internship remote"`
	ExperienceLevel string   `json:"experience_level" validate:"omitempty,max=50"`
	SalaryRange     string   `json:"salary_range" validate:"omitempty,max=50"`
	RequiredSkills  []string `json:"required_skills" validate:"omitempty,max=30,dive,min=1,max=50"`
}

type UpdateJobRequest struct {
	Title           *string  `json:"title,omitempty" validate:"omitempty,min=2,max=120"`
	Description     *string  `json:"description,omitempty" validate:"omitempty,max=10000"`
	Location        *string  `json:"location,omitempty" validate:"omitempty,max=100"`
	EmploymentType  *string  `json:"employment_type,omitempty" validate:"omitempty,oneof=full-time part-time contract internship remote"`
	ExperienceLevel *string  `json:"experience_level,omitempty" validate:"omitempty,max=50"`
	SalaryRange     *string  `json:"salary_range,omitempty" validate:"omitempty,max=50"`
	RequiredSkills  []string `json:"required_skills,omitempty" validate:"omitempty,max=30,dive,min=1,max=50"`
}

type ApplyJobRequest struct {
	ResumeURL            string `json:"resume_url" validate:"required"`
	AdditionalAttachment string `json:"additional_attachment,omitempty"`
}

type UpdateApplicantStatusRequest struct {
	Status ApplicantStatus `json:"status" validate:"required,oneof=pending accepted rejected"`
}

type GenerateDescriptionRequest struct {
	Title           string   `json:"title" validate:"required,min=2,max=120"`
	Location        string   `json:"location" validate:"omitempty,max=100"`
	EmploymentType  string   `json:"employment_type" validate:"omitempty,max=50"`
	ExperienceLevel string   `json:"experience_level" validate:"omitempty,max=50"`
	RequiredSkills  []string `json:"required_skills" validate:"omitempty,max=30,dive,min=1,max=50"`
}

func (r GenerateDescriptionRequest) Details() JobDetails {
	return JobDetails{
		Title:           r.Title,
		Location:        r.Location,
		EmploymentType:  r.EmploymentType,
		ExperienceLevel: r.ExperienceLevel,
		RequiredSkills:  r.RequiredSkills,
	}
}

type EnhanceDescriptionRequest struct {
	Description string `json:"description" validate:"required,max=10000"`
}

// ApplicationResult is returned after a successful application.
type ApplicationResult struct {
	JobID     primitive.ObjectID `json:"job_id"`
	Applicant Applicant          `json:"applicant"`
}

// ApplicantView is an applicant with their public profile card.
type ApplicantView struct {
	Applicant
	Profile AccountSummary `json:"profile"`
}

// ProfileSummary is the applicant data handed to the scoring capability.
type ProfileSummary struct {
	Name         string        `json:"name"`
	Headline     string        `json:"headline"`
	Location     string        `json:"location"`
	About        string        `json:"about"`
	Experiences  []Experience  `json:"experiences"`
	Skills       []Skill       `json:"skills"`
	Educations   []Education   `json:"educations"`
	Projects     []Project     `json:"projects"`
	Certificates []Certificate `json:"certificates"`
}

// NewProfileSummary copies the scoring-relevant fields of u.
func NewProfileSummary(u *User) ProfileSummary {
	return ProfileSummary{
		Name:         u.Name,
		Headline:     u.Headline,
		Location:     u.Location,
		About:        u.About,
		Experiences:  u.Experiences,
		Skills:       u.Skills,
		Educations:   u.Educations,
		Projects:     u.Projects,
		Certificates: u.Certificates,
	}
}

// JobDetails is the job data handed to the scoring capability.
type JobDetails struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Location        string   `json:"location"`
	EmploymentType  string   `json:"employment_type"`
	ExperienceLevel string   `json:"experience_level"`
	RequiredSkills  []string `json:"required_skills"`
}

func (j *JobOffer) Details() JobDetails {
	return JobDetails{
		Title:           j.Title,
		Description:     j.Description,
		Location:        j.Location,
		EmploymentType:  j.EmploymentType,
		ExperienceLevel: j.ExperienceLevel,
		RequiredSkills:  j.RequiredSkills,
	}
}

// ScoreResult is what the scoring capability (or its fallback) produces.
type ScoreResult struct {
	Score           int    `json:"score"`
	MatchPercentage int    `json:"matchPercentage"`
	Feedback        string `json:"feedback"`
}
