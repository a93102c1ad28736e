package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ApplicantScorer rates an applicant against a job.
type ApplicantScorer interface {
	ScoreApplicant(ctx context.Context, profile models.ProfileSummary, job models.JobDetails) (*models.ScoreResult, error)
}

// DescriptionWriter drafts and polishes job descriptions.
type DescriptionWriter interface {
	GenerateDescription(ctx context.Context, job models.JobDetails) (string, error)
	EnhanceDescription(ctx context.Context, description string) (string, error)
}

// JobService publishes job offers and runs the application pipeline.
type JobService struct {
	jobs      repositories.JobRepository
	users     repositories.UserRepository
	messages  repositories.MessageRepository
	directory *AccountDirectory
	notifier  *NotificationService
	scorer    ApplicantScorer
	writer    DescriptionWriter
	effects   *SideEffects
	logger    *zap.Logger
	now       func() time.Time
}

// NewJobService wires the pipeline; scorer and writer may be nil, in which
// case the local fallbacks are always used.
func NewJobService(
	jobs repositories.JobRepository,
	users repositories.UserRepository,
	messages repositories.MessageRepository,
	directory *AccountDirectory,
	notifier *NotificationService,
	scorer ApplicantScorer,
	writer DescriptionWriter,
	effects *SideEffects,
	logger *zap.Logger,
) *JobService {
	return &JobService{
		jobs:      jobs,
		users:     users,
		messages:  messages,
		directory: directory,
		notifier:  notifier,
		scorer:    scorer,
		writer:    writer,
		effects:   effects,
		logger:    logger,
		now:       time.Now,
	}
}

func jobEntity(id primitive.ObjectID) models.EntityRef {
	return models.EntityRef{ID: id.Hex(), Type: models.EntityJob}
}

func (s *JobService) CreateJob(ctx context.Context, actor models.AccountRef, req models.CreateJobRequest) (*models.JobOffer, error) {
	if actor.Type != models.AccountCompany {
		return nil, ErrCompaniesOnly
	}

	job := &models.JobOffer{
		CompanyID:       actor.ID,
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		Location:        req.Location,
		EmploymentType:  req.EmploymentType,
		ExperienceLevel: req.ExperienceLevel,
		SalaryRange:     req.SalaryRange,
		RequiredSkills:  req.RequiredSkills,
		IsActive:        true,
	}
	if job.Description == "" {
		job.Description = s.GenerateDescription(ctx, job.Details())
	}

	if err := s.jobs.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	s.logger.Info("job created", zap.String("job_id", job.ID.Hex()), zap.Uint("company_id", actor.ID))
	return job, nil
}

// ownedJob loads a job and checks that actor is the publishing company.
func (s *JobService) ownedJob(ctx context.Context, actor models.AccountRef, id primitive.ObjectID) (*models.JobOffer, error) {
	job, err := s.jobs.GetJobByID(ctx, id)
	if err != nil {
		return nil, storeError("job", err)
	}
	if actor.Type != models.AccountCompany || job.CompanyID != actor.ID {
		return nil, ErrNotOwner
	}
	return job, nil
}

func (s *JobService) UpdateJob(ctx context.Context, actor models.AccountRef, id primitive.ObjectID, req models.UpdateJobRequest) (*models.JobOffer, error) {
	job, err := s.ownedJob(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.EmploymentType != nil {
		job.EmploymentType = *req.EmploymentType
	}
	if req.ExperienceLevel != nil {
		job.ExperienceLevel = *req.ExperienceLevel
	}
	if req.SalaryRange != nil {
		job.SalaryRange = *req.SalaryRange
	}
	if req.RequiredSkills != nil {
		job.RequiredSkills = req.RequiredSkills
	}

	if err := s.jobs.UpdateJob(ctx, job); err != nil {
		return nil, storeError("job", err)
	}
	return job, nil
}

// CloseJob stops accepting applications. Closing twice is not an error.
func (s *JobService) CloseJob(ctx context.Context, actor models.AccountRef, id primitive.ObjectID) error {
	if _, err := s.ownedJob(ctx, actor, id); err != nil {
		return err
	}
	return storeError("job", s.jobs.CloseJob(ctx, id))
}

// GetJob hides the applicant list from everyone but the owner.
func (s *JobService) GetJob(ctx context.Context, viewer models.AccountRef, id primitive.ObjectID) (*models.JobOffer, error) {
	job, err := s.jobs.GetJobByID(ctx, id)
	if err != nil {
		return nil, storeError("job", err)
	}
	if viewer != models.CompanyRef(job.CompanyID) {
		job.Applicants = nil
	}
	return job, nil
}

func (s *JobService) ListActiveJobs(ctx context.Context, query string, page models.Page) ([]models.JobOffer, models.Pagination, error) {
	query = strings.TrimSpace(query)
	jobs, err := s.jobs.ListActive(ctx, query, page.Skip(), int64(page.Limit))
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list jobs: %w", err)
	}
	total, err := s.jobs.CountActive(ctx, query)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("count jobs: %w", err)
	}
	return jobs, models.NewPagination(page, total), nil
}

func (s *JobService) ListCompanyJobs(ctx context.Context, viewer models.AccountRef, companyID uint) ([]models.JobOffer, error) {
	if err := s.directory.Exists(ctx, models.CompanyRef(companyID)); err != nil {
		return nil, err
	}
	jobs, err := s.jobs.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company jobs: %w", err)
	}
	if viewer != models.CompanyRef(companyID) {
		for i := range jobs {
			jobs[i].Applicants = nil
		}
	}
	return jobs, nil
}

// ApplyToJob runs the application pipeline. Either nothing is written (the
// job is missing or closed, or the user already applied) or the applicant is
// persisted; the auto-message and the company notification are best effort.
func (s *JobService) ApplyToJob(ctx context.Context, actor models.AccountRef, jobID primitive.ObjectID, req models.ApplyJobRequest) (*models.ApplicationResult, error) {
	if !actor.IsUser() {
		return nil, ErrUsersOnly
	}
	if strings.TrimSpace(req.ResumeURL) == "" {
		return nil, fmt.Errorf("%w: resume is required", ErrValidation)
	}

	job, err := s.jobs.GetJobByID(ctx, jobID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrJobNotFoundOrClosed
	}
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	if !job.IsActive {
		return nil, ErrJobNotFoundOrClosed
	}
	if job.HasApplied(actor.ID) {
		return nil, ErrAlreadyApplied
	}

	user, err := s.users.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, storeError("user", err)
	}
	score := s.score(ctx, models.NewProfileSummary(user), job)

	applicant := models.Applicant{
		UserID:               actor.ID,
		ResumeURL:            req.ResumeURL,
		AdditionalAttachment: req.AdditionalAttachment,
		Status:               models.ApplicantPending,
		Score:                score.Score,
		MatchPercentage:      score.MatchPercentage,
		AIFeedback:           score.Feedback,
		AppliedAt:            s.now(),
	}
	appended, err := s.jobs.AppendApplicant(ctx, jobID, applicant)
	if err != nil {
		return nil, fmt.Errorf("append applicant: %w", err)
	}
	if !appended {
		return nil, s.appendRejection(ctx, jobID)
	}

	company := models.CompanyRef(job.CompanyID)
	fields := []zap.Field{zap.String("job_id", jobID.Hex()), zap.Uint("user_id", actor.ID)}
	s.effects.Run(ctx, "application auto-message", func(ctx context.Context) error {
		return s.messages.CreateMessage(ctx, &models.Message{
			Sender:   actor,
			Receiver: company,
			Content:  fmt.Sprintf("I've just applied for the %s position", job.Title),
		})
	}, fields...)
	s.effects.Run(ctx, "notify job application", func(ctx context.Context) error {
		_, err := s.notifier.Notify(ctx, company, actor, models.NotificationJobApplication, jobEntity(jobID))
		return err
	}, fields...)

	return &models.ApplicationResult{JobID: jobID, Applicant: applicant}, nil
}

// score asks the external scorer and falls back to the local formula on any
// failure.
func (s *JobService) score(ctx context.Context, profile models.ProfileSummary, job *models.JobOffer) models.ScoreResult {
	if s.scorer != nil {
		result, err := s.scorer.ScoreApplicant(ctx, profile, job.Details())
		if err == nil {
			return *result
		}
		s.logger.Warn("external scoring failed, using fallback",
			zap.String("job_id", job.ID.Hex()),
			zap.Error(err),
		)
	}
	return CalculateFallbackScore(profile, job.Details(), s.now())
}

// appendRejection explains why the conditional push matched nothing.
func (s *JobService) appendRejection(ctx context.Context, jobID primitive.ObjectID) error {
	job, err := s.jobs.GetJobByID(ctx, jobID)
	if err != nil || !job.IsActive {
		return ErrJobNotFoundOrClosed
	}
	return ErrAlreadyApplied
}

// ListApplicants returns applicants best score first.
func (s *JobService) ListApplicants(ctx context.Context, actor models.AccountRef, jobID primitive.ObjectID) ([]models.ApplicantView, error) {
	job, err := s.ownedJob(ctx, actor, jobID)
	if err != nil {
		return nil, err
	}

	applicants := append([]models.Applicant(nil), job.Applicants...)
	sort.SliceStable(applicants, func(i, j int) bool {
		return applicants[i].Score > applicants[j].Score
	})

	views := make([]models.ApplicantView, 0, len(applicants))
	for _, a := range applicants {
		views = append(views, models.ApplicantView{
			Applicant: a,
			Profile:   s.directory.SummaryOrStub(ctx, models.UserRef(a.UserID)),
		})
	}
	return views, nil
}

func (s *JobService) UpdateApplicantStatus(ctx context.Context, actor models.AccountRef, jobID primitive.ObjectID, userID uint, status models.ApplicantStatus) error {
	switch status {
	case models.ApplicantPending, models.ApplicantAccepted, models.ApplicantRejected:
	default:
		return fmt.Errorf("%w: unknown applicant status %q", ErrValidation, status)
	}
	if _, err := s.ownedJob(ctx, actor, jobID); err != nil {
		return err
	}

	ok, err := s.jobs.UpdateApplicantStatus(ctx, jobID, userID, status)
	if err != nil {
		return fmt.Errorf("update applicant: %w", err)
	}
	if !ok {
		return fmt.Errorf("applicant %w", ErrNotFound)
	}

	s.effects.Run(ctx, "notify application status", func(ctx context.Context) error {
		_, err := s.notifier.Notify(ctx, models.UserRef(userID), actor, models.NotificationApplicationStatus, jobEntity(jobID))
		return err
	}, zap.String("job_id", jobID.Hex()), zap.Uint("user_id", userID))
	return nil
}

// GenerateDescription drafts a description; without a working writer it
// returns a plain template built from the job fields.
func (s *JobService) GenerateDescription(ctx context.Context, job models.JobDetails) string {
	if s.writer != nil {
		text, err := s.writer.GenerateDescription(ctx, job)
		if err == nil {
			return text
		}
		s.logger.Warn("description generation failed, using template", zap.Error(err))
	}
	return DescriptionTemplate(job)
}

// EnhanceDescription returns description unchanged when the writer fails.
func (s *JobService) EnhanceDescription(ctx context.Context, description string) string {
	if s.writer == nil {
		return description
	}
	text, err := s.writer.EnhanceDescription(ctx, description)
	if err != nil {
		s.logger.Warn("description enhancement failed, keeping original", zap.Error(err))
		return description
	}
	return text
}

func DescriptionTemplate(job models.JobDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "We are hiring a %s", job.Title)
	if job.Location != "" {
		fmt.Fprintf(&b, " in %s", job.Location)
	}
	if job.EmploymentType != "" {
		fmt.Fprintf(&b, " (%s)", job.EmploymentType)
	}
	b.WriteString(".")
	if job.ExperienceLevel != "" {
		fmt.Fprintf(&b, " Experience level: %s.", job.ExperienceLevel)
	}
	if len(job.RequiredSkills) > 0 {
		fmt.Fprintf(&b, " Required skills: %s.", strings.Join(job.RequiredSkills, ", "))
	}
	if job.Description != "" {
		b.WriteString(" ")
		b.WriteString(job.Description)
	}
	return b.String()
}
