package handlers

import (
	"net/http"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// JobHandler serves job offers and applications
type JobHandler struct {
	jobs *services.JobService
}

func NewJobHandler(jobs *services.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// RegisterJobRoutes registers job routes
func (h *JobHandler) RegisterJobRoutes(g *echo.Group) {
	g.POST("/jobs", h.CreateJob)
	g.GET("/jobs", h.ListActiveJobs)
	g.POST("/jobs/description/generate", h.GenerateDescription)
	g.POST("/jobs/description/enhance", h.EnhanceDescription)
	g.GET("/jobs/:id", h.GetJob)
	g.PUT("/jobs/:id", h.UpdateJob)
	g.POST("/jobs/:id/close", h.CloseJob)
	g.POST("/jobs/:id/apply", h.ApplyToJob)
	g.GET("/jobs/:id/applicants", h.ListApplicants)
	g.PUT("/jobs/:id/applicants/:user_id/status", h.UpdateApplicantStatus)
	g.GET("/companies/:id/jobs", h.ListCompanyJobs)
}

func (h *JobHandler) CreateJob(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req models.CreateJobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.CreateJob(c.Request().Context(), actor, req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, job)
}

// ListActiveJobs lists open jobs, optionally filtered by ?q=
func (h *JobHandler) ListActiveJobs(c echo.Context) error {
	jobs, pagination, err := h.jobs.ListActiveJobs(c.Request().Context(), c.QueryParam("q"), pageQuery(c, models.DefaultPageLimit))
	if err != nil {
		return httpError(err)
	}
	return paginated(c, jobs, pagination)
}

func (h *JobHandler) GetJob(c echo.Context) error {
	viewer, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	job, err := h.jobs.GetJob(c.Request().Context(), viewer, id)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, job)
}

func (h *JobHandler) ListCompanyJobs(c echo.Context) error {
	viewer, err := currentAccount(c)
	if err != nil {
		return err
	}
	companyID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	jobs, err := h.jobs.ListCompanyJobs(c.Request().Context(), viewer, companyID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, jobs)
}

func (h *JobHandler) UpdateJob(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateJobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.UpdateJob(c.Request().Context(), actor, id, req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, job)
}

func (h *JobHandler) CloseJob(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.jobs.CloseJob(c.Request().Context(), actor, id); err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"message": "Job closed"})
}

// ApplyToJob submits the authenticated user's application
func (h *JobHandler) ApplyToJob(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.ApplyJobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.jobs.ApplyToJob(c.Request().Context(), actor, id, req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, result)
}

// ListApplicants returns applicants ranked by score, owner only
func (h *JobHandler) ListApplicants(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	applicants, err := h.jobs.ListApplicants(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, applicants)
}

func (h *JobHandler) UpdateApplicantStatus(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := uintParam(c, "user_id")
	if err != nil {
		return err
	}

	var req models.UpdateApplicantStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.jobs.UpdateApplicantStatus(c.Request().Context(), actor, id, userID, req.Status); err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"status": req.Status})
}

func (h *JobHandler) GenerateDescription(c echo.Context) error {
	var req models.GenerateDescriptionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	text := h.jobs.GenerateDescription(c.Request().Context(), req.Details())
	return success(c, http.StatusOK, echo.Map{"description": text})
}

func (h *JobHandler) EnhanceDescription(c echo.Context) error {
	var req models.EnhanceDescriptionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	text := h.jobs.EnhanceDescription(c.Request().Context(), req.Description)
	return success(c, http.StatusOK, echo.Map{"description": text})
}
