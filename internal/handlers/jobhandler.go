package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/services"
)

type JobHandler struct {
	LLMService *services.LLMService
	Portal     *services.PortalService
}

// NewJobHandler creates the handler with dependencies. llm may be nil.
func NewJobHandler(llm *services.LLMService, portal *services.PortalService) *JobHandler {
	return &JobHandler{LLMService: llm, Portal: portal}
}

// Home is GET /home
func (h *JobHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, h.Portal.Summary())
}

// ListJobs is GET /jobs. Filtering runs over the mirrored jobs; refresh=true re-fetches
// them first.
func (h *JobHandler) ListJobs(c *gin.Context) {
	var filters dtos.JobFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filters: " + err.Error()})
		return
	}
	if c.Query("refresh") == "true" {
		// a failed refresh is already notified; serve the previous mirror
		_ = h.Portal.FetchJobs(c.Request.Context(), nil)
	}

	all := h.Portal.Jobs()
	matched := services.FilterJobs(all, filters)
	user, _ := auth.CurrentUser(c)

	views := make([]dtos.JobView, 0, len(matched))
	for _, job := range matched {
		views = append(views, h.view(job, user))
	}
	c.JSON(http.StatusOK, dtos.JobListResponse{
		Jobs:    views,
		Showing: len(views),
		Total:   len(all),
		Loading: h.Portal.Loading(),
	})
}

// FilterOptions is GET /jobs/filters
func (h *JobHandler) FilterOptions(c *gin.Context) {
	c.JSON(http.StatusOK, services.FilterOptions())
}

// GetJob is GET /jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.Portal.GetJobByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(backendStatus(err), gin.H{"error": "Failed to load job: " + err.Error()})
		return
	}

	user, ok := auth.CurrentUser(c)
	if ok {
		_ = h.Portal.FetchUserApplications(c.Request.Context(), user.UserID)
	}
	c.JSON(http.StatusOK, h.view(*job, user))
}

// ParseJob is the POST /jobs/extract endpoint
func (h *JobHandler) ParseJob(c *gin.Context) {
	var req dtos.JobExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	extracted, err := h.LLMService.ExtractJobDetails(c.Request.Context(), req.RawHTML)
	if errors.Is(err, services.ErrExtractionDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI Extraction failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    extracted,
	})
}

// CreateJob is POST /jobs. The poster is the authenticated user.
func (h *JobHandler) CreateJob(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	var req dtos.JobCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	if req.SalaryMax > 0 && req.SalaryMax < req.SalaryMin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "salaryMax must not be below salaryMin"})
		return
	}
	if req.Deadline != "" {
		if _, ok := models.ParseDeadline(req.Deadline); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "applicationDeadline must be a date (YYYY-MM-DD) or RFC3339 timestamp"})
			return
		}
	}

	job, err := h.Portal.CreateJob(c.Request.Context(), req.ToJob(user.UserID))
	if err != nil {
		c.JSON(backendStatus(err), gin.H{"error": "Failed to create job: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, job)
}

// ApplyForJob is POST /jobs/:id/apply
func (h *JobHandler) ApplyForJob(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	jobID := c.Param("id")

	var req dtos.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	// the duplicate check answers from the cache, so bring it up to date first
	_ = h.Portal.FetchUserApplications(c.Request.Context(), user.UserID)
	if h.Portal.HasUserApplied(jobID, user.UserID) {
		c.JSON(http.StatusConflict, gin.H{"error": "You have already applied for this job"})
		return
	}

	app, err := h.Portal.ApplyForJob(c.Request.Context(), jobID, services.ApplicationInput{
		CoverLetter:    req.CoverLetter,
		ExpectedSalary: req.ExpectedSalary,
		ApplicantID:    user.UserID,
	})
	switch {
	case errors.Is(err, services.ErrCounterUpdate):
		c.JSON(http.StatusCreated, gin.H{
			"application": app,
			"warning":     "Application saved but the job's application count was not updated",
		})
	case err != nil:
		c.JSON(backendStatus(err), gin.H{"error": "Failed to submit application: " + err.Error()})
	default:
		c.JSON(http.StatusCreated, gin.H{"application": app})
	}
}

func (h *JobHandler) view(job models.Job, user *models.User) dtos.JobView {
	v := dtos.JobView{Job: job, Salary: services.FormatSalary(job.SalaryMin, job.SalaryMax)}
	if user != nil {
		v.HasApplied = h.Portal.HasUserApplied(job.ID, user.UserID)
	}
	return v
}
