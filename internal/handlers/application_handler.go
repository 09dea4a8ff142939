package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/services"
)

type ApplicationHandler struct {
	Portal *services.PortalService
}

func NewApplicationHandler(portal *services.PortalService) *ApplicationHandler {
	return &ApplicationHandler{Portal: portal}
}

// ListMine is GET /applications: the caller's applications, newest first.
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	// on failure the cached list is served
	_ = h.Portal.FetchUserApplications(c.Request.Context(), user.UserID)

	apps := h.Portal.Applications(user.UserID)
	c.JSON(http.StatusOK, gin.H{"applications": apps, "total": len(apps)})
}

// UpdateStatus is PATCH /applications/:id/status. The caller must have posted the job.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req dtos.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	user, _ := auth.CurrentUser(c)
	applicationID := c.Param("id")

	// only the poster of the job may move its applications along
	current, err := h.Portal.GetApplicationByID(c.Request.Context(), applicationID)
	if err != nil {
		c.JSON(backendStatus(err), gin.H{"error": "Failed to load application: " + err.Error()})
		return
	}
	job, err := h.Portal.GetJobByID(c.Request.Context(), current.JobID)
	if err != nil {
		c.JSON(backendStatus(err), gin.H{"error": "Failed to load job: " + err.Error()})
		return
	}
	if job.PostedBy != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the job's poster can update its applications"})
		return
	}

	app, err := h.Portal.UpdateApplicationStatus(c.Request.Context(), applicationID, req.Status, req.Feedback)
	if err != nil {
		c.JSON(backendStatus(err), gin.H{"error": "Failed to update application: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, app)
}
