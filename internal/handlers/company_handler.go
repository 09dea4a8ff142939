package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/services"
)

type CompanyHandler struct {
	Portal *services.PortalService
}

func NewCompanyHandler(portal *services.PortalService) *CompanyHandler {
	return &CompanyHandler{Portal: portal}
}

// List is GET /companies
func (h *CompanyHandler) List(c *gin.Context) {
	if c.Query("refresh") == "true" {
		_ = h.Portal.FetchCompanies(c.Request.Context())
	}
	companies := h.Portal.Companies()
	c.JSON(http.StatusOK, gin.H{"companies": companies, "total": len(companies)})
}
