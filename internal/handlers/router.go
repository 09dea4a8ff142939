package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/metrics"
	"github.com/justsurfingit/job-portal/internal/middleware"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Deps is everything the API routes need. LLM and Sessions may be nil.
type Deps struct {
	Portal       *services.PortalService
	LLM          *services.LLMService
	Sessions     SessionProvider
	Verifier     *auth.Verifier
	ApplyLimiter *middleware.RateLimiter
	CORSOrigins  []string
	Log          *logrus.Logger
}

// NewRouter wires the /api/v1 routes and /metrics onto a fresh engine.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(d.Log), metrics.Middleware())

	config := cors.DefaultConfig()
	if len(d.CORSOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = d.CORSOrigins
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	r.Use(cors.New(config))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	jobHandler := NewJobHandler(d.LLM, d.Portal)
	applicationHandler := NewApplicationHandler(d.Portal)
	companyHandler := NewCompanyHandler(d.Portal)
	authHandler := NewAuthHandler(d.Sessions, d.Log)
	requireAuth := auth.RequireAuth()

	api := r.Group("/api/v1")
	api.Use(d.Verifier.Middleware())
	{
		api.GET("/health", HealthCheck)
		api.GET("/home", jobHandler.Home)

		// Job Routes
		api.GET("/jobs", jobHandler.ListJobs)
		api.GET("/jobs/filters", jobHandler.FilterOptions)
		api.GET("/jobs/:id", jobHandler.GetJob)
		api.POST("/jobs", requireAuth, jobHandler.CreateJob)
		api.POST("/jobs/extract", jobHandler.ParseJob)
		api.POST("/jobs/:id/apply", requireAuth, d.ApplyLimiter.Handler(), jobHandler.ApplyForJob)

		api.GET("/applications", requireAuth, applicationHandler.ListMine)
		api.PATCH("/applications/:id/status", requireAuth, applicationHandler.UpdateStatus)

		api.GET("/companies", companyHandler.List)

		api.POST("/auth/sign-in", authHandler.SignIn)
		api.POST("/auth/sign-out", requireAuth, authHandler.SignOut)
		api.GET("/auth/me", requireAuth, authHandler.Me)
	}
	return r
}

func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	entry := log.WithField("component", "http")
	return func(c *gin.Context) {
		c.Next()
		entry.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		}).Debug("request")
	}
}
