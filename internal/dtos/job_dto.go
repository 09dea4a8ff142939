package dtos

import "github.com/justsurfingit/job-portal/internal/models"

// JobFilters is the criteria set of the job list. Every field is optional; an empty
// field matches everything.
type JobFilters struct {
	Search          string `form:"search" json:"search"`
	Location        string `form:"location" json:"location"`
	Category        string `form:"category" json:"category"`
	EmploymentType  string `form:"employmentType" json:"employmentType"`
	ExperienceLevel string `form:"experienceLevel" json:"experienceLevel"`
	SalaryMin       string `form:"salaryMin" json:"salaryMin"`
}

type JobExtractionRequest struct {
	RawHTML string `json:"raw_html" binding:"required"`
	URL     string `json:"url"`
}

type JobCreationRequest struct {
	Title           string   `json:"title" binding:"required"`
	Company         string   `json:"company" binding:"required"`
	Location        string   `json:"location" binding:"required"`
	EmploymentType  string   `json:"employmentType" binding:"required,oneof=full-time part-time contract internship remote"`
	SalaryMin       int      `json:"salaryMin" binding:"gte=0"`
	SalaryMax       int      `json:"salaryMax" binding:"gte=0"`
	Description     string   `json:"description" binding:"required"`
	Category        string   `json:"category" binding:"required,oneof=technology marketing sales design finance hr operations other"`
	ExperienceLevel string   `json:"experienceLevel" binding:"required,oneof=entry mid senior executive"`
	Status          string   `json:"status"` // Defaults to "active" if empty
	Deadline        string   `json:"applicationDeadline"`
	Requirements    []string `json:"requirements"`
	Skills          []string `json:"skills"`
	Benefits        []string `json:"benefits"`
}

// ToJob maps the request onto a Job posted by postedBy. Counter and timestamp are
// left for the portal to set.
func (r *JobCreationRequest) ToJob(postedBy string) models.Job {
	status := r.Status
	if status == "" {
		status = "active"
	}
	return models.Job{
		Title:               r.Title,
		Company:             r.Company,
		Location:            r.Location,
		EmploymentType:      models.EmploymentType(r.EmploymentType),
		SalaryMin:           r.SalaryMin,
		SalaryMax:           r.SalaryMax,
		Description:         r.Description,
		Requirements:        r.Requirements,
		Skills:              r.Skills,
		Benefits:            r.Benefits,
		Category:            models.Category(r.Category),
		ExperienceLevel:     models.ExperienceLevel(r.ExperienceLevel),
		Status:              status,
		ApplicationDeadline: r.Deadline,
		PostedBy:            postedBy,
	}
}

type ApplicationRequest struct {
	CoverLetter    string  `json:"coverLetter" binding:"required"`
	ExpectedSalary float64 `json:"expectedSalary" binding:"required,gt=0"`
}

type StatusUpdateRequest struct {
	Status   string `json:"status" binding:"required"`
	Feedback string `json:"feedback"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// JobView is a Job plus the display fields the listing renders.
type JobView struct {
	models.Job
	Salary     string `json:"salary"`
	HasApplied bool   `json:"hasApplied"`
}

type JobListResponse struct {
	Jobs    []JobView `json:"jobs"`
	Showing int       `json:"showing"`
	Total   int       `json:"total"`
	Loading bool      `json:"loading"`
}

type Stats struct {
	ActiveJobs int `json:"activeJobs"`
	Companies  int `json:"companies"`
}

type HomeSummary struct {
	Featured []models.Job `json:"featured"`
	Stats    Stats        `json:"stats"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type FilterOptions struct {
	Categories       []Option `json:"categories"`
	EmploymentTypes  []Option `json:"employmentTypes"`
	ExperienceLevels []Option `json:"experienceLevels"`
	SalaryRanges     []Option `json:"salaryRanges"`
}
