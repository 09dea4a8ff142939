package models

import (
	"time"

	"github.com/lib/pq"
)

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full-time"
	EmploymentPartTime   EmploymentType = "part-time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
	EmploymentRemote     EmploymentType = "remote"
)

type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "entry"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceExecutive ExperienceLevel = "executive"
)

type Category string

const (
	CategoryTechnology Category = "technology"
	CategoryMarketing  Category = "marketing"
	CategorySales      Category = "sales"
	CategoryDesign     Category = "design"
	CategoryFinance    Category = "finance"
	CategoryHR         Category = "hr"
	CategoryOperations Category = "operations"
	CategoryOther      Category = "other"
)

const (
	ApplicationPending = "pending"
)

// Job is a posting mirrored from the backend. Field names on the wire follow the
// hosted backend (`_id`, camelCase); gorm columns are snake_case.
type Job struct {
	ID                  string          `gorm:"primaryKey" json:"_id,omitempty" validate:"required"`
	Title               string          `gorm:"not null" json:"title" validate:"required"`
	Company             string          `json:"company"`
	Location            string          `json:"location"`
	EmploymentType      EmploymentType  `json:"employmentType" validate:"omitempty,oneof=full-time part-time contract internship remote"`
	SalaryMin           int             `json:"salaryMin" validate:"gte=0"`
	SalaryMax           int             `json:"salaryMax" validate:"gte=0"`
	Description         string          `gorm:"type:text" json:"description"`
	Requirements        pq.StringArray  `gorm:"type:text[]" json:"requirements"`
	Skills              pq.StringArray  `gorm:"type:text[]" json:"skills"`
	Benefits            pq.StringArray  `gorm:"type:text[]" json:"benefits,omitempty"`
	Category            Category        `json:"category" validate:"omitempty,oneof=technology marketing sales design finance hr operations other"`
	ExperienceLevel     ExperienceLevel `json:"experienceLevel" validate:"omitempty,oneof=entry mid senior executive"`
	Status              string          `json:"status"`
	ApplicationDeadline string          `json:"applicationDeadline,omitempty" validate:"omitempty,deadline"`
	PostedBy            string          `json:"postedBy"`
	ApplicationsCount   int             `json:"applicationsCount" validate:"gte=0"`
	CreatedAt           time.Time       `json:"createdAt"`
}

type Company struct {
	ID          string `gorm:"primaryKey" json:"_id,omitempty" validate:"required"`
	Name        string `gorm:"not null" json:"name" validate:"required"`
	Industry    string `json:"industry"`
	Size        string `json:"size"`
	Location    string `json:"location"`
	Description string `gorm:"type:text" json:"description"`
	Website     string `json:"website,omitempty" validate:"omitempty,url"`
	Logo        string `json:"logo,omitempty" validate:"omitempty,url"`
	Verified    bool   `json:"verified"`
}

type JobApplication struct {
	ID             string     `gorm:"primaryKey" json:"_id,omitempty" validate:"required"`
	JobID          string     `gorm:"index;not null" json:"jobId" validate:"required"`
	ApplicantID    string     `gorm:"index;not null" json:"applicantId" validate:"required"`
	Status         string     `gorm:"default:'pending'" json:"status" validate:"required"`
	CoverLetter    string     `gorm:"type:text" json:"coverLetter"`
	ExpectedSalary float64    `json:"expectedSalary" validate:"gte=0"`
	AppliedAt      time.Time  `json:"appliedAt"`
	Feedback       string     `gorm:"type:text" json:"feedback,omitempty"`
	UpdatedAt      *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt,omitempty"`
}

// User is the signed-in session owner as reported by the backend.
type User struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
}
