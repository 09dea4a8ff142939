package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/models"
)

// FilterJobs returns the jobs that satisfy every non-empty criterion, in input order.
// The input slice is never modified.
func FilterJobs(jobs []models.Job, f dtos.JobFilters) []models.Job {
	search := strings.ToLower(f.Search)
	location := strings.ToLower(f.Location)
	minSalary, hasMinSalary := parseSalaryThreshold(f.SalaryMin)

	filtered := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if search != "" && !matchesSearch(job, search) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(job.Location), location) {
			continue
		}
		if f.Category != "" && string(job.Category) != f.Category {
			continue
		}
		if f.EmploymentType != "" && string(job.EmploymentType) != f.EmploymentType {
			continue
		}
		if f.ExperienceLevel != "" && string(job.ExperienceLevel) != f.ExperienceLevel {
			continue
		}
		if hasMinSalary && job.SalaryMin < minSalary {
			continue
		}
		filtered = append(filtered, job)
	}
	return filtered
}

// matchesSearch expects an already lower-cased term.
func matchesSearch(job models.Job, term string) bool {
	if strings.Contains(strings.ToLower(job.Title), term) ||
		strings.Contains(strings.ToLower(job.Company), term) ||
		strings.Contains(strings.ToLower(job.Description), term) {
		return true
	}
	for _, skill := range job.Skills {
		if strings.Contains(strings.ToLower(skill), term) {
			return true
		}
	}
	return false
}

// parseSalaryThreshold treats anything non-numeric as "no filter".
func parseSalaryThreshold(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FilterOptions lists the values the job filters offer.
func FilterOptions() dtos.FilterOptions {
	return dtos.FilterOptions{
		Categories: []dtos.Option{
			{Value: "", Label: "All Categories"},
			{Value: string(models.CategoryTechnology), Label: "Technology"},
			{Value: string(models.CategoryMarketing), Label: "Marketing"},
			{Value: string(models.CategorySales), Label: "Sales"},
			{Value: string(models.CategoryDesign), Label: "Design"},
			{Value: string(models.CategoryFinance), Label: "Finance"},
			{Value: string(models.CategoryHR), Label: "Human Resources"},
			{Value: string(models.CategoryOperations), Label: "Operations"},
			{Value: string(models.CategoryOther), Label: "Other"},
		},
		EmploymentTypes: []dtos.Option{
			{Value: "", Label: "All Types"},
			{Value: string(models.EmploymentFullTime), Label: "Full-time"},
			{Value: string(models.EmploymentPartTime), Label: "Part-time"},
			{Value: string(models.EmploymentContract), Label: "Contract"},
			{Value: string(models.EmploymentInternship), Label: "Internship"},
			{Value: string(models.EmploymentRemote), Label: "Remote"},
		},
		ExperienceLevels: []dtos.Option{
			{Value: "", Label: "All Levels"},
			{Value: string(models.ExperienceEntry), Label: "Entry Level"},
			{Value: string(models.ExperienceMid), Label: "Mid Level"},
			{Value: string(models.ExperienceSenior), Label: "Senior Level"},
			{Value: string(models.ExperienceExecutive), Label: "Executive"},
		},
		SalaryRanges: []dtos.Option{
			{Value: "", Label: "Any Salary"},
			{Value: "40000", Label: "$40K+"},
			{Value: "60000", Label: "$60K+"},
			{Value: "80000", Label: "$80K+"},
			{Value: "100000", Label: "$100K+"},
			{Value: "120000", Label: "$120K+"},
		},
	}
}

// FormatSalary renders a range the way job cards show it, e.g. "$90K - $120K".
func FormatSalary(low, high int) string {
	return "$" + compactNumber(low) + " - $" + compactNumber(high)
}

func compactNumber(n int) string {
	switch {
	case n >= 1_000_000:
		// halves round up, not to even
		return fmt.Sprintf("%.1fM", math.Round(float64(n)/100_000)/10)
	case n >= 1_000:
		return fmt.Sprintf("%.0fK", math.Round(float64(n)/1_000))
	default:
		return strconv.Itoa(n)
	}
}
