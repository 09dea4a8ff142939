package models

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("deadline", func(fl validator.FieldLevel) bool {
			_, ok := ParseDeadline(fl.Field().String())
			return ok
		})
	})
	return validate
}

// ParseDeadline accepts a bare date or a full RFC 3339 timestamp.
func ParseDeadline(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (j *Job) Validate() error {
	return validatorInstance().Struct(j)
}

func (c *Company) Validate() error {
	return validatorInstance().Struct(c)
}

func (a *JobApplication) Validate() error {
	return validatorInstance().Struct(a)
}
