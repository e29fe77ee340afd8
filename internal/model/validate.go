package model

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	taskIDPattern     = regexp.MustCompile(`^T\d+$`)
	employeeIDPattern = regexp.MustCompile(`^(E|EMP)\d+$`)
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the record-specific tags
// (taskid, employeeid, isodate, notblank) registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		must(v.RegisterValidation("taskid", func(fl validator.FieldLevel) bool {
			return ValidTaskID(fl.Field().String())
		}))
		must(v.RegisterValidation("employeeid", func(fl validator.FieldLevel) bool {
			return ValidEmployeeID(fl.Field().String())
		}))
		must(v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			return ValidDate(fl.Field().String())
		}))
		must(v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		}))
		validate = v
	})
	return validate
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// ValidTaskID reports whether id has the form T<number>.
func ValidTaskID(id string) bool {
	return taskIDPattern.MatchString(id)
}

// ValidEmployeeID reports whether id has the form E<number> or the legacy EMP<number>.
func ValidEmployeeID(id string) bool {
	return employeeIDPattern.MatchString(id)
}

// ValidDate reports whether s is a calendar date in yyyy-MM-dd form.
func ValidDate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// Validate checks the task's fields.
func (t Task) Validate() error {
	if err := Validator().Struct(t); err != nil {
		return fmt.Errorf("%w: task %s: %v", ErrValidation, t.ID, err)
	}
	return nil
}

// Validate checks the employee's fields.
func (e Employee) Validate() error {
	if err := Validator().Struct(e); err != nil {
		return fmt.Errorf("%w: employee %s: %v", ErrValidation, e.ID, err)
	}
	return nil
}
