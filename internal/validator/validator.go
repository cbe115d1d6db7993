// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("future_date", validateFutureDate)
		_ = v.RegisterValidation("date", validateDate)
	}
}

// validateFutureDate checks that a YYYY-MM-DD string lies strictly after
// today. Goal deadlines must not already be in the past.
func validateFutureDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return false
	}
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return false
	}
	today := time.Now().Truncate(24 * time.Hour)
	return d.After(today)
}

// validateDate checks that a string is a well-formed YYYY-MM-DD date.
func validateDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // optionality is expressed with omitempty
	}
	_, err := time.Parse(dateLayout, value)
	return err == nil
}
