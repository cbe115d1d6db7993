package validator

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := v.RegisterValidation("future_date", validateFutureDate); err != nil {
		t.Fatal(err)
	}
	if err := v.RegisterValidation("date", validateDate); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestFutureDate(t *testing.T) {
	v := newValidate(t)

	tomorrow := time.Now().AddDate(0, 0, 1).Format(dateLayout)
	yesterday := time.Now().AddDate(0, 0, -1).Format(dateLayout)
	today := time.Now().Format(dateLayout)

	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"tomorrow_is_valid", tomorrow, true},
		{"yesterday_is_invalid", yesterday, false},
		{"today_is_invalid", today, false},
		{"empty_is_invalid", "", false},
		{"malformed_is_invalid", "not-a-date", false},
		{"wrong_layout_is_invalid", "01/02/2030", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Var(tt.value, "future_date")
			if tt.valid && err != nil {
				t.Errorf("expected %q to be valid, got %v", tt.value, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("expected %q to be invalid", tt.value)
			}
		})
	}
}

func TestDate(t *testing.T) {
	v := newValidate(t)

	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"well_formed", "2026-08-28", true},
		{"empty_is_allowed", "", true},
		{"malformed", "2026-13-45", false},
		{"wrong_layout", "28-08-2026", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Var(tt.value, "date")
			if tt.valid && err != nil {
				t.Errorf("expected %q to be valid, got %v", tt.value, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("expected %q to be invalid", tt.value)
			}
		})
	}
}
