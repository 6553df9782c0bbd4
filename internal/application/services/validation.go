package services

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	apperrors "github.com/jsimpson73/test-med-app/pkg/errors"
)

const minPasswordChars = 8

var (
	phonePattern = regexp.MustCompile(`^[+]?[\d\s\-()]{10,}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	whitespace   = regexp.MustCompile(`\s`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
	digitPattern = regexp.MustCompile(`\d`)
)

// ValidateRegistration checks every sign-up field and returns all violations
// keyed by field name. An empty map means the candidate is valid.
func ValidateRegistration(reg entities.Registration) map[string]string {
	fields := map[string]string{}

	switch {
	case strings.TrimSpace(reg.Name) == "":
		fields["name"] = "Name is required"
	case utf8.RuneCountInString(strings.TrimSpace(reg.Name)) < 2:
		fields["name"] = "Name must be at least 2 characters"
	}

	switch {
	case strings.TrimSpace(reg.Phone) == "":
		fields["phone"] = "Phone number is required"
	case !phonePattern.MatchString(whitespace.ReplaceAllString(reg.Phone, "")):
		fields["phone"] = "Please enter a valid phone number"
	}

	switch {
	case strings.TrimSpace(reg.Email) == "":
		fields["email"] = "Email is required"
	case !emailPattern.MatchString(reg.Email):
		fields["email"] = "Please enter a valid email address"
	}

	switch {
	case reg.Password == "":
		fields["password"] = "Password is required"
	case utf8.RuneCountInString(reg.Password) < minPasswordChars:
		fields["password"] = "Password must be at least 8 characters"
	case !lowerPattern.MatchString(reg.Password) ||
		!upperPattern.MatchString(reg.Password) ||
		!digitPattern.MatchString(reg.Password):
		fields["password"] = "Password must contain at least one uppercase letter, one lowercase letter, and one number"
	}

	if reg.ConfirmPassword != "" && reg.ConfirmPassword != reg.Password {
		fields["confirm_password"] = "Passwords do not match"
	}

	if reg.Role != "" {
		if _, err := entities.ParseRole(string(reg.Role)); err != nil {
			fields["role"] = "Please select a valid role"
		}
	}

	return fields
}

func validateProfileUpdate(update entities.ProfileUpdate) error {
	fields := map[string]string{}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		fields["name"] = "Name is required"
	}
	if update.Phone != nil && strings.TrimSpace(*update.Phone) == "" {
		fields["phone"] = "Phone number is required"
	}
	if update.Age != nil && *update.Age < 0 {
		fields["age"] = "Age cannot be negative"
	}
	if len(fields) > 0 {
		return apperrors.NewFieldValidationError("invalid profile", fields)
	}
	return nil
}

func validateAppointmentRequest(req entities.AppointmentRequest) error {
	fields := map[string]string{}
	if req.DoctorID <= 0 {
		fields["doctor_id"] = "Doctor is required"
	}
	if strings.TrimSpace(req.DoctorName) == "" {
		fields["doctor_name"] = "Doctor name is required"
	}
	if strings.TrimSpace(req.PatientName) == "" {
		fields["patient_name"] = "Name is required"
	}
	if strings.TrimSpace(req.PatientPhone) == "" {
		fields["patient_phone"] = "Phone number is required"
	}
	if strings.TrimSpace(req.Date) == "" {
		fields["date"] = "Date is required"
	} else if !validDate(req.Date) {
		fields["date"] = "Date must be YYYY-MM-DD"
	}
	if strings.TrimSpace(req.Time) == "" {
		fields["time"] = "Time slot is required"
	}
	if len(fields) > 0 {
		return apperrors.NewFieldValidationError("Please fill all fields", fields)
	}
	return nil
}

func validDate(s string) bool {
	_, err := time.Parse(entities.DateLayout, s)
	return err == nil
}
