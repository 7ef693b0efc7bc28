// Package eligibility is the pure validation layer for scholarship
// applications. It checks step-scoped required fields over the form payload
// and derives the GPA from the marks percentage. It has no side effects:
// expected validation failures are reported as field-level messages, never
// as errors.
package eligibility

import (
	"regexp"

	"github.com/burakc/scholarhub/internal/app/models/dto"
)

// FirstStep and LastStep bound the multi-step application form.
const (
	FirstStep = 1
	LastStep  = 5
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// FieldErrors maps field names to validation messages. An empty map means
// the checked step(s) are valid.
type FieldErrors map[string]string

func (fe FieldErrors) add(field, message string) {
	if _, ok := fe[field]; !ok {
		fe[field] = message
	}
}

// ValidateStep checks the required fields of a single form step and returns
// field-level messages for anything missing or malformed. Unknown step
// numbers return an empty result.
func ValidateStep(form *dto.ApplicationForm, step int) FieldErrors {
	fe := FieldErrors{}
	switch step {
	case 1:
		requireField(fe, "firstName", form.FirstName, "First name is required")
		requireField(fe, "lastName", form.LastName, "Last name is required")
		requireField(fe, "email", form.Email, "Email is required")
		if form.Email != "" && !emailPattern.MatchString(form.Email) {
			fe.add("email", "Email format is invalid")
		}
		requireField(fe, "phone", form.Phone, "Phone number is required")
		requireField(fe, "dateOfBirth", form.DateOfBirth, "Date of birth is required")
		requireField(fe, "nationality", form.Nationality, "Nationality is required")
	case 2:
		requireField(fe, "institution", form.Institution, "Institution is required")
		requireField(fe, "fieldOfStudy", form.FieldOfStudy, "Field of study is required")
		requireField(fe, "currentYear", form.CurrentYear, "Current year is required")
		requireField(fe, "marksPercentage", form.MarksPercentage, "Marks percentage is required")
		if form.MarksPercentage != "" {
			if _, ok := ConvertPercentageToGPA(form.MarksPercentage); !ok {
				fe.add("marksPercentage", "Marks percentage must be a number between 0 and 100")
			}
		}
	case 3:
		requireField(fe, "intendedUniversity", form.IntendedUniversity, "Intended university is required")
		requireField(fe, "intendedProgram", form.IntendedProgram, "Intended program is required")
		requireField(fe, "intendedCountry", form.IntendedCountry, "Intended country is required")
	case 4:
		// achievements and experience are optional
	case 5:
		requireField(fe, "motivation", form.Motivation, "Motivation statement is required")
	}
	return fe
}

// ValidateAll checks every form step and merges the field errors, as done on
// final submission.
func ValidateAll(form *dto.ApplicationForm) FieldErrors {
	fe := FieldErrors{}
	for step := FirstStep; step <= LastStep; step++ {
		for field, message := range ValidateStep(form, step) {
			fe.add(field, message)
		}
	}
	return fe
}

func requireField(fe FieldErrors, name, value, message string) {
	if value == "" {
		fe.add(name, message)
	}
}
