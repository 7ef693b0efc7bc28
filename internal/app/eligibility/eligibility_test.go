package eligibility

import (
	"fmt"
	"testing"

	"github.com/burakc/scholarhub/internal/app/models/dto"
)

func completeForm() *dto.ApplicationForm {
	return &dto.ApplicationForm{
		FirstName:          "Amina",
		LastName:           "Diallo",
		Email:              "amina@example.com",
		Phone:              "+221771234567",
		DateOfBirth:        "2002-03-14",
		Nationality:        "Senegalese",
		Institution:        "Cheikh Anta Diop University",
		FieldOfStudy:       "Computer Science",
		CurrentYear:        "3",
		MarksPercentage:    "85",
		ExpectedGraduation: "2026",
		IntendedUniversity: "ETH Zurich",
		IntendedProgram:    "MSc Computer Science",
		IntendedCountry:    "Switzerland",
		Motivation:         "I want to work on distributed systems.",
	}
}

func TestConvertPercentageToGPA(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"100", "4.0", true},
		{"85", "4.0", true},
		{"80", "4.0", true},
		{"79.9", "3.7", true},
		{"75", "3.7", true},
		{"70", "3.3", true},
		{"65", "3.0", true},
		{"60", "2.7", true},
		{"55", "2.3", true},
		{"50", "2.0", true},
		{"45", "1.7", true},
		{"42", "1.3", true},
		{"40", "1.3", true},
		{"39.9", "1.0", true},
		{"0", "1.0", true},
		{" 85 ", "4.0", true},
		{"-1", "", false},
		{"101", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ConvertPercentageToGPA(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ConvertPercentageToGPA(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestConvertPercentageToGPAMonotonic(t *testing.T) {
	prev := 0.0
	for p := 0; p <= 100; p++ {
		gpa, ok := ConvertPercentageToGPA(fmt.Sprintf("%d", p))
		if !ok {
			t.Fatalf("unexpected invalid result for %d", p)
		}
		var val float64
		if _, err := fmt.Sscanf(gpa, "%f", &val); err != nil {
			t.Fatalf("non-numeric GPA %q for %d", gpa, p)
		}
		if val < prev {
			t.Fatalf("GPA decreased from %v to %v at percentage %d", prev, val, p)
		}
		prev = val
	}
}

func TestValidateStepRequiredFields(t *testing.T) {
	tests := []struct {
		step  int
		blank func(f *dto.ApplicationForm)
		field string
	}{
		{1, func(f *dto.ApplicationForm) { f.FirstName = "" }, "firstName"},
		{1, func(f *dto.ApplicationForm) { f.Nationality = "" }, "nationality"},
		{1, func(f *dto.ApplicationForm) { f.DateOfBirth = "" }, "dateOfBirth"},
		{2, func(f *dto.ApplicationForm) { f.Institution = "" }, "institution"},
		{2, func(f *dto.ApplicationForm) { f.MarksPercentage = "" }, "marksPercentage"},
		{3, func(f *dto.ApplicationForm) { f.IntendedCountry = "" }, "intendedCountry"},
		{5, func(f *dto.ApplicationForm) { f.Motivation = "" }, "motivation"},
	}
	for _, tt := range tests {
		form := completeForm()
		tt.blank(form)
		errs := ValidateStep(form, tt.step)
		if _, ok := errs[tt.field]; !ok {
			t.Errorf("step %d: expected error for field %q, got %v", tt.step, tt.field, errs)
		}
	}
}

func TestValidateStepCompleteFormPasses(t *testing.T) {
	form := completeForm()
	for step := FirstStep; step <= LastStep; step++ {
		if errs := ValidateStep(form, step); len(errs) != 0 {
			t.Errorf("step %d: unexpected errors %v", step, errs)
		}
	}
}

func TestValidateStepFourHasNoRequirements(t *testing.T) {
	if errs := ValidateStep(&dto.ApplicationForm{}, 4); len(errs) != 0 {
		t.Errorf("step 4 should accept an empty form, got %v", errs)
	}
}

func TestValidateStepInvalidEmail(t *testing.T) {
	form := completeForm()
	form.Email = "not-an-email"
	errs := ValidateStep(form, 1)
	if _, ok := errs["email"]; !ok {
		t.Errorf("expected email format error, got %v", errs)
	}
}

func TestValidateStepInvalidMarks(t *testing.T) {
	form := completeForm()
	form.MarksPercentage = "120"
	errs := ValidateStep(form, 2)
	if _, ok := errs["marksPercentage"]; !ok {
		t.Errorf("expected marksPercentage error, got %v", errs)
	}
}

func TestValidateAllMergesSteps(t *testing.T) {
	form := completeForm()
	form.Nationality = ""
	form.Motivation = ""
	errs := ValidateAll(form)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if _, ok := errs["nationality"]; !ok {
		t.Errorf("missing nationality error: %v", errs)
	}
	if _, ok := errs["motivation"]; !ok {
		t.Errorf("missing motivation error: %v", errs)
	}
}
