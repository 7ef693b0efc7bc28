package models

import "time"

// ApplicationStatus is the review state of a submitted application
type ApplicationStatus string

const (
	ApplicationApplied     ApplicationStatus = "APPLIED"
	ApplicationUnderReview ApplicationStatus = "UNDER_REVIEW"
	ApplicationAccepted    ApplicationStatus = "ACCEPTED"
	ApplicationRejected    ApplicationStatus = "REJECTED"
	ApplicationWaitlisted  ApplicationStatus = "WAITLISTED"
)

// ValidApplicationStatus reports whether s is one of the five defined states.
// Reviewers may set any defined status from any other; there is no transition
// table, only membership in this set is enforced.
func ValidApplicationStatus(s string) bool {
	switch ApplicationStatus(s) {
	case ApplicationApplied, ApplicationUnderReview, ApplicationAccepted,
		ApplicationRejected, ApplicationWaitlisted:
		return true
	}
	return false
}

// Progress returns the display-only completion percentage for a status.
func (s ApplicationStatus) Progress() int {
	switch s {
	case ApplicationApplied:
		return 25
	case ApplicationUnderReview:
		return 50
	case ApplicationWaitlisted:
		return 75
	case ApplicationAccepted, ApplicationRejected:
		return 100
	}
	return 0
}

// Application defines the application model based on the 'applications' table.
// All applicant-entered fields are a snapshot taken at submission time; the
// record is never edited by the applicant afterwards, only its status moves.
type Application struct {
	ID            int64             `db:"id"`
	ScholarshipID int64             `db:"scholarship_id"`
	UserID        int64             `db:"user_id"`
	Status        ApplicationStatus `db:"status"`

	// Step 1: personal information
	FirstName   string `db:"first_name"`
	LastName    string `db:"last_name"`
	Email       string `db:"email"`
	Phone       string `db:"phone"`
	DateOfBirth string `db:"date_of_birth"`
	Nationality string `db:"nationality"`

	// Step 2: academic information
	Institution        string `db:"institution"`
	FieldOfStudy       string `db:"field_of_study"`
	CurrentYear        string `db:"current_year"`
	MarksPercentage    string `db:"marks_percentage"`
	GPA                string `db:"gpa"` // derived from MarksPercentage at submission
	ExpectedGraduation string `db:"expected_graduation"`

	// Step 3: intended program
	IntendedUniversity string `db:"intended_university"`
	IntendedProgram    string `db:"intended_program"`
	IntendedCountry    string `db:"intended_country"`
	FinancialNeed      string `db:"financial_need"`

	// Step 4: achievements and experience (free text, optional)
	Achievements string `db:"achievements"`
	Experience   string `db:"experience"`

	// Step 5: motivation
	Motivation string `db:"motivation"`

	AppliedAt time.Time `db:"applied_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Scholarship *Scholarship `db:"-"` // relation, populated on list
}
