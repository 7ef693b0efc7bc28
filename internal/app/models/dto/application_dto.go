package dto

import (
	"time"

	"github.com/burakc/scholarhub/internal/app/models"
)

// ApplicationForm is the full multi-step application payload. Required-field
// rules are step-scoped and enforced by the eligibility gate, not by binding
// tags, so that partial payloads can be validated per step.
type ApplicationForm struct {
	// Step 1: personal information
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Nationality string `json:"nationality"`

	// Step 2: academic information
	Institution        string `json:"institution"`
	FieldOfStudy       string `json:"fieldOfStudy"`
	CurrentYear        string `json:"currentYear"`
	MarksPercentage    string `json:"marksPercentage"`
	ExpectedGraduation string `json:"expectedGraduation"`

	// Step 3: intended program
	IntendedUniversity string `json:"intendedUniversity"`
	IntendedProgram    string `json:"intendedProgram"`
	IntendedCountry    string `json:"intendedCountry"`
	FinancialNeed      string `json:"financialNeed"`

	// Step 4: achievements and experience (optional)
	Achievements string `json:"achievements"`
	Experience   string `json:"experience"`

	// Step 5: motivation
	Motivation string `json:"motivation"`
}

// SubmitApplicationRequest represents an application submission
type SubmitApplicationRequest struct {
	ScholarshipID int64 `json:"scholarshipId" binding:"required,gt=0"`
	ApplicationForm
}

// ValidateStepRequest asks the eligibility gate to check a single form step
type ValidateStepRequest struct {
	Step int `json:"step" binding:"required,min=1,max=5"`
	ApplicationForm
}

// UpdateApplicationStatusRequest represents an administrator status change
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=APPLIED UNDER_REVIEW ACCEPTED REJECTED WAITLISTED"`
}

// ApplicationResponse represents application information returned by the API.
// Progress is a display-only percentage derived from the status.
type ApplicationResponse struct {
	ID            int64                `json:"id"`
	ScholarshipID int64                `json:"scholarshipId"`
	UserID        int64                `json:"userId"`
	Status        string               `json:"status"`
	Progress      int                  `json:"progress"`
	GPA           string               `json:"gpa"`
	Form          ApplicationForm      `json:"form"`
	AppliedAt     time.Time            `json:"appliedAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
	Scholarship   *ScholarshipResponse `json:"scholarship,omitempty"`
}

// NewApplicationResponse maps an application model to its API representation
func NewApplicationResponse(a *models.Application, now time.Time) *ApplicationResponse {
	if a == nil {
		return nil
	}
	resp := &ApplicationResponse{
		ID:            a.ID,
		ScholarshipID: a.ScholarshipID,
		UserID:        a.UserID,
		Status:        string(a.Status),
		Progress:      a.Status.Progress(),
		GPA:           a.GPA,
		Form: ApplicationForm{
			FirstName:          a.FirstName,
			LastName:           a.LastName,
			Email:              a.Email,
			Phone:              a.Phone,
			DateOfBirth:        a.DateOfBirth,
			Nationality:        a.Nationality,
			Institution:        a.Institution,
			FieldOfStudy:       a.FieldOfStudy,
			CurrentYear:        a.CurrentYear,
			MarksPercentage:    a.MarksPercentage,
			ExpectedGraduation: a.ExpectedGraduation,
			IntendedUniversity: a.IntendedUniversity,
			IntendedProgram:    a.IntendedProgram,
			IntendedCountry:    a.IntendedCountry,
			FinancialNeed:      a.FinancialNeed,
			Achievements:       a.Achievements,
			Experience:         a.Experience,
			Motivation:         a.Motivation,
		},
		AppliedAt: a.AppliedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.Scholarship != nil {
		resp.Scholarship = NewScholarshipResponse(a.Scholarship, now)
	}
	return resp
}

// ApplicationFilterRequest represents application listing filter parameters
type ApplicationFilterRequest struct {
	ScholarshipID *int64  `form:"scholarshipId" binding:"omitempty,gt=0"`
	UserID        *int64  `form:"userId" binding:"omitempty,gt=0"`
	Status        *string `form:"status" binding:"omitempty,oneof=APPLIED UNDER_REVIEW ACCEPTED REJECTED WAITLISTED"`
	Page          int     `form:"page,default=1" binding:"min=1"`
	PageSize      int     `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// ApplicationListResponse represents a paginated list of applications
type ApplicationListResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	PaginationInfo
}
