package dto

import (
	"time"

	"github.com/burakc/scholarhub/internal/app/models"
)

// CreateScholarshipRequest represents scholarship creation data
type CreateScholarshipRequest struct {
	Title               string    `json:"title" binding:"required,min=3,max=200"`
	Description         string    `json:"description" binding:"required"`
	DetailedDescription *string   `json:"detailedDescription,omitempty"`
	Amount              string    `json:"amount" binding:"required" example:"$10,000/year"`
	AmountType          string    `json:"amountType" binding:"required,oneof=FULL PARTIAL"`
	Categories          []string  `json:"categories" binding:"required,min=1,dive,min=1"`
	DegreeLevels        []string  `json:"degreeLevels" binding:"required,min=1,dive,oneof=BACHELOR MASTER PHD CERTIFICATE DIPLOMA"`
	Deadline            time.Time `json:"deadline" binding:"required"`
	AwardsAvailable     *int      `json:"awardsAvailable,omitempty" binding:"omitempty,gt=0"`
}

// UpdateScholarshipRequest represents scholarship update data
type UpdateScholarshipRequest struct {
	Title               string    `json:"title" binding:"required,min=3,max=200"`
	Description         string    `json:"description" binding:"required"`
	DetailedDescription *string   `json:"detailedDescription,omitempty"`
	Amount              string    `json:"amount" binding:"required"`
	AmountType          string    `json:"amountType" binding:"required,oneof=FULL PARTIAL"`
	Categories          []string  `json:"categories" binding:"required,min=1,dive,min=1"`
	DegreeLevels        []string  `json:"degreeLevels" binding:"required,min=1,dive,oneof=BACHELOR MASTER PHD CERTIFICATE DIPLOMA"`
	Deadline            time.Time `json:"deadline" binding:"required"`
	AwardsAvailable     *int      `json:"awardsAvailable,omitempty" binding:"omitempty,gt=0"`
}

// ScholarshipResponse represents scholarship information returned by the API.
// Expired is derived from the deadline at response time.
type ScholarshipResponse struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	DetailedDescription *string   `json:"detailedDescription,omitempty"`
	Amount              string    `json:"amount"`
	AmountType          string    `json:"amountType"`
	Categories          []string  `json:"categories"`
	DegreeLevels        []string  `json:"degreeLevels"`
	Deadline            time.Time `json:"deadline"`
	Status              string    `json:"status"`
	ApprovalStatus      string    `json:"approvalStatus"`
	Expired             bool      `json:"expired"`
	Views               int64     `json:"views"`
	AwardsAvailable     *int      `json:"awardsAvailable,omitempty"`
	CreatedBy           int64     `json:"createdBy"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// NewScholarshipResponse maps a scholarship model to its API representation,
// deriving the expired flag at the given instant.
func NewScholarshipResponse(s *models.Scholarship, now time.Time) *ScholarshipResponse {
	if s == nil {
		return nil
	}
	levels := make([]string, len(s.DegreeLevels))
	for i, l := range s.DegreeLevels {
		levels[i] = string(l)
	}
	return &ScholarshipResponse{
		ID:                  s.ID,
		Title:               s.Title,
		Description:         s.Description,
		DetailedDescription: s.DetailedDescription,
		Amount:              s.Amount,
		AmountType:          string(s.AmountType),
		Categories:          s.Categories,
		DegreeLevels:        levels,
		Deadline:            s.Deadline,
		Status:              string(s.Status),
		ApprovalStatus:      string(s.ApprovalStatus),
		Expired:             s.IsExpired(now),
		Views:               s.Views,
		AwardsAvailable:     s.AwardsAvailable,
		CreatedBy:           s.CreatedBy,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

// ScholarshipFilterRequest represents scholarship listing filter parameters
type ScholarshipFilterRequest struct {
	Search         *string    `form:"search"`
	Category       *string    `form:"category"`
	DegreeLevel    *string    `form:"degreeLevel" binding:"omitempty,oneof=BACHELOR MASTER PHD CERTIFICATE DIPLOMA"`
	DeadlineBefore *time.Time `form:"deadline" time_format:"2006-01-02"`
	Status         *string    `form:"status" binding:"omitempty,oneof=DRAFT ACTIVE PAUSED"`
	ApprovalStatus *string    `form:"approvalStatus" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Page           int        `form:"page,default=1" binding:"min=1"`
	PageSize       int        `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// ScholarshipListResponse represents a paginated list of scholarships
type ScholarshipListResponse struct {
	Scholarships []ScholarshipResponse `json:"scholarships"`
	PaginationInfo
}

// SaveScholarshipRequest represents a bookmark toggle request
type SaveScholarshipRequest struct {
	ScholarshipID int64 `json:"scholarshipId" binding:"required,gt=0"`
}

// SaveScholarshipResponse reports the bookmark state after a toggle
type SaveScholarshipResponse struct {
	ScholarshipID int64 `json:"scholarshipId"`
	Saved         bool  `json:"saved"`
}

// SavedScholarshipResponse represents a bookmarked scholarship
type SavedScholarshipResponse struct {
	ScholarshipID int64                `json:"scholarshipId"`
	SavedAt       time.Time            `json:"savedAt"`
	Scholarship   *ScholarshipResponse `json:"scholarship,omitempty"`
}
