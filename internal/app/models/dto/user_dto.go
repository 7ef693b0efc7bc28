package dto

import (
	"time"

	"github.com/burakc/scholarhub/internal/app/models"
)

// UserResponse represents user information returned by the API
type UserResponse struct {
	ID              int64              `json:"id"`
	Email           string             `json:"email"`
	FirstName       string             `json:"firstName"`
	LastName        string             `json:"lastName"`
	RoleType        string             `json:"roleType" enums:"STUDENT,ADMIN,SUPER_ADMIN"`
	Approved        bool               `json:"approved"`
	Blocked         bool               `json:"blocked"`
	ProfileComplete bool               `json:"profileComplete"`
	Phone           *string            `json:"phone,omitempty"`
	Nationality     *string            `json:"nationality,omitempty"`
	FieldOfStudy    *string            `json:"fieldOfStudy,omitempty"`
	DegreeLevel     *string            `json:"degreeLevel,omitempty"`
	ProfilePhotoURL *string            `json:"profilePhotoUrl,omitempty"`
	Preferences     models.Preferences `json:"preferences"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// NewUserResponse maps a user model to its API representation
func NewUserResponse(u *models.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		RoleType:        string(u.RoleType),
		Approved:        u.Approved,
		Blocked:         u.Blocked,
		ProfileComplete: u.ProfileComplete,
		Phone:           u.Phone,
		Nationality:     u.Nationality,
		FieldOfStudy:    u.FieldOfStudy,
		DegreeLevel:     u.DegreeLevel,
		ProfilePhotoURL: u.ProfilePhotoURL,
		Preferences:     u.Preferences,
		CreatedAt:       u.CreatedAt,
	}
}

// UpdateProfileRequest represents a self-service profile update.
// profileComplete is recomputed from the resulting field values, it is not
// directly settable.
type UpdateProfileRequest struct {
	FirstName    string              `json:"firstName" binding:"required,min=2,max=100"`
	LastName     string              `json:"lastName" binding:"required,min=2,max=100"`
	Phone        *string             `json:"phone,omitempty"`
	Nationality  *string             `json:"nationality,omitempty"`
	FieldOfStudy *string             `json:"fieldOfStudy,omitempty"`
	DegreeLevel  *string             `json:"degreeLevel,omitempty" binding:"omitempty,oneof=BACHELOR MASTER PHD CERTIFICATE DIPLOMA"`
	Preferences  *models.Preferences `json:"preferences,omitempty"`
}

// AdminUpdateUserRequest represents an administrator edit of a user record
type AdminUpdateUserRequest struct {
	FirstName string `json:"firstName" binding:"required,min=2,max=100"`
	LastName  string `json:"lastName" binding:"required,min=2,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Role      string `json:"role" binding:"required,oneof=STUDENT ADMIN SUPER_ADMIN"`
}

// UserFilterRequest represents user listing filter parameters
type UserFilterRequest struct {
	Role     *string `form:"role" binding:"omitempty,oneof=STUDENT ADMIN SUPER_ADMIN"`
	Approved *bool   `form:"approved"`
	Blocked  *bool   `form:"blocked"`
	Search   *string `form:"search"`
	Page     int     `form:"page,default=1" binding:"min=1"`
	PageSize int     `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	PaginationInfo
}
