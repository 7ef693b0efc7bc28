package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID              int64       `json:"id" db:"id" example:"1"`
	Email           string      `json:"email" db:"email" example:"student@example.com"`
	Password        string      `json:"-" db:"password"` // hashed, excluded from JSON
	FirstName       string      `json:"firstName" db:"first_name" example:"Amina"`
	LastName        string      `json:"lastName" db:"last_name" example:"Diallo"`
	RoleType        RoleType    `json:"roleType" db:"role_type" example:"STUDENT"`
	Approved        bool        `json:"approved" db:"approved" example:"true"`
	Blocked         bool        `json:"blocked" db:"blocked" example:"false"`
	ProfileComplete bool        `json:"profileComplete" db:"profile_complete" example:"false"`
	Phone           *string     `json:"phone,omitempty" db:"phone"`
	Nationality     *string     `json:"nationality,omitempty" db:"nationality"`
	FieldOfStudy    *string     `json:"fieldOfStudy,omitempty" db:"field_of_study"`
	DegreeLevel     *string     `json:"degreeLevel,omitempty" db:"degree_level"`
	ProfilePhotoURL *string     `json:"profilePhotoUrl,omitempty" db:"profile_photo_url"`
	Preferences     Preferences `json:"preferences" db:"-"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`
	LastLoginAt     *time.Time  `json:"lastLoginAt,omitempty" db:"last_login_at"`
}

// Preferences is the fixed schema replacing the legacy free-form
// preference blob. Each flag gates a notification source.
type Preferences struct {
	EmailNotifications   bool `json:"emailNotifications" db:"pref_email_notifications"`
	DeadlineReminders    bool `json:"deadlineReminders" db:"pref_deadline_reminders"`
	NewScholarshipAlerts bool `json:"newScholarshipAlerts" db:"pref_new_scholarship_alerts"`
}

// DefaultPreferences returns the preference flags assigned at signup.
func DefaultPreferences() Preferences {
	return Preferences{
		EmailNotifications:   true,
		DeadlineReminders:    true,
		NewScholarshipAlerts: true,
	}
}

// ComputeProfileComplete derives the persisted profileComplete flag from the
// current profile fields. It must be re-evaluated on every profile update.
func (u *User) ComputeProfileComplete() bool {
	has := func(s *string) bool { return s != nil && *s != "" }
	return has(u.Phone) && has(u.Nationality) && has(u.FieldOfStudy) && has(u.DegreeLevel)
}

// CanAdministrate reports whether the user may exercise admin capabilities.
// Admin accounts require approval; student accounts never qualify.
func (u *User) CanAdministrate() bool {
	return u.RoleType.IsAdmin() && u.Approved && !u.Blocked
}
