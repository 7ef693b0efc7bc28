package models

import "time"

// Scholarship defines the scholarship model based on the 'scholarships' table
type Scholarship struct {
	ID                  int64             `db:"id"`
	Title               string            `db:"title"`
	Description         string            `db:"description"`
	DetailedDescription *string           `db:"detailed_description"` // optional rich text
	Amount              string            `db:"amount"`               // free-text money label, e.g. "$10,000/year"
	AmountType          AmountType        `db:"amount_type"`
	Categories          []string          `db:"categories"`
	DegreeLevels        []DegreeLevel     `db:"degree_levels"`
	Deadline            time.Time         `db:"deadline"`
	Status              ScholarshipStatus `db:"status"`
	ApprovalStatus      ApprovalStatus    `db:"approval_status"`
	Views               int64             `db:"views"`
	AwardsAvailable     *int              `db:"awards_available"`
	CreatedBy           int64             `db:"created_by"`
	CreatedAt           time.Time         `db:"created_at"`
	UpdatedAt           time.Time         `db:"updated_at"`
}

// IsExpired reports whether the deadline has passed at the given instant.
// Expiry is always derived at evaluation time, never persisted.
func (s *Scholarship) IsExpired(now time.Time) bool {
	return now.After(s.Deadline)
}

// AcceptsApplications reports whether a student may apply at the given instant.
func (s *Scholarship) AcceptsApplications(now time.Time) bool {
	return s.Status == ScholarshipActive &&
		s.ApprovalStatus == ApprovalApproved &&
		!s.IsExpired(now)
}

// SavedScholarship is the bookmark join entity, unique per (user, scholarship)
type SavedScholarship struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	ScholarshipID int64     `db:"scholarship_id"`
	SavedAt       time.Time `db:"saved_at"`

	Scholarship *Scholarship `db:"-"` // relation, populated on list
}
