package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent    RoleType = "STUDENT"
	RoleAdmin      RoleType = "ADMIN"
	RoleSuperAdmin RoleType = "SUPER_ADMIN"
)

// IsAdmin reports whether the role carries administrative capabilities.
func (r RoleType) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// DegreeLevel represents a target academic level for a scholarship
type DegreeLevel string

const (
	DegreeBachelor    DegreeLevel = "BACHELOR"
	DegreeMaster      DegreeLevel = "MASTER"
	DegreePhD         DegreeLevel = "PHD"
	DegreeCertificate DegreeLevel = "CERTIFICATE"
	DegreeDiploma     DegreeLevel = "DIPLOMA"
)

// ValidDegreeLevel reports whether s is a known degree level.
func ValidDegreeLevel(s string) bool {
	switch DegreeLevel(s) {
	case DegreeBachelor, DegreeMaster, DegreePhD, DegreeCertificate, DegreeDiploma:
		return true
	}
	return false
}

// AmountType indicates whether a scholarship covers full or partial costs
type AmountType string

const (
	AmountFull    AmountType = "FULL"
	AmountPartial AmountType = "PARTIAL"
)

// ScholarshipStatus is the publish state of a scholarship posting.
// It is independent of the moderation (approval) axis.
type ScholarshipStatus string

const (
	ScholarshipDraft  ScholarshipStatus = "DRAFT"
	ScholarshipActive ScholarshipStatus = "ACTIVE"
	ScholarshipPaused ScholarshipStatus = "PAUSED"
)

// ApprovalStatus is the moderation state of a scholarship posting
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// NotificationType categorizes notifications
type NotificationType string

const (
	NotificationNewScholarship     NotificationType = "NEW_SCHOLARSHIP"
	NotificationDeadlineReminder   NotificationType = "DEADLINE_REMINDER"
	NotificationApplicationUpdate  NotificationType = "APPLICATION_UPDATE"
	NotificationSystemAnnouncement NotificationType = "SYSTEM_ANNOUNCEMENT"
)
