package models

import (
	"testing"
	"time"
)

func TestValidApplicationStatus(t *testing.T) {
	for _, s := range []string{"APPLIED", "UNDER_REVIEW", "ACCEPTED", "REJECTED", "WAITLISTED"} {
		if !ValidApplicationStatus(s) {
			t.Errorf("ValidApplicationStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "applied", "ARCHIVED", "PENDING"} {
		if ValidApplicationStatus(s) {
			t.Errorf("ValidApplicationStatus(%q) = true, want false", s)
		}
	}
}

func TestStatusProgress(t *testing.T) {
	cases := map[ApplicationStatus]int{
		ApplicationApplied:     25,
		ApplicationUnderReview: 50,
		ApplicationWaitlisted:  75,
		ApplicationAccepted:    100,
		ApplicationRejected:    100,
	}
	for status, want := range cases {
		if got := status.Progress(); got != want {
			t.Errorf("%s.Progress() = %d, want %d", status, got, want)
		}
	}
	if got := ApplicationStatus("BOGUS").Progress(); got != 0 {
		t.Errorf("unknown status progress = %d, want 0", got)
	}
}

func TestAcceptsApplications(t *testing.T) {
	now := time.Now()
	base := Scholarship{
		Status:         ScholarshipActive,
		ApprovalStatus: ApprovalApproved,
		Deadline:       now.Add(24 * time.Hour),
	}

	if !base.AcceptsApplications(now) {
		t.Error("active approved unexpired scholarship should accept applications")
	}

	paused := base
	paused.Status = ScholarshipPaused
	if paused.AcceptsApplications(now) {
		t.Error("paused scholarship should not accept applications")
	}

	pending := base
	pending.ApprovalStatus = ApprovalPending
	if pending.AcceptsApplications(now) {
		t.Error("unapproved scholarship should not accept applications")
	}

	expired := base
	expired.Deadline = now.Add(-time.Minute)
	if !expired.IsExpired(now) {
		t.Error("past deadline should report expired")
	}
	if expired.AcceptsApplications(now) {
		t.Error("expired scholarship should not accept applications")
	}
}

func TestCanAdministrate(t *testing.T) {
	cases := []struct {
		name string
		user User
		want bool
	}{
		{"approved admin", User{RoleType: RoleAdmin, Approved: true}, true},
		{"approved super admin", User{RoleType: RoleSuperAdmin, Approved: true}, true},
		{"unapproved admin", User{RoleType: RoleAdmin}, false},
		{"blocked admin", User{RoleType: RoleAdmin, Approved: true, Blocked: true}, false},
		{"approved student", User{RoleType: RoleStudent, Approved: true}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.user.CanAdministrate(); got != tc.want {
				t.Errorf("CanAdministrate() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestComputeProfileComplete(t *testing.T) {
	str := func(s string) *string { return &s }
	u := User{
		Phone:        str("+33123456789"),
		Nationality:  str("French"),
		FieldOfStudy: str("Physics"),
		DegreeLevel:  str("MASTER"),
	}
	if !u.ComputeProfileComplete() {
		t.Error("all profile fields set should report complete")
	}

	u.FieldOfStudy = str("")
	if u.ComputeProfileComplete() {
		t.Error("empty fieldOfStudy should report incomplete")
	}

	u.FieldOfStudy = nil
	if u.ComputeProfileComplete() {
		t.Error("nil fieldOfStudy should report incomplete")
	}
}
