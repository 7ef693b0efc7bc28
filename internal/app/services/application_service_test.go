package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/burakc/scholarhub/internal/app/models"
	"github.com/burakc/scholarhub/internal/app/models/dto"
	"github.com/burakc/scholarhub/internal/pkg/apperrors"
)

func completeSubmitRequest(scholarshipID int64) *dto.SubmitApplicationRequest {
	return &dto.SubmitApplicationRequest{
		ScholarshipID: scholarshipID,
		ApplicationForm: dto.ApplicationForm{
			FirstName:          "Amina",
			LastName:           "Diallo",
			Email:              "amina@example.com",
			Phone:              "+221770000000",
			DateOfBirth:        "2002-04-15",
			Nationality:        "Senegalese",
			Institution:        "University of Dakar",
			FieldOfStudy:       "Computer Science",
			CurrentYear:        "3",
			MarksPercentage:    "85",
			ExpectedGraduation: "2026",
			IntendedUniversity: "ETH Zurich",
			IntendedProgram:    "MSc Computer Science",
			IntendedCountry:    "Switzerland",
			Motivation:         "I want to research distributed systems.",
		},
	}
}

type applicationFixture struct {
	service      ApplicationService
	applications *fakeApplicationStore
	scholarships *fakeScholarshipStore
	emitted      *fakeNotificationStore
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()
	scholarships := newFakeScholarshipStore()
	applications := newFakeApplicationStore()
	notificationStore := newFakeNotificationStore()
	notifications := NewNotificationService(notificationStore, newFakeUserStore(), nil, zerolog.Nop())
	return &applicationFixture{
		service:      NewApplicationService(applications, scholarships, notifications, zerolog.Nop()),
		applications: applications,
		scholarships: scholarships,
		emitted:      notificationStore,
	}
}

func (f *applicationFixture) openScholarship(deadline time.Time) *models.Scholarship {
	return f.scholarships.add(&models.Scholarship{
		Title:          "Global Excellence Scholarship",
		Amount:         "$10,000/year",
		AmountType:     models.AmountFull,
		Categories:     []string{"STEM"},
		DegreeLevels:   []models.DegreeLevel{models.DegreeMaster},
		Deadline:       deadline,
		Status:         models.ScholarshipActive,
		ApprovalStatus: models.ApprovalApproved,
	})
}

func TestSubmitHappyPath(t *testing.T) {
	f := newApplicationFixture(t)
	scholarship := f.openScholarship(time.Now().Add(30 * 24 * time.Hour))

	resp, err := f.service.Submit(context.Background(), 7, completeSubmitRequest(scholarship.ID))
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if resp.Status != string(models.ApplicationApplied) {
		t.Errorf("status = %s, want APPLIED", resp.Status)
	}
	if resp.Progress != 25 {
		t.Errorf("progress = %d, want 25", resp.Progress)
	}
	if resp.GPA != "4.0" {
		t.Errorf("gpa for 85%% = %s, want 4.0", resp.GPA)
	}
	if got := f.emitted.forUser(7); len(got) != 1 {
		t.Errorf("emitted %d notifications, want 1", len(got))
	}
}

func TestSubmitDerivesGPAFromMarks(t *testing.T) {
	f := newApplicationFixture(t)
	scholarship := f.openScholarship(time.Now().Add(24 * time.Hour))

	req := completeSubmitRequest(scholarship.ID)
	req.MarksPercentage = "42"
	resp, err := f.service.Submit(context.Background(), 7, req)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if resp.GPA != "1.3" {
		t.Errorf("gpa for 42%% = %s, want 1.3", resp.GPA)
	}
}

func TestSubmitAfterDeadlineRejected(t *testing.T) {
	f := newApplicationFixture(t)
	scholarship := f.openScholarship(time.Now().Add(-time.Hour))

	_, err := f.service.Submit(context.Background(), 7, completeSubmitRequest(scholarship.ID))
	if !errors.Is(err, apperrors.ErrScholarshipExpired) {
		t.Fatalf("err = %v, want ErrScholarshipExpired", err)
	}
	if len(f.applications.applications) != 0 {
		t.Error("application persisted despite expired deadline")
	}
}

func TestSubmitInactiveScholarshipRejected(t *testing.T) {
	f := newApplicationFixture(t)
	scholarship := f.openScholarship(time.Now().Add(24 * time.Hour))
	scholarship.Status = models.ScholarshipPaused

	_, err := f.service.Submit(context.Background(), 7, completeSubmitRequest(scholarship.ID))
	if !errors.Is(err, apperrors.ErrScholarshipNotActive) {
		t.Fatalf("err = %v, want ErrScholarshipNotActive", err)
	}
}

func TestSubmitMissingFieldFailsGate(t *testing.T) {
	f := newApplicationFixture(t)
	scholarship := f.openScholarship(time.Now().Add(24 * time.Hour))

	req := completeSubmitRequest(scholarship.ID)
	req.Nationality = ""
	_, err := f.service.Submit(context.Background(), 7, req)

	var vErr *apperrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want *apperrors.ValidationError", err)
	}
	if _, ok := vErr.Fields["nationality"]; !ok {
		t.Errorf("fields = %v, want nationality entry", vErr.Fields)
	}
	if len(f.applications.applications) != 0 {
		t.Error("application persisted despite failed eligibility gate")
	}
	if len(f.emitted.forUser(7)) != 0 {
		t.Error("notification emitted despite failed eligibility gate")
	}
}

func TestSubmitDuplicateRejected(t *testing.T) {
	f := newApplicationFixture(t)
	scholarship := f.openScholarship(time.Now().Add(24 * time.Hour))

	if _, err := f.service.Submit(context.Background(), 7, completeSubmitRequest(scholarship.ID)); err != nil {
		t.Fatalf("first Submit returned error: %v", err)
	}
	_, err := f.service.Submit(context.Background(), 7, completeSubmitRequest(scholarship.ID))
	if !errors.Is(err, apperrors.ErrAlreadyApplied) {
		t.Fatalf("err = %v, want ErrAlreadyApplied", err)
	}
}

func TestValidateStepReportsFieldErrors(t *testing.T) {
	f := newApplicationFixture(t)
	req := &dto.ValidateStepRequest{Step: 1}
	req.FirstName = "Amina"

	err := f.service.ValidateStep(context.Background(), req)
	var vErr *apperrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want *apperrors.ValidationError", err)
	}
	for _, field := range []string{"lastName", "email", "phone", "dateOfBirth", "nationality"} {
		if _, ok := vErr.Fields[field]; !ok {
			t.Errorf("missing field error for %s", field)
		}
	}
	if _, ok := vErr.Fields["firstName"]; ok {
		t.Error("firstName flagged despite being present")
	}
}

func TestUpdateStatusSkipsIntermediateStates(t *testing.T) {
	f := newApplicationFixture(t)
	scholarship := f.openScholarship(time.Now().Add(24 * time.Hour))
	resp, err := f.service.Submit(context.Background(), 7, completeSubmitRequest(scholarship.ID))
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	// APPLIED straight to ACCEPTED is allowed; there is no transition table
	updated, err := f.service.UpdateStatus(context.Background(), resp.ID, "ACCEPTED")
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != "ACCEPTED" {
		t.Errorf("status = %s, want ACCEPTED", updated.Status)
	}
	if updated.Progress != 100 {
		t.Errorf("progress = %d, want 100", updated.Progress)
	}
	// submission + status change
	if got := f.emitted.forUser(7); len(got) != 2 {
		t.Errorf("emitted %d notifications, want 2", len(got))
	}
}

func TestUpdateStatusRejectsUnknownState(t *testing.T) {
	f := newApplicationFixture(t)
	scholarship := f.openScholarship(time.Now().Add(24 * time.Hour))
	resp, err := f.service.Submit(context.Background(), 7, completeSubmitRequest(scholarship.ID))
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if _, err := f.service.UpdateStatus(context.Background(), resp.ID, "ARCHIVED"); !errors.Is(err, apperrors.ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestGetByIDOwnerOnly(t *testing.T) {
	f := newApplicationFixture(t)
	scholarship := f.openScholarship(time.Now().Add(24 * time.Hour))
	resp, err := f.service.Submit(context.Background(), 7, completeSubmitRequest(scholarship.ID))
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	otherStudent := &models.User{ID: 8, RoleType: models.RoleStudent}
	if _, err := f.service.GetByID(context.Background(), resp.ID, otherStudent); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("other student err = %v, want ErrPermissionDenied", err)
	}

	admin := &models.User{ID: 9, RoleType: models.RoleAdmin}
	if _, err := f.service.GetByID(context.Background(), resp.ID, admin); err != nil {
		t.Errorf("admin err = %v, want nil", err)
	}
}

func TestWithdrawLockedAfterReview(t *testing.T) {
	f := newApplicationFixture(t)
	scholarship := f.openScholarship(time.Now().Add(24 * time.Hour))
	resp, err := f.service.Submit(context.Background(), 7, completeSubmitRequest(scholarship.ID))
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if _, err := f.service.UpdateStatus(context.Background(), resp.ID, "UNDER_REVIEW"); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if err := f.service.Withdraw(context.Background(), resp.ID, 7); !errors.Is(err, apperrors.ErrApplicationLocked) {
		t.Fatalf("err = %v, want ErrApplicationLocked", err)
	}
}

func TestWithdrawWhileApplied(t *testing.T) {
	f := newApplicationFixture(t)
	scholarship := f.openScholarship(time.Now().Add(24 * time.Hour))
	resp, err := f.service.Submit(context.Background(), 7, completeSubmitRequest(scholarship.ID))
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if err := f.service.Withdraw(context.Background(), resp.ID, 7); err != nil {
		t.Fatalf("Withdraw returned error: %v", err)
	}
	if len(f.applications.applications) != 0 {
		t.Error("application still present after withdrawal")
	}
}

func TestWithdrawSomeoneElsesApplication(t *testing.T) {
	f := newApplicationFixture(t)
	scholarship := f.openScholarship(time.Now().Add(24 * time.Hour))
	resp, err := f.service.Submit(context.Background(), 7, completeSubmitRequest(scholarship.ID))
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if err := f.service.Withdraw(context.Background(), resp.ID, 99); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}
