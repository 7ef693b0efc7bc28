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

type scholarshipFixture struct {
	service      ScholarshipService
	scholarships *fakeScholarshipStore
	saved        *fakeSavedStore
	users        *fakeUserStore
	emitted      *fakeNotificationStore
}

func newScholarshipFixture(t *testing.T) *scholarshipFixture {
	t.Helper()
	scholarships := newFakeScholarshipStore()
	saved := newFakeSavedStore()
	users := newFakeUserStore()
	notificationStore := newFakeNotificationStore()
	notifications := NewNotificationService(notificationStore, users, nil, zerolog.Nop())
	return &scholarshipFixture{
		service:      NewScholarshipService(scholarships, saved, users, notifications, zerolog.Nop()),
		scholarships: scholarships,
		saved:        saved,
		users:        users,
		emitted:      notificationStore,
	}
}

func createScholarshipRequest() *dto.CreateScholarshipRequest {
	return &dto.CreateScholarshipRequest{
		Title:        "Global Excellence Scholarship",
		Description:  "Full funding for outstanding international students.",
		Amount:       "$10,000/year",
		AmountType:   "FULL",
		Categories:   []string{"STEM", "International"},
		DegreeLevels: []string{"MASTER", "PHD"},
		Deadline:     time.Now().Add(60 * 24 * time.Hour),
	}
}

func TestCreateDefaultsToDraftPending(t *testing.T) {
	f := newScholarshipFixture(t)
	admin := &models.User{ID: 1, RoleType: models.RoleAdmin, Approved: true}

	resp, err := f.service.Create(context.Background(), createScholarshipRequest(), admin)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if resp.Status != string(models.ScholarshipDraft) {
		t.Errorf("status = %s, want DRAFT", resp.Status)
	}
	if resp.ApprovalStatus != string(models.ApprovalPending) {
		t.Errorf("approvalStatus = %s, want PENDING", resp.ApprovalStatus)
	}
	if resp.CreatedBy != admin.ID {
		t.Errorf("createdBy = %d, want %d", resp.CreatedBy, admin.ID)
	}
}

func TestCreateBySuperAdminPreApproved(t *testing.T) {
	f := newScholarshipFixture(t)
	super := &models.User{ID: 1, RoleType: models.RoleSuperAdmin, Approved: true}

	resp, err := f.service.Create(context.Background(), createScholarshipRequest(), super)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if resp.ApprovalStatus != string(models.ApprovalApproved) {
		t.Errorf("approvalStatus = %s, want APPROVED", resp.ApprovalStatus)
	}
}

func TestCreateEmptyCategoriesRejected(t *testing.T) {
	f := newScholarshipFixture(t)
	admin := &models.User{ID: 1, RoleType: models.RoleAdmin, Approved: true}

	req := createScholarshipRequest()
	req.Categories = nil
	_, err := f.service.Create(context.Background(), req, admin)

	var vErr *apperrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want *apperrors.ValidationError", err)
	}
	if _, ok := vErr.Fields["categories"]; !ok {
		t.Errorf("fields = %v, want categories entry", vErr.Fields)
	}
	if len(f.scholarships.scholarships) != 0 {
		t.Error("scholarship persisted despite empty categories")
	}
}

func TestCreateUnknownDegreeLevelRejected(t *testing.T) {
	f := newScholarshipFixture(t)
	admin := &models.User{ID: 1, RoleType: models.RoleAdmin, Approved: true}

	req := createScholarshipRequest()
	req.DegreeLevels = []string{"MASTER", "POSTDOC"}
	_, err := f.service.Create(context.Background(), req, admin)

	var vErr *apperrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want *apperrors.ValidationError", err)
	}
	if _, ok := vErr.Fields["degreeLevels"]; !ok {
		t.Errorf("fields = %v, want degreeLevels entry", vErr.Fields)
	}
}

func TestGetByIDIncrementsViews(t *testing.T) {
	f := newScholarshipFixture(t)
	s := f.scholarships.add(&models.Scholarship{
		Title:          "Any",
		Status:         models.ScholarshipActive,
		ApprovalStatus: models.ApprovalApproved,
		Deadline:       time.Now().Add(time.Hour),
	})

	if _, err := f.service.GetByID(context.Background(), s.ID, true); err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if _, err := f.service.GetByID(context.Background(), s.ID, false); err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if s.Views != 1 {
		t.Errorf("views = %d, want 1", s.Views)
	}
}

func TestResponseDerivesExpired(t *testing.T) {
	f := newScholarshipFixture(t)
	s := f.scholarships.add(&models.Scholarship{
		Title:          "Old",
		Status:         models.ScholarshipActive,
		ApprovalStatus: models.ApprovalApproved,
		Deadline:       time.Now().Add(-time.Hour),
	})

	resp, err := f.service.GetByID(context.Background(), s.ID, false)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if !resp.Expired {
		t.Error("expired = false for a past deadline")
	}
}

func TestPublicListingOnlyShowsActiveApproved(t *testing.T) {
	f := newScholarshipFixture(t)
	f.scholarships.add(&models.Scholarship{
		Title:          "Draft pending moderation",
		Status:         models.ScholarshipDraft,
		ApprovalStatus: models.ApprovalPending,
		Deadline:       time.Now().Add(time.Hour),
	})
	f.scholarships.add(&models.Scholarship{
		Title:          "Rejected",
		Status:         models.ScholarshipActive,
		ApprovalStatus: models.ApprovalRejected,
		Deadline:       time.Now().Add(time.Hour),
	})
	visible := f.scholarships.add(&models.Scholarship{
		Title:          "Live",
		Status:         models.ScholarshipActive,
		ApprovalStatus: models.ApprovalApproved,
		Deadline:       time.Now().Add(time.Hour),
	})

	list, err := f.service.GetAll(context.Background(), &dto.ScholarshipFilterRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if len(list.Scholarships) != 1 {
		t.Fatalf("public listing returned %d scholarships, want 1", len(list.Scholarships))
	}
	if list.Scholarships[0].ID != visible.ID {
		t.Errorf("public listing returned ID %d, want %d", list.Scholarships[0].ID, visible.ID)
	}
}

func TestPublicListingIgnoresStatusFilterOverride(t *testing.T) {
	f := newScholarshipFixture(t)
	f.scholarships.add(&models.Scholarship{
		Title:          "Draft",
		Status:         models.ScholarshipDraft,
		ApprovalStatus: models.ApprovalPending,
		Deadline:       time.Now().Add(time.Hour),
	})

	draft := string(models.ScholarshipDraft)
	pending := string(models.ApprovalPending)
	list, err := f.service.GetAll(context.Background(), &dto.ScholarshipFilterRequest{
		Status:         &draft,
		ApprovalStatus: &pending,
		Page:           1,
		PageSize:       10,
	})
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if len(list.Scholarships) != 0 {
		t.Errorf("caller-supplied status filter exposed %d hidden scholarships", len(list.Scholarships))
	}
}

func TestAdminListingIncludesDrafts(t *testing.T) {
	f := newScholarshipFixture(t)
	f.scholarships.add(&models.Scholarship{
		Title:          "Draft",
		Status:         models.ScholarshipDraft,
		ApprovalStatus: models.ApprovalPending,
		Deadline:       time.Now().Add(time.Hour),
	})

	list, err := f.service.GetAllAdmin(context.Background(), &dto.ScholarshipFilterRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("GetAllAdmin returned error: %v", err)
	}
	if len(list.Scholarships) != 1 {
		t.Errorf("admin listing returned %d scholarships, want 1", len(list.Scholarships))
	}
}

func TestPublicDetailHidesUnmoderated(t *testing.T) {
	f := newScholarshipFixture(t)
	draft := f.scholarships.add(&models.Scholarship{
		Title:          "Draft",
		Status:         models.ScholarshipDraft,
		ApprovalStatus: models.ApprovalPending,
		Deadline:       time.Now().Add(time.Hour),
	})

	if _, err := f.service.GetByID(context.Background(), draft.ID, true); !errors.Is(err, apperrors.ErrScholarshipNotFound) {
		t.Fatalf("err = %v, want ErrScholarshipNotFound", err)
	}
	if draft.Views != 0 {
		t.Errorf("views = %d, hidden scholarship must not accumulate views", draft.Views)
	}

	if _, err := f.service.GetByIDAdmin(context.Background(), draft.ID); err != nil {
		t.Errorf("GetByIDAdmin returned error: %v", err)
	}
}

func TestPublishApprovedEmitsAlerts(t *testing.T) {
	f := newScholarshipFixture(t)
	student := f.users.add(&models.User{RoleType: models.RoleStudent, Preferences: models.DefaultPreferences()})
	optedOut := f.users.add(&models.User{RoleType: models.RoleStudent})
	s := f.scholarships.add(&models.Scholarship{
		Title:          "New Grant",
		Deadline:       time.Now().Add(time.Hour),
		Status:         models.ScholarshipDraft,
		ApprovalStatus: models.ApprovalApproved,
	})

	if err := f.service.Publish(context.Background(), s.ID); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if s.Status != models.ScholarshipActive {
		t.Errorf("status = %s, want ACTIVE", s.Status)
	}
	if got := f.emitted.forUser(student.ID); len(got) != 1 {
		t.Errorf("opted-in student received %d notifications, want 1", len(got))
	} else if got[0].Type != models.NotificationNewScholarship {
		t.Errorf("notification type = %s, want NEW_SCHOLARSHIP", got[0].Type)
	}
	if got := f.emitted.forUser(optedOut.ID); len(got) != 0 {
		t.Errorf("opted-out student received %d notifications, want 0", len(got))
	}
}

func TestPublishUnapprovedStaysSilent(t *testing.T) {
	f := newScholarshipFixture(t)
	student := f.users.add(&models.User{RoleType: models.RoleStudent, Preferences: models.DefaultPreferences()})
	s := f.scholarships.add(&models.Scholarship{
		Title:          "Unmoderated",
		Deadline:       time.Now().Add(time.Hour),
		Status:         models.ScholarshipDraft,
		ApprovalStatus: models.ApprovalPending,
	})

	if err := f.service.Publish(context.Background(), s.ID); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if got := f.emitted.forUser(student.ID); len(got) != 0 {
		t.Errorf("emitted %d notifications for unapproved posting, want 0", len(got))
	}
}

func TestApproveActiveEmitsAlerts(t *testing.T) {
	f := newScholarshipFixture(t)
	student := f.users.add(&models.User{RoleType: models.RoleStudent, Preferences: models.DefaultPreferences()})
	s := f.scholarships.add(&models.Scholarship{
		Title:          "Live Awaiting Moderation",
		Deadline:       time.Now().Add(time.Hour),
		Status:         models.ScholarshipActive,
		ApprovalStatus: models.ApprovalPending,
	})

	if err := f.service.Approve(context.Background(), s.ID); err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	if s.ApprovalStatus != models.ApprovalApproved {
		t.Errorf("approvalStatus = %s, want APPROVED", s.ApprovalStatus)
	}
	if got := f.emitted.forUser(student.ID); len(got) != 1 {
		t.Errorf("emitted %d notifications, want 1", len(got))
	}
}

func TestToggleSaveFlipsState(t *testing.T) {
	f := newScholarshipFixture(t)
	s := f.scholarships.add(&models.Scholarship{Title: "Any", Deadline: time.Now().Add(time.Hour)})

	first, err := f.service.ToggleSave(context.Background(), 7, s.ID)
	if err != nil {
		t.Fatalf("first ToggleSave returned error: %v", err)
	}
	if !first.Saved {
		t.Error("first toggle: saved = false, want true")
	}

	second, err := f.service.ToggleSave(context.Background(), 7, s.ID)
	if err != nil {
		t.Fatalf("second ToggleSave returned error: %v", err)
	}
	if second.Saved {
		t.Error("second toggle: saved = true, want false")
	}

	third, err := f.service.ToggleSave(context.Background(), 7, s.ID)
	if err != nil {
		t.Fatalf("third ToggleSave returned error: %v", err)
	}
	if !third.Saved {
		t.Error("third toggle: saved = false, want true")
	}
}

func TestToggleSaveUnknownScholarship(t *testing.T) {
	f := newScholarshipFixture(t)

	if _, err := f.service.ToggleSave(context.Background(), 7, 999); !errors.Is(err, apperrors.ErrScholarshipNotFound) {
		t.Fatalf("err = %v, want ErrScholarshipNotFound", err)
	}
}
