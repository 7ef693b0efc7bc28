package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/burakc/scholarhub/internal/app/models"
	"github.com/burakc/scholarhub/internal/app/models/dto"
)

type fakeScholarshipSource struct {
	expiring []*models.Scholarship
}

func (f *fakeScholarshipSource) GetExpiringBetween(_ context.Context, from, to time.Time) ([]*models.Scholarship, error) {
	var out []*models.Scholarship
	for _, s := range f.expiring {
		if !s.Deadline.Before(from) && !s.Deadline.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeSaverSource struct {
	savers map[int64][]int64
}

func (f *fakeSaverSource) GetSaverIDs(_ context.Context, scholarshipID int64) ([]int64, error) {
	return f.savers[scholarshipID], nil
}

type fakeUserSource struct {
	users map[int64]*models.User
}

func (f *fakeUserSource) GetByID(_ context.Context, id int64) (*models.User, error) {
	return f.users[id], nil
}

type fakeLedger struct {
	recorded map[[2]int64]bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{recorded: make(map[[2]int64]bool)}
}

func (f *fakeLedger) ReminderExists(_ context.Context, userID, scholarshipID int64) (bool, error) {
	return f.recorded[[2]int64{userID, scholarshipID}], nil
}

func (f *fakeLedger) RecordReminder(_ context.Context, userID, scholarshipID int64) error {
	f.recorded[[2]int64{userID, scholarshipID}] = true
	return nil
}

type recordingNotifier struct {
	emitted []emittedReminder
}

type emittedReminder struct {
	userID int64
	nType  models.NotificationType
}

func (n *recordingNotifier) Emit(_ context.Context, userID int64, nType models.NotificationType, _, _ string) error {
	n.emitted = append(n.emitted, emittedReminder{userID: userID, nType: nType})
	return nil
}

func (n *recordingNotifier) EmitBatch(_ context.Context, userIDs []int64, nType models.NotificationType, _, _ string) error {
	for _, id := range userIDs {
		n.emitted = append(n.emitted, emittedReminder{userID: id, nType: nType})
	}
	return nil
}

func (n *recordingNotifier) List(context.Context, int64, *dto.NotificationFilterRequest) (*dto.NotificationListResponse, error) {
	return nil, nil
}
func (n *recordingNotifier) UnreadCount(context.Context, int64) (int64, error) { return 0, nil }
func (n *recordingNotifier) MarkRead(context.Context, int64, int64) error      { return nil }
func (n *recordingNotifier) MarkAllRead(context.Context, int64) error          { return nil }
func (n *recordingNotifier) Delete(context.Context, int64, int64) error        { return nil }
func (n *recordingNotifier) Announce(context.Context, *dto.AnnouncementRequest) (int, error) {
	return 0, nil
}

func reminderFixture(deadline time.Time) (*DeadlineReminder, *recordingNotifier, *fakeLedger) {
	student := &models.User{ID: 1, RoleType: models.RoleStudent, Preferences: models.DefaultPreferences()}
	optedOut := &models.User{ID: 2, RoleType: models.RoleStudent, Preferences: models.DefaultPreferences()}
	optedOut.Preferences.DeadlineReminders = false

	scholarships := &fakeScholarshipSource{expiring: []*models.Scholarship{
		{ID: 10, Title: "STEM Grant", Status: models.ScholarshipActive, Deadline: deadline},
	}}
	savers := &fakeSaverSource{savers: map[int64][]int64{10: {1, 2}}}
	users := &fakeUserSource{users: map[int64]*models.User{1: student, 2: optedOut}}
	ledger := newFakeLedger()
	notifier := &recordingNotifier{}

	job := NewDeadlineReminder(scholarships, savers, users, ledger, notifier, time.Hour, 72*time.Hour, zerolog.Nop())
	return job, notifier, ledger
}

func TestSweepRemindsOptedInSavers(t *testing.T) {
	job, notifier, _ := reminderFixture(time.Now().Add(24 * time.Hour))

	job.sweep(context.Background())

	if len(notifier.emitted) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(notifier.emitted))
	}
	if notifier.emitted[0].userID != 1 {
		t.Errorf("reminder went to user %d, want 1", notifier.emitted[0].userID)
	}
	if notifier.emitted[0].nType != models.NotificationDeadlineReminder {
		t.Errorf("notification type = %s, want %s", notifier.emitted[0].nType, models.NotificationDeadlineReminder)
	}
}

func TestSweepRemindsEachPairOnce(t *testing.T) {
	job, notifier, ledger := reminderFixture(time.Now().Add(24 * time.Hour))

	job.sweep(context.Background())
	job.sweep(context.Background())

	if len(notifier.emitted) != 1 {
		t.Fatalf("expected 1 reminder after two sweeps, got %d", len(notifier.emitted))
	}
	if !ledger.recorded[[2]int64{1, 10}] {
		t.Error("reminder was not recorded in the ledger")
	}
}

func TestSweepSkipsScholarshipsOutsideWindow(t *testing.T) {
	job, notifier, _ := reminderFixture(time.Now().Add(30 * 24 * time.Hour))

	job.sweep(context.Background())

	if len(notifier.emitted) != 0 {
		t.Fatalf("expected no reminders, got %d", len(notifier.emitted))
	}
}

func TestSweepSkipsInactiveScholarships(t *testing.T) {
	job, notifier, _ := reminderFixture(time.Now().Add(24 * time.Hour))
	job.scholarships.(*fakeScholarshipSource).expiring[0].Status = models.ScholarshipPaused

	job.sweep(context.Background())

	if len(notifier.emitted) != 0 {
		t.Fatalf("expected no reminders for paused scholarship, got %d", len(notifier.emitted))
	}
}
