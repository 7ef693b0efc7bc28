package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/burakc/scholarhub/internal/app/models"
	"github.com/burakc/scholarhub/internal/app/models/dto"
	"github.com/burakc/scholarhub/internal/pkg/apperrors"
)

type recordingPusher struct {
	mu     sync.Mutex
	pushed map[int64]int
}

func (p *recordingPusher) Push(userID int64, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pushed == nil {
		p.pushed = map[int64]int{}
	}
	p.pushed[userID]++
}

func TestEmitPersistsAndPushes(t *testing.T) {
	store := newFakeNotificationStore()
	pusher := &recordingPusher{}
	service := NewNotificationService(store, newFakeUserStore(), pusher, zerolog.Nop())

	if err := service.Emit(context.Background(), 7, models.NotificationApplicationUpdate, "Title", "Message"); err != nil {
		t.Fatalf("Emit returned error: %v", err)
	}
	if got := store.forUser(7); len(got) != 1 {
		t.Fatalf("persisted %d notifications, want 1", len(got))
	}
	if pusher.pushed[7] != 1 {
		t.Errorf("pushed %d payloads, want 1", pusher.pushed[7])
	}
}

func TestEmitWithoutPusher(t *testing.T) {
	store := newFakeNotificationStore()
	service := NewNotificationService(store, newFakeUserStore(), nil, zerolog.Nop())

	if err := service.Emit(context.Background(), 7, models.NotificationDeadlineReminder, "Title", "Message"); err != nil {
		t.Fatalf("Emit returned error: %v", err)
	}
}

func TestMarkReadRecipientOnly(t *testing.T) {
	store := newFakeNotificationStore()
	service := NewNotificationService(store, newFakeUserStore(), nil, zerolog.Nop())

	if err := service.Emit(context.Background(), 7, models.NotificationApplicationUpdate, "Title", "Message"); err != nil {
		t.Fatalf("Emit returned error: %v", err)
	}
	n := store.forUser(7)[0]

	if err := service.MarkRead(context.Background(), 8, n.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("foreign MarkRead err = %v, want ErrPermissionDenied", err)
	}
	if n.Read {
		t.Error("notification marked read by non-recipient")
	}

	if err := service.MarkRead(context.Background(), 7, n.ID); err != nil {
		t.Fatalf("MarkRead returned error: %v", err)
	}
	if !n.Read {
		t.Error("notification not marked read by recipient")
	}
}

func TestDeleteRecipientOnly(t *testing.T) {
	store := newFakeNotificationStore()
	service := NewNotificationService(store, newFakeUserStore(), nil, zerolog.Nop())

	if err := service.Emit(context.Background(), 7, models.NotificationApplicationUpdate, "Title", "Message"); err != nil {
		t.Fatalf("Emit returned error: %v", err)
	}
	n := store.forUser(7)[0]

	if err := service.Delete(context.Background(), 8, n.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("foreign Delete err = %v, want ErrPermissionDenied", err)
	}
	if err := service.Delete(context.Background(), 7, n.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(store.forUser(7)) != 0 {
		t.Error("notification still present after delete")
	}
}

func TestListUnreadOnly(t *testing.T) {
	store := newFakeNotificationStore()
	service := NewNotificationService(store, newFakeUserStore(), nil, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if err := service.Emit(context.Background(), 7, models.NotificationSystemAnnouncement, "Title", "Message"); err != nil {
			t.Fatalf("Emit returned error: %v", err)
		}
	}
	first := store.forUser(7)[0]
	if err := service.MarkRead(context.Background(), 7, first.ID); err != nil {
		t.Fatalf("MarkRead returned error: %v", err)
	}

	resp, err := service.List(context.Background(), 7, &dto.NotificationFilterRequest{UnreadOnly: true, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(resp.Notifications) != 2 {
		t.Errorf("listed %d unread notifications, want 2", len(resp.Notifications))
	}
	if resp.UnreadCount != 2 {
		t.Errorf("unreadCount = %d, want 2", resp.UnreadCount)
	}
}

func TestMarkAllRead(t *testing.T) {
	store := newFakeNotificationStore()
	service := NewNotificationService(store, newFakeUserStore(), nil, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if err := service.Emit(context.Background(), 7, models.NotificationSystemAnnouncement, "Title", "Message"); err != nil {
			t.Fatalf("Emit returned error: %v", err)
		}
	}
	if err := service.MarkAllRead(context.Background(), 7); err != nil {
		t.Fatalf("MarkAllRead returned error: %v", err)
	}
	count, err := service.UnreadCount(context.Background(), 7)
	if err != nil {
		t.Fatalf("UnreadCount returned error: %v", err)
	}
	if count != 0 {
		t.Errorf("unread count = %d, want 0", count)
	}
}

func TestAnnounceReachesActiveUsers(t *testing.T) {
	store := newFakeNotificationStore()
	users := newFakeUserStore()
	active := users.add(&models.User{Email: "a@example.com", RoleType: models.RoleStudent})
	blocked := users.add(&models.User{Email: "b@example.com", RoleType: models.RoleStudent, Blocked: true})
	service := NewNotificationService(store, users, nil, zerolog.Nop())

	sent, err := service.Announce(context.Background(), &dto.AnnouncementRequest{
		Title:   "Maintenance window",
		Message: "The platform will be read-only on Saturday.",
	})
	if err != nil {
		t.Fatalf("Announce returned error: %v", err)
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
	if len(store.forUser(active.ID)) != 1 {
		t.Error("active user missing announcement")
	}
	if len(store.forUser(blocked.ID)) != 0 {
		t.Error("blocked user received announcement")
	}
}
