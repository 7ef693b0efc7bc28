package services

import (
	"context"
	"time"

	"github.com/burakc/scholarhub/internal/app/models"
	"github.com/burakc/scholarhub/internal/app/models/dto"
	"github.com/burakc/scholarhub/internal/pkg/apperrors"
)

// In-memory fakes for the store interfaces. They implement only what the
// tests exercise; unexported maps keep the state inspectable per test.

type fakeScholarshipStore struct {
	scholarships map[int64]*models.Scholarship
	nextID       int64
}

func newFakeScholarshipStore() *fakeScholarshipStore {
	return &fakeScholarshipStore{scholarships: map[int64]*models.Scholarship{}, nextID: 1}
}

func (f *fakeScholarshipStore) add(s *models.Scholarship) *models.Scholarship {
	if s.ID == 0 {
		s.ID = f.nextID
		f.nextID++
	}
	f.scholarships[s.ID] = s
	return s
}

func (f *fakeScholarshipStore) Create(_ context.Context, s *models.Scholarship) error {
	f.add(s)
	return nil
}

func (f *fakeScholarshipStore) GetByID(_ context.Context, id int64) (*models.Scholarship, error) {
	s, ok := f.scholarships[id]
	if !ok {
		return nil, apperrors.ErrScholarshipNotFound
	}
	return s, nil
}

func (f *fakeScholarshipStore) GetAll(_ context.Context, filter *dto.ScholarshipFilterRequest, _ uint64, _ int) ([]*models.Scholarship, int64, error) {
	out := make([]*models.Scholarship, 0, len(f.scholarships))
	for _, s := range f.scholarships {
		if filter.Status != nil && string(s.Status) != *filter.Status {
			continue
		}
		if filter.ApprovalStatus != nil && string(s.ApprovalStatus) != *filter.ApprovalStatus {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (f *fakeScholarshipStore) Update(_ context.Context, s *models.Scholarship) error {
	if _, ok := f.scholarships[s.ID]; !ok {
		return apperrors.ErrScholarshipNotFound
	}
	f.scholarships[s.ID] = s
	return nil
}

func (f *fakeScholarshipStore) SetStatus(_ context.Context, id int64, status models.ScholarshipStatus) error {
	s, ok := f.scholarships[id]
	if !ok {
		return apperrors.ErrScholarshipNotFound
	}
	s.Status = status
	return nil
}

func (f *fakeScholarshipStore) SetApprovalStatus(_ context.Context, id int64, status models.ApprovalStatus) error {
	s, ok := f.scholarships[id]
	if !ok {
		return apperrors.ErrScholarshipNotFound
	}
	s.ApprovalStatus = status
	return nil
}

func (f *fakeScholarshipStore) IncrementViews(_ context.Context, id int64) error {
	s, ok := f.scholarships[id]
	if !ok {
		return apperrors.ErrScholarshipNotFound
	}
	s.Views++
	return nil
}

func (f *fakeScholarshipStore) Delete(_ context.Context, id int64) error {
	delete(f.scholarships, id)
	return nil
}

type fakeApplicationStore struct {
	applications map[int64]*models.Application
	nextID       int64
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{applications: map[int64]*models.Application{}, nextID: 1}
}

func (f *fakeApplicationStore) Create(_ context.Context, a *models.Application) error {
	for _, existing := range f.applications {
		if existing.ScholarshipID == a.ScholarshipID && existing.UserID == a.UserID {
			return apperrors.ErrAlreadyApplied
		}
	}
	a.ID = f.nextID
	f.nextID++
	a.AppliedAt = time.Now()
	f.applications[a.ID] = a
	return nil
}

func (f *fakeApplicationStore) GetByID(_ context.Context, id int64) (*models.Application, error) {
	a, ok := f.applications[id]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	return a, nil
}

func (f *fakeApplicationStore) Exists(_ context.Context, scholarshipID, userID int64) (bool, error) {
	for _, a := range f.applications {
		if a.ScholarshipID == scholarshipID && a.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApplicationStore) GetAll(_ context.Context, filter *dto.ApplicationFilterRequest, _ uint64, _ int) ([]*models.Application, int64, error) {
	out := make([]*models.Application, 0, len(f.applications))
	for _, a := range f.applications {
		if filter.UserID != nil && a.UserID != *filter.UserID {
			continue
		}
		if filter.ScholarshipID != nil && a.ScholarshipID != *filter.ScholarshipID {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeApplicationStore) UpdateStatus(_ context.Context, id int64, status models.ApplicationStatus) error {
	a, ok := f.applications[id]
	if !ok {
		return apperrors.ErrApplicationNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeApplicationStore) Delete(_ context.Context, id int64) error {
	delete(f.applications, id)
	return nil
}

type fakeSavedStore struct {
	saved map[int64]map[int64]time.Time // userID -> scholarshipID -> savedAt
}

func newFakeSavedStore() *fakeSavedStore {
	return &fakeSavedStore{saved: map[int64]map[int64]time.Time{}}
}

func (f *fakeSavedStore) Toggle(_ context.Context, userID, scholarshipID int64) (bool, error) {
	if f.saved[userID] == nil {
		f.saved[userID] = map[int64]time.Time{}
	}
	if _, ok := f.saved[userID][scholarshipID]; ok {
		delete(f.saved[userID], scholarshipID)
		return false, nil
	}
	f.saved[userID][scholarshipID] = time.Now()
	return true, nil
}

func (f *fakeSavedStore) GetByUser(_ context.Context, userID int64) ([]*models.SavedScholarship, error) {
	out := []*models.SavedScholarship{}
	for id, at := range f.saved[userID] {
		out = append(out, &models.SavedScholarship{UserID: userID, ScholarshipID: id, SavedAt: at})
	}
	return out, nil
}

func (f *fakeSavedStore) GetSaverIDs(_ context.Context, scholarshipID int64) ([]int64, error) {
	ids := []int64{}
	for userID, m := range f.saved {
		if _, ok := m[scholarshipID]; ok {
			ids = append(ids, userID)
		}
	}
	return ids, nil
}

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*models.User{}, nextID: 1}
}

func (f *fakeUserStore) add(u *models.User) *models.User {
	if u.ID == 0 {
		u.ID = f.nextID
		f.nextID++
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeUserStore) Create(_ context.Context, u *models.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	f.add(u)
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func (f *fakeUserStore) GetAll(_ context.Context, _ *dto.UserFilterRequest, _ uint64, _ int) ([]*models.User, int64, error) {
	out := make([]*models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, u *models.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) AdminUpdate(_ context.Context, id int64, firstName, lastName, email string, role models.RoleType) error {
	u, ok := f.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.FirstName, u.LastName, u.Email, u.RoleType = firstName, lastName, email, role
	return nil
}

func (f *fakeUserStore) SetApproved(_ context.Context, id int64, approved bool) error {
	u, ok := f.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Approved = approved
	return nil
}

func (f *fakeUserStore) SetBlocked(_ context.Context, id int64, blocked bool) error {
	u, ok := f.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Blocked = blocked
	return nil
}

func (f *fakeUserStore) UpdateProfilePhotoURL(_ context.Context, id int64, url *string) error {
	u, ok := f.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.ProfilePhotoURL = url
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, id int64) error {
	now := time.Now()
	if u, ok := f.users[id]; ok {
		u.LastLoginAt = &now
	}
	return nil
}

func (f *fakeUserStore) GetStudentIDsWithNewScholarshipAlerts(_ context.Context) ([]int64, error) {
	ids := []int64{}
	for _, u := range f.users {
		if u.RoleType == models.RoleStudent && !u.Blocked && u.Preferences.NewScholarshipAlerts {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (f *fakeUserStore) GetAllActiveUserIDs(_ context.Context) ([]int64, error) {
	ids := []int64{}
	for _, u := range f.users {
		if !u.Blocked {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

type fakeTokenStore struct {
	tokens  map[string]int64
	revoked map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]int64{}, revoked: map[string]bool{}}
}

func (f *fakeTokenStore) CreateToken(_ context.Context, token string, userID int64, _ time.Time) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeTokenStore) GetTokenUserID(_ context.Context, token string) (int64, error) {
	if f.revoked[token] {
		return 0, apperrors.ErrTokenRevoked
	}
	userID, ok := f.tokens[token]
	if !ok {
		return 0, apperrors.ErrTokenNotFound
	}
	return userID, nil
}

func (f *fakeTokenStore) RevokeToken(_ context.Context, token string) error {
	if _, ok := f.tokens[token]; !ok {
		return apperrors.ErrTokenNotFound
	}
	f.revoked[token] = true
	return nil
}

type fakeNotificationStore struct {
	notifications map[int64]*models.Notification
	nextID        int64
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{notifications: map[int64]*models.Notification{}, nextID: 1}
}

func (f *fakeNotificationStore) Create(_ context.Context, n *models.Notification) error {
	n.ID = f.nextID
	f.nextID++
	n.CreatedAt = time.Now()
	f.notifications[n.ID] = n
	return nil
}

func (f *fakeNotificationStore) CreateBatch(_ context.Context, userIDs []int64, nType models.NotificationType, title, message string) error {
	for _, id := range userIDs {
		_ = f.Create(context.Background(), &models.Notification{
			UserID:  id,
			Type:    nType,
			Title:   title,
			Message: message,
		})
	}
	return nil
}

func (f *fakeNotificationStore) GetByID(_ context.Context, id int64) (*models.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, apperrors.ErrNotificationNotFound
	}
	return n, nil
}

func (f *fakeNotificationStore) GetByUser(_ context.Context, userID int64, unreadOnly bool, _ uint64, _ int) ([]*models.Notification, int64, error) {
	out := []*models.Notification{}
	for _, n := range f.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationStore) CountUnread(_ context.Context, userID int64) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, id int64) error {
	n, ok := f.notifications[id]
	if !ok {
		return apperrors.ErrNotificationNotFound
	}
	n.Read = true
	return nil
}

func (f *fakeNotificationStore) MarkAllRead(_ context.Context, userID int64) error {
	for _, n := range f.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationStore) Delete(_ context.Context, id int64) error {
	delete(f.notifications, id)
	return nil
}

func (f *fakeNotificationStore) forUser(userID int64) []*models.Notification {
	out := []*models.Notification{}
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}
