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
	"github.com/burakc/scholarhub/internal/pkg/auth"
)

func newAuthFixture(t *testing.T) (AuthService, *fakeUserStore, *fakeTokenStore) {
	t.Helper()
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret-key-for-unit-tests",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 7 * 24 * time.Hour,
		TokenIssuer:     "scholarhub-test",
	})
	return NewAuthService(users, tokens, jwtService, zerolog.Nop()), users, tokens
}

func registerStudent(t *testing.T, service AuthService, email string) *dto.UserResponse {
	t.Helper()
	resp, err := service.Register(context.Background(), &dto.RegisterRequest{
		Email:     email,
		Password:  "s3cret-pass",
		FirstName: "Amina",
		LastName:  "Diallo",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	return resp
}

func TestRegisterStudentApprovedImmediately(t *testing.T) {
	service, _, _ := newAuthFixture(t)

	resp := registerStudent(t, service, "student@example.com")
	if resp.RoleType != "STUDENT" {
		t.Errorf("roleType = %s, want STUDENT", resp.RoleType)
	}
	if !resp.Approved {
		t.Error("student registration not approved immediately")
	}
	if !resp.Preferences.DeadlineReminders || !resp.Preferences.NewScholarshipAlerts {
		t.Errorf("preferences = %+v, want all defaults on", resp.Preferences)
	}
}

func TestRegisterAdminAwaitsApproval(t *testing.T) {
	service, _, _ := newAuthFixture(t)

	resp, err := service.Register(context.Background(), &dto.RegisterRequest{
		Email:     "admin@example.com",
		Password:  "s3cret-pass",
		FirstName: "Kofi",
		LastName:  "Mensah",
		Role:      "ADMIN",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if resp.Approved {
		t.Error("admin registration approved without review")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _, _ := newAuthFixture(t)
	registerStudent(t, service, "student@example.com")

	_, err := service.Register(context.Background(), &dto.RegisterRequest{
		Email:     "student@example.com",
		Password:  "another-pass",
		FirstName: "Other",
		LastName:  "Person",
	})
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Fatalf("err = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestLoginIssuesTokenPair(t *testing.T) {
	service, users, _ := newAuthFixture(t)
	resp := registerStudent(t, service, "student@example.com")

	tokens, err := service.Login(context.Background(), &dto.LoginRequest{
		Email:    "student@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("token pair incomplete")
	}
	if tokens.User == nil || tokens.User.ID != resp.ID {
		t.Error("response missing user")
	}
	if users.users[resp.ID].LastLoginAt == nil {
		t.Error("last login not recorded")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	service, _, _ := newAuthFixture(t)
	registerStudent(t, service, "student@example.com")

	_, err := service.Login(context.Background(), &dto.LoginRequest{
		Email:    "student@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	service, _, _ := newAuthFixture(t)

	_, err := service.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginBlockedAccount(t *testing.T) {
	service, users, _ := newAuthFixture(t)
	resp := registerStudent(t, service, "student@example.com")
	users.users[resp.ID].Blocked = true

	_, err := service.Login(context.Background(), &dto.LoginRequest{
		Email:    "student@example.com",
		Password: "s3cret-pass",
	})
	if !errors.Is(err, apperrors.ErrAccountBlocked) {
		t.Fatalf("err = %v, want ErrAccountBlocked", err)
	}
}

func TestLoginUnapprovedAdmin(t *testing.T) {
	service, _, _ := newAuthFixture(t)
	if _, err := service.Register(context.Background(), &dto.RegisterRequest{
		Email:     "admin@example.com",
		Password:  "s3cret-pass",
		FirstName: "Kofi",
		LastName:  "Mensah",
		Role:      "ADMIN",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	_, err := service.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "s3cret-pass",
	})
	if !errors.Is(err, apperrors.ErrAccountNotApproved) {
		t.Fatalf("err = %v, want ErrAccountNotApproved", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	service, _, tokens := newAuthFixture(t)
	registerStudent(t, service, "student@example.com")

	pair, err := service.Login(context.Background(), &dto.LoginRequest{
		Email:    "student@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	rotated, err := service.RefreshToken(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken returned error: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Error("refresh token not rotated")
	}
	if !tokens.revoked[pair.RefreshToken] {
		t.Error("presented refresh token not revoked")
	}

	// The old token is spent
	if _, err := service.RefreshToken(context.Background(), pair.RefreshToken); !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Fatalf("reuse err = %v, want ErrTokenRevoked", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	service, _, tokens := newAuthFixture(t)
	registerStudent(t, service, "student@example.com")

	pair, err := service.Login(context.Background(), &dto.LoginRequest{
		Email:    "student@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if err := service.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if !tokens.revoked[pair.RefreshToken] {
		t.Error("refresh token not revoked on logout")
	}
}

func TestSetApprovedNotifiesAccountHolder(t *testing.T) {
	users := newFakeUserStore()
	notificationStore := newFakeNotificationStore()
	notifications := NewNotificationService(notificationStore, users, nil, zerolog.Nop())
	service := NewUserService(users, notifications, zerolog.Nop())

	admin := users.add(&models.User{Email: "admin@example.com", RoleType: models.RoleAdmin})
	if err := service.SetApproved(context.Background(), admin.ID, true); err != nil {
		t.Fatalf("SetApproved returned error: %v", err)
	}
	if !admin.Approved {
		t.Error("approved flag not set")
	}
	if got := notificationStore.forUser(admin.ID); len(got) != 1 {
		t.Errorf("emitted %d notifications, want 1", len(got))
	}
}

func TestUpdateProfileRecomputesCompleteness(t *testing.T) {
	users := newFakeUserStore()
	notifications := NewNotificationService(newFakeNotificationStore(), users, nil, zerolog.Nop())
	service := NewUserService(users, notifications, zerolog.Nop())

	student := users.add(&models.User{Email: "student@example.com", RoleType: models.RoleStudent})

	phone, nationality, field, level := "+221770000000", "Senegalese", "Computer Science", "MASTER"
	resp, err := service.UpdateProfile(context.Background(), student.ID, &dto.UpdateProfileRequest{
		FirstName:    "Amina",
		LastName:     "Diallo",
		Phone:        &phone,
		Nationality:  &nationality,
		FieldOfStudy: &field,
		DegreeLevel:  &level,
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if !resp.ProfileComplete {
		t.Error("profileComplete = false with all fields present")
	}

	// Clearing a field flips it back
	resp, err = service.UpdateProfile(context.Background(), student.ID, &dto.UpdateProfileRequest{
		FirstName:   "Amina",
		LastName:    "Diallo",
		Phone:       &phone,
		Nationality: &nationality,
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if resp.ProfileComplete {
		t.Error("profileComplete = true after clearing fieldOfStudy")
	}
}
