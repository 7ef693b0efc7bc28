package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/burakc/scholarhub/internal/app/controllers"
	"github.com/burakc/scholarhub/internal/app/models"
	"github.com/burakc/scholarhub/internal/app/models/dto"
	"github.com/burakc/scholarhub/internal/app/services"
	"github.com/burakc/scholarhub/internal/middleware"
	"github.com/burakc/scholarhub/internal/pkg/auth"
	"github.com/burakc/scholarhub/internal/pkg/websocket"
)

type stubUserLoader struct {
	users map[int64]*models.User
}

func (l *stubUserLoader) GetByID(_ context.Context, id int64) (*models.User, error) {
	return l.users[id], nil
}

type stubNotificationService struct{}

func (stubNotificationService) Emit(context.Context, int64, models.NotificationType, string, string) error {
	return nil
}
func (stubNotificationService) EmitBatch(context.Context, []int64, models.NotificationType, string, string) error {
	return nil
}
func (stubNotificationService) List(context.Context, int64, *dto.NotificationFilterRequest) (*dto.NotificationListResponse, error) {
	return &dto.NotificationListResponse{}, nil
}
func (stubNotificationService) UnreadCount(context.Context, int64) (int64, error) { return 0, nil }
func (stubNotificationService) MarkRead(context.Context, int64, int64) error      { return nil }
func (stubNotificationService) MarkAllRead(context.Context, int64) error          { return nil }
func (stubNotificationService) Delete(context.Context, int64, int64) error        { return nil }
func (stubNotificationService) Announce(context.Context, *dto.AnnouncementRequest) (int, error) {
	return 1, nil
}

// guardRouter builds the full route tree with stubbed services so only the
// middleware chain decides the outcome.
func guardRouter(t *testing.T) (*gin.Engine, *auth.JWTService, *stubUserLoader) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "route-guard-test-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "scholarhub-test",
	})
	loader := &stubUserLoader{users: map[int64]*models.User{
		1: {ID: 1, Email: "admin@example.com", RoleType: models.RoleAdmin, Approved: true},
		2: {ID: 2, Email: "root@example.com", RoleType: models.RoleSuperAdmin, Approved: true},
		3: {ID: 3, Email: "student@example.com", RoleType: models.RoleStudent, Approved: true},
	}}

	var notifications services.NotificationService = stubNotificationService{}
	logger := zerolog.Nop()
	router := gin.New()
	SetupRouter(router,
		controllers.NewAuthController(nil, logger),
		controllers.NewUserController(nil, nil, logger),
		controllers.NewScholarshipController(nil, logger),
		controllers.NewApplicationController(nil, logger),
		controllers.NewNotificationController(notifications, logger),
		websocket.NewHandler(websocket.NewHub(logger), logger),
		middleware.NewAuthMiddleware(jwtService, loader),
		RateLimits{},
	)
	return router, jwtService, loader
}

func bearerFor(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()
	access, _, _, _, err := jwtService.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair returned error: %v", err)
	}
	return "Bearer " + access
}

func TestAnnounceRequiresSuperAdmin(t *testing.T) {
	router, jwtService, loader := guardRouter(t)
	body := `{"title":"Maintenance window","message":"The platform will be briefly unavailable."}`

	cases := []struct {
		name   string
		userID int64
		want   int
	}{
		{"admin forbidden", 1, http.StatusForbidden},
		{"super admin allowed", 2, http.StatusOK},
		{"student forbidden", 3, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/notifications/announce", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", bearerFor(t, jwtService, loader.users[tc.userID]))
			router.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Errorf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}
