package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	TokenRepository        *TokenRepository
	ScholarshipRepository  *ScholarshipRepository
	ApplicationRepository  *ApplicationRepository
	SavedRepository        *SavedScholarshipRepository
	NotificationRepository *NotificationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		TokenRepository:        NewTokenRepository(db),
		ScholarshipRepository:  NewScholarshipRepository(db),
		ApplicationRepository:  NewApplicationRepository(db),
		SavedRepository:        NewSavedScholarshipRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
