package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/burakc/scholarhub/internal/app/models"
	"github.com/burakc/scholarhub/internal/app/models/dto"
	"github.com/burakc/scholarhub/internal/app/repositories"
	"github.com/burakc/scholarhub/internal/config"
	"github.com/burakc/scholarhub/internal/pkg/auth"
)

// CreateDefaultData ensures the configured super admin account exists and,
// when enabled, inserts a handful of sample scholarships for local
// development. Idempotent: existing rows are left untouched.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(dbPool)
	scholarshipRepo := repositories.NewScholarshipRepository(dbPool)

	adminID, err := ensureSuperAdmin(ctx, userRepo, cfg, lgr)
	if err != nil {
		return err
	}

	if cfg.Seed.SampleData && adminID > 0 {
		if err := createSampleScholarships(ctx, scholarshipRepo, adminID, lgr); err != nil {
			return err
		}
	}
	return nil
}

func ensureSuperAdmin(ctx context.Context, userRepo *repositories.UserRepository, cfg *config.Config, lgr zerolog.Logger) (int64, error) {
	email := cfg.Seed.SuperAdminEmail
	if email == "" {
		lgr.Info().Msg("No super admin configured, skipping seed")
		return 0, nil
	}

	existing, err := userRepo.GetByEmail(ctx, email)
	if err == nil {
		lgr.Info().Str("email", email).Msg("Super admin already exists, skipping creation")
		return existing.ID, nil
	}

	if cfg.Seed.SuperAdminPassword == "" {
		return 0, errors.New("seed: super admin password is not set")
	}
	hashed, err := auth.HashPassword(cfg.Seed.SuperAdminPassword)
	if err != nil {
		return 0, err
	}

	admin := &models.User{
		Email:       email,
		Password:    hashed,
		FirstName:   "System",
		LastName:    "Administrator",
		RoleType:    models.RoleSuperAdmin,
		Approved:    true,
		Preferences: models.DefaultPreferences(),
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return 0, err
	}
	lgr.Info().Int64("userId", admin.ID).Str("email", email).Msg("Super admin created")
	return admin.ID, nil
}

func createSampleScholarships(ctx context.Context, scholarshipRepo *repositories.ScholarshipRepository, createdBy int64, lgr zerolog.Logger) error {
	existing, total, err := scholarshipRepo.GetAll(ctx, &dto.ScholarshipFilterRequest{}, 0, 1)
	if err != nil {
		return err
	}
	if total > 0 || len(existing) > 0 {
		return nil
	}

	detailed := "Open to students enrolled in an accredited program. Awards are renewed annually subject to academic standing."
	awards := 25
	samples := []*models.Scholarship{
		{
			Title:               "Global STEM Excellence Scholarship",
			Description:         "Full tuition support for outstanding STEM undergraduates.",
			DetailedDescription: &detailed,
			Amount:              "$20,000/year",
			AmountType:          models.AmountFull,
			Categories:          []string{"STEM", "Merit-based"},
			DegreeLevels:        []models.DegreeLevel{models.DegreeBachelor, models.DegreeMaster},
			Deadline:            time.Now().AddDate(0, 3, 0),
			Status:              models.ScholarshipActive,
			ApprovalStatus:      models.ApprovalApproved,
			AwardsAvailable:     &awards,
			CreatedBy:           createdBy,
		},
		{
			Title:          "Graduate Research Grant",
			Description:    "Partial funding for research-focused master's and doctoral candidates.",
			Amount:         "$8,000",
			AmountType:     models.AmountPartial,
			Categories:     []string{"Research", "Graduate"},
			DegreeLevels:   []models.DegreeLevel{models.DegreeMaster, models.DegreePhD},
			Deadline:       time.Now().AddDate(0, 2, 0),
			Status:         models.ScholarshipActive,
			ApprovalStatus: models.ApprovalApproved,
			CreatedBy:      createdBy,
		},
	}

	for _, s := range samples {
		if err := scholarshipRepo.Create(ctx, s); err != nil {
			return err
		}
	}
	lgr.Info().Int("count", len(samples)).Msg("Sample scholarships created")
	return nil
}
