package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/burakc/scholarhub/internal/app/models"
	"github.com/burakc/scholarhub/internal/app/models/dto"
	"github.com/burakc/scholarhub/internal/pkg/apperrors"
	"github.com/burakc/scholarhub/internal/pkg/helpers"
)

// ScholarshipService defines the interface for scholarship operations
type ScholarshipService interface {
	Create(ctx context.Context, req *dto.CreateScholarshipRequest, creator *models.User) (*dto.ScholarshipResponse, error)
	GetByID(ctx context.Context, id int64, countView bool) (*dto.ScholarshipResponse, error)
	GetByIDAdmin(ctx context.Context, id int64) (*dto.ScholarshipResponse, error)
	GetAll(ctx context.Context, filter *dto.ScholarshipFilterRequest) (*dto.ScholarshipListResponse, error)
	GetAllAdmin(ctx context.Context, filter *dto.ScholarshipFilterRequest) (*dto.ScholarshipListResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateScholarshipRequest) (*dto.ScholarshipResponse, error)
	Delete(ctx context.Context, id int64) error
	Publish(ctx context.Context, id int64) error
	Pause(ctx context.Context, id int64) error
	Approve(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error
	ToggleSave(ctx context.Context, userID, scholarshipID int64) (*dto.SaveScholarshipResponse, error)
	GetSaved(ctx context.Context, userID int64) ([]dto.SavedScholarshipResponse, error)
}

type scholarshipServiceImpl struct {
	scholarshipRepo ScholarshipStore
	savedRepo       SavedStore
	userRepo        UserStore
	notifications   NotificationService
	logger          zerolog.Logger
	now             func() time.Time
}

// NewScholarshipService creates a new ScholarshipService
func NewScholarshipService(
	scholarshipRepo ScholarshipStore,
	savedRepo SavedStore,
	userRepo UserStore,
	notifications NotificationService,
	logger zerolog.Logger,
) ScholarshipService {
	return &scholarshipServiceImpl{
		scholarshipRepo: scholarshipRepo,
		savedRepo:       savedRepo,
		userRepo:        userRepo,
		notifications:   notifications,
		logger:          logger,
		now:             time.Now,
	}
}

// Create validates and stores a new scholarship posting. New postings start
// as DRAFT awaiting moderation; SUPER_ADMIN postings are pre-approved.
func (s *scholarshipServiceImpl) Create(ctx context.Context, req *dto.CreateScholarshipRequest, creator *models.User) (*dto.ScholarshipResponse, error) {
	if fields := validateScholarshipFields(req.Categories, req.DegreeLevels, req.Deadline); len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}

	approval := models.ApprovalPending
	if creator.RoleType == models.RoleSuperAdmin {
		approval = models.ApprovalApproved
	}

	levels := make([]models.DegreeLevel, len(req.DegreeLevels))
	for i, l := range req.DegreeLevels {
		levels[i] = models.DegreeLevel(l)
	}

	scholarship := &models.Scholarship{
		Title:               req.Title,
		Description:         req.Description,
		DetailedDescription: req.DetailedDescription,
		Amount:              req.Amount,
		AmountType:          models.AmountType(req.AmountType),
		Categories:          req.Categories,
		DegreeLevels:        levels,
		Deadline:            req.Deadline,
		Status:              models.ScholarshipDraft,
		ApprovalStatus:      approval,
		AwardsAvailable:     req.AwardsAvailable,
		CreatedBy:           creator.ID,
	}

	if err := s.scholarshipRepo.Create(ctx, scholarship); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("scholarshipID", scholarship.ID).Int64("createdBy", creator.ID).Msg("Scholarship created")
	return dto.NewScholarshipResponse(scholarship, s.now()), nil
}

// GetByID retrieves a scholarship for the public detail page. Postings that
// are not ACTIVE and APPROVED are reported as not found so moderation state
// never leaks. When countView is set the view counter is bumped; counter
// failures are logged and ignored.
func (s *scholarshipServiceImpl) GetByID(ctx context.Context, id int64, countView bool) (*dto.ScholarshipResponse, error) {
	scholarship, err := s.scholarshipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if scholarship.Status != models.ScholarshipActive || scholarship.ApprovalStatus != models.ApprovalApproved {
		return nil, apperrors.ErrScholarshipNotFound
	}

	if countView {
		if err := s.scholarshipRepo.IncrementViews(ctx, id); err != nil {
			s.logger.Warn().Err(err).Int64("scholarshipID", id).Msg("Failed to increment view counter")
		}
	}
	return dto.NewScholarshipResponse(scholarship, s.now()), nil
}

// GetByIDAdmin retrieves a scholarship regardless of its lifecycle or
// moderation state. Admin reads never count as views.
func (s *scholarshipServiceImpl) GetByIDAdmin(ctx context.Context, id int64) (*dto.ScholarshipResponse, error) {
	scholarship, err := s.scholarshipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewScholarshipResponse(scholarship, s.now()), nil
}

// GetAll retrieves scholarships for public browsing. The listing is pinned to
// ACTIVE and APPROVED postings; any status filters the caller supplied are
// overridden, the full filter surface belongs to GetAllAdmin.
func (s *scholarshipServiceImpl) GetAll(ctx context.Context, filter *dto.ScholarshipFilterRequest) (*dto.ScholarshipListResponse, error) {
	visible := *filter
	active := string(models.ScholarshipActive)
	approved := string(models.ApprovalApproved)
	visible.Status = &active
	visible.ApprovalStatus = &approved
	return s.list(ctx, &visible)
}

// GetAllAdmin retrieves scholarships with the unrestricted filter surface.
func (s *scholarshipServiceImpl) GetAllAdmin(ctx context.Context, filter *dto.ScholarshipFilterRequest) (*dto.ScholarshipListResponse, error) {
	return s.list(ctx, filter)
}

func (s *scholarshipServiceImpl) list(ctx context.Context, filter *dto.ScholarshipFilterRequest) (*dto.ScholarshipListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	scholarships, total, err := s.scholarshipRepo.GetAll(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing scholarships: %w", err)
	}

	now := s.now()
	responses := make([]dto.ScholarshipResponse, 0, len(scholarships))
	for _, sch := range scholarships {
		responses = append(responses, *dto.NewScholarshipResponse(sch, now))
	}
	return &dto.ScholarshipListResponse{
		Scholarships:   responses,
		PaginationInfo: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}, nil
}

// Update replaces the editable fields of a scholarship
func (s *scholarshipServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateScholarshipRequest) (*dto.ScholarshipResponse, error) {
	if fields := validateScholarshipFields(req.Categories, req.DegreeLevels, req.Deadline); len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}

	scholarship, err := s.scholarshipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	levels := make([]models.DegreeLevel, len(req.DegreeLevels))
	for i, l := range req.DegreeLevels {
		levels[i] = models.DegreeLevel(l)
	}

	scholarship.Title = req.Title
	scholarship.Description = req.Description
	scholarship.DetailedDescription = req.DetailedDescription
	scholarship.Amount = req.Amount
	scholarship.AmountType = models.AmountType(req.AmountType)
	scholarship.Categories = req.Categories
	scholarship.DegreeLevels = levels
	scholarship.Deadline = req.Deadline
	scholarship.AwardsAvailable = req.AwardsAvailable

	if err := s.scholarshipRepo.Update(ctx, scholarship); err != nil {
		return nil, err
	}
	return dto.NewScholarshipResponse(scholarship, s.now()), nil
}

// Delete removes a scholarship; associated applications and bookmarks
// cascade at the schema level.
func (s *scholarshipServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.scholarshipRepo.Delete(ctx, id)
}

// Publish sets a scholarship ACTIVE and, if it is approved, notifies
// students who opted in to new-scholarship alerts.
func (s *scholarshipServiceImpl) Publish(ctx context.Context, id int64) error {
	scholarship, err := s.scholarshipRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.scholarshipRepo.SetStatus(ctx, id, models.ScholarshipActive); err != nil {
		return err
	}

	if scholarship.ApprovalStatus == models.ApprovalApproved {
		s.notifyNewScholarship(ctx, scholarship)
	}
	return nil
}

// Pause sets a scholarship PAUSED
func (s *scholarshipServiceImpl) Pause(ctx context.Context, id int64) error {
	return s.scholarshipRepo.SetStatus(ctx, id, models.ScholarshipPaused)
}

// Approve marks a scholarship approved on the moderation axis. An already
// ACTIVE posting becomes visible to students, so alerts fire here too.
func (s *scholarshipServiceImpl) Approve(ctx context.Context, id int64) error {
	scholarship, err := s.scholarshipRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.scholarshipRepo.SetApprovalStatus(ctx, id, models.ApprovalApproved); err != nil {
		return err
	}

	if scholarship.Status == models.ScholarshipActive {
		s.notifyNewScholarship(ctx, scholarship)
	}
	return nil
}

// Reject marks a scholarship rejected on the moderation axis
func (s *scholarshipServiceImpl) Reject(ctx context.Context, id int64) error {
	return s.scholarshipRepo.SetApprovalStatus(ctx, id, models.ApprovalRejected)
}

func (s *scholarshipServiceImpl) notifyNewScholarship(ctx context.Context, scholarship *models.Scholarship) {
	ids, err := s.userRepo.GetStudentIDsWithNewScholarshipAlerts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Int64("scholarshipID", scholarship.ID).Msg("Failed to resolve alert recipients")
		return
	}
	message := fmt.Sprintf("A new scholarship is open for applications: %s (%s)", scholarship.Title, scholarship.Amount)
	if err := s.notifications.EmitBatch(ctx, ids, models.NotificationNewScholarship, "New scholarship posted", message); err != nil {
		s.logger.Error().Err(err).Int64("scholarshipID", scholarship.ID).Msg("Failed to emit new scholarship notifications")
	}
}

// ToggleSave flips the bookmark state for a (user, scholarship) pair
func (s *scholarshipServiceImpl) ToggleSave(ctx context.Context, userID, scholarshipID int64) (*dto.SaveScholarshipResponse, error) {
	// Validate the scholarship exists before touching the bookmark
	if _, err := s.scholarshipRepo.GetByID(ctx, scholarshipID); err != nil {
		return nil, err
	}

	saved, err := s.savedRepo.Toggle(ctx, userID, scholarshipID)
	if err != nil {
		return nil, err
	}
	return &dto.SaveScholarshipResponse{ScholarshipID: scholarshipID, Saved: saved}, nil
}

// GetSaved lists the user's bookmarked scholarships
func (s *scholarshipServiceImpl) GetSaved(ctx context.Context, userID int64) ([]dto.SavedScholarshipResponse, error) {
	saved, err := s.savedRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]dto.SavedScholarshipResponse, 0, len(saved))
	for _, item := range saved {
		responses = append(responses, dto.SavedScholarshipResponse{
			ScholarshipID: item.ScholarshipID,
			SavedAt:       item.SavedAt,
			Scholarship:   dto.NewScholarshipResponse(item.Scholarship, now),
		})
	}
	return responses, nil
}

// validateScholarshipFields checks the invariants that binding tags cannot
// express cleanly and returns field-level messages.
func validateScholarshipFields(categories, degreeLevels []string, deadline time.Time) map[string]string {
	fields := map[string]string{}
	if len(categories) == 0 {
		fields["categories"] = "At least one category is required"
	}
	if len(degreeLevels) == 0 {
		fields["degreeLevels"] = "At least one degree level is required"
	}
	for _, l := range degreeLevels {
		if !models.ValidDegreeLevel(l) {
			fields["degreeLevels"] = fmt.Sprintf("Unknown degree level: %s", l)
			break
		}
	}
	if deadline.IsZero() {
		fields["deadline"] = "Deadline must be a valid timestamp"
	}
	return fields
}
