package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/burakc/scholarhub/internal/app/eligibility"
	"github.com/burakc/scholarhub/internal/app/models"
	"github.com/burakc/scholarhub/internal/app/models/dto"
	"github.com/burakc/scholarhub/internal/pkg/apperrors"
	"github.com/burakc/scholarhub/internal/pkg/helpers"
)

// ApplicationService defines the interface for application operations
type ApplicationService interface {
	Submit(ctx context.Context, userID int64, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error)
	ValidateStep(ctx context.Context, req *dto.ValidateStepRequest) error
	GetByID(ctx context.Context, id int64, requester *models.User) (*dto.ApplicationResponse, error)
	GetMine(ctx context.Context, userID int64, filter *dto.ApplicationFilterRequest) (*dto.ApplicationListResponse, error)
	GetAll(ctx context.Context, filter *dto.ApplicationFilterRequest) (*dto.ApplicationListResponse, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*dto.ApplicationResponse, error)
	Withdraw(ctx context.Context, id int64, userID int64) error
}

type applicationServiceImpl struct {
	applicationRepo ApplicationStore
	scholarshipRepo ScholarshipStore
	notifications   NotificationService
	logger          zerolog.Logger
	now             func() time.Time
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	applicationRepo ApplicationStore,
	scholarshipRepo ScholarshipStore,
	notifications NotificationService,
	logger zerolog.Logger,
) ApplicationService {
	return &applicationServiceImpl{
		applicationRepo: applicationRepo,
		scholarshipRepo: scholarshipRepo,
		notifications:   notifications,
		logger:          logger,
		now:             time.Now,
	}
}

// Submit runs the full eligibility gate over the form and, if it passes,
// snapshots the form into a new APPLIED application. The GPA is derived from
// the marks percentage at this point and stored with the snapshot.
func (s *applicationServiceImpl) Submit(ctx context.Context, userID int64, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error) {
	if fields := eligibility.ValidateAll(&req.ApplicationForm); len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}

	scholarship, err := s.scholarshipRepo.GetByID(ctx, req.ScholarshipID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if scholarship.IsExpired(now) {
		return nil, apperrors.ErrScholarshipExpired
	}
	if !scholarship.AcceptsApplications(now) {
		return nil, apperrors.ErrScholarshipNotActive
	}

	exists, err := s.applicationRepo.Exists(ctx, req.ScholarshipID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrAlreadyApplied
	}

	// ValidateAll already vetted the marks, so the conversion cannot fail here
	gpa, _ := eligibility.ConvertPercentageToGPA(req.MarksPercentage)

	application := &models.Application{
		ScholarshipID:      req.ScholarshipID,
		UserID:             userID,
		Status:             models.ApplicationApplied,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Phone:              req.Phone,
		DateOfBirth:        req.DateOfBirth,
		Nationality:        req.Nationality,
		Institution:        req.Institution,
		FieldOfStudy:       req.FieldOfStudy,
		CurrentYear:        req.CurrentYear,
		MarksPercentage:    req.MarksPercentage,
		GPA:                gpa,
		ExpectedGraduation: req.ExpectedGraduation,
		IntendedUniversity: req.IntendedUniversity,
		IntendedProgram:    req.IntendedProgram,
		IntendedCountry:    req.IntendedCountry,
		FinancialNeed:      req.FinancialNeed,
		Achievements:       req.Achievements,
		Experience:         req.Experience,
		Motivation:         req.Motivation,
	}

	if err := s.applicationRepo.Create(ctx, application); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("applicationID", application.ID).
		Int64("scholarshipID", req.ScholarshipID).
		Int64("userID", userID).
		Msg("Application submitted")

	s.emit(ctx, userID, models.NotificationApplicationUpdate, "Application received",
		fmt.Sprintf("Your application for %s was received and is now under consideration.", scholarship.Title))

	application.Scholarship = scholarship
	return dto.NewApplicationResponse(application, now), nil
}

// ValidateStep checks a single form step against the eligibility gate and
// returns a ValidationError carrying the per-field messages on failure.
func (s *applicationServiceImpl) ValidateStep(ctx context.Context, req *dto.ValidateStepRequest) error {
	if fields := eligibility.ValidateStep(&req.ApplicationForm, req.Step); len(fields) > 0 {
		return apperrors.NewValidationError(fields)
	}
	return nil
}

// GetByID retrieves an application. Students may only read their own;
// administrators may read any.
func (s *applicationServiceImpl) GetByID(ctx context.Context, id int64, requester *models.User) (*dto.ApplicationResponse, error) {
	application, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if application.UserID != requester.ID && !requester.RoleType.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}
	return dto.NewApplicationResponse(application, s.now()), nil
}

// GetMine lists the requesting user's own applications
func (s *applicationServiceImpl) GetMine(ctx context.Context, userID int64, filter *dto.ApplicationFilterRequest) (*dto.ApplicationListResponse, error) {
	filter.UserID = &userID
	return s.GetAll(ctx, filter)
}

// GetAll lists applications with filtering and pagination
func (s *applicationServiceImpl) GetAll(ctx context.Context, filter *dto.ApplicationFilterRequest) (*dto.ApplicationListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	applications, total, err := s.applicationRepo.GetAll(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}

	now := s.now()
	responses := make([]dto.ApplicationResponse, 0, len(applications))
	for _, a := range applications {
		responses = append(responses, *dto.NewApplicationResponse(a, now))
	}
	return &dto.ApplicationListResponse{
		Applications:   responses,
		PaginationInfo: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}, nil
}

// UpdateStatus moves an application to any of the defined review states and
// notifies the applicant. Only membership in the status set is checked; a
// reviewer can jump straight from APPLIED to ACCEPTED.
func (s *applicationServiceImpl) UpdateStatus(ctx context.Context, id int64, status string) (*dto.ApplicationResponse, error) {
	if !models.ValidApplicationStatus(status) {
		return nil, apperrors.ErrInvalidStatus
	}

	application, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus := models.ApplicationStatus(status)
	if err := s.applicationRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}
	application.Status = newStatus

	title := "Application status updated"
	message := fmt.Sprintf("Your application #%d is now %s.", application.ID, statusLabel(newStatus))
	if application.Scholarship != nil {
		message = fmt.Sprintf("Your application for %s is now %s.", application.Scholarship.Title, statusLabel(newStatus))
	}
	s.emit(ctx, application.UserID, models.NotificationApplicationUpdate, title, message)

	return dto.NewApplicationResponse(application, s.now()), nil
}

// Withdraw deletes the user's own application. Once a reviewer has moved it
// past APPLIED the record is locked and can no longer be withdrawn.
func (s *applicationServiceImpl) Withdraw(ctx context.Context, id int64, userID int64) error {
	application, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if application.UserID != userID {
		return apperrors.ErrPermissionDenied
	}
	if application.Status != models.ApplicationApplied {
		return apperrors.ErrApplicationLocked
	}
	return s.applicationRepo.Delete(ctx, id)
}

func (s *applicationServiceImpl) emit(ctx context.Context, userID int64, nType models.NotificationType, title, message string) {
	if err := s.notifications.Emit(ctx, userID, nType, title, message); err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to emit application notification")
	}
}

func statusLabel(status models.ApplicationStatus) string {
	switch status {
	case models.ApplicationApplied:
		return "marked as applied"
	case models.ApplicationUnderReview:
		return "under review"
	case models.ApplicationAccepted:
		return "accepted"
	case models.ApplicationRejected:
		return "rejected"
	case models.ApplicationWaitlisted:
		return "waitlisted"
	}
	return string(status)
}
