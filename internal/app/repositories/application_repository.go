package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/burakc/scholarhub/internal/app/models"
	"github.com/burakc/scholarhub/internal/app/models/dto"
	"github.com/burakc/scholarhub/internal/pkg/apperrors"
	"github.com/burakc/scholarhub/internal/pkg/dberrors"
)

var applicationSelectColumns = []string{
	"id", "scholarship_id", "user_id", "status",
	"first_name", "last_name", "email", "phone", "date_of_birth", "nationality",
	"institution", "field_of_study", "current_year", "marks_percentage", "gpa", "expected_graduation",
	"intended_university", "intended_program", "intended_country", "financial_need",
	"achievements", "experience", "motivation",
	"applied_at", "updated_at",
}

// ApplicationRepository handles database operations for applications
type ApplicationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanApplication(row pgx.Row, extra ...interface{}) (*models.Application, error) {
	var a models.Application
	dest := []interface{}{
		&a.ID, &a.ScholarshipID, &a.UserID, &a.Status,
		&a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.DateOfBirth, &a.Nationality,
		&a.Institution, &a.FieldOfStudy, &a.CurrentYear, &a.MarksPercentage, &a.GPA, &a.ExpectedGraduation,
		&a.IntendedUniversity, &a.IntendedProgram, &a.IntendedCountry, &a.FinancialNeed,
		&a.Achievements, &a.Experience, &a.Motivation,
		&a.AppliedAt, &a.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new application and sets its generated ID. The
// (scholarship_id, user_id) pair is unique at the schema level.
func (r *ApplicationRepository) Create(ctx context.Context, a *models.Application) error {
	sql, args, err := r.sb.Insert("applications").
		Columns("scholarship_id", "user_id", "status",
			"first_name", "last_name", "email", "phone", "date_of_birth", "nationality",
			"institution", "field_of_study", "current_year", "marks_percentage", "gpa", "expected_graduation",
			"intended_university", "intended_program", "intended_country", "financial_need",
			"achievements", "experience", "motivation",
			"applied_at", "updated_at").
		Values(a.ScholarshipID, a.UserID, a.Status,
			a.FirstName, a.LastName, a.Email, a.Phone, a.DateOfBirth, a.Nationality,
			a.Institution, a.FieldOfStudy, a.CurrentYear, a.MarksPercentage, a.GPA, a.ExpectedGraduation,
			a.IntendedUniversity, a.IntendedProgram, a.IntendedCountry, a.FinancialNeed,
			a.Achievements, a.Experience, a.Motivation,
			time.Now(), time.Now()).
		Suffix("RETURNING id, applied_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create application query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.AppliedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "applications_scholarship_id_user_id_key") {
			return apperrors.ErrAlreadyApplied
		}
		return fmt.Errorf("error creating application: %w", err)
	}
	return nil
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	sql, args, err := r.sb.Select(applicationSelectColumns...).
		From("applications").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get application query: %w", err)
	}

	a, err := scanApplication(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error retrieving application: %w", err)
	}
	return a, nil
}

// Exists checks whether a user already applied to a scholarship
func (r *ApplicationRepository) Exists(ctx context.Context, scholarshipID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM applications WHERE scholarship_id = $1 AND user_id = $2)",
		scholarshipID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking application existence: %w", err)
	}
	return exists, nil
}

// GetAll retrieves applications with filtering and pagination
func (r *ApplicationRepository) GetAll(ctx context.Context, filter *dto.ApplicationFilterRequest, offset uint64, limit int) ([]*models.Application, int64, error) {
	query := r.sb.Select(append(applicationSelectColumns, "COUNT(*) OVER()")...).
		From("applications")

	if filter.ScholarshipID != nil {
		query = query.Where(squirrel.Eq{"scholarship_id": *filter.ScholarshipID})
	}
	if filter.UserID != nil {
		query = query.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.Status != nil {
		query = query.Where(squirrel.Eq{"status": *filter.Status})
	}

	sql, args, err := query.OrderBy("applied_at DESC").
		Limit(uint64(limit)).Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	var applications []*models.Application
	var total int64
	for rows.Next() {
		a, err := scanApplication(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning application row: %w", err)
		}
		applications = append(applications, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating application rows: %w", err)
	}
	return applications, total, nil
}

// UpdateStatus sets the review status. Concurrent reviewers race with
// last-write-wins semantics, matching the unguarded source behavior.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	sql, args, err := r.sb.Update("applications").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}

// Delete removes an application
func (r *ApplicationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM applications WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}
