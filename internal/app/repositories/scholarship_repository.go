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
)

var scholarshipSelectColumns = []string{
	"id", "title", "description", "detailed_description", "amount", "amount_type",
	"categories", "degree_levels", "deadline", "status", "approval_status",
	"views", "awards_available", "created_by", "created_at", "updated_at",
}

// ScholarshipRepository handles database operations for scholarships
type ScholarshipRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewScholarshipRepository creates a new ScholarshipRepository
func NewScholarshipRepository(db *pgxpool.Pool) *ScholarshipRepository {
	return &ScholarshipRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanScholarship(row pgx.Row, extra ...interface{}) (*models.Scholarship, error) {
	var s models.Scholarship
	var levels []string
	dest := []interface{}{
		&s.ID, &s.Title, &s.Description, &s.DetailedDescription, &s.Amount, &s.AmountType,
		&s.Categories, &levels, &s.Deadline, &s.Status, &s.ApprovalStatus,
		&s.Views, &s.AwardsAvailable, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	s.DegreeLevels = make([]models.DegreeLevel, len(levels))
	for i, l := range levels {
		s.DegreeLevels[i] = models.DegreeLevel(l)
	}
	return &s, nil
}

func degreeLevelStrings(levels []models.DegreeLevel) []string {
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = string(l)
	}
	return out
}

// Create inserts a new scholarship and sets its generated ID
func (r *ScholarshipRepository) Create(ctx context.Context, s *models.Scholarship) error {
	sql, args, err := r.sb.Insert("scholarships").
		Columns("title", "description", "detailed_description", "amount", "amount_type",
			"categories", "degree_levels", "deadline", "status", "approval_status",
			"views", "awards_available", "created_by", "created_at", "updated_at").
		Values(s.Title, s.Description, s.DetailedDescription, s.Amount, s.AmountType,
			s.Categories, degreeLevelStrings(s.DegreeLevels), s.Deadline, s.Status,
			s.ApprovalStatus, 0, s.AwardsAvailable, s.CreatedBy, time.Now(), time.Now()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create scholarship query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.ID); err != nil {
		return fmt.Errorf("error creating scholarship: %w", err)
	}
	return nil
}

// GetByID retrieves a scholarship by ID
func (r *ScholarshipRepository) GetByID(ctx context.Context, id int64) (*models.Scholarship, error) {
	sql, args, err := r.sb.Select(scholarshipSelectColumns...).
		From("scholarships").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get scholarship query: %w", err)
	}

	s, err := scanScholarship(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrScholarshipNotFound
		}
		return nil, fmt.Errorf("error retrieving scholarship: %w", err)
	}
	return s, nil
}

// GetAll retrieves scholarships with filtering and pagination
func (r *ScholarshipRepository) GetAll(ctx context.Context, filter *dto.ScholarshipFilterRequest, offset uint64, limit int) ([]*models.Scholarship, int64, error) {
	query := r.sb.Select(append(scholarshipSelectColumns, "COUNT(*) OVER()")...).
		From("scholarships")

	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"description": pattern},
		})
	}
	if filter.Category != nil && *filter.Category != "" {
		query = query.Where("? = ANY(categories)", *filter.Category)
	}
	if filter.DegreeLevel != nil && *filter.DegreeLevel != "" {
		query = query.Where("? = ANY(degree_levels)", *filter.DegreeLevel)
	}
	if filter.DeadlineBefore != nil {
		query = query.Where(squirrel.LtOrEq{"deadline": *filter.DeadlineBefore})
	}
	if filter.Status != nil {
		query = query.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.ApprovalStatus != nil {
		query = query.Where(squirrel.Eq{"approval_status": *filter.ApprovalStatus})
	}

	sql, args, err := query.OrderBy("deadline ASC").
		Limit(uint64(limit)).Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list scholarships query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing scholarships: %w", err)
	}
	defer rows.Close()

	var scholarships []*models.Scholarship
	var total int64
	for rows.Next() {
		s, err := scanScholarship(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning scholarship row: %w", err)
		}
		scholarships = append(scholarships, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating scholarship rows: %w", err)
	}
	return scholarships, total, nil
}

// Update replaces the editable fields of a scholarship
func (r *ScholarshipRepository) Update(ctx context.Context, s *models.Scholarship) error {
	sql, args, err := r.sb.Update("scholarships").
		Set("title", s.Title).
		Set("description", s.Description).
		Set("detailed_description", s.DetailedDescription).
		Set("amount", s.Amount).
		Set("amount_type", s.AmountType).
		Set("categories", s.Categories).
		Set("degree_levels", degreeLevelStrings(s.DegreeLevels)).
		Set("deadline", s.Deadline).
		Set("awards_available", s.AwardsAvailable).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update scholarship query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating scholarship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrScholarshipNotFound
	}
	return nil
}

// SetStatus sets the publish status axis
func (r *ScholarshipRepository) SetStatus(ctx context.Context, id int64, status models.ScholarshipStatus) error {
	return r.setColumn(ctx, id, "status", string(status))
}

// SetApprovalStatus sets the moderation axis
func (r *ScholarshipRepository) SetApprovalStatus(ctx context.Context, id int64, status models.ApprovalStatus) error {
	return r.setColumn(ctx, id, "approval_status", string(status))
}

func (r *ScholarshipRepository) setColumn(ctx context.Context, id int64, column, value string) error {
	sql, args, err := r.sb.Update("scholarships").
		Set(column, value).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set %s query: %w", column, err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error setting %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrScholarshipNotFound
	}
	return nil
}

// IncrementViews bumps the view counter. Fire-and-forget: concurrent reads
// may lose an increment, which is acceptable for a display counter.
func (r *ScholarshipRepository) IncrementViews(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "UPDATE scholarships SET views = views + 1 WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error incrementing views: %w", err)
	}
	return nil
}

// Delete removes a scholarship. Applications and saved links cascade at the
// schema level.
func (r *ScholarshipRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM scholarships WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting scholarship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrScholarshipNotFound
	}
	return nil
}

// GetExpiringBetween returns approved, active scholarships whose deadline
// falls inside the window, for deadline reminders.
func (r *ScholarshipRepository) GetExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.Scholarship, error) {
	sql, args, err := r.sb.Select(scholarshipSelectColumns...).
		From("scholarships").
		Where(squirrel.Eq{"status": models.ScholarshipActive}).
		Where(squirrel.Eq{"approval_status": models.ApprovalApproved}).
		Where(squirrel.GtOrEq{"deadline": from}).
		Where(squirrel.Lt{"deadline": to}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build expiring scholarships query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying expiring scholarships: %w", err)
	}
	defer rows.Close()

	var scholarships []*models.Scholarship
	for rows.Next() {
		s, err := scanScholarship(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning scholarship row: %w", err)
		}
		scholarships = append(scholarships, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scholarship rows: %w", err)
	}
	return scholarships, nil
}
