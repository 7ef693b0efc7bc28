package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/burakc/scholarhub/internal/app/models"
)

// SavedScholarshipRepository handles database operations for bookmarks
type SavedScholarshipRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSavedScholarshipRepository creates a new SavedScholarshipRepository
func NewSavedScholarshipRepository(db *pgxpool.Pool) *SavedScholarshipRepository {
	return &SavedScholarshipRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Toggle flips the bookmark state for a (user, scholarship) pair:
// delete-if-exists, create-if-absent. Returns the resulting saved state.
// Toggling twice always returns to the original state.
func (r *SavedScholarshipRepository) Toggle(ctx context.Context, userID, scholarshipID int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM saved_scholarships WHERE user_id = $1 AND scholarship_id = $2",
		userID, scholarshipID)
	if err != nil {
		return false, fmt.Errorf("error removing bookmark: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO saved_scholarships (user_id, scholarship_id, saved_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, scholarship_id) DO NOTHING`,
		userID, scholarshipID, time.Now())
	if err != nil {
		return false, fmt.Errorf("error creating bookmark: %w", err)
	}
	return true, nil
}

// IsSaved reports whether a bookmark exists
func (r *SavedScholarshipRepository) IsSaved(ctx context.Context, userID, scholarshipID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM saved_scholarships WHERE user_id = $1 AND scholarship_id = $2)",
		userID, scholarshipID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking bookmark: %w", err)
	}
	return exists, nil
}

// GetByUser lists a user's bookmarks with the scholarship joined
func (r *SavedScholarshipRepository) GetByUser(ctx context.Context, userID int64) ([]*models.SavedScholarship, error) {
	cols := []string{"ss.user_id", "ss.scholarship_id", "ss.saved_at"}
	for _, c := range scholarshipSelectColumns {
		cols = append(cols, "s."+c)
	}

	sql, args, err := r.sb.Select(cols...).
		From("saved_scholarships ss").
		Join("scholarships s ON s.id = ss.scholarship_id").
		Where(squirrel.Eq{"ss.user_id": userID}).
		OrderBy("ss.saved_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list bookmarks query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing bookmarks: %w", err)
	}
	defer rows.Close()

	var saved []*models.SavedScholarship
	for rows.Next() {
		var item models.SavedScholarship
		var s models.Scholarship
		var levels []string
		err := rows.Scan(
			&item.UserID, &item.ScholarshipID, &item.SavedAt,
			&s.ID, &s.Title, &s.Description, &s.DetailedDescription, &s.Amount, &s.AmountType,
			&s.Categories, &levels, &s.Deadline, &s.Status, &s.ApprovalStatus,
			&s.Views, &s.AwardsAvailable, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning bookmark row: %w", err)
		}
		s.DegreeLevels = make([]models.DegreeLevel, len(levels))
		for i, l := range levels {
			s.DegreeLevels[i] = models.DegreeLevel(l)
		}
		item.Scholarship = &s
		saved = append(saved, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookmark rows: %w", err)
	}
	return saved, nil
}

// GetSaverIDs returns the ids of users who bookmarked a scholarship
func (r *SavedScholarshipRepository) GetSaverIDs(ctx context.Context, scholarshipID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		"SELECT user_id FROM saved_scholarships WHERE scholarship_id = $1", scholarshipID)
	if err != nil {
		return nil, fmt.Errorf("error querying savers: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning saver id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saver rows: %w", err)
	}
	return ids, nil
}
