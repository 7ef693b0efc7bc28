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
	"github.com/burakc/scholarhub/internal/pkg/logger"
)

var userSelectColumns = []string{
	"id", "email", "password", "first_name", "last_name", "role_type", "approved", "blocked",
	"profile_complete", "phone", "nationality", "field_of_study", "degree_level", "profile_photo_url",
	"pref_email_notifications", "pref_deadline_reminders", "pref_new_scholarship_alerts",
	"created_at", "updated_at", "last_login_at",
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.RoleType,
		&u.Approved, &u.Blocked, &u.ProfileComplete, &u.Phone, &u.Nationality,
		&u.FieldOfStudy, &u.DegreeLevel, &u.ProfilePhotoURL,
		&u.Preferences.EmailNotifications, &u.Preferences.DeadlineReminders,
		&u.Preferences.NewScholarshipAlerts,
		&u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and sets its generated ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Insert("users").
		Columns("email", "password", "first_name", "last_name", "role_type", "approved",
			"blocked", "profile_complete",
			"pref_email_notifications", "pref_deadline_reminders", "pref_new_scholarship_alerts",
			"created_at", "updated_at").
		Values(user.Email, user.Password, user.FirstName, user.LastName, user.RoleType,
			user.Approved, user.Blocked, user.ProfileComplete,
			user.Preferences.EmailNotifications, user.Preferences.DeadlineReminders,
			user.Preferences.NewScholarshipAlerts,
			time.Now(), time.Now()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&user.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := r.sb.Select(userSelectColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	sql, args, err := r.sb.Select(userSelectColumns...).
		From("users").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user by email query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user by email: %w", err)
	}
	return user, nil
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// GetAll retrieves users with filtering and pagination
func (r *UserRepository) GetAll(ctx context.Context, filter *dto.UserFilterRequest, offset uint64, limit int) ([]*models.User, int64, error) {
	query := r.sb.Select(append(userSelectColumns, "COUNT(*) OVER()")...).
		From("users")

	if filter.Role != nil {
		query = query.Where(squirrel.Eq{"role_type": *filter.Role})
	}
	if filter.Approved != nil {
		query = query.Where(squirrel.Eq{"approved": *filter.Approved})
	}
	if filter.Blocked != nil {
		query = query.Where(squirrel.Eq{"blocked": *filter.Blocked})
	}
	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
		})
	}

	sql, args, err := query.OrderBy("created_at DESC").
		Limit(uint64(limit)).Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	var total int64
	for rows.Next() {
		var u models.User
		err := rows.Scan(
			&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.RoleType,
			&u.Approved, &u.Blocked, &u.ProfileComplete, &u.Phone, &u.Nationality,
			&u.FieldOfStudy, &u.DegreeLevel, &u.ProfilePhotoURL,
			&u.Preferences.EmailNotifications, &u.Preferences.DeadlineReminders,
			&u.Preferences.NewScholarshipAlerts,
			&u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, total, nil
}

// UpdateProfile updates a user's profile fields and the recomputed
// profile_complete flag.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Update("users").
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("phone", user.Phone).
		Set("nationality", user.Nationality).
		Set("field_of_study", user.FieldOfStudy).
		Set("degree_level", user.DegreeLevel).
		Set("profile_complete", user.ProfileComplete).
		Set("pref_email_notifications", user.Preferences.EmailNotifications).
		Set("pref_deadline_reminders", user.Preferences.DeadlineReminders).
		Set("pref_new_scholarship_alerts", user.Preferences.NewScholarshipAlerts).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// AdminUpdate updates the fields an administrator may edit
func (r *UserRepository) AdminUpdate(ctx context.Context, id int64, firstName, lastName, email string, role models.RoleType) error {
	sql, args, err := r.sb.Update("users").
		Set("first_name", firstName).
		Set("last_name", lastName).
		Set("email", email).
		Set("role_type", role).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build admin update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// SetApproved sets the approved flag
func (r *UserRepository) SetApproved(ctx context.Context, id int64, approved bool) error {
	return r.setFlag(ctx, id, "approved", approved)
}

// SetBlocked sets the blocked flag
func (r *UserRepository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	return r.setFlag(ctx, id, "blocked", blocked)
}

func (r *UserRepository) setFlag(ctx context.Context, id int64, column string, value bool) error {
	sql, args, err := r.sb.Update("users").
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
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateProfilePhotoURL updates the stored profile photo URL
func (r *UserRepository) UpdateProfilePhotoURL(ctx context.Context, id int64, url *string) error {
	sql, args, err := r.sb.Update("users").
		Set("profile_photo_url", url).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update photo query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating profile photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateLastLogin records the current time as the user's last login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET last_login_at = $1 WHERE id = $2", time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// GetStudentIDsWithNewScholarshipAlerts returns ids of students who opted in
// to new-scholarship notifications.
func (r *UserRepository) GetStudentIDsWithNewScholarshipAlerts(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM users
		 WHERE role_type = $1 AND blocked = FALSE AND pref_new_scholarship_alerts = TRUE`,
		models.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("error querying alert recipients: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning recipient id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipient rows: %w", err)
	}
	return ids, nil
}

// GetAllActiveUserIDs returns ids of every non-blocked user, for
// system-wide announcements.
func (r *UserRepository) GetAllActiveUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, "SELECT id FROM users WHERE blocked = FALSE")
	if err != nil {
		return nil, fmt.Errorf("error querying active users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return ids, nil
}
