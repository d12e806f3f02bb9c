package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/db"
	"github.com/yigit/headta/internal/pkg/apperrors"
	"github.com/yigit/headta/internal/pkg/dberrors"
	"github.com/yigit/headta/internal/pkg/helpers"
	"github.com/yigit/headta/internal/pkg/logger"
)

var userColumns = []string{
	"id", "email", "password", "first_name", "last_name", "role_type", "invited_by_id",
	"is_unclaimed", "claimed_by_id", "claimed_at", "is_active", "last_login_at",
	"created_at", "updated_at",
}

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.RoleType, &u.InvitedByID,
		&u.IsUnclaimed, &u.ClaimedByID, &u.ClaimedAt, &u.IsActive, &u.LastLoginAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UserFilter narrows directory listings
type UserFilter struct {
	Role             models.RoleType
	IncludeUnclaimed bool
	OnlyActive       bool
}

// UserRepository handles user database operations
type UserRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db db.DBTX) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateUser inserts a user and fills in its ID and timestamps
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	user.Email = helpers.NormalizeEmail(user.Email)

	sql, args, err := r.sb.Insert("users").
		Columns("email", "password", "first_name", "last_name", "role_type", "invited_by_id", "is_unclaimed", "is_active").
		Values(user.Email, user.Password, user.FirstName, user.LastName, user.RoleType, user.InvitedByID, user.IsUnclaimed, user.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return user.ID, nil
}

func (r *UserRepository) getOne(ctx context.Context, q squirrel.SelectBuilder, field string, value interface{}) (*models.User, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("by", field).Msg("Error building get user SQL")
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Interface(field, value).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user by %s: %w", field, err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	q := r.sb.Select(userColumns...).From("users").Where(squirrel.Eq{"id": id}).Limit(1)
	return r.getOne(ctx, q, "userID", id)
}

// GetUserByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = helpers.NormalizeEmail(email)
	q := r.sb.Select(userColumns...).From("users").Where(squirrel.Eq{"email": email}).Limit(1)
	return r.getOne(ctx, q, "email", email)
}

// GetUserByIDForUpdate reads a user and locks the row until the surrounding
// transaction ends. Outside a transaction the lock is released immediately.
func (r *UserRepository) GetUserByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	q := r.sb.Select(userColumns...).From("users").Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE")
	return r.getOne(ctx, q, "userID", id)
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("users").
		Where(squirrel.Eq{"email": helpers.NormalizeEmail(email)}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build email exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Msg("Error checking email existence")
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) list(ctx context.Context, q squirrel.SelectBuilder, op string) ([]*models.User, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error building list users SQL")
		return nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error executing list users query")
		return nil, fmt.Errorf("error querying users (%s): %w", op, err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			logger.Error().Err(err).Str("op", op).Msg("Error scanning user row")
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error iterating user rows")
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// ListUsersInvitedBy returns the users whose inviter is inviterID, oldest first.
// Equal creation times are ordered by id.
func (r *UserRepository) ListUsersInvitedBy(ctx context.Context, inviterID int64) ([]*models.User, error) {
	q := r.sb.Select(userColumns...).From("users").
		Where(squirrel.Eq{"invited_by_id": inviterID}).
		OrderBy("created_at ASC", "id ASC")
	return r.list(ctx, q, "list invited by")
}

// ListRootUsers returns users without an inviter, oldest first
func (r *UserRepository) ListRootUsers(ctx context.Context) ([]*models.User, error) {
	q := r.sb.Select(userColumns...).From("users").
		Where(squirrel.Eq{"invited_by_id": nil}).
		OrderBy("created_at ASC", "id ASC")
	return r.list(ctx, q, "list roots")
}

// ListUnclaimed returns every placeholder profile
func (r *UserRepository) ListUnclaimed(ctx context.Context) ([]*models.User, error) {
	q := r.sb.Select(userColumns...).From("users").
		Where(squirrel.Eq{"is_unclaimed": true}).
		OrderBy("last_name ASC", "first_name ASC", "id ASC")
	return r.list(ctx, q, "list unclaimed")
}

func applyUserFilter(q squirrel.SelectBuilder, f UserFilter) squirrel.SelectBuilder {
	if f.Role != "" {
		q = q.Where(squirrel.Eq{"role_type": f.Role})
	}
	if !f.IncludeUnclaimed {
		q = q.Where(squirrel.Eq{"is_unclaimed": false})
	}
	if f.OnlyActive {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	return q
}

// ListUsers returns one page of users ordered by name
func (r *UserRepository) ListUsers(ctx context.Context, f UserFilter, page helpers.Page) ([]*models.User, error) {
	q := applyUserFilter(r.sb.Select(userColumns...).From("users"), f).
		OrderBy("last_name ASC", "first_name ASC", "id ASC").
		Limit(page.Limit()).
		Offset(page.Offset())
	return r.list(ctx, q, "list users")
}

// ListAllUsers returns every user matching f, used for directory search
func (r *UserRepository) ListAllUsers(ctx context.Context, f UserFilter) ([]*models.User, error) {
	q := applyUserFilter(r.sb.Select(userColumns...).From("users"), f).
		OrderBy("id ASC")
	return r.list(ctx, q, "list all users")
}

// CountUsers counts users matching f
func (r *UserRepository) CountUsers(ctx context.Context, f UserFilter) (int64, error) {
	sql, args, err := applyUserFilter(r.sb.Select("COUNT(*)").From("users"), f).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count users query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error counting users")
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return count, nil
}

// MarkClaimed flags a placeholder as claimed by claimerID and deactivates it
func (r *UserRepository) MarkClaimed(ctx context.Context, userID, claimerID int64, at time.Time) error {
	sql, args, err := r.sb.Update("users").
		SetMap(map[string]interface{}{
			"is_unclaimed":  false,
			"is_active":     false,
			"claimed_by_id": claimerID,
			"claimed_at":    at,
			"updated_at":    at,
		}).
		Where(squirrel.Eq{"id": userID, "is_unclaimed": true}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building mark claimed SQL")
		return fmt.Errorf("failed to build mark claimed query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("claimerID", claimerID).Msg("Error executing mark claimed query")
		return fmt.Errorf("error marking user claimed: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileAlreadyClaimed
	}
	return nil
}

// UpdateLastLogin updates the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	sql, args, err := r.sb.Update("users").
		Set("last_login_at", at).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating last login")
		return fmt.Errorf("failed to update last login time: %w", err)
	}
	return nil
}

// SetActive enables or disables a login
func (r *UserRepository) SetActive(ctx context.Context, userID int64, active bool) error {
	sql, args, err := r.sb.Update("users").
		Set("is_active", active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set active query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating user active flag")
		return fmt.Errorf("error updating user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
