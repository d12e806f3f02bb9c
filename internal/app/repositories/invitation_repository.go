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

var invitationColumns = []string{
	"id", "email", "role_type", "token", "invited_by_id", "expires_at",
	"accepted_at", "accepted_user_id", "revoked_at", "created_at",
}

func scanInvitation(row rowScanner) (*models.Invitation, error) {
	inv := &models.Invitation{}
	err := row.Scan(
		&inv.ID, &inv.Email, &inv.RoleType, &inv.Token, &inv.InvitedByID, &inv.ExpiresAt,
		&inv.AcceptedAt, &inv.AcceptedUserID, &inv.RevokedAt, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// InvitationRepository handles invitation database operations
type InvitationRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db db.DBTX) *InvitationRepository {
	return &InvitationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateInvitation inserts an invitation
func (r *InvitationRepository) CreateInvitation(ctx context.Context, inv *models.Invitation) (int64, error) {
	inv.Email = helpers.NormalizeEmail(inv.Email)

	sql, args, err := r.sb.Insert("invitations").
		Columns("email", "role_type", "token", "invited_by_id", "expires_at").
		Values(inv.Email, inv.RoleType, inv.Token, inv.InvitedByID, inv.ExpiresAt).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create invitation SQL")
		return 0, fmt.Errorf("failed to build create invitation query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&inv.ID, &inv.CreatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrInvitationAlreadyExists
		}
		logger.Error().Err(err).Int64("invitedByID", inv.InvitedByID).Msg("Error executing create invitation query")
		return 0, fmt.Errorf("error creating invitation: %w", err)
	}
	return inv.ID, nil
}

func (r *InvitationRepository) getOne(ctx context.Context, q squirrel.SelectBuilder) (*models.Invitation, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get invitation SQL")
		return nil, fmt.Errorf("failed to build get invitation query: %w", err)
	}

	inv, err := scanInvitation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvitationNotFound
		}
		logger.Error().Err(err).Msg("Error scanning invitation row")
		return nil, fmt.Errorf("error getting invitation: %w", err)
	}
	return inv, nil
}

// GetInvitationByID retrieves an invitation by ID
func (r *InvitationRepository) GetInvitationByID(ctx context.Context, id int64) (*models.Invitation, error) {
	return r.getOne(ctx, r.sb.Select(invitationColumns...).From("invitations").Where(squirrel.Eq{"id": id}).Limit(1))
}

// GetInvitationByToken retrieves an invitation by its token
func (r *InvitationRepository) GetInvitationByToken(ctx context.Context, token string) (*models.Invitation, error) {
	return r.getOne(ctx, r.sb.Select(invitationColumns...).From("invitations").Where(squirrel.Eq{"token": token}).Limit(1))
}

// GetInvitationByTokenForUpdate locks the invitation row for the surrounding transaction
func (r *InvitationRepository) GetInvitationByTokenForUpdate(ctx context.Context, token string) (*models.Invitation, error) {
	return r.getOne(ctx, r.sb.Select(invitationColumns...).From("invitations").Where(squirrel.Eq{"token": token}).Suffix("FOR UPDATE"))
}

// HasPendingInvitation reports whether email has an unaccepted, unrevoked, unexpired invitation
func (r *InvitationRepository) HasPendingInvitation(ctx context.Context, email string, now time.Time) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("invitations").
		Where(squirrel.Eq{"email": helpers.NormalizeEmail(email), "accepted_at": nil, "revoked_at": nil}).
		Where(squirrel.Gt{"expires_at": now}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build pending invitation query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Msg("Error checking pending invitation")
		return false, fmt.Errorf("error checking pending invitation: %w", err)
	}
	return exists, nil
}

// ListInvitationsByInviter returns invitations sent by inviterID, newest first
func (r *InvitationRepository) ListInvitationsByInviter(ctx context.Context, inviterID int64) ([]*models.Invitation, error) {
	sql, args, err := r.sb.Select(invitationColumns...).
		From("invitations").
		Where(squirrel.Eq{"invited_by_id": inviterID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list invitations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("inviterID", inviterID).Msg("Error listing invitations")
		return nil, fmt.Errorf("error querying invitations: %w", err)
	}
	defer rows.Close()

	invitations := []*models.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning invitation row: %w", err)
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invitation rows: %w", err)
	}
	return invitations, nil
}

// MarkAccepted records that userID signed up with the invitation
func (r *InvitationRepository) MarkAccepted(ctx context.Context, id, userID int64, at time.Time) error {
	sql, args, err := r.sb.Update("invitations").
		Set("accepted_at", at).
		Set("accepted_user_id", userID).
		Where(squirrel.Eq{"id": id, "accepted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build accept invitation query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("invitationID", id).Msg("Error accepting invitation")
		return fmt.Errorf("error accepting invitation: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInvitationUsed
	}
	return nil
}

// Revoke marks an invitation revoked
func (r *InvitationRepository) Revoke(ctx context.Context, id int64, at time.Time) error {
	sql, args, err := r.sb.Update("invitations").
		Set("revoked_at", at).
		Where(squirrel.Eq{"id": id, "accepted_at": nil, "revoked_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build revoke invitation query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("invitationID", id).Msg("Error revoking invitation")
		return fmt.Errorf("error revoking invitation: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInvitationUsed
	}
	return nil
}

// CountPending counts live invitations at now
func (r *InvitationRepository) CountPending(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("invitations").
		Where(squirrel.Eq{"accepted_at": nil, "revoked_at": nil}).
		Where(squirrel.Gt{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count invitations query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting invitations: %w", err)
	}
	return count, nil
}
