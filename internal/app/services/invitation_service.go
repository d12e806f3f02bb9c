package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/app/repositories"
	"github.com/yigit/headta/internal/pkg/apperrors"
	"github.com/yigit/headta/internal/pkg/auth"
	"github.com/yigit/headta/internal/pkg/email"
	"github.com/yigit/headta/internal/pkg/helpers"
	"github.com/yigit/headta/internal/pkg/metrics"
	"github.com/yigit/headta/internal/pkg/validation"
)

// InvitationStore is the invitation persistence surface
type InvitationStore interface {
	CreateInvitation(ctx context.Context, inv *models.Invitation) (int64, error)
	GetInvitationByID(ctx context.Context, id int64) (*models.Invitation, error)
	GetInvitationByToken(ctx context.Context, token string) (*models.Invitation, error)
	HasPendingInvitation(ctx context.Context, email string, now time.Time) (bool, error)
	ListInvitationsByInviter(ctx context.Context, inviterID int64) ([]*models.Invitation, error)
	Revoke(ctx context.Context, id int64, at time.Time) error
}

// InviterStore looks up users for the invitation flow
type InviterStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// SignupStore runs the account creation in one transaction
type SignupStore interface {
	RunSignupTx(ctx context.Context, fn func(ctx context.Context, tx repositories.SignupTx) error) error
}

// InvitationService manages invitations and invitation-based signup
type InvitationService interface {
	CreateInvitation(ctx context.Context, inviterID int64, req *dto.CreateInvitationRequest) (*dto.InvitationResponse, error)
	ListMyInvitations(ctx context.Context, inviterID int64) ([]dto.InvitationResponse, error)
	RevokeInvitation(ctx context.Context, actorID, invitationID int64) error
	PreviewInvitation(ctx context.Context, token string) (*dto.InvitationPreviewResponse, error)
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error)
}

type invitationServiceImpl struct {
	invitations InvitationStore
	users       InviterStore
	store       SignupStore
	tokens      TokenIssuer
	claims      ClaimService
	mailer      email.EmailService
	tokenTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewInvitationService creates a new invitation service
func NewInvitationService(
	invitations InvitationStore,
	users InviterStore,
	store SignupStore,
	tokens TokenIssuer,
	claims ClaimService,
	mailer email.EmailService,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) InvitationService {
	return &invitationServiceImpl{
		invitations: invitations,
		users:       users,
		store:       store,
		tokens:      tokens,
		claims:      claims,
		mailer:      mailer,
		tokenTTL:    tokenTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateInvitation invites an email address. Only admins may invite admins.
func (s *invitationServiceImpl) CreateInvitation(ctx context.Context, inviterID int64, req *dto.CreateInvitationRequest) (*dto.InvitationResponse, error) {
	inviter, err := s.users.GetUserByID(ctx, inviterID)
	if err != nil {
		return nil, err
	}
	if !inviter.CanLogin() {
		return nil, apperrors.ErrAccountDisabled
	}

	role := models.RoleHeadTA
	if req.Role != "" {
		role = models.RoleType(req.Role)
	}
	if !role.Valid() {
		return nil, apperrors.NewBadRequestError("unknown role: " + req.Role)
	}
	if role == models.RoleAdmin && !inviter.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only administrators can invite administrators")
	}

	addr := helpers.NormalizeEmail(req.Email)
	if addr == "" {
		return nil, apperrors.ErrInvalidEmail
	}

	exists, err := s.users.EmailExists(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	now := s.now()
	pending, err := s.invitations.HasPendingInvitation(ctx, addr, now)
	if err != nil {
		return nil, fmt.Errorf("error checking pending invitations: %w", err)
	}
	if pending {
		return nil, apperrors.ErrInvitationAlreadyExists
	}

	inv := &models.Invitation{
		Email:       addr,
		RoleType:    role,
		Token:       auth.NewOpaqueToken(),
		InvitedByID: inviter.ID,
		ExpiresAt:   now.Add(s.tokenTTL),
		CreatedAt:   now,
	}
	id, err := s.invitations.CreateInvitation(ctx, inv)
	if err != nil {
		return nil, err
	}
	inv.ID = id
	metrics.RecordInvitation(string(role))

	s.logger.Info().
		Int64("invitationID", id).
		Int64("inviterID", inviter.ID).
		Str("role", string(role)).
		Msg("Invitation created")

	if s.mailer != nil {
		msg := email.InvitationMessage{
			ToEmail:     inv.Email,
			InviterName: inviter.FullName(),
			Role:        string(role),
			Token:       inv.Token,
			ExpiresAt:   inv.ExpiresAt,
		}
		if err := s.mailer.SendInvitationEmail(msg); err != nil {
			s.logger.Error().Err(err).Int64("invitationID", id).Msg("Failed to send invitation email")
		}
	}

	resp := dto.NewInvitationResponse(inv, now)
	resp.Token = inv.Token
	return &resp, nil
}

// ListMyInvitations lists the invitations sent by inviterID
func (s *invitationServiceImpl) ListMyInvitations(ctx context.Context, inviterID int64) ([]dto.InvitationResponse, error) {
	invs, err := s.invitations.ListInvitationsByInviter(ctx, inviterID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]dto.InvitationResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, dto.NewInvitationResponse(inv, now))
	}
	return out, nil
}

// RevokeInvitation revokes a pending invitation. The inviter or any admin may revoke.
func (s *invitationServiceImpl) RevokeInvitation(ctx context.Context, actorID, invitationID int64) error {
	inv, err := s.invitations.GetInvitationByID(ctx, invitationID)
	if err != nil {
		return err
	}

	if inv.InvitedByID != actorID {
		actor, err := s.users.GetUserByID(ctx, actorID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() {
			return apperrors.NewForbiddenError("only the inviter or an administrator can revoke this invitation")
		}
	}

	if err := checkInvitationUsable(inv, s.now()); err != nil {
		return err
	}

	return s.invitations.Revoke(ctx, inv.ID, s.now())
}

// PreviewInvitation shows who an invitation is for before the invitee signs up
func (s *invitationServiceImpl) PreviewInvitation(ctx context.Context, token string) (*dto.InvitationPreviewResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.ErrInvitationNotFound
	}

	inv, err := s.invitations.GetInvitationByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := checkInvitationUsable(inv, s.now()); err != nil {
		return nil, err
	}

	preview := &dto.InvitationPreviewResponse{
		Email:     inv.Email,
		Role:      string(inv.RoleType),
		ExpiresAt: inv.ExpiresAt,
	}
	if inviter, err := s.users.GetUserByID(ctx, inv.InvitedByID); err == nil {
		preview.InvitedBy = inviter.FullName()
	}
	return preview, nil
}

// Signup accepts an invitation and creates the invitee's account. The inviter becomes
// the new user's parent in the invitation tree.
func (s *invitationServiceImpl) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if !validation.ValidName(firstName) || !validation.ValidName(lastName) {
		return nil, fmt.Errorf("%w: first and last name are required", apperrors.ErrValidationFailed)
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("password hashing error: %w", err)
	}

	var user *models.User
	err = s.store.RunSignupTx(ctx, func(ctx context.Context, tx repositories.SignupTx) error {
		inv, err := tx.GetInvitationByTokenForUpdate(ctx, req.Token)
		if err != nil {
			return err
		}
		now := s.now()
		if err := checkInvitationUsable(inv, now); err != nil {
			return err
		}

		exists, err := tx.EmailExists(ctx, inv.Email)
		if err != nil {
			return fmt.Errorf("error checking email: %w", err)
		}
		if exists {
			return apperrors.ErrEmailAlreadyExists
		}

		inviterID := inv.InvitedByID
		user = &models.User{
			Email:       inv.Email,
			Password:    hashed,
			FirstName:   firstName,
			LastName:    lastName,
			RoleType:    inv.RoleType,
			InvitedByID: &inviterID,
			IsActive:    true,
		}
		if user.ID, err = tx.CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.MarkAccepted(ctx, inv.ID, user.ID, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("userID", user.ID).
		Int64("invitedByID", *user.InvitedByID).
		Msg("User signed up from invitation")

	tokens, err := s.tokens.IssueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	resp := &dto.SignupResponse{
		AuthResponse:    dto.AuthResponse{Token: *tokens, User: dto.NewUserResponse(user)},
		ClaimCandidates: []dto.UserResponse{},
	}

	candidates, err := s.claims.FindClaimCandidates(ctx, user.ID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to look up claim candidates")
		return resp, nil
	}
	resp.ClaimCandidates = dto.NewUserResponses(candidates)
	return resp, nil
}

// checkInvitationUsable returns the error matching a non-pending invitation
func checkInvitationUsable(inv *models.Invitation, now time.Time) error {
	switch inv.Status(now) {
	case models.InvitationAccepted:
		return apperrors.ErrInvitationUsed
	case models.InvitationRevoked:
		return apperrors.ErrInvitationRevoked
	case models.InvitationExpired:
		return apperrors.ErrInvitationExpired
	}
	return nil
}

