package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/app/repositories"
	"github.com/yigit/headta/internal/pkg/apperrors"
	"github.com/yigit/headta/internal/pkg/email"
	"github.com/yigit/headta/internal/pkg/metrics"
)

// Claim paths, used for logging and metrics
const (
	ClaimPathSelf  = "self"
	ClaimPathAdmin = "admin"
)

// ClaimStore runs a claim inside one database transaction
type ClaimStore interface {
	RunClaimTx(ctx context.Context, fn func(ctx context.Context, tx repositories.ClaimTx) error) error
}

// ClaimCandidateStore finds placeholder profiles outside a transaction
type ClaimCandidateStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUnclaimed(ctx context.Context) ([]*models.User, error)
}

// ClaimResult describes a completed claim
type ClaimResult struct {
	ClaimedProfileID       int64
	ClaimingUserID         int64
	AssignmentsTransferred int64
	Transferred            bool
}

// ClaimService merges placeholder profiles into registered users
type ClaimService interface {
	// ClaimProfile is the self-service path: the caller must pass the name check.
	ClaimProfile(ctx context.Context, claimerID, targetID int64) (*ClaimResult, error)
	// AdminClaimProfile lets an administrator merge any placeholder into any registered
	// user. It skips the name check.
	AdminClaimProfile(ctx context.Context, adminID, claimerID, targetID int64) (*ClaimResult, error)
	// FindClaimCandidates lists placeholders the user could claim
	FindClaimCandidates(ctx context.Context, userID int64) ([]*models.User, error)
}

type claimServiceImpl struct {
	store      ClaimStore
	candidates ClaimCandidateStore
	mailer     email.EmailService
	logger     zerolog.Logger
	now        func() time.Time
}

// NewClaimService creates a new claim service. mailer may be nil.
func NewClaimService(store ClaimStore, candidates ClaimCandidateStore, mailer email.EmailService, logger zerolog.Logger) ClaimService {
	return &claimServiceImpl{
		store:      store,
		candidates: candidates,
		mailer:     mailer,
		logger:     logger,
		now:        time.Now,
	}
}

// ClaimProfile claims targetID for claimerID after checking their names match
func (s *claimServiceImpl) ClaimProfile(ctx context.Context, claimerID, targetID int64) (*ClaimResult, error) {
	return s.claim(ctx, ClaimPathSelf, claimerID, targetID, true)
}

// AdminClaimProfile claims targetID for claimerID on behalf of adminID without a name check
func (s *claimServiceImpl) AdminClaimProfile(ctx context.Context, adminID, claimerID, targetID int64) (*ClaimResult, error) {
	s.logger.Info().
		Int64("adminID", adminID).
		Int64("claimerID", claimerID).
		Int64("targetID", targetID).
		Msg("Administrator claim requested")
	return s.claim(ctx, ClaimPathAdmin, claimerID, targetID, false)
}

func (s *claimServiceImpl) claim(ctx context.Context, path string, claimerID, targetID int64, checkName bool) (*ClaimResult, error) {
	var (
		result  *ClaimResult
		claimer *models.User
		target  *models.User
	)

	err := s.store.RunClaimTx(ctx, func(ctx context.Context, tx repositories.ClaimTx) error {
		var err error
		if claimer, err = tx.GetUserByID(ctx, claimerID); err != nil {
			return err
		}
		// The lock serializes competing claims on the same placeholder; the state
		// checks below must read the locked row.
		if target, err = tx.GetUserByIDForUpdate(ctx, targetID); err != nil {
			return err
		}

		if !target.IsUnclaimed {
			return apperrors.ErrProfileAlreadyClaimed
		}
		if claimer.ID == target.ID {
			return apperrors.ErrSelfClaim
		}
		if claimer.IsUnclaimed {
			return apperrors.NewBadRequestError("the claiming user must be a registered account")
		}
		if checkName && !VerifyNameMatch(claimer.FirstName, claimer.LastName, target.FirstName, target.LastName) {
			return apperrors.ErrNameMismatch
		}

		moved, err := tx.ReassignAssignments(ctx, target.ID, claimer.ID)
		if err != nil {
			return err
		}
		if err := tx.MarkClaimed(ctx, target.ID, claimer.ID, s.now()); err != nil {
			return err
		}

		result = &ClaimResult{
			ClaimedProfileID:       target.ID,
			ClaimingUserID:         claimer.ID,
			AssignmentsTransferred: moved,
			Transferred:            moved > 0,
		}
		return nil
	})
	if err != nil {
		metrics.RecordClaim(path, claimOutcome(err), 0)
		s.logger.Warn().Err(err).
			Str("path", path).
			Int64("claimerID", claimerID).
			Int64("targetID", targetID).
			Msg("Profile claim rejected")
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("error claiming profile: %w", err)
	}

	metrics.RecordClaim(path, metrics.ClaimSucceeded, result.AssignmentsTransferred)
	s.logger.Info().
		Str("path", path).
		Int64("claimerID", claimerID).
		Int64("targetID", targetID).
		Int64("assignmentsTransferred", result.AssignmentsTransferred).
		Msg("Profile claimed")

	if s.mailer != nil {
		if err := s.mailer.SendClaimConfirmationEmail(claimer.Email, claimer.FirstName, target.FullName(), result.AssignmentsTransferred); err != nil {
			s.logger.Warn().Err(err).Int64("claimerID", claimerID).Msg("Failed to send claim confirmation email")
		}
	}

	return result, nil
}

// FindClaimCandidates returns the unclaimed profiles that pass VerifyNameMatch against
// the user's name. Names are compared after normalization, so the filter runs here and
// not in SQL.
func (s *claimServiceImpl) FindClaimCandidates(ctx context.Context, userID int64) ([]*models.User, error) {
	user, err := s.candidates.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	unclaimed, err := s.candidates.ListUnclaimed(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing claim candidates: %w", err)
	}

	matches := make([]*models.User, 0, len(unclaimed))
	for _, u := range unclaimed {
		if u.ID == user.ID {
			continue
		}
		if VerifyNameMatch(user.FirstName, user.LastName, u.FirstName, u.LastName) {
			matches = append(matches, u)
		}
	}
	sortByCreation(matches)
	return matches, nil
}

func claimOutcome(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrProfileAlreadyClaimed):
		return metrics.ClaimAlreadyClaimed
	case errors.Is(err, apperrors.ErrNameMismatch):
		return metrics.ClaimNameMismatch
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return metrics.ClaimNotFound
	default:
		return metrics.ClaimFailed
	}
}

// isDomainError reports whether err is one of the application's typed failures
// rather than a storage error
func isDomainError(err error) bool {
	var custom *apperrors.CustomError
	return errors.As(err, &custom) || apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrProfileAlreadyClaimed,
		apperrors.ErrNameMismatch,
		apperrors.ErrSelfClaim,
		apperrors.ErrValidationFailed,
	)
}
