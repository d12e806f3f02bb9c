package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/pkg/apperrors"
	"github.com/yigit/headta/internal/pkg/helpers"
	"github.com/yigit/headta/internal/pkg/validation"
)

// AssignmentStore is the TA assignment persistence surface
type AssignmentStore interface {
	CreateAssignment(ctx context.Context, a *models.TAAssignment) (int64, error)
	GetAssignmentByID(ctx context.Context, id int64) (*models.TAAssignment, error)
	DeleteAssignment(ctx context.Context, id int64) error
	ListAssignmentsByUser(ctx context.Context, userID int64) ([]*models.TAAssignment, error)
	ListAssignmentsByOffering(ctx context.Context, offeringID int64) ([]*models.TAAssignment, error)
}

// UserLookup fetches a single user
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// AssignmentService defines the interface for TA assignment operations
type AssignmentService interface {
	CreateAssignment(ctx context.Context, actorID int64, req *dto.CreateAssignmentRequest) (*models.TAAssignment, error)
	ListAssignmentsByUser(ctx context.Context, userID int64) ([]*models.TAAssignment, error)
	ListAssignmentsByOffering(ctx context.Context, offeringID int64) ([]*models.TAAssignment, error)
	DeleteAssignment(ctx context.Context, actorID, assignmentID int64) error
}

type assignmentServiceImpl struct {
	assignmentRepo AssignmentStore
	offeringRepo   OfferingStore
	users          UserLookup
	logger         zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(assignmentRepo AssignmentStore, offeringRepo OfferingStore, users UserLookup, logger zerolog.Logger) AssignmentService {
	return &assignmentServiceImpl{
		assignmentRepo: assignmentRepo,
		offeringRepo:   offeringRepo,
		users:          users,
		logger:         logger,
	}
}

// CreateAssignment records a head TA assignment. Users record their own; admins may record
// one for anybody, including placeholder profiles.
func (s *assignmentServiceImpl) CreateAssignment(ctx context.Context, actorID int64, req *dto.CreateAssignmentRequest) (*models.TAAssignment, error) {
	ownerID := actorID
	if req.UserID != nil {
		ownerID = *req.UserID
	}

	if ownerID != actorID {
		actor, err := s.users.GetUserByID(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !actor.IsAdmin() {
			return nil, apperrors.NewForbiddenError("only administrators can record assignments for other users")
		}
	}

	owner, err := s.users.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.ClaimedByID != nil {
		return nil, apperrors.NewBadRequestError("profile has been merged into another user")
	}

	if req.HoursPerWeek != nil && !validation.NewNumericValidation(*req.HoursPerWeek).WithMin(0).WithMax(validation.MaxHoursPerWeek).Validate() {
		return nil, fmt.Errorf("%w: hours per week must be between 0 and %d", apperrors.ErrValidationFailed, validation.MaxHoursPerWeek)
	}

	offering, err := s.offeringRepo.GetOfferingByID(ctx, req.CourseOfferingID)
	if err != nil {
		return nil, err
	}

	a := &models.TAAssignment{
		UserID:           owner.ID,
		CourseOfferingID: offering.ID,
		HoursPerWeek:     req.HoursPerWeek,
		Notes:            helpers.StringPtrOrNil(req.Notes),
		Offering:         offering,
	}
	id, err := s.assignmentRepo.CreateAssignment(ctx, a)
	if err != nil {
		return nil, err
	}
	a.ID = id

	s.logger.Info().
		Int64("assignmentID", id).
		Int64("userID", owner.ID).
		Int64("offeringID", offering.ID).
		Int64("actorID", actorID).
		Msg("TA assignment recorded")
	return a, nil
}

// ListAssignmentsByUser lists a user's assignments, newest semester first
func (s *assignmentServiceImpl) ListAssignmentsByUser(ctx context.Context, userID int64) ([]*models.TAAssignment, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.assignmentRepo.ListAssignmentsByUser(ctx, userID)
}

// ListAssignmentsByOffering lists the head TAs of an offering
func (s *assignmentServiceImpl) ListAssignmentsByOffering(ctx context.Context, offeringID int64) ([]*models.TAAssignment, error) {
	if _, err := s.offeringRepo.GetOfferingByID(ctx, offeringID); err != nil {
		return nil, err
	}
	return s.assignmentRepo.ListAssignmentsByOffering(ctx, offeringID)
}

// DeleteAssignment deletes an assignment. Only its owner or an admin may delete it.
func (s *assignmentServiceImpl) DeleteAssignment(ctx context.Context, actorID, assignmentID int64) error {
	a, err := s.assignmentRepo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return err
	}

	if a.UserID != actorID {
		actor, err := s.users.GetUserByID(ctx, actorID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() {
			return apperrors.NewForbiddenError("only the owner or an administrator can delete this assignment")
		}
	}

	if err := s.assignmentRepo.DeleteAssignment(ctx, assignmentID); err != nil {
		return err
	}
	s.logger.Info().Int64("assignmentID", assignmentID).Int64("actorID", actorID).Msg("TA assignment deleted")
	return nil
}
