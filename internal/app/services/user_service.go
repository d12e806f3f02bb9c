package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/app/repositories"
	"github.com/yigit/headta/internal/pkg/apperrors"
	"github.com/yigit/headta/internal/pkg/helpers"
	"github.com/yigit/headta/internal/pkg/validation"
)

// placeholderEmailDomain is reserved (RFC 2606) so synthetic addresses never deliver
const placeholderEmailDomain = "placeholder.invalid"

// UserStore is the user persistence surface of UserService
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context, f repositories.UserFilter, page helpers.Page) ([]*models.User, error)
	CountUsers(ctx context.Context, f repositories.UserFilter) (int64, error)
	ListUnclaimed(ctx context.Context) ([]*models.User, error)
	SetActive(ctx context.Context, userID int64, active bool) error
}

// UserService defines the interface for user operations
type UserService interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListDirectory(ctx context.Context, filter *dto.UserFilterRequest, page helpers.Page) (*dto.UserListResponse, error)
	ListUnclaimed(ctx context.Context) ([]*models.User, error)
	CreatePlaceholder(ctx context.Context, adminID int64, req *dto.CreatePlaceholderRequest) (*models.User, error)
	SetActive(ctx context.Context, adminID, userID int64, active bool) error
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo UserStore
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo UserStore, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetUserByID retrieves a user by ID
func (s *userServiceImpl) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: user ID must be positive", apperrors.ErrValidationFailed)
	}
	return s.userRepo.GetUserByID(ctx, id)
}

// ListDirectory returns one page of active, claimed users
func (s *userServiceImpl) ListDirectory(ctx context.Context, filter *dto.UserFilterRequest, page helpers.Page) (*dto.UserListResponse, error) {
	f := repositories.UserFilter{OnlyActive: true}
	if filter != nil && filter.Role != "" {
		f.Role = models.RoleType(filter.Role)
		if !f.Role.Valid() {
			return nil, apperrors.NewBadRequestError("unknown role: " + filter.Role)
		}
	}

	total, err := s.userRepo.CountUsers(ctx, f)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListUsers(ctx, f, page)
	if err != nil {
		return nil, err
	}

	return &dto.UserListResponse{
		Users:      dto.NewUserResponses(users),
		Pagination: helpers.NewPaginationInfo(total, page),
	}, nil
}

// ListUnclaimed lists every placeholder profile
func (s *userServiceImpl) ListUnclaimed(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.ListUnclaimed(ctx)
}

// CreatePlaceholder creates an unclaimed profile on behalf of adminID. The admin is
// recorded as the inviter so the placeholder hangs under them in the invitation tree.
func (s *userServiceImpl) CreatePlaceholder(ctx context.Context, adminID int64, req *dto.CreatePlaceholderRequest) (*models.User, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if !validation.ValidName(firstName) || !validation.ValidName(lastName) {
		return nil, fmt.Errorf("%w: first and last name are required", apperrors.ErrValidationFailed)
	}

	addr := helpers.NormalizeEmail(req.Email)
	if addr == "" {
		addr = PlaceholderEmail()
	} else {
		exists, err := s.userRepo.EmailExists(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("error checking email: %w", err)
		}
		if exists {
			return nil, apperrors.ErrEmailAlreadyExists
		}
	}

	user := &models.User{
		Email:       addr,
		FirstName:   firstName,
		LastName:    lastName,
		RoleType:    models.RoleHeadTA,
		IsUnclaimed: true,
		IsActive:    true,
	}
	if adminID > 0 {
		user.InvitedByID = &adminID
	}

	id, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	s.logger.Info().
		Int64("userID", id).
		Int64("adminID", adminID).
		Str("lastName", lastName).
		Msg("Placeholder profile created")

	return user, nil
}

// SetActive enables or disables an account. Admins cannot disable themselves.
func (s *userServiceImpl) SetActive(ctx context.Context, adminID, userID int64, active bool) error {
	if adminID == userID && !active {
		return apperrors.NewBadRequestError("administrators cannot deactivate their own account")
	}
	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return err
	}
	s.logger.Info().Int64("adminID", adminID).Int64("userID", userID).Bool("active", active).Msg("User active flag changed")
	return nil
}

// PlaceholderEmail returns a unique undeliverable address for a placeholder profile
func PlaceholderEmail() string {
	return "unclaimed+" + uuid.NewString() + "@" + placeholderEmailDomain
}
