package dto

import (
	"time"

	"github.com/yigit/headta/internal/app/models"
)

// UserResponse represents public user information
type UserResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Role        string     `json:"role"`
	InvitedByID *int64     `json:"invitedById,omitempty"`
	IsUnclaimed bool       `json:"isUnclaimed"`
	ClaimedByID *int64     `json:"claimedById,omitempty"`
	ClaimedAt   *time.Time `json:"claimedAt,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// NewUserResponse maps a user model to its response shape
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        string(u.RoleType),
		InvitedByID: u.InvitedByID,
		IsUnclaimed: u.IsUnclaimed,
		ClaimedByID: u.ClaimedByID,
		ClaimedAt:   u.ClaimedAt,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
}

// NewUserResponses maps a slice of users
func NewUserResponses(users []*models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

// UserFilterRequest represents directory browse filters
type UserFilterRequest struct {
	Role string `form:"role" binding:"omitempty,oneof=head_ta admin"`
}

// UserListResponse represents a list of users with pagination
type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination PaginationInfo `json:"pagination"`
}

// CreatePlaceholderRequest creates an unclaimed profile to anchor historical assignments
type CreatePlaceholderRequest struct {
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Email     string `json:"email" binding:"omitempty,email"`
}
