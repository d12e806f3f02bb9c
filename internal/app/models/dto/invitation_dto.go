package dto

import (
	"time"

	"github.com/yigit/headta/internal/app/models"
)

// CreateInvitationRequest invites a new person by email
type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"omitempty,oneof=head_ta admin"`
}

// InvitationResponse describes an invitation to its inviter
type InvitationResponse struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	Status         string     `json:"status" example:"pending" enums:"pending,accepted,revoked,expired"`
	InvitedByID    int64      `json:"invitedById"`
	ExpiresAt      time.Time  `json:"expiresAt"`
	AcceptedAt     *time.Time `json:"acceptedAt,omitempty"`
	AcceptedUserID *int64     `json:"acceptedUserId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	// Token is only returned once, to the inviter, at creation time
	Token string `json:"token,omitempty"`
}

// NewInvitationResponse maps an invitation evaluated at now
func NewInvitationResponse(inv *models.Invitation, now time.Time) InvitationResponse {
	return InvitationResponse{
		ID:             inv.ID,
		Email:          inv.Email,
		Role:           string(inv.RoleType),
		Status:         string(inv.Status(now)),
		InvitedByID:    inv.InvitedByID,
		ExpiresAt:      inv.ExpiresAt,
		AcceptedAt:     inv.AcceptedAt,
		AcceptedUserID: inv.AcceptedUserID,
		CreatedAt:      inv.CreatedAt,
	}
}

// InvitationPreviewResponse is the public view of an invitation looked up by token
type InvitationPreviewResponse struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	InvitedBy string    `json:"invitedBy"`
	ExpiresAt time.Time `json:"expiresAt"`
}
