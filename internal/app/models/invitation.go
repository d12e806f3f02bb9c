package models

import "time"

// Invitation lets an existing user bring a new head TA or admin into the directory.
// Accepting it at signup records the inviter as the new user's InvitedByID.
type Invitation struct {
	ID             int64      `json:"id" db:"id"`
	Email          string     `json:"email" db:"email"`
	RoleType       RoleType   `json:"role" db:"role_type"`
	Token          string     `json:"-" db:"token"`
	InvitedByID    int64      `json:"invitedById" db:"invited_by_id"`
	ExpiresAt      time.Time  `json:"expiresAt" db:"expires_at"`
	AcceptedAt     *time.Time `json:"acceptedAt,omitempty" db:"accepted_at"`
	AcceptedUserID *int64     `json:"acceptedUserId,omitempty" db:"accepted_user_id"`
	RevokedAt      *time.Time `json:"revokedAt,omitempty" db:"revoked_at"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`

	InvitedBy *User `json:"invitedBy,omitempty"`
}

// InvitationStatus is derived from the timestamps, never stored
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRevoked  InvitationStatus = "revoked"
	InvitationExpired  InvitationStatus = "expired"
)

// Status derives the invitation state at time now
func (i *Invitation) Status(now time.Time) InvitationStatus {
	switch {
	case i.AcceptedAt != nil:
		return InvitationAccepted
	case i.RevokedAt != nil:
		return InvitationRevoked
	case !now.Before(i.ExpiresAt):
		return InvitationExpired
	default:
		return InvitationPending
	}
}
