package dto

// ClaimProfileRequest is sent by a signed-in user claiming a placeholder profile
type ClaimProfileRequest struct {
	UnclaimedUserID int64 `json:"unclaimedUserId" binding:"required,min=1"`
}

// AdminClaimRequest lets an administrator merge a placeholder into any user
type AdminClaimRequest struct {
	ClaimingUserID  int64 `json:"claimingUserId" binding:"required,min=1"`
	UnclaimedUserID int64 `json:"unclaimedUserId" binding:"required,min=1"`
}

// ClaimResultResponse confirms a claim
type ClaimResultResponse struct {
	ClaimedProfileID       int64 `json:"claimedProfileId"`
	ClaimingUserID         int64 `json:"claimingUserId"`
	AssignmentsTransferred int64 `json:"assignmentsTransferred"`
	Transferred            bool  `json:"transferred"`
}
