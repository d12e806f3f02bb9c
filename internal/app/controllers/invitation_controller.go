package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/app/services"
	"github.com/yigit/headta/internal/middleware"
)

// InvitationController handles invitations sent by signed-in users
type InvitationController struct {
	invitationService services.InvitationService
}

// NewInvitationController creates a new InvitationController
func NewInvitationController(invitationService services.InvitationService) *InvitationController {
	return &InvitationController{invitationService: invitationService}
}

// CreateInvitation invites a new head TA or admin
// @Summary Invite a user
// @Tags invitations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateInvitationRequest true "Invitation"
// @Success 201 {object} dto.APIResponse{data=dto.InvitationResponse}
// @Failure 403 {object} dto.ErrorResponse "Only admins can invite admins"
// @Failure 409 {object} dto.ErrorResponse "Email registered or invitation pending"
// @Router /invitations [post]
func (c *InvitationController) CreateInvitation(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateInvitationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	inv, err := c.invitationService.CreateInvitation(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, inv)
}

// ListMyInvitations lists invitations sent by the caller
// @Summary My invitations
// @Tags invitations
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.InvitationResponse}
// @Router /invitations [get]
func (c *InvitationController) ListMyInvitations(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	invs, err := c.invitationService.ListMyInvitations(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, invs)
}

// RevokeInvitation revokes a pending invitation
// @Summary Revoke invitation
// @Tags invitations
// @Security BearerAuth
// @Param id path int true "Invitation ID"
// @Success 200 {object} dto.APIResponse
// @Router /invitations/{id} [delete]
func (c *InvitationController) RevokeInvitation(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "Invitation")
	if !ok {
		return
	}

	if err := c.invitationService.RevokeInvitation(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Invitation revoked")
}
