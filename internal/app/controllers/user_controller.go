package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/app/services"
	"github.com/yigit/headta/internal/middleware"
)

// UserController handles user profiles and profile claims
type UserController struct {
	userService       services.UserService
	claimService      services.ClaimService
	assignmentService services.AssignmentService
	logger            zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(
	userService services.UserService,
	claimService services.ClaimService,
	assignmentService services.AssignmentService,
	logger zerolog.Logger,
) *UserController {
	return &UserController{
		userService:       userService,
		claimService:      claimService,
		assignmentService: assignmentService,
		logger:            logger,
	}
}

// GetUser returns a user by ID
// @Summary Get user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "User")
	if !ok {
		return
	}

	user, err := c.userService.GetUserByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewUserResponse(user))
}

// GetUserAssignments lists a user's head TA history
// @Summary User assignments
// @Tags assignments
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=[]models.TAAssignment}
// @Router /users/{id}/assignments [get]
func (c *UserController) GetUserAssignments(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "User")
	if !ok {
		return
	}

	assignments, err := c.assignmentService.ListAssignmentsByUser(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, assignments)
}

// GetClaimCandidates lists placeholder profiles the caller may claim
// @Summary Claim candidates
// @Tags claims
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse}
// @Router /users/me/claim-candidates [get]
func (c *UserController) GetClaimCandidates(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	candidates, err := c.claimService.FindClaimCandidates(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewUserResponses(candidates))
}

// ClaimProfile claims a placeholder profile for the caller
// @Summary Claim a profile
// @Description Moves the placeholder's TA assignments to the caller. The caller's name must match the placeholder's.
// @Tags claims
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ClaimProfileRequest true "Profile to claim"
// @Success 200 {object} dto.APIResponse{data=dto.ClaimResultResponse}
// @Failure 400 {object} dto.ErrorResponse "Profile already claimed"
// @Failure 403 {object} dto.ErrorResponse "Name does not match"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /users/me/claim [post]
func (c *UserController) ClaimProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.ClaimProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	result, err := c.claimService.ClaimProfile(ctx.Request.Context(), userID, req.UnclaimedUserID)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Int64("targetID", req.UnclaimedUserID).Msg("Profile claim rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, newClaimResultResponse(result))
}

func newClaimResultResponse(r *services.ClaimResult) dto.ClaimResultResponse {
	return dto.ClaimResultResponse{
		ClaimedProfileID:       r.ClaimedProfileID,
		ClaimingUserID:         r.ClaimingUserID,
		AssignmentsTransferred: r.AssignmentsTransferred,
		Transferred:            r.Transferred,
	}
}
