package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/app/services"
	"github.com/yigit/headta/internal/middleware"
)

// AdminController handles administrator-only operations
type AdminController struct {
	userService  services.UserService
	claimService services.ClaimService
	statsService services.StatsService
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(
	userService services.UserService,
	claimService services.ClaimService,
	statsService services.StatsService,
	logger zerolog.Logger,
) *AdminController {
	return &AdminController{
		userService:  userService,
		claimService: claimService,
		statsService: statsService,
		logger:       logger,
	}
}

// GetStats returns directory counts
// @Summary Directory statistics
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminStatsResponse}
// @Router /admin/stats [get]
func (c *AdminController) GetStats(ctx *gin.Context) {
	stats, err := c.statsService.GetAdminStats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, stats)
}

// CreatePlaceholder creates an unclaimed profile for a head TA who has not signed up
// @Summary Create placeholder profile
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreatePlaceholderRequest true "Placeholder"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse}
// @Router /admin/placeholders [post]
func (c *AdminController) CreatePlaceholder(ctx *gin.Context) {
	adminID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreatePlaceholderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	user, err := c.userService.CreatePlaceholder(ctx.Request.Context(), adminID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, dto.NewUserResponse(user))
}

// ListPlaceholders lists unclaimed profiles
// @Summary List placeholder profiles
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse}
// @Router /admin/placeholders [get]
func (c *AdminController) ListPlaceholders(ctx *gin.Context) {
	users, err := c.userService.ListUnclaimed(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewUserResponses(users))
}

// ClaimOnBehalf merges a placeholder into a registered user without the name check
// @Summary Claim a profile for a user
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AdminClaimRequest true "Claim"
// @Success 200 {object} dto.APIResponse{data=dto.ClaimResultResponse}
// @Router /admin/claims [post]
func (c *AdminController) ClaimOnBehalf(ctx *gin.Context) {
	adminID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.AdminClaimRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	result, err := c.claimService.AdminClaimProfile(ctx.Request.Context(), adminID, req.ClaimingUserID, req.UnclaimedUserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("adminID", adminID).Int64("claimingUserID", req.ClaimingUserID).
		Int64("unclaimedUserID", req.UnclaimedUserID).Msg("Admin claimed profile on behalf of user")
	respond(ctx, http.StatusOK, newClaimResultResponse(result))
}

// ActivateUser re-enables an account
// @Summary Activate user
// @Tags admin
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse
// @Router /admin/users/{id}/activate [post]
func (c *AdminController) ActivateUser(ctx *gin.Context) {
	c.setActive(ctx, true)
}

// DeactivateUser disables an account
// @Summary Deactivate user
// @Tags admin
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse
// @Router /admin/users/{id}/deactivate [post]
func (c *AdminController) DeactivateUser(ctx *gin.Context) {
	c.setActive(ctx, false)
}

func (c *AdminController) setActive(ctx *gin.Context, active bool) {
	adminID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "User")
	if !ok {
		return
	}

	if err := c.userService.SetActive(ctx.Request.Context(), adminID, id, active); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if active {
		respondMessage(ctx, "User activated")
		return
	}
	respondMessage(ctx, "User deactivated")
}
