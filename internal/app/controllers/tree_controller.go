package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/app/services"
	"github.com/yigit/headta/internal/middleware"
)

// TreeController serves the invitation tree
type TreeController struct {
	treeService services.InvitationTreeService
}

// NewTreeController creates a new TreeController
func NewTreeController(treeService services.InvitationTreeService) *TreeController {
	return &TreeController{treeService: treeService}
}

// GetInvitationTree returns the invitation forest, or one tree when rootUserId is set
// @Summary Invitation tree
// @Tags invitations
// @Security BearerAuth
// @Produce json
// @Param rootUserId query int false "Restrict to the tree rooted at this user"
// @Success 200 {object} dto.APIResponse{data=dto.InvitationForestResponse}
// @Failure 404 {object} dto.ErrorResponse "Root user not found"
// @Router /invitation-tree [get]
func (c *TreeController) GetInvitationTree(ctx *gin.Context) {
	var rootUserID *int64
	if raw := ctx.Query("rootUserId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid root user ID").WithField("rootUserId")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		rootUserID = &id
	}

	forest, err := c.treeService.BuildForest(ctx.Request.Context(), rootUserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, services.NewForestResponse(forest))
}
