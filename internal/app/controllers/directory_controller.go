package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/app/services"
	"github.com/yigit/headta/internal/middleware"
	"github.com/yigit/headta/internal/pkg/helpers"
)

// DirectoryController serves directory browse and search
type DirectoryController struct {
	userService      services.UserService
	directoryService services.DirectoryService
}

// NewDirectoryController creates a new DirectoryController
func NewDirectoryController(userService services.UserService, directoryService services.DirectoryService) *DirectoryController {
	return &DirectoryController{
		userService:      userService,
		directoryService: directoryService,
	}
}

// ListUsers pages through active users
// @Summary Browse directory
// @Tags directory
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Param role query string false "Role filter" Enums(head_ta, admin)
// @Success 200 {object} dto.APIResponse{data=dto.UserListResponse}
// @Router /directory/users [get]
func (c *DirectoryController) ListUsers(ctx *gin.Context) {
	var filter dto.UserFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	resp, err := c.userService.ListDirectory(ctx.Request.Context(), &filter, helpers.ParsePaginationParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// Search fuzzy-searches names, emails and TA'd course codes
// @Summary Search directory
// @Tags directory
// @Security BearerAuth
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {object} dto.APIResponse{data=[]dto.DirectorySearchResult}
// @Router /directory/search [get]
func (c *DirectoryController) Search(ctx *gin.Context) {
	var req dto.DirectorySearchRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	results, err := c.directoryService.Search(ctx.Request.Context(), req.Query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, results)
}

// HeadTAsForCourse lists the head TAs of every offering of a course
// @Summary Head TAs of a course
// @Tags directory
// @Security BearerAuth
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseHeadTAResponse}
// @Router /directory/courses/{id}/head-tas [get]
func (c *DirectoryController) HeadTAsForCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Course")
	if !ok {
		return
	}

	out, err := c.directoryService.HeadTAsForCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, out)
}
