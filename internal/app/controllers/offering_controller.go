package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/app/services"
	"github.com/yigit/headta/internal/middleware"
)

// OfferingController handles course offerings and their head TA assignments
type OfferingController struct {
	offeringService   services.OfferingService
	assignmentService services.AssignmentService
}

// NewOfferingController creates a new OfferingController
func NewOfferingController(offeringService services.OfferingService, assignmentService services.AssignmentService) *OfferingController {
	return &OfferingController{
		offeringService:   offeringService,
		assignmentService: assignmentService,
	}
}

// CreateOffering records a course being taught in a semester
// @Summary Create offering
// @Tags offerings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateOfferingRequest true "Offering"
// @Success 201 {object} dto.APIResponse{data=models.CourseOffering}
// @Failure 409 {object} dto.ErrorResponse "Course already offered that semester"
// @Router /offerings [post]
func (c *OfferingController) CreateOffering(ctx *gin.Context) {
	var req dto.CreateOfferingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	offering, err := c.offeringService.CreateOffering(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, offering)
}

// GetOffering returns an offering by ID
// @Summary Get offering
// @Tags offerings
// @Security BearerAuth
// @Produce json
// @Param id path int true "Offering ID"
// @Success 200 {object} dto.APIResponse{data=models.CourseOffering}
// @Router /offerings/{id} [get]
func (c *OfferingController) GetOffering(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Offering")
	if !ok {
		return
	}

	offering, err := c.offeringService.GetOfferingByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, offering)
}

// GetAllOfferings lists offerings, newest first
// @Summary List offerings
// @Tags offerings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.CourseOffering}
// @Router /offerings [get]
func (c *OfferingController) GetAllOfferings(ctx *gin.Context) {
	offerings, err := c.offeringService.ListOfferings(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, offerings)
}

// DeleteOffering removes an offering without assignments
// @Summary Delete offering
// @Tags offerings
// @Security BearerAuth
// @Param id path int true "Offering ID"
// @Success 200 {object} dto.APIResponse
// @Router /offerings/{id} [delete]
func (c *OfferingController) DeleteOffering(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Offering")
	if !ok {
		return
	}

	if err := c.offeringService.DeleteOffering(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Offering deleted")
}

// GetOfferingAssignments lists the head TAs of an offering
// @Summary Offering assignments
// @Tags offerings
// @Security BearerAuth
// @Produce json
// @Param id path int true "Offering ID"
// @Success 200 {object} dto.APIResponse{data=[]models.TAAssignment}
// @Router /offerings/{id}/assignments [get]
func (c *OfferingController) GetOfferingAssignments(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Offering")
	if !ok {
		return
	}

	assignments, err := c.assignmentService.ListAssignmentsByOffering(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, assignments)
}

// CreateAssignment records a head TA for an offering. userId defaults to the caller.
// @Summary Create assignment
// @Tags assignments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAssignmentRequest true "Assignment"
// @Success 201 {object} dto.APIResponse{data=models.TAAssignment}
// @Failure 403 {object} dto.ErrorResponse "Only admins can assign other users"
// @Router /assignments [post]
func (c *OfferingController) CreateAssignment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	assignment, err := c.assignmentService.CreateAssignment(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, assignment)
}

// DeleteAssignment removes an assignment
// @Summary Delete assignment
// @Tags assignments
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse
// @Router /assignments/{id} [delete]
func (c *OfferingController) DeleteAssignment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "Assignment")
	if !ok {
		return
	}

	if err := c.assignmentService.DeleteAssignment(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Assignment deleted")
}
