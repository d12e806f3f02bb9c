package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/app/services"
	"github.com/yigit/headta/internal/middleware"
)

// ProfessorController handles professor directory entries
type ProfessorController struct {
	professorService services.ProfessorService
}

// NewProfessorController creates a new ProfessorController
func NewProfessorController(professorService services.ProfessorService) *ProfessorController {
	return &ProfessorController{professorService: professorService}
}

// CreateProfessor adds a professor
// @Summary Create professor
// @Tags professors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ProfessorRequest true "Professor"
// @Success 201 {object} dto.APIResponse{data=models.Professor}
// @Router /professors [post]
func (c *ProfessorController) CreateProfessor(ctx *gin.Context) {
	var req dto.ProfessorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	professor, err := c.professorService.CreateProfessor(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, professor)
}

// GetProfessor returns a professor by ID
// @Summary Get professor
// @Tags professors
// @Security BearerAuth
// @Produce json
// @Param id path int true "Professor ID"
// @Success 200 {object} dto.APIResponse{data=models.Professor}
// @Router /professors/{id} [get]
func (c *ProfessorController) GetProfessor(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Professor")
	if !ok {
		return
	}

	professor, err := c.professorService.GetProfessorByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, professor)
}

// GetAllProfessors lists professors
// @Summary List professors
// @Tags professors
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Professor}
// @Router /professors [get]
func (c *ProfessorController) GetAllProfessors(ctx *gin.Context) {
	professors, err := c.professorService.GetAllProfessors(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, professors)
}

// UpdateProfessor updates a professor
// @Summary Update professor
// @Tags professors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Professor ID"
// @Param request body dto.ProfessorRequest true "Professor"
// @Success 200 {object} dto.APIResponse{data=models.Professor}
// @Router /professors/{id} [put]
func (c *ProfessorController) UpdateProfessor(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Professor")
	if !ok {
		return
	}

	var req dto.ProfessorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	professor, err := c.professorService.UpdateProfessor(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, professor)
}

// DeleteProfessor removes a professor who teaches no offerings
// @Summary Delete professor
// @Tags professors
// @Security BearerAuth
// @Param id path int true "Professor ID"
// @Success 200 {object} dto.APIResponse
// @Router /professors/{id} [delete]
func (c *ProfessorController) DeleteProfessor(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Professor")
	if !ok {
		return
	}

	if err := c.professorService.DeleteProfessor(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Professor deleted")
}
