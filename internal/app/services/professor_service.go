package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/pkg/apperrors"
	"github.com/yigit/headta/internal/pkg/helpers"
	"github.com/yigit/headta/internal/pkg/validation"
)

// ProfessorStore is the professor persistence surface
type ProfessorStore interface {
	CreateProfessor(ctx context.Context, p *models.Professor) (int64, error)
	GetProfessorByID(ctx context.Context, id int64) (*models.Professor, error)
	GetAllProfessors(ctx context.Context) ([]*models.Professor, error)
	UpdateProfessor(ctx context.Context, p *models.Professor) error
	DeleteProfessor(ctx context.Context, id int64) error
}

// ProfessorService defines the interface for professor operations
type ProfessorService interface {
	CreateProfessor(ctx context.Context, req *dto.ProfessorRequest) (*models.Professor, error)
	GetProfessorByID(ctx context.Context, id int64) (*models.Professor, error)
	GetAllProfessors(ctx context.Context) ([]*models.Professor, error)
	UpdateProfessor(ctx context.Context, id int64, req *dto.ProfessorRequest) (*models.Professor, error)
	DeleteProfessor(ctx context.Context, id int64) error
}

type professorServiceImpl struct {
	professorRepo ProfessorStore
	logger        zerolog.Logger
}

// NewProfessorService creates a new ProfessorService
func NewProfessorService(professorRepo ProfessorStore, logger zerolog.Logger) ProfessorService {
	return &professorServiceImpl{
		professorRepo: professorRepo,
		logger:        logger,
	}
}

func buildProfessor(req *dto.ProfessorRequest) (*models.Professor, error) {
	p := &models.Professor{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	if !validation.ValidName(p.FirstName) || !validation.ValidName(p.LastName) {
		return nil, fmt.Errorf("%w: first and last name are required", apperrors.ErrValidationFailed)
	}
	if addr := helpers.NormalizeEmail(req.Email); addr != "" {
		p.Email = &addr
	}
	return p, nil
}

// CreateProfessor creates a professor
func (s *professorServiceImpl) CreateProfessor(ctx context.Context, req *dto.ProfessorRequest) (*models.Professor, error) {
	p, err := buildProfessor(req)
	if err != nil {
		return nil, err
	}

	id, err := s.professorRepo.CreateProfessor(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return p, nil
}

// GetProfessorByID retrieves a professor by ID
func (s *professorServiceImpl) GetProfessorByID(ctx context.Context, id int64) (*models.Professor, error) {
	return s.professorRepo.GetProfessorByID(ctx, id)
}

// GetAllProfessors retrieves all professors
func (s *professorServiceImpl) GetAllProfessors(ctx context.Context) ([]*models.Professor, error) {
	return s.professorRepo.GetAllProfessors(ctx)
}

// UpdateProfessor updates a professor
func (s *professorServiceImpl) UpdateProfessor(ctx context.Context, id int64, req *dto.ProfessorRequest) (*models.Professor, error) {
	existing, err := s.professorRepo.GetProfessorByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := buildProfessor(req)
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt

	if err := s.professorRepo.UpdateProfessor(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProfessor deletes a professor who teaches no offerings
func (s *professorServiceImpl) DeleteProfessor(ctx context.Context, id int64) error {
	return s.professorRepo.DeleteProfessor(ctx, id)
}
