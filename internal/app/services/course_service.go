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

// CourseStore is the course persistence surface
type CourseStore interface {
	CreateCourse(ctx context.Context, course *models.Course) (int64, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	GetAllCourses(ctx context.Context) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id int64) error
}

// CourseService defines the interface for course operations
type CourseService interface {
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	GetAllCourses(ctx context.Context) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

type courseServiceImpl struct {
	courseRepo CourseStore
	logger     zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo CourseStore, logger zerolog.Logger) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// NormalizeCourseCode upper-cases a course code and collapses inner whitespace,
// so "cs  101" and "CS 101" name the same course
func NormalizeCourseCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), " "))
}

func buildCourse(code, title, description string) (*models.Course, error) {
	course := &models.Course{
		Code:        NormalizeCourseCode(code),
		Title:       strings.TrimSpace(title),
		Description: helpers.StringPtrOrNil(description),
	}
	codeOK := validation.NewStringValidation(course.Code).
		WithMaxLength(validation.CourseCodeMaxLength).
		WithPattern(validation.CompiledPatterns.CourseCode).
		Validate()
	if !codeOK {
		return nil, fmt.Errorf("%w: course code must look like \"CS 101\"", apperrors.ErrValidationFailed)
	}
	if !validation.NewStringValidation(course.Title).WithMaxLength(validation.CourseTitleMaxLength).InRunes().Validate() {
		return nil, fmt.Errorf("%w: course title is required", apperrors.ErrValidationFailed)
	}
	return course, nil
}

// CreateCourse creates a new course
func (s *courseServiceImpl) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	course, err := buildCourse(req.Code, req.Title, req.Description)
	if err != nil {
		return nil, err
	}

	id, err := s.courseRepo.CreateCourse(ctx, course)
	if err != nil {
		return nil, err
	}
	course.ID = id

	s.logger.Info().Int64("courseID", id).Str("code", course.Code).Msg("Course created")
	return course, nil
}

// GetCourseByID retrieves a course by ID
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	return s.courseRepo.GetCourseByID(ctx, id)
}

// GetAllCourses retrieves all courses
func (s *courseServiceImpl) GetAllCourses(ctx context.Context) ([]*models.Course, error) {
	return s.courseRepo.GetAllCourses(ctx)
}

// UpdateCourse updates a course
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	existing, err := s.courseRepo.GetCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course, err := buildCourse(req.Code, req.Title, req.Description)
	if err != nil {
		return nil, err
	}
	course.ID = existing.ID
	course.CreatedAt = existing.CreatedAt

	if err := s.courseRepo.UpdateCourse(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse deletes a course without offerings
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.courseRepo.DeleteCourse(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}
