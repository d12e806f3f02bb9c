package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/pkg/semester"
)

// DefaultLookbackYears is how many previous years PredictOffering inspects
const DefaultLookbackYears = 3

// OfferingStore is the course offering persistence surface
type OfferingStore interface {
	CreateOffering(ctx context.Context, o *models.CourseOffering) (int64, error)
	GetOfferingByID(ctx context.Context, id int64) (*models.CourseOffering, error)
	ListOfferingsByCourse(ctx context.Context, courseID int64) ([]*models.CourseOffering, error)
	ListOfferings(ctx context.Context) ([]*models.CourseOffering, error)
	ListOfferedYears(ctx context.Context, courseID int64, term models.Term, fromYear, toYear int) ([]int, error)
	DeleteOffering(ctx context.Context, id int64) error
}

// OfferingService defines the interface for course offering operations
type OfferingService interface {
	CreateOffering(ctx context.Context, req *dto.CreateOfferingRequest) (*models.CourseOffering, error)
	GetOfferingByID(ctx context.Context, id int64) (*models.CourseOffering, error)
	ListOfferings(ctx context.Context) ([]*models.CourseOffering, error)
	ListOfferingsByCourse(ctx context.Context, courseID int64) ([]*models.CourseOffering, error)
	DeleteOffering(ctx context.Context, id int64) error
	// PredictOffering estimates whether a course will run in a semester. An empty
	// semester means the one after the current semester.
	PredictOffering(ctx context.Context, courseID int64, semesterName string) (*dto.OfferingPredictionResponse, error)
}

type offeringServiceImpl struct {
	offeringRepo OfferingStore
	courseRepo   CourseStore
	lookback     int
	logger       zerolog.Logger
	now          func() time.Time
}

// NewOfferingService creates a new OfferingService
func NewOfferingService(offeringRepo OfferingStore, courseRepo CourseStore, logger zerolog.Logger) OfferingService {
	return &offeringServiceImpl{
		offeringRepo: offeringRepo,
		courseRepo:   courseRepo,
		lookback:     DefaultLookbackYears,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateOffering schedules a course in a semester
func (s *offeringServiceImpl) CreateOffering(ctx context.Context, req *dto.CreateOfferingRequest) (*models.CourseOffering, error) {
	term, err := semester.ParseTerm(req.Term)
	if err != nil {
		return nil, err
	}
	sem, err := semester.New(term, req.Year)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetCourseByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	o := &models.CourseOffering{
		CourseID:    course.ID,
		ProfessorID: req.ProfessorID,
		Term:        sem.Term,
		Year:        sem.Year,
		Course:      course,
	}
	id, err := s.offeringRepo.CreateOffering(ctx, o)
	if err != nil {
		return nil, err
	}
	o.ID = id

	s.logger.Info().Int64("offeringID", id).Str("course", course.Code).Str("semester", sem.String()).Msg("Course offering created")
	return o, nil
}

// GetOfferingByID retrieves an offering with its course and professor
func (s *offeringServiceImpl) GetOfferingByID(ctx context.Context, id int64) (*models.CourseOffering, error) {
	return s.offeringRepo.GetOfferingByID(ctx, id)
}

// ListOfferings lists every offering, newest first
func (s *offeringServiceImpl) ListOfferings(ctx context.Context) ([]*models.CourseOffering, error) {
	return s.offeringRepo.ListOfferings(ctx)
}

// ListOfferingsByCourse lists a course's offerings, newest first
func (s *offeringServiceImpl) ListOfferingsByCourse(ctx context.Context, courseID int64) ([]*models.CourseOffering, error) {
	if _, err := s.courseRepo.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.offeringRepo.ListOfferingsByCourse(ctx, courseID)
}

// DeleteOffering deletes an offering without assignments
func (s *offeringServiceImpl) DeleteOffering(ctx context.Context, id int64) error {
	return s.offeringRepo.DeleteOffering(ctx, id)
}

// PredictOffering looks at the same term over the previous lookback years. A course is
// likely when it ran last year or in at least half of the inspected years.
func (s *offeringServiceImpl) PredictOffering(ctx context.Context, courseID int64, semesterName string) (*dto.OfferingPredictionResponse, error) {
	target := semester.FromDate(s.now()).Next()
	if strings.TrimSpace(semesterName) != "" {
		var err error
		if target, err = semester.Parse(semesterName); err != nil {
			return nil, err
		}
	}

	if _, err := s.courseRepo.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	years, err := s.offeringRepo.ListOfferedYears(ctx, courseID, target.Term, target.Year-s.lookback, target.Year-1)
	if err != nil {
		return nil, fmt.Errorf("error predicting offering: %w", err)
	}

	offeredLastYear := false
	for _, y := range years {
		if y == target.Year-1 {
			offeredLastYear = true
		}
	}

	resp := &dto.OfferingPredictionResponse{
		CourseID:      courseID,
		Semester:      target.String(),
		Likely:        offeredLastYear || 2*len(years) >= s.lookback,
		Confidence:    math.Round(float64(len(years))/float64(s.lookback)*100) / 100,
		OfferedYears:  years,
		LookbackYears: s.lookback,
	}

	offerings, err := s.offeringRepo.ListOfferingsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error predicting offering: %w", err)
	}
	if last, ok := lastOfferedBefore(offerings, target); ok {
		resp.LastOfferedSemester = last.String()
	}

	return resp, nil
}

// lastOfferedBefore returns the latest offering semester strictly before target
func lastOfferedBefore(offerings []*models.CourseOffering, target semester.Semester) (semester.Semester, bool) {
	var (
		last  semester.Semester
		found bool
	)
	for _, o := range offerings {
		sem, err := semester.New(o.Term, o.Year)
		if err != nil || !sem.Before(target) {
			continue
		}
		if !found || last.Before(sem) {
			last, found = sem, true
		}
	}
	return last, found
}

