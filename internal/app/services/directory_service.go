package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog"
	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/app/repositories"
	"github.com/yigit/headta/internal/pkg/apperrors"
	"github.com/yigit/headta/internal/pkg/semester"
)

// MaxSearchResults caps the directory search response
const MaxSearchResults = 25

// Fields a search hit can match on
const (
	MatchedOnName   = "name"
	MatchedOnEmail  = "email"
	MatchedOnCourse = "course"
)

// DirectoryStore is the read surface of directory search
type DirectoryStore interface {
	ListAllUsers(ctx context.Context, f repositories.UserFilter) ([]*models.User, error)
}

// CourseHistoryStore lists who TA'd which courses
type CourseHistoryStore interface {
	ListCourseCodesByUser(ctx context.Context) (map[int64][]string, error)
	ListAssignmentsByCourse(ctx context.Context, courseID int64) ([]*models.TAAssignment, error)
}

// DirectoryService searches the head TA directory
type DirectoryService interface {
	Search(ctx context.Context, query string) ([]dto.DirectorySearchResult, error)
	HeadTAsForCourse(ctx context.Context, courseID int64) ([]dto.CourseHeadTAResponse, error)
}

type directoryServiceImpl struct {
	users   DirectoryStore
	history CourseHistoryStore
	courses CourseStore
	logger  zerolog.Logger
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(users DirectoryStore, history CourseHistoryStore, courses CourseStore, logger zerolog.Logger) DirectoryService {
	return &directoryServiceImpl{
		users:   users,
		history: history,
		courses: courses,
		logger:  logger,
	}
}

type searchHit struct {
	user      *models.User
	matchedOn string
	distance  int
}

// Search ranks active users by how closely "first last", email or a TA'd course code
// matches query. Each user appears once, under their closest match.
func (s *directoryServiceImpl) Search(ctx context.Context, query string) ([]dto.DirectorySearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", apperrors.ErrValidationFailed)
	}

	users, err := s.users.ListAllUsers(ctx, repositories.UserFilter{OnlyActive: true})
	if err != nil {
		return nil, fmt.Errorf("error searching directory: %w", err)
	}
	codes, err := s.history.ListCourseCodesByUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("error searching directory: %w", err)
	}

	names := make([]string, len(users))
	emails := make([]string, len(users))
	var (
		courseWords []string
		courseOwner []int
	)
	for i, u := range users {
		names[i] = u.FullName()
		emails[i] = u.Email
		for _, code := range codes[u.ID] {
			courseWords = append(courseWords, code)
			courseOwner = append(courseOwner, i)
		}
	}

	best := map[int]*searchHit{}
	consider := func(idx int, matchedOn string, distance int) {
		if h, ok := best[idx]; ok && h.distance <= distance {
			return
		}
		best[idx] = &searchHit{user: users[idx], matchedOn: matchedOn, distance: distance}
	}
	for _, r := range fuzzy.RankFindNormalizedFold(query, names) {
		consider(r.OriginalIndex, MatchedOnName, r.Distance)
	}
	for _, r := range fuzzy.RankFindNormalizedFold(query, emails) {
		consider(r.OriginalIndex, MatchedOnEmail, r.Distance)
	}
	for _, r := range fuzzy.RankFindNormalizedFold(query, courseWords) {
		consider(courseOwner[r.OriginalIndex], MatchedOnCourse, r.Distance)
	}

	hits := make([]*searchHit, 0, len(best))
	for _, h := range best {
		hits = append(hits, h)
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].distance != hits[j].distance {
			return hits[i].distance < hits[j].distance
		}
		if a, b := strings.ToLower(hits[i].user.LastName), strings.ToLower(hits[j].user.LastName); a != b {
			return a < b
		}
		return hits[i].user.ID < hits[j].user.ID
	})
	if len(hits) > MaxSearchResults {
		hits = hits[:MaxSearchResults]
	}

	results := make([]dto.DirectorySearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, dto.DirectorySearchResult{
			User:        dto.NewUserResponse(h.user),
			MatchedOn:   h.matchedOn,
			Rank:        h.distance,
			CourseCodes: codes[h.user.ID],
		})
	}

	s.logger.Debug().Str("query", query).Int("results", len(results)).Msg("Directory search")
	return results, nil
}

// HeadTAsForCourse lists everyone who TA'd any offering of a course, newest semester first
func (s *directoryServiceImpl) HeadTAsForCourse(ctx context.Context, courseID int64) ([]dto.CourseHeadTAResponse, error) {
	if _, err := s.courses.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	assignments, err := s.history.ListAssignmentsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CourseHeadTAResponse, 0, len(assignments))
	for _, a := range assignments {
		if a.User == nil || a.Offering == nil {
			continue
		}
		out = append(out, dto.CourseHeadTAResponse{
			User:         dto.NewUserResponse(a.User),
			OfferingID:   a.CourseOfferingID,
			Semester:     semester.Semester{Term: a.Offering.Term, Year: a.Offering.Year}.String(),
			HoursPerWeek: a.HoursPerWeek,
		})
	}
	return out, nil
}
