package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/db"
	"github.com/yigit/headta/internal/pkg/apperrors"
	"github.com/yigit/headta/internal/pkg/dberrors"
	"github.com/yigit/headta/internal/pkg/logger"
)

// termRank orders terms within a year for SQL sorting
const termRank = "CASE o.term WHEN 'SPRING' THEN 1 WHEN 'SUMMER' THEN 2 ELSE 3 END"

var offeringColumns = []string{
	"o.id", "o.course_id", "o.professor_id", "o.term", "o.year", "o.created_at",
	"c.code", "c.title",
	"p.first_name", "p.last_name",
}

func scanOffering(row rowScanner) (*models.CourseOffering, error) {
	o := &models.CourseOffering{Course: &models.Course{}}
	var profFirst, profLast *string
	err := row.Scan(
		&o.ID, &o.CourseID, &o.ProfessorID, &o.Term, &o.Year, &o.CreatedAt,
		&o.Course.Code, &o.Course.Title,
		&profFirst, &profLast,
	)
	if err != nil {
		return nil, err
	}
	o.Course.ID = o.CourseID
	if o.ProfessorID != nil && profFirst != nil && profLast != nil {
		o.Professor = &models.Professor{ID: *o.ProfessorID, FirstName: *profFirst, LastName: *profLast}
	}
	return o, nil
}

// OfferingRepository handles course offering database operations
type OfferingRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewOfferingRepository creates a new OfferingRepository
func NewOfferingRepository(db db.DBTX) *OfferingRepository {
	return &OfferingRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *OfferingRepository) selectOfferings() squirrel.SelectBuilder {
	return r.sb.Select(offeringColumns...).
		From("course_offerings o").
		Join("courses c ON c.id = o.course_id").
		LeftJoin("professors p ON p.id = o.professor_id")
}

// CreateOffering creates a new course offering
func (r *OfferingRepository) CreateOffering(ctx context.Context, o *models.CourseOffering) (int64, error) {
	sql, args, err := r.sb.Insert("course_offerings").
		Columns("course_id", "professor_id", "term", "year").
		Values(o.CourseID, o.ProfessorID, o.Term, o.Year).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create offering SQL")
		return 0, fmt.Errorf("failed to build create offering query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&o.ID, &o.CreatedAt); err != nil {
		switch {
		case dberrors.IsUniqueViolation(err):
			return 0, apperrors.ErrOfferingAlreadyExists
		case dberrors.IsForeignKeyViolation(err):
			return 0, apperrors.NewBadRequestError("course or professor does not exist")
		}
		logger.Error().Err(err).Int64("courseID", o.CourseID).Msg("Error executing create offering query")
		return 0, fmt.Errorf("error creating offering: %w", err)
	}
	return o.ID, nil
}

// GetOfferingByID retrieves an offering with its course and professor
func (r *OfferingRepository) GetOfferingByID(ctx context.Context, id int64) (*models.CourseOffering, error) {
	sql, args, err := r.selectOfferings().Where(squirrel.Eq{"o.id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get offering query: %w", err)
	}

	o, err := scanOffering(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOfferingNotFound
		}
		logger.Error().Err(err).Int64("offeringID", id).Msg("Error scanning offering row")
		return nil, fmt.Errorf("error getting offering by ID: %w", err)
	}
	return o, nil
}

func (r *OfferingRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.CourseOffering, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list offerings query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list offerings query")
		return nil, fmt.Errorf("error querying offerings: %w", err)
	}
	defer rows.Close()

	offerings := []*models.CourseOffering{}
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning offering row: %w", err)
		}
		offerings = append(offerings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offering rows: %w", err)
	}
	return offerings, nil
}

// ListOfferingsByCourse returns offerings of a course, newest semester first
func (r *OfferingRepository) ListOfferingsByCourse(ctx context.Context, courseID int64) ([]*models.CourseOffering, error) {
	return r.list(ctx, r.selectOfferings().
		Where(squirrel.Eq{"o.course_id": courseID}).
		OrderBy("o.year DESC", termRank+" DESC"))
}

// ListOfferings returns every offering, newest semester first
func (r *OfferingRepository) ListOfferings(ctx context.Context) ([]*models.CourseOffering, error) {
	return r.list(ctx, r.selectOfferings().OrderBy("o.year DESC", termRank+" DESC", "c.code ASC"))
}

// ListOfferedYears returns the distinct years in [fromYear, toYear] in which the
// course was offered in term, ascending
func (r *OfferingRepository) ListOfferedYears(ctx context.Context, courseID int64, term models.Term, fromYear, toYear int) ([]int, error) {
	sql, args, err := r.sb.Select("DISTINCT year").
		From("course_offerings").
		Where(squirrel.Eq{"course_id": courseID, "term": term}).
		Where(squirrel.GtOrEq{"year": fromYear}).
		Where(squirrel.LtOrEq{"year": toYear}).
		OrderBy("year ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build offered years query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing offered years query")
		return nil, fmt.Errorf("error querying offered years: %w", err)
	}
	defer rows.Close()

	years := []int{}
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("error scanning offered year: %w", err)
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offered years: %w", err)
	}
	return years, nil
}

// DeleteOffering deletes an offering without TA assignments
func (r *OfferingRepository) DeleteOffering(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("course_offerings").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete offering query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrOfferingHasAssignments
		}
		logger.Error().Err(err).Int64("offeringID", id).Msg("Error executing delete offering query")
		return fmt.Errorf("error deleting offering: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrOfferingNotFound
	}
	return nil
}
