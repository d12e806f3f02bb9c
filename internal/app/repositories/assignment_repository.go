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

// AssignmentRepository handles TA assignment database operations
type AssignmentRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db db.DBTX) *AssignmentRepository {
	return &AssignmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateAssignment records a TA assignment
func (r *AssignmentRepository) CreateAssignment(ctx context.Context, a *models.TAAssignment) (int64, error) {
	sql, args, err := r.sb.Insert("ta_assignments").
		Columns("user_id", "course_offering_id", "hours_per_week", "notes").
		Values(a.UserID, a.CourseOfferingID, a.HoursPerWeek, a.Notes).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create assignment SQL")
		return 0, fmt.Errorf("failed to build create assignment query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
		switch {
		case dberrors.IsUniqueViolation(err):
			return 0, apperrors.ErrAssignmentAlreadyExists
		case dberrors.IsForeignKeyViolation(err):
			return 0, apperrors.NewBadRequestError("user or course offering does not exist")
		}
		logger.Error().Err(err).Int64("userID", a.UserID).Int64("offeringID", a.CourseOfferingID).Msg("Error executing create assignment query")
		return 0, fmt.Errorf("error creating assignment: %w", err)
	}
	return a.ID, nil
}

// GetAssignmentByID retrieves an assignment by ID
func (r *AssignmentRepository) GetAssignmentByID(ctx context.Context, id int64) (*models.TAAssignment, error) {
	sql, args, err := r.sb.Select("id", "user_id", "course_offering_id", "hours_per_week", "notes", "created_at").
		From("ta_assignments").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get assignment query: %w", err)
	}

	a := &models.TAAssignment{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.UserID, &a.CourseOfferingID, &a.HoursPerWeek, &a.Notes, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		logger.Error().Err(err).Int64("assignmentID", id).Msg("Error scanning assignment row")
		return nil, fmt.Errorf("error getting assignment by ID: %w", err)
	}
	return a, nil
}

// DeleteAssignment deletes an assignment
func (r *AssignmentRepository) DeleteAssignment(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("ta_assignments").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete assignment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("assignmentID", id).Msg("Error executing delete assignment query")
		return fmt.Errorf("error deleting assignment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}

// ListAssignmentsByUser returns a user's assignments with offering and course, newest first
func (r *AssignmentRepository) ListAssignmentsByUser(ctx context.Context, userID int64) ([]*models.TAAssignment, error) {
	sql, args, err := r.sb.Select(
		"a.id", "a.user_id", "a.course_offering_id", "a.hours_per_week", "a.notes", "a.created_at",
		"o.course_id", "o.term", "o.year", "c.code", "c.title",
	).
		From("ta_assignments a").
		Join("course_offerings o ON o.id = a.course_offering_id").
		Join("courses c ON c.id = o.course_id").
		Where(squirrel.Eq{"a.user_id": userID}).
		OrderBy("o.year DESC", termRank+" DESC", "c.code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list user assignments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing list user assignments query")
		return nil, fmt.Errorf("error querying assignments: %w", err)
	}
	defer rows.Close()

	assignments := []*models.TAAssignment{}
	for rows.Next() {
		a := &models.TAAssignment{Offering: &models.CourseOffering{Course: &models.Course{}}}
		err := rows.Scan(
			&a.ID, &a.UserID, &a.CourseOfferingID, &a.HoursPerWeek, &a.Notes, &a.CreatedAt,
			&a.Offering.CourseID, &a.Offering.Term, &a.Offering.Year, &a.Offering.Course.Code, &a.Offering.Course.Title,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning assignment row: %w", err)
		}
		a.Offering.ID = a.CourseOfferingID
		a.Offering.Course.ID = a.Offering.CourseID
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignment rows: %w", err)
	}
	return assignments, nil
}

func (r *AssignmentRepository) listWithUsers(ctx context.Context, q squirrel.SelectBuilder, op string) ([]*models.TAAssignment, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error executing assignment query")
		return nil, fmt.Errorf("error querying assignments (%s): %w", op, err)
	}
	defer rows.Close()

	assignments := []*models.TAAssignment{}
	for rows.Next() {
		a := &models.TAAssignment{Offering: &models.CourseOffering{}}
		dest := []any{&a.ID, &a.UserID, &a.CourseOfferingID, &a.HoursPerWeek, &a.Notes, &a.CreatedAt,
			&a.Offering.CourseID, &a.Offering.Term, &a.Offering.Year}
		u, err := scanUserAfter(rows, dest...)
		if err != nil {
			return nil, fmt.Errorf("error scanning assignment row: %w", err)
		}
		a.Offering.ID = a.CourseOfferingID
		a.User = u
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignment rows: %w", err)
	}
	return assignments, nil
}

func prefixed(prefix string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = prefix + c
	}
	return out
}

// scanUserAfter scans leading columns into dest and the trailing user columns into a user
func scanUserAfter(row rowScanner, dest ...any) (*models.User, error) {
	u := &models.User{}
	all := append(dest,
		&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.RoleType, &u.InvitedByID,
		&u.IsUnclaimed, &u.ClaimedByID, &u.ClaimedAt, &u.IsActive, &u.LastLoginAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err := row.Scan(all...); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *AssignmentRepository) selectWithUsers() squirrel.SelectBuilder {
	cols := append([]string{
		"a.id", "a.user_id", "a.course_offering_id", "a.hours_per_week", "a.notes", "a.created_at",
		"o.course_id", "o.term", "o.year",
	}, prefixed("u.", userColumns)...)
	return r.sb.Select(cols...).
		From("ta_assignments a").
		Join("course_offerings o ON o.id = a.course_offering_id").
		Join("users u ON u.id = a.user_id")
}

// ListAssignmentsByOffering returns the head TAs of an offering
func (r *AssignmentRepository) ListAssignmentsByOffering(ctx context.Context, offeringID int64) ([]*models.TAAssignment, error) {
	q := r.selectWithUsers().
		Where(squirrel.Eq{"a.course_offering_id": offeringID}).
		OrderBy("u.last_name ASC", "u.first_name ASC")
	return r.listWithUsers(ctx, q, "list offering assignments")
}

// ListAssignmentsByCourse returns every head TA of any offering of a course, newest semester first
func (r *AssignmentRepository) ListAssignmentsByCourse(ctx context.Context, courseID int64) ([]*models.TAAssignment, error) {
	q := r.selectWithUsers().
		Where(squirrel.Eq{"o.course_id": courseID}).
		OrderBy("o.year DESC", termRank+" DESC", "u.last_name ASC", "u.id ASC")
	return r.listWithUsers(ctx, q, "list course assignments")
}

// ListCourseCodesByUser maps each user with assignments to the distinct course codes they TA'd
func (r *AssignmentRepository) ListCourseCodesByUser(ctx context.Context) (map[int64][]string, error) {
	sql, args, err := r.sb.Select("DISTINCT a.user_id", "c.code").
		From("ta_assignments a").
		Join("course_offerings o ON o.id = a.course_offering_id").
		Join("courses c ON c.id = o.course_id").
		OrderBy("a.user_id ASC", "c.code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course codes query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing course codes query")
		return nil, fmt.Errorf("error querying course codes: %w", err)
	}
	defer rows.Close()

	codes := map[int64][]string{}
	for rows.Next() {
		var userID int64
		var code string
		if err := rows.Scan(&userID, &code); err != nil {
			return nil, fmt.Errorf("error scanning course code row: %w", err)
		}
		codes[userID] = append(codes[userID], code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course code rows: %w", err)
	}
	return codes, nil
}

// ReassignAssignments moves every assignment owned by fromUserID to toUserID and returns
// how many moved. Where toUserID already holds an assignment for the same offering the
// duplicate is dropped, so afterwards no assignment references fromUserID.
func (r *AssignmentRepository) ReassignAssignments(ctx context.Context, fromUserID, toUserID int64) (int64, error) {
	moveSQL, moveArgs, err := r.sb.Update("ta_assignments").
		Set("user_id", toUserID).
		Where(squirrel.Eq{"user_id": fromUserID}).
		Where(squirrel.Expr("course_offering_id NOT IN (SELECT course_offering_id FROM ta_assignments WHERE user_id = ?)", toUserID)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build reassign assignments query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, moveSQL, moveArgs...)
	if err != nil {
		logger.Error().Err(err).Int64("fromUserID", fromUserID).Int64("toUserID", toUserID).Msg("Error reassigning assignments")
		return 0, fmt.Errorf("error reassigning assignments: %w", err)
	}
	moved := cmdTag.RowsAffected()

	dropSQL, dropArgs, err := r.sb.Delete("ta_assignments").Where(squirrel.Eq{"user_id": fromUserID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build drop duplicate assignments query: %w", err)
	}

	dropTag, err := r.db.Exec(ctx, dropSQL, dropArgs...)
	if err != nil {
		logger.Error().Err(err).Int64("fromUserID", fromUserID).Msg("Error dropping duplicate assignments")
		return 0, fmt.Errorf("error dropping duplicate assignments: %w", err)
	}
	if dropped := dropTag.RowsAffected(); dropped > 0 {
		logger.Info().Int64("fromUserID", fromUserID).Int64("toUserID", toUserID).Int64("dropped", dropped).
			Msg("Dropped assignments already held by the claiming user")
	}

	return moved, nil
}

// CountAssignmentsByUser counts assignments owned by userID
func (r *AssignmentRepository) CountAssignmentsByUser(ctx context.Context, userID int64) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("ta_assignments").Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count assignments query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting assignments: %w", err)
	}
	return count, nil
}
