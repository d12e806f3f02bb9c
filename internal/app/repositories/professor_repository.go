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

var professorColumns = []string{"id", "first_name", "last_name", "email", "created_at"}

// ProfessorRepository handles professor database operations
type ProfessorRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewProfessorRepository creates a new ProfessorRepository
func NewProfessorRepository(db db.DBTX) *ProfessorRepository {
	return &ProfessorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateProfessor creates a new professor
func (r *ProfessorRepository) CreateProfessor(ctx context.Context, p *models.Professor) (int64, error) {
	sql, args, err := r.sb.Insert("professors").
		Columns("first_name", "last_name", "email").
		Values(p.FirstName, p.LastName, p.Email).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create professor query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.NewConflictError("a professor with this email already exists")
		}
		logger.Error().Err(err).Msg("Error executing create professor query")
		return 0, fmt.Errorf("error creating professor: %w", err)
	}
	return p.ID, nil
}

// GetProfessorByID retrieves a professor by ID
func (r *ProfessorRepository) GetProfessorByID(ctx context.Context, id int64) (*models.Professor, error) {
	sql, args, err := r.sb.Select(professorColumns...).From("professors").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get professor query: %w", err)
	}

	p := &models.Professor{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfessorNotFound
		}
		logger.Error().Err(err).Int64("professorID", id).Msg("Error scanning professor row")
		return nil, fmt.Errorf("error getting professor by ID: %w", err)
	}
	return p, nil
}

// GetAllProfessors lists professors by last name
func (r *ProfessorRepository) GetAllProfessors(ctx context.Context) ([]*models.Professor, error) {
	sql, args, err := r.sb.Select(professorColumns...).From("professors").OrderBy("last_name ASC", "first_name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list professors query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list professors query")
		return nil, fmt.Errorf("error querying professors: %w", err)
	}
	defer rows.Close()

	professors := []*models.Professor{}
	for rows.Next() {
		p := &models.Professor{}
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning professor row: %w", err)
		}
		professors = append(professors, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating professor rows: %w", err)
	}
	return professors, nil
}

// UpdateProfessor updates an existing professor
func (r *ProfessorRepository) UpdateProfessor(ctx context.Context, p *models.Professor) error {
	sql, args, err := r.sb.Update("professors").
		SetMap(map[string]interface{}{
			"first_name": p.FirstName,
			"last_name":  p.LastName,
			"email":      p.Email,
		}).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update professor query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("a professor with this email already exists")
		}
		logger.Error().Err(err).Int64("professorID", p.ID).Msg("Error executing update professor query")
		return fmt.Errorf("error updating professor: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfessorNotFound
	}
	return nil
}

// DeleteProfessor deletes a professor who teaches no offerings
func (r *ProfessorRepository) DeleteProfessor(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("professors").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete professor query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrProfessorHasOfferings
		}
		logger.Error().Err(err).Int64("professorID", id).Msg("Error executing delete professor query")
		return fmt.Errorf("error deleting professor: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfessorNotFound
	}
	return nil
}
