package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/headta/internal/db"
	"github.com/yigit/headta/internal/pkg/logger"
)

// DirectoryCounts are row counts shown on the admin dashboard
type DirectoryCounts struct {
	Users       int64
	HeadTAs     int64
	Admins      int64
	Unclaimed   int64
	Courses     int64
	Professors  int64
	Offerings   int64
	Assignments int64
}

// StatsRepository runs aggregate queries for the admin dashboard
type StatsRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db db.DBTX) *StatsRepository {
	return &StatsRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetDirectoryCounts returns all dashboard counts in one round trip
func (r *StatsRepository) GetDirectoryCounts(ctx context.Context) (*DirectoryCounts, error) {
	sql, args, err := r.sb.Select(
		"(SELECT COUNT(*) FROM users WHERE is_unclaimed = FALSE)",
		"(SELECT COUNT(*) FROM users WHERE is_unclaimed = FALSE AND role_type = 'head_ta')",
		"(SELECT COUNT(*) FROM users WHERE is_unclaimed = FALSE AND role_type = 'admin')",
		"(SELECT COUNT(*) FROM users WHERE is_unclaimed = TRUE)",
		"(SELECT COUNT(*) FROM courses)",
		"(SELECT COUNT(*) FROM professors)",
		"(SELECT COUNT(*) FROM course_offerings)",
		"(SELECT COUNT(*) FROM ta_assignments)",
	).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building directory counts SQL")
		return nil, fmt.Errorf("failed to build directory counts query: %w", err)
	}

	c := &DirectoryCounts{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&c.Users, &c.HeadTAs, &c.Admins, &c.Unclaimed,
		&c.Courses, &c.Professors, &c.Offerings, &c.Assignments,
	)
	if err != nil {
		logger.Error().Err(err).Msg("Error scanning directory counts")
		return nil, fmt.Errorf("error getting directory counts: %w", err)
	}
	return c, nil
}
