package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/app/repositories"
)

// CountsStore returns aggregate row counts
type CountsStore interface {
	GetDirectoryCounts(ctx context.Context) (*repositories.DirectoryCounts, error)
}

// PendingInvitationCounter counts invitations still open at a given time
type PendingInvitationCounter interface {
	CountPending(ctx context.Context, now time.Time) (int64, error)
}

// StatsService builds the admin dashboard summary
type StatsService interface {
	GetAdminStats(ctx context.Context) (*dto.AdminStatsResponse, error)
}

type statsServiceImpl struct {
	counts      CountsStore
	invitations PendingInvitationCounter
	trees       InvitationTreeService
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStatsService creates a new StatsService
func NewStatsService(counts CountsStore, invitations PendingInvitationCounter, trees InvitationTreeService, logger zerolog.Logger) StatsService {
	return &statsServiceImpl{
		counts:      counts,
		invitations: invitations,
		trees:       trees,
		logger:      logger,
		now:         time.Now,
	}
}

// GetAdminStats returns directory counts and the largest invitation tree
func (s *statsServiceImpl) GetAdminStats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	c, err := s.counts.GetDirectoryCounts(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := s.invitations.CountPending(ctx, s.now())
	if err != nil {
		return nil, err
	}

	forest, err := s.trees.BuildForest(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error building invitation forest: %w", err)
	}

	resp := &dto.AdminStatsResponse{
		Users:              c.Users,
		HeadTAs:            c.HeadTAs,
		Admins:             c.Admins,
		Unclaimed:          c.Unclaimed,
		Courses:            c.Courses,
		Professors:         c.Professors,
		Offerings:          c.Offerings,
		Assignments:        c.Assignments,
		PendingInvitations: pending,
	}

	// Ties keep the oldest root since the forest is in creation order
	for _, root := range forest {
		size := 1 + root.Stats.TotalDescendants
		if size > resp.LargestTreeSize {
			id := root.User.ID
			resp.LargestTreeRootID = &id
			resp.LargestTreeSize = size
		}
	}

	return resp, nil
}
