package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/headta/internal/app/repositories"
)

type fakeCounts struct {
	counts  repositories.DirectoryCounts
	pending int64
}

func (c fakeCounts) GetDirectoryCounts(context.Context) (*repositories.DirectoryCounts, error) {
	out := c.counts
	return &out, nil
}

func (c fakeCounts) CountPending(context.Context, time.Time) (int64, error) {
	return c.pending, nil
}

func TestGetAdminStats(t *testing.T) {
	f := newFakeDirectory()
	f.addUser(1, "Ada", "Lovelace", nil, 0)
	f.addUser(2, "Grace", "Hopper", nil, 1)
	f.addUser(3, "Alan", "Turing", int64Ptr(2), 2)
	f.addUser(4, "Barbara", "Liskov", int64Ptr(3), 3)

	logger := zerolog.New(io.Discard)
	counts := fakeCounts{counts: repositories.DirectoryCounts{Users: 4, HeadTAs: 4, Courses: 2}, pending: 3}
	svc := NewStatsService(counts, counts, NewInvitationTreeService(f, logger), logger)

	stats, err := svc.GetAdminStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Users)
	assert.Equal(t, int64(2), stats.Courses)
	assert.Equal(t, int64(3), stats.PendingInvitations)
	require.NotNil(t, stats.LargestTreeRootID)
	assert.Equal(t, int64(2), *stats.LargestTreeRootID)
	assert.Equal(t, 3, stats.LargestTreeSize)
}
