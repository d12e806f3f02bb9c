package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/headta/internal/pkg/apperrors"
)

func newTreeService(f *fakeDirectory) InvitationTreeService {
	return NewInvitationTreeService(f, zerolog.New(io.Discard))
}

func walk(nodes []*InvitationTreeNode, visit func(*InvitationTreeNode)) {
	for _, n := range nodes {
		visit(n)
		walk(n.Invitees, visit)
	}
}

func TestBuildForest_ChainScenario(t *testing.T) {
	f := newFakeDirectory()
	f.addUser(1, "Ada", "A", nil, 0)
	f.addUser(2, "Bob", "B", int64Ptr(1), 1)
	f.addUser(3, "Cy", "C", int64Ptr(2), 2)

	forest, err := newTreeService(f).BuildForest(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, forest, 1)

	a := forest[0]
	assert.Equal(t, int64(1), a.User.ID)
	assert.Equal(t, TreeStats{TotalDescendants: 2, MaxDepth: 2}, a.Stats)

	require.Len(t, a.Invitees, 1)
	b := a.Invitees[0]
	assert.Equal(t, int64(2), b.User.ID)
	assert.Equal(t, TreeStats{TotalDescendants: 1, MaxDepth: 1}, b.Stats)

	require.Len(t, b.Invitees, 1)
	c := b.Invitees[0]
	assert.Equal(t, int64(3), c.User.ID)
	assert.Equal(t, TreeStats{}, c.Stats)
	assert.Empty(t, c.Invitees)
}

func buildWideForest() *fakeDirectory {
	f := newFakeDirectory()
	// two roots
	f.addUser(1, "Root", "One", nil, 0)
	f.addUser(2, "Root", "Two", nil, 1)
	// children of 1, created out of id order
	f.addUser(10, "C", "Ten", int64Ptr(1), 30)
	f.addUser(11, "C", "Eleven", int64Ptr(1), 10)
	f.addUser(12, "C", "Twelve", int64Ptr(1), 20)
	// identical timestamps break ties by id
	f.addUser(21, "D", "TwentyOne", int64Ptr(11), 40)
	f.addUser(20, "D", "Twenty", int64Ptr(11), 40)
	f.addUser(30, "E", "Thirty", int64Ptr(20), 50)
	f.addUser(31, "F", "ThirtyOne", int64Ptr(2), 60)
	return f
}

func TestBuildForest_Properties(t *testing.T) {
	f := buildWideForest()
	forest, err := newTreeService(f).BuildForest(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, forest, 2)
	assert.Equal(t, int64(1), forest[0].User.ID)
	assert.Equal(t, int64(2), forest[1].User.ID)

	rootSum := 0
	for _, root := range forest {
		rootSum += root.Stats.TotalDescendants
	}

	count := 0
	walk(forest, func(n *InvitationTreeNode) {
		count++

		hasChildren := len(n.Invitees) > 0
		assert.Equal(t, !hasChildren, n.Stats.MaxDepth == 0, "maxDepth for %d", n.User.ID)
		assert.Equal(t, !hasChildren, n.Stats.TotalDescendants == 0, "totalDescendants for %d", n.User.ID)

		for i := 1; i < len(n.Invitees); i++ {
			prev, cur := n.Invitees[i-1].User, n.Invitees[i].User
			assert.False(t, cur.CreatedAt.Before(prev.CreatedAt), "children of %d out of order", n.User.ID)
		}
	})

	assert.Equal(t, len(f.users), count)
	assert.Equal(t, len(f.users)-len(forest), rootSum)
	assert.Equal(t, len(f.users), CountTreeNodes(forest))

	ids := func(nodes []*InvitationTreeNode) []int64 {
		out := []int64{}
		for _, n := range nodes {
			out = append(out, n.User.ID)
		}
		return out
	}
	assert.Equal(t, []int64{11, 12, 10}, ids(forest[0].Invitees))
	assert.Equal(t, []int64{20, 21}, ids(forest[0].Invitees[0].Invitees))
	assert.Equal(t, TreeStats{TotalDescendants: 6, MaxDepth: 3}, forest[0].Stats)
	assert.Equal(t, TreeStats{TotalDescendants: 1, MaxDepth: 1}, forest[1].Stats)
}

func TestBuildForest_WithRoot(t *testing.T) {
	f := buildWideForest()
	forest, err := newTreeService(f).BuildForest(context.Background(), int64Ptr(11))
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, int64(11), forest[0].User.ID)
	assert.Equal(t, TreeStats{TotalDescendants: 3, MaxDepth: 2}, forest[0].Stats)
}

func TestBuildTree_NotFound(t *testing.T) {
	_, err := newTreeService(newFakeDirectory()).BuildTree(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestBuildTree_DetectsCycle(t *testing.T) {
	f := newFakeDirectory()
	f.addUser(1, "A", "A", int64Ptr(3), 0)
	f.addUser(2, "B", "B", int64Ptr(1), 1)
	f.addUser(3, "C", "C", int64Ptr(2), 2)

	_, err := newTreeService(f).BuildTree(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrInvitationCycle)

	// users on a cycle are never roots, so the forest skips them
	forest, err := newTreeService(f).BuildForest(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, forest)
}

func TestBuildTree_SelfInvite(t *testing.T) {
	f := newFakeDirectory()
	f.addUser(1, "A", "A", int64Ptr(1), 0)

	_, err := newTreeService(f).BuildTree(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrInvitationCycle)
}

func TestBuildTree_PropagatesStorageErrors(t *testing.T) {
	f := newFakeDirectory()
	f.addUser(1, "A", "A", nil, 0)
	f.listErr = errors.New("connection reset")

	_, err := newTreeService(f).BuildTree(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, f.listErr)
}

func TestBuildTree_DeepChainDoesNotRecurse(t *testing.T) {
	f := newFakeDirectory()
	f.addUser(1, "U", "U", nil, 0)
	const depth = 2000
	for i := int64(2); i <= depth; i++ {
		f.addUser(i, "U", "U", int64Ptr(i-1), int(i))
	}

	tree, err := newTreeService(f).BuildTree(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, TreeStats{TotalDescendants: depth - 1, MaxDepth: depth - 1}, tree.Stats)
}

func TestBuildTree_HonorsCancellation(t *testing.T) {
	f := buildWideForest()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTreeService(f).BuildTree(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
