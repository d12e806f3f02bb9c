package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/pkg/apperrors"
	"github.com/yigit/headta/internal/pkg/metrics"
)

// InvitationTreeStore is the read surface the tree builder needs
type InvitationTreeStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsersInvitedBy(ctx context.Context, inviterID int64) ([]*models.User, error)
	ListRootUsers(ctx context.Context) ([]*models.User, error)
}

// TreeStats are aggregated over a node's subtree
type TreeStats struct {
	TotalDescendants int
	MaxDepth         int
}

// InvitationTreeNode is one identity and the identities it invited, oldest first
type InvitationTreeNode struct {
	User     *models.User
	Invitees []*InvitationTreeNode
	Stats    TreeStats
}

// InvitationTreeService builds "who invited whom" trees
type InvitationTreeService interface {
	BuildTree(ctx context.Context, rootID int64) (*InvitationTreeNode, error)
	BuildForest(ctx context.Context, rootUserID *int64) ([]*InvitationTreeNode, error)
}

type invitationTreeServiceImpl struct {
	store  InvitationTreeStore
	logger zerolog.Logger
}

// NewInvitationTreeService creates a new invitation tree service
func NewInvitationTreeService(store InvitationTreeStore, logger zerolog.Logger) InvitationTreeService {
	return &invitationTreeServiceImpl{
		store:  store,
		logger: logger,
	}
}

// BuildTree materializes the subtree rooted at rootID
func (s *invitationTreeServiceImpl) BuildTree(ctx context.Context, rootID int64) (*InvitationTreeNode, error) {
	root, err := s.store.GetUserByID(ctx, rootID)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, root)
}

// BuildForest builds one tree per root identity. A non-nil rootUserID restricts the
// forest to the tree rooted at that identity.
func (s *invitationTreeServiceImpl) BuildForest(ctx context.Context, rootUserID *int64) ([]*InvitationTreeNode, error) {
	forest, err := s.buildForest(ctx, rootUserID)
	metrics.RecordTreeBuild(err, CountTreeNodes(forest))
	return forest, err
}

func (s *invitationTreeServiceImpl) buildForest(ctx context.Context, rootUserID *int64) ([]*InvitationTreeNode, error) {
	if rootUserID != nil {
		tree, err := s.BuildTree(ctx, *rootUserID)
		if err != nil {
			return nil, err
		}
		return []*InvitationTreeNode{tree}, nil
	}

	roots, err := s.store.ListRootUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing root users: %w", err)
	}
	sortByCreation(roots)

	forest := make([]*InvitationTreeNode, 0, len(roots))
	for _, root := range roots {
		tree, err := s.expand(ctx, root)
		if err != nil {
			return nil, err
		}
		forest = append(forest, tree)
	}
	return forest, nil
}

// expand walks the invitation graph below root with an explicit stack. Nodes are
// recorded in discovery order, which places every child after its parent, so a
// reverse pass over that order computes subtree stats bottom-up.
func (s *invitationTreeServiceImpl) expand(ctx context.Context, root *models.User) (*InvitationTreeNode, error) {
	rootNode := &InvitationTreeNode{User: root}
	visited := map[int64]struct{}{root.ID: {}}
	order := []*InvitationTreeNode{rootNode}
	stack := []*InvitationTreeNode{rootNode}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := s.store.ListUsersInvitedBy(ctx, node.User.ID)
		if err != nil {
			return nil, fmt.Errorf("error listing users invited by %d: %w", node.User.ID, err)
		}
		sortByCreation(children)

		node.Invitees = make([]*InvitationTreeNode, 0, len(children))
		for _, child := range children {
			if _, seen := visited[child.ID]; seen {
				s.logger.Error().
					Int64("rootID", root.ID).
					Int64("inviterID", node.User.ID).
					Int64("userID", child.ID).
					Msg("Invitation graph revisits a user")
				return nil, fmt.Errorf("%w: user %d reached twice below user %d", apperrors.ErrInvitationCycle, child.ID, root.ID)
			}
			visited[child.ID] = struct{}{}

			childNode := &InvitationTreeNode{User: child}
			node.Invitees = append(node.Invitees, childNode)
			order = append(order, childNode)
			stack = append(stack, childNode)
		}
	}

	for i := len(order) - 1; i >= 0; i-- {
		node := order[i]
		for _, child := range node.Invitees {
			node.Stats.TotalDescendants += 1 + child.Stats.TotalDescendants
			if d := 1 + child.Stats.MaxDepth; d > node.Stats.MaxDepth {
				node.Stats.MaxDepth = d
			}
		}
	}

	return rootNode, nil
}

// sortByCreation orders users by creation time with id as the tie-break
func sortByCreation(users []*models.User) {
	sort.SliceStable(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
}

// CountTreeNodes counts every node in a forest
func CountTreeNodes(forest []*InvitationTreeNode) int {
	n := 0
	for _, root := range forest {
		n += 1 + root.Stats.TotalDescendants
	}
	return n
}

// NewTreeNodeResponse maps a tree to its response shape
func NewTreeNodeResponse(node *InvitationTreeNode) dto.InvitationTreeNodeResponse {
	resp := dto.InvitationTreeNodeResponse{
		Identity: dto.NewUserResponse(node.User),
		Invitees: make([]dto.InvitationTreeNodeResponse, 0, len(node.Invitees)),
		Stats: dto.InvitationTreeStats{
			TotalDescendants: node.Stats.TotalDescendants,
			MaxDepth:         node.Stats.MaxDepth,
		},
	}
	for _, child := range node.Invitees {
		resp.Invitees = append(resp.Invitees, NewTreeNodeResponse(child))
	}
	return resp
}

// NewForestResponse maps a forest to its response shape
func NewForestResponse(forest []*InvitationTreeNode) dto.InvitationForestResponse {
	resp := dto.InvitationForestResponse{
		Roots:      make([]dto.InvitationTreeNodeResponse, 0, len(forest)),
		TotalUsers: CountTreeNodes(forest),
	}
	for _, root := range forest {
		resp.Roots = append(resp.Roots, NewTreeNodeResponse(root))
	}
	return resp
}
