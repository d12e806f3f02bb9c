package dto

// InvitationTreeStats are aggregated over a node's subtree
type InvitationTreeStats struct {
	TotalDescendants int `json:"totalDescendants"`
	MaxDepth         int `json:"maxDepth"`
}

// InvitationTreeNodeResponse is one identity and the people it invited
type InvitationTreeNodeResponse struct {
	Identity UserResponse                 `json:"identity"`
	Invitees []InvitationTreeNodeResponse `json:"invitees"`
	Stats    InvitationTreeStats          `json:"stats"`
}

// InvitationForestResponse holds the requested trees
type InvitationForestResponse struct {
	Roots      []InvitationTreeNodeResponse `json:"roots"`
	TotalUsers int                          `json:"totalUsers"`
}
