package dto

// DirectorySearchRequest holds the search query
type DirectorySearchRequest struct {
	Query string `form:"q" binding:"required,min=1,max=100"`
}

// DirectorySearchResult is one ranked hit
type DirectorySearchResult struct {
	User        UserResponse `json:"user"`
	MatchedOn   string       `json:"matchedOn" example:"name" enums:"name,email,course"`
	Rank        int          `json:"rank"`
	CourseCodes []string     `json:"courseCodes,omitempty"`
}

// CourseHeadTAResponse is a person who served as head TA for a course offering
type CourseHeadTAResponse struct {
	User         UserResponse `json:"user"`
	OfferingID   int64        `json:"offeringId"`
	Semester     string       `json:"semester" example:"Fall 2024"`
	HoursPerWeek *int         `json:"hoursPerWeek,omitempty"`
}

// AdminStatsResponse summarizes the directory for the admin dashboard
type AdminStatsResponse struct {
	Users              int64  `json:"users"`
	HeadTAs            int64  `json:"headTas"`
	Admins             int64  `json:"admins"`
	Unclaimed          int64  `json:"unclaimed"`
	Courses            int64  `json:"courses"`
	Professors         int64  `json:"professors"`
	Offerings          int64  `json:"offerings"`
	Assignments        int64  `json:"assignments"`
	PendingInvitations int64  `json:"pendingInvitations"`
	LargestTreeRootID  *int64 `json:"largestTreeRootId,omitempty"`
	LargestTreeSize    int    `json:"largestTreeSize"`
}
