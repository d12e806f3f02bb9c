package dto

// CreateAssignmentRequest records a head TA assignment. UserID defaults to the caller;
// only admins may record assignments for someone else.
type CreateAssignmentRequest struct {
	UserID           *int64 `json:"userId" binding:"omitempty,min=1"`
	CourseOfferingID int64  `json:"courseOfferingId" binding:"required,min=1"`
	HoursPerWeek     *int   `json:"hoursPerWeek" binding:"omitempty,min=0,max=80"`
	Notes            string `json:"notes" binding:"omitempty,max=2000"`
}
