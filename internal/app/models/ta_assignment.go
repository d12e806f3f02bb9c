package models

import "time"

// TAAssignment records that a user served as head TA for a course offering.
// Ownership moves to the claiming user when a placeholder profile is claimed.
type TAAssignment struct {
	ID               int64     `json:"id" db:"id"`
	UserID           int64     `json:"userId" db:"user_id"`
	CourseOfferingID int64     `json:"courseOfferingId" db:"course_offering_id"`
	HoursPerWeek     *int      `json:"hoursPerWeek,omitempty" db:"hours_per_week"`
	Notes            *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`

	Offering *CourseOffering `json:"offering,omitempty"`
	User     *User           `json:"user,omitempty"`
}
