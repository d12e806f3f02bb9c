package models

import "time"

// CourseOffering represents a course taught in a given term and year.
type CourseOffering struct {
	ID          int64     `json:"id" db:"id"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	ProfessorID *int64    `json:"professorId,omitempty" db:"professor_id"`
	Term        Term      `json:"term" db:"term"`
	Year        int       `json:"year" db:"year"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Course    *Course    `json:"course,omitempty"`
	Professor *Professor `json:"professor,omitempty"`
}
