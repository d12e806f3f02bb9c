package models

import "time"

// Course represents a catalog course, e.g. "CS 101".
type Course struct {
	ID          int64     `json:"id" db:"id"`
	Code        string    `json:"code" db:"code" example:"CS 101"`
	Title       string    `json:"title" db:"title" example:"Intro to Programming"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
