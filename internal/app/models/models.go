package models

// RoleType defines the user role type
type RoleType string

const (
	RoleHeadTA RoleType = "head_ta"
	RoleAdmin  RoleType = "admin"
)

// Valid reports whether r is one of the known roles
func (r RoleType) Valid() bool {
	return r == RoleHeadTA || r == RoleAdmin
}

// Term represents a semester term
type Term string

const (
	TermSpring Term = "SPRING"
	TermSummer Term = "SUMMER"
	TermFall   Term = "FALL"
)
