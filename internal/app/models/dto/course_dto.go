package dto

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Code        string `json:"code" binding:"required,max=20" example:"CS 101"`
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateCourseRequest represents a request to update a course
type UpdateCourseRequest struct {
	Code        string `json:"code" binding:"required,max=20"`
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// ProfessorRequest creates or updates a professor
type ProfessorRequest struct {
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Email     string `json:"email" binding:"omitempty,email"`
}

// CreateOfferingRequest schedules a course in a semester
type CreateOfferingRequest struct {
	CourseID    int64  `json:"courseId" binding:"required,min=1"`
	ProfessorID *int64 `json:"professorId" binding:"omitempty,min=1"`
	Term        string `json:"term" binding:"required,oneof=FALL SPRING SUMMER"`
	Year        int    `json:"year" binding:"required,min=1900,max=2200"`
}

// OfferingPredictionResponse reports whether a course is likely to be offered
type OfferingPredictionResponse struct {
	CourseID            int64   `json:"courseId"`
	Semester            string  `json:"semester" example:"Fall 2025"`
	Likely              bool    `json:"likely"`
	Confidence          float64 `json:"confidence" example:"0.67"`
	OfferedYears        []int   `json:"offeredYears"`
	LookbackYears       int     `json:"lookbackYears" example:"3"`
	LastOfferedSemester string  `json:"lastOfferedSemester,omitempty" example:"Fall 2024"`
}

// OfferingPredictionRequest selects the semester to predict, e.g. "Fall 2025"
type OfferingPredictionRequest struct {
	Semester string `form:"semester" binding:"omitempty,semester"`
}
