package dto

// EnrollRequest names the course a student wants to join or leave.
type EnrollRequest struct {
	CourseID string `json:"course_id" validate:"required"`
}
