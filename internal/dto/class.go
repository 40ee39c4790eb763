package dto

// CreateClassRequest is the admin payload for creating a class.
type CreateClassRequest struct {
	Code       string  `json:"code" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	LecturerID *string `json:"lecturer_id"`
}

// AssignCourseRequest links a course to a class for a semester.
type AssignCourseRequest struct {
	CourseID string `json:"course_id" validate:"required"`
	Semester string `json:"semester" validate:"required"`
}
