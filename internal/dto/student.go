package dto

// CreateStudentRequest is the admin payload for registering a student.
type CreateStudentRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	FullName  string  `json:"full_name" validate:"required"`
	DOB       string  `json:"dob" validate:"required,datetime=2006-01-02"`
	Email     string  `json:"email" validate:"omitempty,email"`
	ClassID   *string `json:"class_id"`
}

// UpdateStudentRequest is the admin payload for editing a student record.
type UpdateStudentRequest struct {
	FullName string  `json:"full_name" validate:"required"`
	DOB      string  `json:"dob" validate:"required,datetime=2006-01-02"`
	Email    string  `json:"email" validate:"omitempty,email"`
	ClassID  *string `json:"class_id"`
}
