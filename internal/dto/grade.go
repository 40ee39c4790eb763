package dto

// SubmitGradeRequest is the lecturer payload for entering a grade.
type SubmitGradeRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	CourseID  string  `json:"course_id" validate:"required"`
	Value     float64 `json:"value" validate:"gte=0,lte=10"`
	Note      *string `json:"note"`
}
