package models

import "time"

// GradeStatus represents the two-stage approval lifecycle of a grade.
// PENDING transitions once to CONFIRMED; there is no reject or rework path.
type GradeStatus string

const (
	GradeStatusPending   GradeStatus = "PENDING"
	GradeStatusConfirmed GradeStatus = "CONFIRMED"
)

// Valid reports whether the status is one of the closed set.
func (s GradeStatus) Valid() bool {
	return s == GradeStatusPending || s == GradeStatusConfirmed
}

// Grade represents a single submitted grade row. History is append-only:
// multiple rows may exist for the same (student, course) pair.
type Grade struct {
	ID          string      `db:"id" json:"id"`
	StudentID   string      `db:"student_id" json:"student_id"`
	CourseID    string      `db:"course_id" json:"course_id"`
	Value       float64     `db:"value" json:"value"`
	Status      GradeStatus `db:"status" json:"status"`
	SubmittedBy string      `db:"submitted_by" json:"submitted_by"`
	ConfirmedBy *string     `db:"confirmed_by" json:"confirmed_by,omitempty"`
	SubmittedAt time.Time   `db:"submitted_at" json:"submitted_at"`
	ConfirmedAt *time.Time  `db:"confirmed_at" json:"confirmed_at,omitempty"`
	Note        *string     `db:"note" json:"note,omitempty"`
}

// GradeDetail enriches Grade with student and course info for listings.
type GradeDetail struct {
	Grade
	StudentName   string `db:"student_name" json:"student_name"`
	StudentNumber string `db:"student_number" json:"student_number"`
	CourseCode    string `db:"course_code" json:"course_code"`
	CourseName    string `db:"course_name" json:"course_name"`
}

// GradeFilter scopes grade listings.
type GradeFilter struct {
	StudentID  string
	CourseIDs  []string
	Status     GradeStatus
	LecturerID string
}
