package models

import "time"

// Schedule represents a weekly teaching slot for a class and course within a
// semester. DayOfWeek is 0 (Monday) through 6 (Sunday); times are "HH:MM".
type Schedule struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Room      string    `db:"room" json:"room"`
	Semester  string    `db:"semester" json:"semester"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ScheduleDetail enriches Schedule with course and class labels.
type ScheduleDetail struct {
	Schedule
	CourseCode string `db:"course_code" json:"course_code"`
	CourseName string `db:"course_name" json:"course_name"`
	ClassCode  string `db:"class_code" json:"class_code"`
}

// ExamType distinguishes midterm and final sittings.
type ExamType string

const (
	ExamTypeMidterm ExamType = "MIDTERM"
	ExamTypeFinal   ExamType = "FINAL"
)

// Valid reports whether the exam type is one of the closed set.
func (t ExamType) Valid() bool {
	return t == ExamTypeMidterm || t == ExamTypeFinal
}

// Exam represents an exam sitting for a class and course. Each class has at
// most one sitting per (course, semester, exam type).
type Exam struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	ExamDate  time.Time `db:"exam_date" json:"exam_date"`
	StartTime string    `db:"start_time" json:"start_time"`
	Duration  int       `db:"duration" json:"duration"`
	Room      string    `db:"room" json:"room"`
	Semester  string    `db:"semester" json:"semester"`
	ExamType  ExamType  `db:"exam_type" json:"exam_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
