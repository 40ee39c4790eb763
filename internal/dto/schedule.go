package dto

import "github.com/campushq/backoffice-api/internal/models"

// CreateScheduleRequest is the admin payload for adding a weekly slot.
type CreateScheduleRequest struct {
	CourseID  string `json:"course_id" validate:"required"`
	ClassID   string `json:"class_id" validate:"required"`
	DayOfWeek int    `json:"day_of_week" validate:"gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
	Room      string `json:"room" validate:"required"`
	Semester  string `json:"semester" validate:"required"`
}

// CreateExamRequest is the admin payload for scheduling an exam sitting.
type CreateExamRequest struct {
	CourseID  string          `json:"course_id" validate:"required"`
	ClassID   string          `json:"class_id" validate:"required"`
	ExamDate  string          `json:"exam_date" validate:"required,datetime=2006-01-02"`
	StartTime string          `json:"start_time" validate:"required,datetime=15:04"`
	Duration  int             `json:"duration" validate:"required,gt=0"`
	Room      string          `json:"room" validate:"required"`
	Semester  string          `json:"semester" validate:"required"`
	ExamType  models.ExamType `json:"exam_type" validate:"required"`
}
