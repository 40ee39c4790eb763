package models

import "time"

// Course represents a teachable course in the catalog. LecturerID references
// the lecturer's user account; the legacy system kept a free-text username
// here.
type Course struct {
	ID         string    `db:"id" json:"id"`
	Code       string    `db:"code" json:"code"`
	Name       string    `db:"name" json:"name"`
	Credits    int       `db:"credits" json:"credits"`
	LecturerID *string   `db:"lecturer_id" json:"lecturer_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CourseDetail enriches Course with the lecturer's username.
type CourseDetail struct {
	Course
	LecturerName *string `db:"lecturer_name" json:"lecturer_name,omitempty"`
}

// CourseCatalogEntry annotates a course with the requesting student's
// enrollment against it.
type CourseCatalogEntry struct {
	CourseDetail
	Enrolled         bool              `json:"enrolled"`
	EnrollmentStatus *EnrollmentStatus `json:"enrollment_status,omitempty"`
}

// CourseCatalog partitions the catalog by selected lecturers. An empty
// selection places every course in Matching and leaves Others empty.
type CourseCatalog struct {
	Lecturers         []string             `json:"lecturers"`
	SelectedLecturers []string             `json:"selected_lecturers"`
	Matching          []CourseCatalogEntry `json:"matching"`
	Others            []CourseCatalogEntry `json:"others"`
}
