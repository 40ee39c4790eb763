package dto

// CreateCourseRequest is the admin payload for adding a catalog course.
type CreateCourseRequest struct {
	Code       string  `json:"code" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Credits    int     `json:"credits" validate:"required,gt=0"`
	LecturerID *string `json:"lecturer_id"`
}

// UpdateCourseRequest is the admin payload for editing a catalog course.
type UpdateCourseRequest struct {
	Code       string  `json:"code" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Credits    int     `json:"credits" validate:"required,gt=0"`
	LecturerID *string `json:"lecturer_id"`
}

// CatalogFilter captures the lecturer multi-select from the catalog page.
// An empty selection means no filtering.
type CatalogFilter struct {
	Lecturers []string
}
