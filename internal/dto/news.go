package dto

// CreateNewsRequest is the admin payload for publishing a news post.
type CreateNewsRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// UpdateNewsRequest is the admin payload for editing a news post.
type UpdateNewsRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}
