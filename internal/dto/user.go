package dto

// CreateUserRequest is the admin payload for provisioning an account. The
// role is derived from the username shape, not supplied by the caller.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}
