package users

import "time"

// UserProfileResponse is the public view of a user account. The password hash
// never leaves the service layer.
type UserProfileResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateUserProfileRequest carries the mutable profile fields. Nil fields are
// left unchanged.
type UpdateUserProfileRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
}
