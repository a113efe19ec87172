// Data transfer objects for the auth endpoints.
package auth

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32" example:"newuser"`
	Email    string `json:"email" validate:"required,email" example:"user@example.com"`
	Password string `json:"password" validate:"required,min=8" example:"strongpassword123"`
}

// LoginRequest is the login payload. Login accepts a username or an email
// address; which one was wrong is never revealed to the caller.
type LoginRequest struct {
	Login    string `json:"login" validate:"required" example:"user@example.com"`
	Password string `json:"password" validate:"required" example:"strongpassword123"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType string `json:"token_type" example:"Bearer"`
	ExpiresIn int64  `json:"expires_in" example:"3600"` // Lifetime of the token in seconds.
}
