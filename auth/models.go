// Package auth handles authentication and authorization: account registration,
// login, bearer token issuance and verification, and the middleware that
// resolves the acting principal for protected routes.
package auth

import "time"

// User represents a stored account. HashedPassword is never serialized; the
// plaintext password exists only between the request body and the bcrypt call.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Principal is the authenticated actor attached to a request. It is resolved
// once per request from a verified token and discarded when the request ends;
// there is no server-side session behind it.
type Principal struct {
	ID       int64
	Username string
}
