package auth

import (
	"net/http"
	"strings"

	"github.com/user/storefront-go/apperror"
)

// unauthenticatedMessage is the single client-facing message for every
// authentication failure on a protected route. A missing header, a malformed
// token, a bad signature and an expired token all read the same from the
// outside; distinguishing them would hand an attacker an oracle.
const unauthenticatedMessage = "authentication required"

// RequireAuth returns middleware that verifies the Authorization bearer token
// and attaches the resolved Principal to the request context. Requests
// without a verifiable token never reach the next handler.
func RequireAuth(verifier *TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, apperror.NewAuthError(unauthenticatedMessage, nil))
				return
			}

			// Expected format: "Bearer {token}".
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				WriteError(w, r, apperror.NewAuthError(unauthenticatedMessage, nil))
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				WriteError(w, r, apperror.NewAuthError(unauthenticatedMessage, err))
				return
			}

			principal := &Principal{
				ID:       claims.UserID,
				Username: claims.Subject,
			}
			next.ServeHTTP(w, r.WithContext(NewContextWithPrincipal(r.Context(), principal)))
		})
	}
}
