package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures, in the order the checks run. Callers inside the
// service may branch on these, but the HTTP boundary collapses all of them
// into one uniform unauthenticated response so that a caller cannot probe why
// a token was rejected.
var (
	// ErrTokenMalformed means the token does not have the expected structure.
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrTokenSignatureInvalid means the signature does not match header+payload.
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	// ErrTokenExpired means the token was valid once but its lifetime has passed.
	ErrTokenExpired = errors.New("token has expired")
)

const tokenIssuer = "storefront"

// Claims is the JWT payload: the registered subject carries the username and
// user_id carries the numeric account ID used for ownership checks. Claims
// are opaque to everything outside this file.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenIssuer builds signed bearer tokens for authenticated users.
// It is a pure function of its inputs plus the secret; issuing never fails
// at call time because a missing secret is rejected at construction.
type TokenIssuer struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenIssuer creates a TokenIssuer. The secret must be non-empty; that is
// enforced here so a misconfiguration surfaces at startup rather than on the
// first login.
func NewTokenIssuer(secret string, lifetime time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &TokenIssuer{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// Issue signs a token for user with issuedAt = now and
// expiresAt = now + lifetime.
func (i *TokenIssuer) Issue(user *User) (string, error) {
	now := i.now()
	claims := &Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Lifetime reports the configured token lifetime.
func (i *TokenIssuer) Lifetime() time.Duration {
	return i.lifetime
}

// TokenVerifier validates incoming bearer tokens. Verification is a pure
// function of the token string, the shared secret, and the clock, so a single
// instance is safe for concurrent use across requests.
type TokenVerifier struct {
	secret []byte
	now    func() time.Time
}

// NewTokenVerifier creates a TokenVerifier for the given secret.
func NewTokenVerifier(secret string) (*TokenVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &TokenVerifier{secret: []byte(secret), now: time.Now}, nil
}

// Verify checks tokenString and returns its claims. Checks run in a fixed
// order, short-circuiting on the first failure: structure, then signature,
// then payload shape, then expiry. The signature is verified before any field
// of the payload is trusted; a tampered token is rejected as
// ErrTokenSignatureInvalid even when the payload it carries would look valid
// and unexpired.
func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	if parts := strings.Split(tokenString, "."); len(parts) != 3 ||
		parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return nil, ErrTokenMalformed
	}

	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	)

	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			// Undecodable segments, wrong algorithm, missing exp and any
			// other structural problem all count as malformed.
			return nil, ErrTokenMalformed
		}
	}

	if claims.UserID == 0 || claims.Subject == "" {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
