package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/storefront-go/apperror"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// invalidCredentialsMessage is the one message returned for every credential
// failure at login. Whether the account exists or the password was wrong is
// deliberately indistinguishable.
const invalidCredentialsMessage = "invalid credentials"

// Service implements registration and login on top of the account repository
// and the token issuer.
type Service struct {
	repo   Repository
	issuer *TokenIssuer
}

// NewService creates an auth Service.
func NewService(repo Repository, issuer *TokenIssuer) *Service {
	return &Service{repo: repo, issuer: issuer}
}

// Register creates a new account. The password is hashed with bcrypt before
// anything is stored; username and email conflicts surface as ConflictError.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Username:       req.Username,
		Email:          strings.ToLower(req.Email),
		HashedPassword: string(hashedPassword),
	}

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return nil, apperror.NewConflictError("username already exists", nil)
			}
			if strings.Contains(pgErr.ConstraintName, "email") {
				return nil, apperror.NewConflictError("email already exists", nil)
			}
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return createdUser, nil
}

// Login authenticates a user by username or email plus password and returns a
// signed bearer token. All credential failures yield the same AuthError.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.getUserByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewAuthError(invalidCredentialsMessage, nil)
		}
		log.Printf("database error looking up user at login: %v", err)
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, apperror.NewAuthError(invalidCredentialsMessage, nil)
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}

	return &TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.issuer.Lifetime().Seconds()),
	}, nil
}

// getUserByLogin resolves the login identifier: anything with an '@' is tried
// as an email first, otherwise as a username with an email fallback.
func (s *Service) getUserByLogin(ctx context.Context, login string) (*User, error) {
	if strings.Contains(login, "@") {
		return s.repo.FindByEmail(ctx, strings.ToLower(login))
	}

	user, err := s.repo.FindByUsername(ctx, login)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.repo.FindByEmail(ctx, strings.ToLower(login))
		}
		return nil, err
	}
	return user, nil
}
