package users

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/storefront-go/apperror"
	"github.com/user/storefront-go/auth"
)

const pgUniqueViolation = "23505"

// Service implements user profile operations.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*UserProfileResponse, error) {
	return s.lookup(s.repo.FindByID(ctx, id))
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*UserProfileResponse, error) {
	return s.lookup(s.repo.FindByUsername(ctx, username))
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*UserProfileResponse, error) {
	return s.lookup(s.repo.FindByEmail(ctx, strings.ToLower(email)))
}

// UpdateProfile changes the caller's own email or password. The handler layer
// resolves the id from the authenticated principal, never from the request.
func (s *Service) UpdateProfile(ctx context.Context, id int64, req UpdateUserProfileRequest) (*UserProfileResponse, error) {
	var email, hashed *string
	if req.Email != nil {
		normalized := strings.ToLower(*req.Email)
		email = &normalized
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperror.NewInternalError("failed to hash password", err)
		}
		text := string(hash)
		hashed = &text
	}

	user, err := s.repo.UpdateProfile(ctx, id, email, hashed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", err)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("email already in use", err)
		}
		return nil, apperror.NewDatabaseError("failed to update user", err)
	}
	return toProfile(user), nil
}

// DeleteAccount removes the caller's own account.
func (s *Service) DeleteAccount(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete user", err)
	}
	if !deleted {
		return apperror.NewNotFoundError("user not found", nil)
	}
	return nil
}

// Exists reports whether a user row exists. Satisfies the review service's
// UserChecker dependency.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, apperror.NewDatabaseError("failed to check user", err)
	}
	return exists, nil
}

func (s *Service) lookup(user *auth.User, err error) (*UserProfileResponse, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", err)
		}
		return nil, apperror.NewDatabaseError("failed to fetch user", err)
	}
	return toProfile(user), nil
}

func toProfile(u *auth.User) *UserProfileResponse {
	return &UserProfileResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
