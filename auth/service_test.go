package auth

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/storefront-go/apperror"
)

// stubRepository backs the service with an in-memory user map.
type stubRepository struct {
	users     map[string]*User // keyed by username
	createErr error
	nextID    int64
}

func newStubRepository() *stubRepository {
	return &stubRepository{users: make(map[string]*User), nextID: 1}
}

func (s *stubRepository) CreateUser(_ context.Context, user *User) (*User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	s.users[user.Username] = user
	return user, nil
}

func (s *stubRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	if user, ok := s.users[username]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	issuer, err := NewTokenIssuer(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer failed: %v", err)
	}
	return NewService(repo, issuer)
}

func registerTestUser(t *testing.T, svc *Service) *User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return user
}

func TestRegisterHashesPasswordAndLowercasesEmail(t *testing.T) {
	repo := newStubRepository()
	svc := newTestService(t, repo)

	user := registerTestUser(t, svc)

	if user.HashedPassword == "correct horse battery" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("correct horse battery")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %q, want lowercased", user.Email)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newStubRepository()
	repo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alice", Email: "a@example.com", Password: "password123",
	})
	if !apperror.IsConflictError(err) {
		t.Fatalf("Register duplicate = %v, want conflict", err)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := newStubRepository()
	svc := newTestService(t, repo)
	user := registerTestUser(t, svc)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Login:    "alice",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("TokenType = %q, want Bearer", resp.TokenType)
	}
	if resp.ExpiresIn != 3600 {
		t.Errorf("ExpiresIn = %d, want 3600", resp.ExpiresIn)
	}

	verifier, err := NewTokenVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewTokenVerifier failed: %v", err)
	}
	claims, err := verifier.Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token did not verify: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("token UserID = %d, want %d", claims.UserID, user.ID)
	}
}

func TestLoginByEmail(t *testing.T) {
	repo := newStubRepository()
	svc := newTestService(t, repo)
	registerTestUser(t, svc)

	_, err := svc.Login(context.Background(), LoginRequest{
		Login:    "Alice@Example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login by email failed: %v", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := newStubRepository()
	svc := newTestService(t, repo)
	registerTestUser(t, svc)

	_, wrongPassword := svc.Login(context.Background(), LoginRequest{
		Login: "alice", Password: "wrong password here",
	})
	_, unknownUser := svc.Login(context.Background(), LoginRequest{
		Login: "nobody", Password: "anything at all",
	})

	if !apperror.IsAuthError(wrongPassword) {
		t.Fatalf("wrong password error = %v, want auth error", wrongPassword)
	}
	if !apperror.IsAuthError(unknownUser) {
		t.Fatalf("unknown user error = %v, want auth error", unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Errorf("credential failures differ: %q vs %q", wrongPassword.Error(), unknownUser.Error())
	}
}
