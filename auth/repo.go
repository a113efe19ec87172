package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the persistence collaborator for accounts. The service only
// depends on this interface; the pgx implementation below is what production
// wires in, tests substitute stubs.
type Repository interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// PgxRepository implements Repository against PostgreSQL.
type PgxRepository struct {
	db *pgxpool.Pool
}

// NewPgxRepository creates the PostgreSQL-backed account repository.
func NewPgxRepository(db *pgxpool.Pool) *PgxRepository {
	return &PgxRepository{db: db}
}

// CreateUser inserts a new account and fills in the generated id and
// created_at. Unique violations come back as raw pgconn errors; the service
// maps them to conflicts.
func (r *PgxRepository) CreateUser(ctx context.Context, user *User) (*User, error) {
	query := `INSERT INTO users (username, email, password)
              VALUES ($1, $2, $3)
              RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, user.Username, user.Email, user.HashedPassword).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByUsername looks an account up by username.
func (r *PgxRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT id, username, email, password, created_at FROM users WHERE username = $1`
	var user User
	err := r.db.QueryRow(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail looks an account up by email. Emails are stored lowercased.
func (r *PgxRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, username, email, password, created_at FROM users WHERE email = $1`
	var user User
	err := r.db.QueryRow(ctx, query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
