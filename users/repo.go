package users

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/storefront-go/auth"
)

// Repository abstracts user storage for the profile service.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*auth.User, error)
	FindByUsername(ctx context.Context, username string) (*auth.User, error)
	FindByEmail(ctx context.Context, email string) (*auth.User, error)
	UpdateProfile(ctx context.Context, id int64, email, hashedPassword *string) (*auth.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

const userColumns = "id, username, email, password, created_at"

// PgxRepository is the pgx-backed Repository.
type PgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) *PgxRepository {
	return &PgxRepository{pool: pool}
}

func (r *PgxRepository) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *PgxRepository) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
}

func (r *PgxRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

// UpdateProfile applies the non-nil fields and returns the updated row.
// COALESCE keeps the stored value when a parameter is NULL.
func (r *PgxRepository) UpdateProfile(ctx context.Context, id int64, email, hashedPassword *string) (*auth.User, error) {
	query := `
		UPDATE users
		SET email = COALESCE($2, email),
		    password = COALESCE($3, password)
		WHERE id = $1
		RETURNING ` + userColumns
	return r.findOne(ctx, query, id, email, hashedPassword)
}

func (r *PgxRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgxRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PgxRepository) findOne(ctx context.Context, query string, args ...any) (*auth.User, error) {
	var u auth.User
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
