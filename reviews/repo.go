package reviews

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/storefront-go/sentiment"
)

// Repository is the persistence collaborator for reviews.
type Repository interface {
	Create(ctx context.Context, review *Review) (*Review, error)
	FindByID(ctx context.Context, id int64) (*Review, error)
	FindAllByProduct(ctx context.Context, productID int64) ([]Review, error)
	Update(ctx context.Context, review *Review) (*Review, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// PgxRepository implements Repository against PostgreSQL.
type PgxRepository struct {
	db *pgxpool.Pool
}

// NewPgxRepository creates the PostgreSQL-backed review repository.
func NewPgxRepository(db *pgxpool.Pool) *PgxRepository {
	return &PgxRepository{db: db}
}

// Create inserts a review and fills in the generated id and created_at.
func (r *PgxRepository) Create(ctx context.Context, review *Review) (*Review, error) {
	query := `INSERT INTO reviews (product_id, user_id, review_text, sentiment)
              VALUES ($1, $2, $3, $4)
              RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		review.ProductID, review.UserID, review.Text, labelToText(review.Sentiment),
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return nil, err
	}
	return review, nil
}

// FindByID fetches a single review.
func (r *PgxRepository) FindByID(ctx context.Context, id int64) (*Review, error) {
	query := `SELECT id, product_id, user_id, review_text, sentiment, created_at
              FROM reviews WHERE id = $1`
	return scanReview(r.db.QueryRow(ctx, query, id))
}

// FindAllByProduct lists a product's reviews, newest first.
func (r *PgxRepository) FindAllByProduct(ctx context.Context, productID int64) ([]Review, error) {
	query := `SELECT id, product_id, user_id, review_text, sentiment, created_at
              FROM reviews WHERE product_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Review
	for rows.Next() {
		var rv Review
		var label *string
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Text, &label, &rv.CreatedAt); err != nil {
			return nil, err
		}
		rv.Sentiment = textToLabel(label)
		result = append(result, rv)
	}
	return result, rows.Err()
}

// Update persists the review's text and sentiment. product_id and user_id are
// deliberately absent from the SET clause: ownership is immutable.
func (r *PgxRepository) Update(ctx context.Context, review *Review) (*Review, error) {
	query := `UPDATE reviews SET review_text = $1, sentiment = $2
              WHERE id = $3
              RETURNING created_at`
	err := r.db.QueryRow(ctx, query, review.Text, labelToText(review.Sentiment), review.ID).
		Scan(&review.CreatedAt)
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review; the bool reports whether a row existed.
func (r *PgxRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (*Review, error) {
	var rv Review
	var label *string
	if err := row.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Text, &label, &rv.CreatedAt); err != nil {
		return nil, err
	}
	rv.Sentiment = textToLabel(label)
	return &rv, nil
}

func labelToText(label *sentiment.Label) *string {
	if label == nil {
		return nil
	}
	s := string(*label)
	return &s
}

func textToLabel(s *string) *sentiment.Label {
	if s == nil {
		return nil
	}
	label, ok := sentiment.ParseLabel(*s)
	if !ok {
		return nil
	}
	return &label
}
