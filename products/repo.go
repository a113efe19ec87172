package products

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the persistence collaborator for the catalog.
type Repository interface {
	Create(ctx context.Context, product *Product) (*Product, error)
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, product *Product) (*Product, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// PgxRepository implements Repository against PostgreSQL.
type PgxRepository struct {
	db *pgxpool.Pool
}

// NewPgxRepository creates the PostgreSQL-backed catalog repository.
func NewPgxRepository(db *pgxpool.Pool) *PgxRepository {
	return &PgxRepository{db: db}
}

const productColumns = `id, name, description, price, category, stock, sku, brand, created_at`

// Create inserts a product and fills in the generated id and created_at.
func (r *PgxRepository) Create(ctx context.Context, product *Product) (*Product, error) {
	query := `INSERT INTO products (name, description, price, category, stock, sku, brand)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		product.Name, product.Description, product.Price, product.Category,
		product.Stock, product.SKU, product.Brand,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID fetches a single product.
func (r *PgxRepository) FindByID(ctx context.Context, id int64) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.Stock, &p.SKU, &p.Brand, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindAll lists the catalog, newest first.
func (r *PgxRepository) FindAll(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
			&p.Stock, &p.SKU, &p.Brand, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// Update replaces the mutable fields of a product.
func (r *PgxRepository) Update(ctx context.Context, product *Product) (*Product, error) {
	query := `UPDATE products
              SET name = $1, description = $2, price = $3, category = $4,
                  stock = $5, sku = $6, brand = $7
              WHERE id = $8
              RETURNING created_at`
	err := r.db.QueryRow(ctx, query,
		product.Name, product.Description, product.Price, product.Category,
		product.Stock, product.SKU, product.Brand, product.ID,
	).Scan(&product.CreatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product; the bool reports whether a row existed.
func (r *PgxRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Exists reports whether a product with the given id is stored.
func (r *PgxRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
