package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/storefront-go/apperror"
)

const pgUniqueViolation = "23505"

// Service implements catalog business logic on top of the repository.
type Service struct {
	repo Repository
}

// NewService creates a products Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a product to the catalog. A duplicate SKU is a conflict.
func (s *Service) Create(ctx context.Context, req ProductRequest) (*Product, error) {
	product := &Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		SKU:         req.SKU,
		Brand:       req.Brand,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, mapProductWriteError(err)
	}
	return created, nil
}

// GetByID fetches a product.
func (s *Service) GetByID(ctx context.Context, id int64) (*Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("product with id %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get product", err)
	}
	return product, nil
}

// GetAll lists the catalog.
func (s *Service) GetAll(ctx context.Context) ([]Product, error) {
	result, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list products", err)
	}
	return result, nil
}

// Update replaces a product's fields.
func (s *Service) Update(ctx context.Context, id int64, req ProductRequest) (*Product, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price
	existing.Category = req.Category
	existing.Stock = req.Stock
	existing.SKU = req.SKU
	existing.Brand = req.Brand

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("product with id %d not found", id), nil)
		}
		return nil, mapProductWriteError(err)
	}
	return updated, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete product", err)
	}
	if !deleted {
		return apperror.NewNotFoundError(fmt.Sprintf("product with id %d not found", id), nil)
	}
	return nil
}

// Exists reports whether the product is stored. Used by the reviews service
// before accepting a review for a product.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, apperror.NewDatabaseError("failed to check product existence", err)
	}
	return exists, nil
}

// mapProductWriteError converts a unique violation on the SKU constraint into
// a conflict; anything else stays a database error.
func mapProductWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, "sku") {
		return apperror.NewConflictError("sku already exists", nil)
	}
	return apperror.NewDatabaseError("failed to save product", err)
}
