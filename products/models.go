// Package products implements the product catalog: the Product entity and its
// CRUD operations. Reads are public; catalog mutations require an
// authenticated principal.
package products

import "time"

// Product is a catalog entry. SKU is unique across the catalog.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    string    `json:"category,omitempty"`
	Stock       int       `json:"stock"`
	SKU         string    `json:"sku"`
	Brand       string    `json:"brand,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductRequest is the payload for creating or replacing a product.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"max=100"`
	Stock       int     `json:"stock" validate:"gte=0"`
	SKU         string  `json:"sku" validate:"required,max=10"`
	Brand       string  `json:"brand" validate:"max=255"`
}
