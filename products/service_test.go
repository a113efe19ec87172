package products

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/storefront-go/apperror"
)

type stubRepo struct {
	products  map[int64]*Product
	nextID    int64
	createErr error
	updateErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{products: make(map[int64]*Product), nextID: 1}
}

func (s *stubRepo) Create(_ context.Context, product *Product) (*Product, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	stored := *product
	stored.ID = s.nextID
	s.nextID++
	stored.CreatedAt = time.Now()
	s.products[stored.ID] = &stored
	return &stored, nil
}

func (s *stubRepo) FindByID(_ context.Context, id int64) (*Product, error) {
	if product, ok := s.products[id]; ok {
		copied := *product
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubRepo) FindAll(_ context.Context) ([]Product, error) {
	var result []Product
	for _, product := range s.products {
		result = append(result, *product)
	}
	return result, nil
}

func (s *stubRepo) Update(_ context.Context, product *Product) (*Product, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	if _, ok := s.products[product.ID]; !ok {
		return nil, pgx.ErrNoRows
	}
	stored := *product
	s.products[product.ID] = &stored
	return &stored, nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := s.products[id]; !ok {
		return false, nil
	}
	delete(s.products, id)
	return true, nil
}

func (s *stubRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := s.products[id]
	return ok, nil
}

func sampleRequest() ProductRequest {
	return ProductRequest{
		Name:     "Mechanical Keyboard",
		Price:    129.99,
		Category: "peripherals",
		Stock:    25,
		SKU:      "KB-0001",
		Brand:    "Clackers",
	}
}

func TestCreateAndGet(t *testing.T) {
	svc := NewService(newStubRepo())

	created, err := svc.Create(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("Create did not assign an id")
	}

	fetched, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.SKU != "KB-0001" {
		t.Errorf("SKU = %q, want KB-0001", fetched.SKU)
	}
}

func TestCreateDuplicateSKU(t *testing.T) {
	repo := newStubRepo()
	repo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), sampleRequest())
	if !apperror.IsConflictError(err) {
		t.Fatalf("Create with duplicate SKU = %v, want conflict", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewService(newStubRepo())

	if _, err := svc.GetByID(context.Background(), 999); !apperror.IsNotFound(err) {
		t.Fatalf("GetByID(999) = %v, want not found", err)
	}
}

func TestUpdateReplacesFields(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	created, err := svc.Create(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	req := sampleRequest()
	req.Price = 99.99
	req.Stock = 0
	updated, err := svc.Update(context.Background(), created.ID, req)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Price != 99.99 || updated.Stock != 0 {
		t.Errorf("updated = %+v, fields not replaced", updated)
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc := NewService(newStubRepo())

	if _, err := svc.Update(context.Background(), 999, sampleRequest()); !apperror.IsNotFound(err) {
		t.Fatalf("Update(999) = %v, want not found", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	created, err := svc.Create(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); !apperror.IsNotFound(err) {
		t.Fatalf("second Delete = %v, want not found", err)
	}
}

func TestExists(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	created, err := svc.Create(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exists, err := svc.Exists(context.Background(), created.ID)
	if err != nil || !exists {
		t.Fatalf("Exists(%d) = (%v, %v), want (true, nil)", created.ID, exists, err)
	}
	exists, err = svc.Exists(context.Background(), 999)
	if err != nil || exists {
		t.Fatalf("Exists(999) = (%v, %v), want (false, nil)", exists, err)
	}
}
