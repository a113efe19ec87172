package products

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/user/storefront-go/apperror"
	"github.com/user/storefront-go/auth"
)

// Handlers exposes the catalog over HTTP.
type Handlers struct {
	service  *Service
	validate *validator.Validate
}

// NewHandlers creates product Handlers.
func NewHandlers(service *Service, validate *validator.Validate) *Handlers {
	return &Handlers{service: service, validate: validate}
}

// HandleCreate godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param productBody body products.ProductRequest true "Product details"
// @Success 201 {object} products.Product
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 409 {object} apperror.ErrorResponse "SKU already exists"
// @Router /api/products [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.decodeProduct(w, r)
		if !ok {
			return
		}

		product, err := h.service.Create(r.Context(), req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusCreated, product)
	}
}

// HandleGet godoc
// @Summary Get a product by id
// @Tags products
// @Produce json
// @Param productID path int true "Product ID"
// @Success 200 {object} products.Product
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/products/{productID} [get]
func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := productIDParam(w, r)
		if !ok {
			return
		}
		product, err := h.service.GetByID(r.Context(), id)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, product)
	}
}

// HandleList godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} products.Product
// @Router /api/products [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.service.GetAll(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		if result == nil {
			result = []Product{}
		}
		auth.WriteJSON(w, http.StatusOK, result)
	}
}

// HandleUpdate godoc
// @Summary Replace a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param productID path int true "Product ID"
// @Param productBody body products.ProductRequest true "Product details"
// @Success 200 {object} products.Product
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/products/{productID} [put]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := productIDParam(w, r)
		if !ok {
			return
		}
		req, ok := h.decodeProduct(w, r)
		if !ok {
			return
		}

		product, err := h.service.Update(r.Context(), id, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, product)
	}
}

// HandleDelete godoc
// @Summary Delete a product
// @Tags products
// @Security BearerAuth
// @Param productID path int true "Product ID"
// @Success 204 "Deleted"
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/products/{productID} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := productIDParam(w, r)
		if !ok {
			return
		}
		if err := h.service.Delete(r.Context(), id); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handlers) decodeProduct(w http.ResponseWriter, r *http.Request) (ProductRequest, bool) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return req, false
	}
	defer r.Body.Close()

	if err := h.validate.Struct(req); err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("invalid product payload: "+err.Error(), err))
		return req, false
	}
	return req, true
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid product id", nil))
		return 0, false
	}
	return id, true
}
