package reviews

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/user/storefront-go/apperror"
	"github.com/user/storefront-go/auth"
)

// Handlers exposes reviews over HTTP.
type Handlers struct {
	service  *Service
	validate *validator.Validate
}

// NewHandlers creates review Handlers.
func NewHandlers(service *Service, validate *validator.Validate) *Handlers {
	return &Handlers{service: service, validate: validate}
}

// HandleCreate godoc
// @Summary Create a review for a product
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param productID path int true "Product ID"
// @Param reviewBody body reviews.NewReviewRequest true "Review details"
// @Success 201 {object} reviews.Review
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse "Product or user not found"
// @Router /api/products/{productID}/reviews [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, ok := idParam(w, r, "productID")
		if !ok {
			return
		}
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("authentication required", nil))
			return
		}

		var req NewReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := h.validate.Struct(req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("review text is required", err))
			return
		}

		review, err := h.service.Create(r.Context(), productID, principal.ID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusCreated, review)
	}
}

// HandleListByProduct godoc
// @Summary List a product's reviews
// @Tags reviews
// @Produce json
// @Param productID path int true "Product ID"
// @Success 200 {array} reviews.Review
// @Failure 404 {object} apperror.ErrorResponse "Product not found"
// @Router /api/products/{productID}/reviews [get]
func (h *Handlers) HandleListByProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, ok := idParam(w, r, "productID")
		if !ok {
			return
		}
		result, err := h.service.GetAllByProduct(r.Context(), productID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		if result == nil {
			result = []Review{}
		}
		auth.WriteJSON(w, http.StatusOK, result)
	}
}

// HandleGet godoc
// @Summary Get a review by id
// @Tags reviews
// @Produce json
// @Param reviewID path int true "Review ID"
// @Success 200 {object} reviews.Review
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/reviews/{reviewID} [get]
func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "reviewID")
		if !ok {
			return
		}
		review, err := h.service.GetByID(r.Context(), id)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, review)
	}
}

// HandleUpdate godoc
// @Summary Update a review
// @Description Only the review's author may update it.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reviewID path int true "Review ID"
// @Param reviewBody body reviews.UpdateReviewRequest true "Fields to update"
// @Success 200 {object} reviews.Review
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse "Not the review's author"
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/reviews/{reviewID} [put]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "reviewID")
		if !ok {
			return
		}
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("authentication required", nil))
			return
		}

		var req UpdateReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		review, err := h.service.Update(r.Context(), id, principal.ID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, review)
	}
}

// HandleDelete godoc
// @Summary Delete a review
// @Description Only the review's author may delete it.
// @Tags reviews
// @Security BearerAuth
// @Param reviewID path int true "Review ID"
// @Success 204 "Deleted"
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse "Not the review's author"
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/reviews/{reviewID} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "reviewID")
		if !ok {
			return
		}
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("authentication required", nil))
			return
		}

		if err := h.service.Delete(r.Context(), id, principal.ID); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid "+name, nil))
		return 0, false
	}
	return id, true
}
