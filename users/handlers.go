package users

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/user/storefront-go/apperror"
	"github.com/user/storefront-go/auth"
)

// Handlers exposes user profile endpoints.
type Handlers struct {
	service  *Service
	validate *validator.Validate
}

func NewHandlers(service *Service, validate *validator.Validate) *Handlers {
	return &Handlers{service: service, validate: validate}
}

// HandleGetByID godoc
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userID path int true "User ID"
// @Success 200 {object} users.UserProfileResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/users/{userID} [get]
func (h *Handlers) HandleGetByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid user id", nil))
			return
		}
		profile, err := h.service.GetByID(r.Context(), id)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, profile)
	}
}

// HandleGetByUsername godoc
// @Summary Get a user by username
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} users.UserProfileResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/users/username/{username} [get]
func (h *Handlers) HandleGetByUsername() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := h.service.GetByUsername(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, profile)
	}
}

// HandleGetByEmail godoc
// @Summary Get a user by email
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param email path string true "Email address"
// @Success 200 {object} users.UserProfileResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/users/email/{email} [get]
func (h *Handlers) HandleGetByEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := h.service.GetByEmail(r.Context(), chi.URLParam(r, "email"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, profile)
	}
}

// HandleUpdateMe godoc
// @Summary Update the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profileBody body users.UpdateUserProfileRequest true "Fields to update"
// @Success 200 {object} users.UserProfileResponse
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 409 {object} apperror.ErrorResponse "Email already in use"
// @Router /api/users/me [put]
func (h *Handlers) HandleUpdateMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("authentication required", nil))
			return
		}

		var req UpdateUserProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := h.validate.Struct(req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid profile fields", err))
			return
		}

		profile, err := h.service.UpdateProfile(r.Context(), principal.ID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, profile)
	}
}

// HandleDeleteMe godoc
// @Summary Delete the authenticated user's account
// @Tags users
// @Security BearerAuth
// @Success 204 "Deleted"
// @Failure 401 {object} apperror.ErrorResponse
// @Router /api/users/me [delete]
func (h *Handlers) HandleDeleteMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("authentication required", nil))
			return
		}
		if err := h.service.DeleteAccount(r.Context(), principal.ID); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
