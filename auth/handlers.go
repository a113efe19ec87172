package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/user/storefront-go/apperror"
)

// Handlers exposes the auth service over HTTP. The validator is a
// process-wide stateless collaborator, constructed once in main and passed in
// explicitly.
type Handlers struct {
	service  *Service
	validate *validator.Validate
}

// NewHandlers creates auth Handlers.
func NewHandlers(service *Service, validate *validator.Validate) *Handlers {
	return &Handlers{service: service, validate: validate}
}

// HandleRegister godoc
// @Summary User registration
// @Description Registers a new user account.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "Registration details"
// @Success 201 {object} auth.User "User created"
// @Failure 400 {object} apperror.ErrorResponse "Invalid input"
// @Failure 409 {object} apperror.ErrorResponse "Username or email already in use"
// @Failure 500 {object} apperror.ErrorResponse "Internal server error"
// @Router /api/auth/register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := h.validate.Struct(req); err != nil {
			WriteError(w, r, apperror.NewValidationError("invalid registration payload: "+err.Error(), err))
			return
		}

		user, err := h.service.Register(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, user)
	}
}

// HandleLogin godoc
// @Summary User login
// @Description Authenticates a user and returns a signed bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "Login credentials"
// @Success 200 {object} auth.TokenResponse "Token issued"
// @Failure 400 {object} apperror.ErrorResponse "Invalid input"
// @Failure 401 {object} apperror.ErrorResponse "Invalid credentials"
// @Failure 500 {object} apperror.ErrorResponse "Internal server error"
// @Router /api/auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := h.validate.Struct(req); err != nil {
			WriteError(w, r, apperror.NewValidationError("login and password are required", err))
			return
		}

		resp, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// writeJSON serializes data to the response with the given status.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteJSON is the shared success-response helper used by the other feature
// packages' handlers.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, data)
}

// WriteError converts any error into the standardized error response.
// Non-AppError values are wrapped as internal errors so no raw error text
// shapes an external outcome.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}
	writeJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
