// AngelaMos | 2026
// handler.go

package credential

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/artemiscap/dashboard-api/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
}

type LoginRequest struct {
	Password string `json:"password" validate:"required,max=256"`
}

type LoginResponse struct {
	Authenticated       bool   `json:"authenticated"`
	IsArtemisManagement bool   `json:"isArtemisManagement"`
	UserName            string `json:"userName"`
}

type loginErrorResponse struct {
	Error         string `json:"error"`
	Authenticated bool   `json:"authenticated"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLoginError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeLoginError(
			w,
			http.StatusBadRequest,
			core.FormatValidationError(err),
		)
		return
	}

	identity, err := h.service.Verify(r.Context(), req.Password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredential) {
			writeLoginError(w, http.StatusUnauthorized, "invalid credential")
			return
		}
		if appErr, ok := core.AsAppError(err); ok {
			if appErr.Status >= http.StatusInternalServerError {
				core.SetSpanError(r.Context(), appErr.Err)
				slog.ErrorContext(r.Context(), "login verification failed",
					"error", appErr.Err,
				)
			}
			writeLoginError(w, appErr.Status, appErr.Message)
			return
		}
		writeLoginError(
			w,
			http.StatusInternalServerError,
			"internal server error",
		)
		return
	}

	core.OK(w, LoginResponse{
		Authenticated:       true,
		IsArtemisManagement: identity.IsManagement,
		UserName:            identity.UserName,
	})
}

func writeLoginError(w http.ResponseWriter, status int, message string) {
	core.WriteJSON(w, status, loginErrorResponse{
		Error:         message,
		Authenticated: false,
	})
}
