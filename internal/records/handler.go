// AngelaMos | 2026
// handler.go

package records

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/artemiscap/dashboard-api/internal/core"
	"github.com/artemiscap/dashboard-api/internal/middleware"
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

// RegisterRoutes wires the two data endpoints. Both sit behind the
// credential gate; the write endpoint additionally requires the management
// flag, and each carries its own rate budget.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	readLimit func(http.Handler) http.Handler,
	writeLimit func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(readLimit)
		r.Use(authenticator)
		r.Post("/data/read", h.Read)
	})

	r.Group(func(r chi.Router) {
		r.Use(writeLimit)
		r.Use(authenticator)
		r.Use(middleware.RequireManagement)
		r.Post("/data/write", h.Write)
	})
}

func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	var req ReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	result, err := h.service.Read(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	// getKPIs returns the snapshot object itself; list/get wrap rows in a
	// data envelope.
	if req.Operation == OpGetKPIs {
		core.OK(w, result)
		return
	}

	core.OK(w, DataResponse{Data: result})
}

func (h *Handler) Write(w http.ResponseWriter, r *http.Request) {
	var req WriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	result, err := h.service.Write(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if success, ok := result.(SuccessResponse); ok {
		core.OK(w, success)
		return
	}

	core.OK(w, DataResponse{Data: result})
}
