package modules

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// AuthzGuard is the slice of the authorization middleware the handler
// mounts its routes behind.
type AuthzGuard interface {
	RequireAny(perms ...string) func(http.Handler) http.Handler
}

// Handler serves the module catalog and company enablement.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	guard    AuthzGuard
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, guard AuthzGuard) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		guard:    guard,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes registers module routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listDefinitions)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny("configure"))
		r.Put("/enablement", h.setEnablement)
	})
}

type setEnablementRequest struct {
	CompanyID int64  `json:"company_id" validate:"required,gt=0"`
	Module    string `json:"module" validate:"required,max=50"`
	Enabled   *bool  `json:"enabled" validate:"required"`
}

func (h *Handler) listDefinitions(w http.ResponseWriter, r *http.Request) {
	defs, err := h.service.Definitions(r.Context())
	if err != nil {
		h.logger.Error("list module definitions", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	type item struct {
		Code        string `json:"code"`
		DisplayName string `json:"display_name"`
		IsActive    bool   `json:"is_active"`
	}
	out := make([]item, 0, len(defs))
	for _, d := range defs {
		out = append(out, item{Code: d.Code, DisplayName: d.DisplayName, IsActive: d.IsActive})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *Handler) setEnablement(w http.ResponseWriter, r *http.Request) {
	var req setEnablementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	known, err := h.service.SetEnabled(r.Context(), req.CompanyID, req.Module, *req.Enabled)
	if err != nil {
		h.logger.Error("set module enablement", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if !known {
		http.Error(w, "unknown module", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
