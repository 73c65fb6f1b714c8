package assignments

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-hq/meridian/internal/shared"
)

// AuthzGuard is the slice of the authorization middleware the handler
// mounts its routes behind.
type AuthzGuard interface {
	RequireAny(perms ...string) func(http.Handler) http.Handler
}

// Handler serves role grant/revoke and override administration.
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

// MountRoutes registers assignment administration routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny("manage_roles"))
		r.Post("/grants", h.grantRole)
		r.Delete("/grants", h.revokeRole)
		r.Post("/overrides", h.createOverride)
		r.Delete("/overrides/{id}", h.revokeOverride)
	})
}

func (h *Handler) grantRole(w http.ResponseWriter, r *http.Request) {
	var req grantRoleRequest
	if !h.decode(w, r, &req) {
		return
	}
	actor := shared.ActorFromContext(r.Context())
	assignment, err := h.service.GrantRole(r.Context(), req.UserID, req.RoleCode, req.CompanyID, req.Module, actor.UserID, req.ExpiresAt)
	if err != nil {
		h.writeError(w, "grant role", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, assignmentResponse{
		ID:        assignment.ID,
		UserID:    assignment.UserID,
		RoleCode:  assignment.RoleCode,
		CompanyID: assignment.CompanyID,
		Module:    assignment.Module,
		ExpiresAt: assignment.ExpiresAt,
	})
}

func (h *Handler) revokeRole(w http.ResponseWriter, r *http.Request) {
	var req revokeRoleRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.RevokeRole(r.Context(), req.UserID, req.RoleCode, req.CompanyID, req.Module); err != nil {
		h.writeError(w, "revoke role", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createOverride(w http.ResponseWriter, r *http.Request) {
	var req createOverrideRequest
	if !h.decode(w, r, &req) {
		return
	}
	actor := shared.ActorFromContext(r.Context())
	override, err := h.service.CreateOverride(r.Context(), Override{
		TargetType:     TargetType(req.TargetType),
		TargetID:       req.TargetID,
		CompanyID:      req.CompanyID,
		PermissionCode: req.Permission,
		Module:         req.Module,
		Action:         OverrideAction(req.Action),
		Reason:         req.Reason,
		CreatedBy:      actor.UserID,
		ExpiresAt:      req.ExpiresAt,
	})
	if err != nil {
		h.writeError(w, "create override", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, overrideResponse{
		ID:         override.ID,
		TargetType: string(override.TargetType),
		TargetID:   override.TargetID,
		CompanyID:  override.CompanyID,
		Permission: override.PermissionCode,
		Module:     override.Module,
		Action:     string(override.Action),
		ExpiresAt:  override.ExpiresAt,
	})
}

func (h *Handler) revokeOverride(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid override id", http.StatusBadRequest)
		return
	}
	if err := h.service.RevokeOverride(r.Context(), id); err != nil {
		h.writeError(w, "revoke override", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(dest); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, shared.ErrDuplicateGrant):
		http.Error(w, "company already holds an active super plan grant", http.StatusConflict)
	case errors.Is(err, shared.ErrNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	default:
		h.logger.Error(msg, slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
