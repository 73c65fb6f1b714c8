package authz

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-hq/meridian/internal/shared"
)

// PermissionsHandler exposes resolution results for inspection: what a
// caller can do in a scope, and why a module check failed.
type PermissionsHandler struct {
	logger   *slog.Logger
	resolver *Resolver
	gate     *Gate
}

// NewPermissionsHandler builds a PermissionsHandler.
func NewPermissionsHandler(logger *slog.Logger, resolver *Resolver, gate *Gate) *PermissionsHandler {
	return &PermissionsHandler{logger: logger, resolver: resolver, gate: gate}
}

// MountRoutes registers inspection routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Get("/effective", h.effective)
	r.Get("/check", h.check)
	r.Get("/module-check", h.moduleCheck)
}

func (h *PermissionsHandler) effective(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	scope := scopeFromQuery(r, actor)
	perms, err := h.resolver.EffectivePermissions(r.Context(), *actor, scope)
	if err != nil {
		h.fail(w, "resolve effective permissions", err)
		return
	}
	codes := make([]string, 0, len(perms))
	for code := range perms {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	writeJSON(w, http.StatusOK, map[string]any{
		"company_id":  scope.CompanyID,
		"module":      scope.Module,
		"permissions": codes,
	})
}

func (h *PermissionsHandler) check(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	permission := r.URL.Query().Get("permission")
	if permission == "" {
		http.Error(w, "permission query parameter required", http.StatusBadRequest)
		return
	}
	scope := scopeFromQuery(r, actor)
	allowed, err := h.resolver.Authorize(r.Context(), *actor, permission, scope)
	if err != nil {
		h.fail(w, "authorize", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"permission": permission, "allowed": allowed})
}

func (h *PermissionsHandler) moduleCheck(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	module := r.URL.Query().Get("module")
	permission := r.URL.Query().Get("permission")
	if module == "" || permission == "" {
		http.Error(w, "module and permission query parameters required", http.StatusBadRequest)
		return
	}
	companyID := actor.CompanyID
	if raw := r.URL.Query().Get("company_id"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			companyID = parsed
		}
	}
	decision, err := h.gate.AuthorizeInModule(r.Context(), *actor, module, permission, companyID)
	if err != nil {
		h.fail(w, "module check", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"allowed":        decision.Allowed,
		"module_enabled": decision.ModuleEnabled,
		"has_role":       decision.HasRole,
		"has_permission": decision.HasPermission,
		"reason":         string(decision.Reason),
	})
}

func (h *PermissionsHandler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, slog.Any("error", err))
	if errors.Is(err, shared.ErrResolutionUnavailable) {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func scopeFromQuery(r *http.Request, actor *shared.Actor) Scope {
	scope := Scope{CompanyID: actor.CompanyID, Module: r.URL.Query().Get("module")}
	if raw := r.URL.Query().Get("company_id"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			scope.CompanyID = parsed
		}
	}
	return scope
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
