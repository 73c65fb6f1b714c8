package authz

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/meridian-hq/meridian/internal/shared"
)

// Middleware wires authorization helpers for HTTP handlers. Checks are
// evaluated in the caller's own company scope.
type Middleware struct {
	Resolver *Resolver
	Logger   *slog.Logger
}

// RequireAny ensures the caller holds at least one of the permissions.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	normalized := normalizePermissions(perms)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(normalized) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			has, ok := m.checker(w, r)
			if !ok {
				return
			}
			for _, p := range normalized {
				if has(p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// RequireAll ensures the caller holds every listed permission.
func (m Middleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	normalized := normalizePermissions(perms)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(normalized) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			has, ok := m.checker(w, r)
			if !ok {
				return
			}
			for _, p := range normalized {
				if !has(p) {
					http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// checker resolves the caller's permission set once and returns a
// membership test. Bypass roles test true for everything. On failure the
// response is already written and ok is false.
func (m Middleware) checker(w http.ResponseWriter, r *http.Request) (func(string) bool, bool) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return nil, false
	}
	admin, err := m.Resolver.IsPlatformAdmin(r.Context(), actor.UserID)
	if err != nil {
		m.fail(w, err)
		return nil, false
	}
	owner := false
	if !admin && actor.CompanyID != 0 {
		owner, err = m.Resolver.IsCompanyOwner(r.Context(), actor.UserID, actor.CompanyID)
		if err != nil {
			m.fail(w, err)
			return nil, false
		}
	}
	if admin || owner {
		return func(string) bool { return true }, true
	}
	perms, err := m.Resolver.EffectivePermissions(r.Context(), *actor, Scope{CompanyID: actor.CompanyID})
	if err != nil {
		m.fail(w, err)
		return nil, false
	}
	return func(p string) bool {
		_, has := perms[p]
		return has
	}, true
}

func (m Middleware) fail(w http.ResponseWriter, err error) {
	if m.Logger != nil {
		m.Logger.Error("authorization check", slog.Any("error", err))
	}
	// Could not decide is not the same as denied; fail closed but let the
	// client tell the two apart.
	if errors.Is(err, shared.ErrResolutionUnavailable) {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func normalizePermissions(perms []string) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
