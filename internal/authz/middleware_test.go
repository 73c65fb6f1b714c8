package authz

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-hq/meridian/internal/assignments"
	"github.com/meridian-hq/meridian/internal/registry"
	"github.com/meridian-hq/meridian/internal/shared"
)

func guardedRequest(t *testing.T, mw func(http.Handler) http.Handler, actor *shared.Actor) *httptest.ResponseRecorder {
	t.Helper()
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if actor != nil {
		req = req.WithContext(shared.ContextWithActor(req.Context(), actor))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func newTestMiddleware(store *mockStore) Middleware {
	return Middleware{
		Resolver: newTestResolver(store),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRequireAnyUnauthenticated(t *testing.T) {
	mw := newTestMiddleware(&mockStore{})

	rec := guardedRequest(t, mw.RequireAny(registry.PermView), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAnyGranted(t *testing.T) {
	store := &mockStore{assignments: []assignments.Assignment{
		activeAssignment(10, roleMember, 1, ""),
	}}
	mw := newTestMiddleware(store)

	rec := guardedRequest(t, mw.RequireAny(registry.PermView), &shared.Actor{UserID: 10, CompanyID: 1})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAnyDenied(t *testing.T) {
	store := &mockStore{assignments: []assignments.Assignment{
		activeAssignment(10, roleMember, 1, ""),
	}}
	mw := newTestMiddleware(store)

	rec := guardedRequest(t, mw.RequireAny(registry.PermManage), &shared.Actor{UserID: 10, CompanyID: 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAnyBypass(t *testing.T) {
	store := &mockStore{assignments: []assignments.Assignment{
		activeAssignment(10, roleAdmin, 0, ""),
	}}
	mw := newTestMiddleware(store)

	rec := guardedRequest(t, mw.RequireAny(registry.PermManage), &shared.Actor{UserID: 10})
	assert.Equal(t, http.StatusOK, rec.Code, "platform admin passes any permission gate")
}

func TestRequireAnyUnavailable(t *testing.T) {
	mw := newTestMiddleware(&mockStore{listErr: errors.New("connection refused")})

	rec := guardedRequest(t, mw.RequireAny(registry.PermView), &shared.Actor{UserID: 10, CompanyID: 1})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "cannot-decide is not denied")
}

func TestRequireAll(t *testing.T) {
	store := &mockStore{assignments: []assignments.Assignment{
		activeAssignment(10, roleRep, 1, registry.ModuleSales),
	}}
	mw := newTestMiddleware(store)
	actor := &shared.Actor{UserID: 10, CompanyID: 1}

	rec := guardedRequest(t, mw.RequireAll(registry.PermCreate, registry.PermView), actor)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = guardedRequest(t, mw.RequireAll(registry.PermCreate, registry.PermManage), actor)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
