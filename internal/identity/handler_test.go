package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-hq/meridian/internal/shared"
)

type mockRepo struct {
	byEmail map[string]*User
	byID    map[int64]*User
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

var _ Repository = (*mockRepo)(nil)

func newTestHandler(t *testing.T) (*Handler, *shared.TokenStore) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	active := &User{ID: 10, Email: "rep@acme.local", PasswordHash: string(hash), CompanyID: 1, TeamID: 7, IsActive: true}
	suspended := &User{ID: 11, Email: "gone@acme.local", PasswordHash: string(hash), CompanyID: 1, IsActive: false}
	repo := &mockRepo{
		byEmail: map[string]*User{active.Email: active, suspended.Email: suspended},
		byID:    map[int64]*User{active.ID: active, suspended.ID: suspended},
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	tokens := shared.NewTokenStore(client, "test_token", time.Minute)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, NewService(repo), tokens), tokens
}

func loginBody(t *testing.T, email, password string) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(map[string]string{"email": email, "password": password})
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Route("/auth", h.MountRoutes)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	h, tokens := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", loginBody(t, "rep@acme.local", "correct-horse"))
	rec := serve(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Token     string `json:"token"`
		UserID    int64  `json:"user_id"`
		CompanyID int64  `json:"company_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.UserID)
	assert.Equal(t, int64(1), resp.CompanyID)

	actor, err := tokens.Resolve(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(10), actor.UserID)
	assert.Equal(t, int64(7), actor.TeamID)
}

func TestLoginWrongPassword(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", loginBody(t, "rep@acme.local", "wrong-password"))
	rec := serve(h, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", loginBody(t, "nobody@acme.local", "correct-horse"))
	rec := serve(h, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code, "unknown user and bad password are indistinguishable")
}

func TestLoginSuspendedUser(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", loginBody(t, "gone@acme.local", "correct-horse"))
	rec := serve(h, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", loginBody(t, "not-an-email", "correct-horse"))
	rec := serve(h, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/auth/login", loginBody(t, "rep@acme.local", "short"))
	rec = serve(h, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout(t *testing.T) {
	h, tokens := newTestHandler(t)

	token, err := tokens.Issue(context.Background(), shared.Actor{UserID: 10})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := serve(h, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err = tokens.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestLogoutWithoutToken(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := serve(h, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
