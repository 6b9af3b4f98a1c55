package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armory/internal/auth"
	"armory/internal/middleware"
)

func newGuardedRouter(tokens middleware.TokenVerifier) (*mux.Router, *string) {
	var seenSubject string
	r := mux.NewRouter()
	sub := r.PathPrefix("/protected").Subrouter()
	sub.Use(middleware.AuthJWT(tokens))
	sub.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		seenSubject = middleware.GetSubject(r)
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	return r, &seenSubject
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	t.Parallel()

	r, _ := newGuardedRouter(auth.NewTokenService([]byte("s"), time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthJWT_InvalidToken(t *testing.T) {
	t.Parallel()

	tokens := auth.NewTokenService([]byte("s"), time.Hour)
	r, _ := newGuardedRouter(tokens)

	for _, header := range []string{
		"Bearer garbage",
		"Basic abc", // не bearer
		"Bearer ",   // пустой токен
	} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code, "header: %q", header)
	}
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	t.Parallel()

	// токен, выпущенный с отрицательным ttl, уже истёк
	tokens := auth.NewTokenService([]byte("s"), -time.Minute)
	tok, err := tokens.Issue("u1")
	require.NoError(t, err)

	r, _ := newGuardedRouter(tokens)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthJWT_ValidToken(t *testing.T) {
	t.Parallel()

	tokens := auth.NewTokenService([]byte("s"), time.Hour)
	tok, err := tokens.Issue("user-42")
	require.NoError(t, err)

	r, seen := newGuardedRouter(tokens)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-42", *seen)
}
