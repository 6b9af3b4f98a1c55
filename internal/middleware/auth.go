package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"armory/internal/models"
)

const subjectKey ctxKey = "subject"

// TokenVerifier — минимальный контракт, который нужен auth-гейту.
type TokenVerifier interface {
	Verify(token string) (subjectID string, err error)
}

// AuthJWT — единая точка авторизации для защищённых маршрутов:
// Authorization: Bearer <jwt>.
// Нет заголовка — 401; заголовок есть, но токен не прошёл проверку — 403.
func AuthJWT(tokens TokenVerifier) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				models.WriteProblem(w, http.StatusUnauthorized,
					"Unauthenticated", "missing bearer token", nil)
				return
			}
			const p = "Bearer "
			if !strings.HasPrefix(auth, p) {
				models.WriteProblem(w, http.StatusForbidden,
					"Forbidden", "invalid or expired token", nil)
				return
			}
			subject, err := tokens.Verify(strings.TrimPrefix(auth, p))
			if err != nil {
				models.WriteProblem(w, http.StatusForbidden,
					"Forbidden", "invalid or expired token", nil)
				return
			}
			ctx := context.WithValue(r.Context(), subjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject возвращает id пользователя, положенный auth-гейтом.
func GetSubject(r *http.Request) string {
	v := r.Context().Value(subjectKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
