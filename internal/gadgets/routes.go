package gadgets

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes вешает маршруты гаджетов за auth-гейтом.
// Гейт — единственная дверь: ни один обработчик не регистрируется
// мимо этого сабраутера.
func RegisterRoutes(r *mux.Router, h *Handler, authMW mux.MiddlewareFunc) {
	sub := r.PathPrefix("/gadgets").Subrouter()
	sub.Use(authMW)
	sub.HandleFunc("", h.List).Methods(http.MethodGet)
	sub.HandleFunc("", h.Create).Methods(http.MethodPost)
	sub.HandleFunc("/{id:[a-fA-F0-9\\-]{36}}", h.Update).Methods(http.MethodPatch)
	sub.HandleFunc("/{id:[a-fA-F0-9\\-]{36}}", h.Decommission).Methods(http.MethodDelete)
	sub.HandleFunc("/{id:[a-fA-F0-9\\-]{36}}/self-destruct", h.SelfDestruct).Methods(http.MethodPost)
}
