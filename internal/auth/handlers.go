package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"armory/internal/logs"
	"armory/internal/middleware"
	"armory/internal/models"
	"armory/internal/repo"
)

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

type Handler struct {
	svc *Service
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body", nil)
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "username and password required", nil)
		return
	}

	err := h.svc.Register(r.Context(), req.Username, req.Password)
	if errors.Is(err, repo.ErrConflict) {
		models.WriteProblem(w, http.StatusConflict, "Conflict", "username already taken", nil)
		return
	}
	if err != nil {
		serverError(w, r, "register", err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, map[string]string{"message": "user created"})
}

// POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body", nil)
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials", nil)
		return
	}
	if err != nil {
		serverError(w, r, "login", err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

// serverError прячет внутреннюю причину за общим 500;
// подробности остаются в логе под reqid.
func serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	reqid := middleware.GetRequestID(r)
	logs.Logger.Errorf("%s failed: %v reqid=%s", op, err, reqid)
	models.WriteProblem(w, http.StatusInternalServerError,
		"Internal Server Error", "unexpected server error (see logs by reqid)",
		map[string]any{"reqid": reqid})
}
