package gadgets

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"armory/internal/logs"
	"armory/internal/middleware"
	"armory/internal/models"
	"armory/internal/repo"
)

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

type Handler struct {
	svc *Service
}

// GET /gadgets?status=Available
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var status *models.GadgetStatus
	if q := r.URL.Query().Get("status"); q != "" {
		st, err := models.ParseGadgetStatus(q)
		if err != nil {
			models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
			return
		}
		status = &st
	}

	views, err := h.svc.List(r.Context(), status)
	if err != nil {
		writeError(w, r, "list gadgets", err)
		return
	}
	models.WriteJSON(w, http.StatusOK, views)
}

type createRequest struct {
	Name  string          `json:"name"`
	Specs json.RawMessage `json:"specs"`
	// status и codename клиенту не принадлежат — игнорируются
}

// POST /gadgets
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body", nil)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "name required", nil)
		return
	}

	g, err := h.svc.Create(r.Context(), req.Name, []byte(req.Specs))
	if err != nil {
		writeError(w, r, "create gadget", err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, g)
}

type updateRequest struct {
	Name   *string         `json:"name"`
	Status *string         `json:"status"`
	Specs  json.RawMessage `json:"specs"`
}

// PATCH /gadgets/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body", nil)
		return
	}

	in := UpdateInput{Name: req.Name, Specs: []byte(req.Specs)}
	if req.Status != nil {
		st, err := models.ParseGadgetStatus(*req.Status)
		if err != nil {
			models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
			return
		}
		in.Status = &st
	}

	if _, err := h.svc.Update(r.Context(), id, in); err != nil {
		writeError(w, r, "update gadget", err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]string{"message": "gadget updated"})
}

// DELETE /gadgets/{id}
func (h *Handler) Decommission(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.svc.Decommission(r.Context(), id); err != nil {
		writeError(w, r, "decommission gadget", err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]string{"message": "gadget decommissioned"})
}

// POST /gadgets/{id}/self-destruct
func (h *Handler) SelfDestruct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	_, code, err := h.svc.SelfDestruct(r.Context(), id)
	if err != nil {
		writeError(w, r, "self-destruct gadget", err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]string{
		"message":          fmt.Sprintf("gadget self-destruct initiated, confirmation code: %s", code),
		"confirmationCode": code,
	})
}

// writeError — единая точка перевода ошибок сервиса в HTTP-статусы.
// Всё, что не входит в таксономию, уходит как 500 без внутренних
// подробностей; причина остаётся в логе под reqid.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		models.WriteProblem(w, http.StatusNotFound, "Not Found", "gadget not found", nil)
	case errors.Is(err, ErrInvalidTransition):
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
	default:
		reqid := middleware.GetRequestID(r)
		logs.Logger.Errorf("%s failed: %v reqid=%s", op, err, reqid)
		models.WriteProblem(w, http.StatusInternalServerError,
			"Internal Server Error", "unexpected server error (see logs by reqid)",
			map[string]any{"reqid": reqid})
	}
}
