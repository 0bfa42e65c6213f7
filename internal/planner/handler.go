package planner

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"studysphere/internal/apperr"
	"studysphere/internal/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createPlanRequest struct {
	Title    string      `json:"title"`
	Subject  string      `json:"subject"`
	ExamDate *time.Time  `json:"exam_date,omitempty"`
	Tasks    []TaskInput `json:"tasks"`
}

func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	plan, err := h.service.CreatePlan(userID, req.Title, req.Subject, req.ExamDate, req.Tasks)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(plan)
}

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	plans, err := h.service.ListPlans(userID)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	json.NewEncoder(w).Encode(plans)
}

func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	userID, planID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	plan, err := h.service.GetPlan(userID, planID)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	json.NewEncoder(w).Encode(plan)
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	userID, planID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	if err := h.service.Activate(userID, planID); err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"status": "activated"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, planID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(userID, planID); err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	userID, planID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	rawTask := mux.Vars(r)["taskId"]
	taskID, err := strconv.ParseUint(rawTask, 10, 64)
	if err != nil {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	if err := h.service.CompleteTask(userID, planID, uint(taskID)); err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"status": "completed"})
}

func (h *Handler) requestIDs(w http.ResponseWriter, r *http.Request) (userID, planID uint, ok bool) {
	userID, ok = auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, 0, false
	}

	raw := mux.Vars(r)["id"]
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		http.Error(w, "Invalid plan id", http.StatusBadRequest)
		return 0, 0, false
	}
	return userID, uint(parsed), true
}
