package exam

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"studysphere/internal/apperr"
	"studysphere/internal/auth"
	"studysphere/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createExamRequest struct {
	Subject       string `json:"subject"`
	ClassLevel    string `json:"class_level"`
	QuestionCount int    `json:"question_count"`
}

func (h *Handler) CreateExamPrep(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	prep, err := h.service.CreateExamPrep(r.Context(), userID, req.Subject, req.ClassLevel, req.QuestionCount)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(prep)
}

func (h *Handler) ListExamPreps(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	preps, err := h.service.ListExamPreps(userID)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	json.NewEncoder(w).Encode(preps)
}

// GetExamPrep returns the prep with its questions in taking view: no correct
// indexes, no explanations.
func (h *Handler) GetExamPrep(w http.ResponseWriter, r *http.Request) {
	userID, prepID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	prep, err := h.service.GetExamPrep(userID, prepID)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	questions := make([]models.ExamQuestionDTO, len(prep.Questions))
	for i, q := range prep.Questions {
		questions[i] = q.ToDTO()
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":              prep.ID,
		"subject":         prep.Subject,
		"class_level":     prep.ClassLevel,
		"title":           prep.Title,
		"total_questions": prep.TotalQuestions,
		"topics_covered":  prep.TopicsCovered,
		"is_active":       prep.IsActive,
		"questions":       questions,
	})
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	userID, prepID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	if err := h.service.Activate(userID, prepID); err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"status": "activated"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, prepID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(userID, prepID); err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type submitAttemptRequest struct {
	Answers   []SubmittedAnswer `json:"answers"`
	TimeSpent *int              `json:"time_spent,omitempty"`
}

func (h *Handler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, prepID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	var req submitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	outcome, err := h.service.SubmitAttempt(userID, prepID, req.Answers, req.TimeSpent)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	json.NewEncoder(w).Encode(outcome)
}

func (h *Handler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	attempts, err := h.service.ListAttempts(userID)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	json.NewEncoder(w).Encode(attempts)
}

func (h *Handler) requestIDs(w http.ResponseWriter, r *http.Request) (userID, prepID uint, ok bool) {
	userID, ok = auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, 0, false
	}

	raw := mux.Vars(r)["id"]
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		http.Error(w, "Invalid exam prep id", http.StatusBadRequest)
		return 0, 0, false
	}
	return userID, uint(parsed), true
}
