package lesson

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"studysphere/internal/apperr"
	"studysphere/internal/auth"
	"studysphere/internal/exam"
	"studysphere/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type generateLessonRequest struct {
	Subject    string `json:"subject"`
	ClassLevel string `json:"class_level"`
	Topic      string `json:"topic"`
}

func (h *Handler) GenerateLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req generateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	lesson, err := h.service.GenerateLesson(r.Context(), userID, req.Subject, req.ClassLevel, req.Topic)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(lesson)
}

func (h *Handler) ListLessons(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	lessons, err := h.service.ListLessons(userID, r.URL.Query().Get("subject"))
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	json.NewEncoder(w).Encode(lessons)
}

func (h *Handler) GetLesson(w http.ResponseWriter, r *http.Request) {
	userID, lessonID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	lesson, err := h.service.GetLesson(userID, lessonID)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	json.NewEncoder(w).Encode(lesson)
}

// GetQuiz returns the lesson's practice questions without the answer key.
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	userID, lessonID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	lesson, err := h.service.GetLesson(userID, lessonID)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	questions := make([]models.PracticeQuestionDTO, len(lesson.PracticeQuestions))
	for i, q := range lesson.PracticeQuestions {
		questions[i] = q.ToDTO()
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"lesson_id": lesson.ID,
		"subject":   lesson.Subject,
		"questions": questions,
	})
}

func (h *Handler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, lessonID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	if err := h.service.CompleteLesson(userID, lessonID); err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"status": "completed"})
}

type submitQuizRequest struct {
	Answers   []exam.SubmittedAnswer `json:"answers"`
	TimeSpent *int                   `json:"time_spent,omitempty"`
}

func (h *Handler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	userID, lessonID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	var req submitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	outcome, err := h.service.SubmitQuiz(userID, lessonID, req.Answers, req.TimeSpent)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	json.NewEncoder(w).Encode(outcome)
}

func (h *Handler) requestIDs(w http.ResponseWriter, r *http.Request) (userID, lessonID uint, ok bool) {
	userID, ok = auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, 0, false
	}

	raw := mux.Vars(r)["id"]
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		http.Error(w, "Invalid lesson id", http.StatusBadRequest)
		return 0, 0, false
	}
	return userID, uint(parsed), true
}
