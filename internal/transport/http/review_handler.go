package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"quiz-attempt-service/internal/app"
	"quiz-attempt-service/internal/domain"
)

// ReviewHandler serves the read-only answer-review reconstruction for a
// persisted attempt.
type ReviewHandler struct {
	service *app.AttemptService
}

func NewReviewHandler(service *app.AttemptService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// ServeReview handles GET /attempts/{attemptID}/review?userId=...
func (h *ReviewHandler) ServeReview(w http.ResponseWriter, r *http.Request) {
	attemptID := r.PathValue("attemptID")
	userID := r.URL.Query().Get("userId")

	review, err := h.service.Review(r.Context(), attemptID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(review); err != nil {
		log.Printf("write review response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrAttemptNotFound), errors.Is(err, domain.ErrQuizNotFound):
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
