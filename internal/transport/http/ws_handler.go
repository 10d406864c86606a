package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"quiz-attempt-service/internal/app"
	"quiz-attempt-service/internal/domain"
	"github.com/gorilla/websocket"
)

// SessionHandler drives one quiz-taking session per websocket connection.
type SessionHandler struct {
	service  *app.AttemptService
	upgrader websocket.Upgrader
}

func NewSessionHandler(service *app.AttemptService) *SessionHandler {
	return &SessionHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID string             `json:"questionId"`
	Value      domain.AnswerValue `json:"value"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// questionView is a question as delivered to the challenger: no grading key.
type questionView struct {
	ID      string              `json:"id"`
	Text    string              `json:"text"`
	Type    domain.QuestionType `json:"type"`
	Options []string            `json:"options,omitempty"`
	Points  int                 `json:"points"`
}

type sessionPayload struct {
	QuizID        string         `json:"quizId"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	TotalPoints   int            `json:"totalPoints"`
	TimeRemaining int            `json:"timeRemaining"`
	Questions     []questionView `json:"questions"`
}

type submittedPayload struct {
	AttemptID   string `json:"attemptId"`
	Score       int    `json:"score"`
	TotalPoints int    `json:"totalPoints"`
	Percentage  int    `json:"percentage"`
	TimeTaken   int    `json:"timeTaken"`
}

// ServeWS upgrades the request and wires the connection into a new attempt
// session: inbound answer/submit/cancel messages drive the session, and the
// session's progress and outcome channels are pumped back to the client.
func (h *SessionHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	userID := r.URL.Query().Get("userId")
	if quizID == "" || userID == "" {
		http.Error(w, "missing quizId or userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session, err := h.service.StartSession(r.Context(), quizID, userID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	// Teardown cancels the session so no stray tick can fire after the
	// connection is gone; a no-op when the session already completed.
	defer session.Cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	pumpDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(pumpDone)
		for {
			select {
			case p := <-session.ProgressUpdates():
				select {
				case send <- outboundMessage[any]{Type: "progress", Payload: p}:
				case <-closeSignals:
					return
				}
			case o := <-session.Outcomes():
				msg, terminal := outcomeMessage(o)
				select {
				case send <- msg:
				case <-closeSignals:
					return
				}
				if terminal {
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "session", Payload: sessionView(session)}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			if err := session.RecordAnswer(payload.QuestionID, payload.Value); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "submit":
			err := session.Submit()
			if err != nil && !errors.Is(err, domain.ErrSubmissionInProgress) {
				// An in-flight submission makes a second request a no-op.
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "cancel":
			session.Cancel()
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-pumpDone
	close(send)
	<-writerDone
}

func outcomeMessage(o app.Outcome) (outboundMessage[any], bool) {
	switch o.Status {
	case app.OutcomeCompleted:
		return outboundMessage[any]{Type: "submitted", Payload: submittedPayload{
			AttemptID:   o.Attempt.ID,
			Score:       o.Attempt.Score,
			TotalPoints: o.Attempt.TotalPoints,
			Percentage:  o.Attempt.Percentage,
			TimeTaken:   o.Attempt.TimeTaken,
		}}, true
	case app.OutcomeLimitReached:
		return outboundMessage[any]{Type: "limitReached", Payload: errorPayload{Message: o.Err.Error()}}, true
	case app.OutcomeCancelled:
		return outboundMessage[any]{Type: "cancelled", Payload: struct{}{}}, true
	default:
		return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: o.Err.Error(), Retryable: true}}, false
	}
}

func sessionView(session *app.Session) sessionPayload {
	quiz := session.Quiz()
	questions := make([]questionView, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, questionView{
			ID:      q.ID,
			Text:    q.Text,
			Type:    q.Type.Normalize(),
			Options: q.Options,
			Points:  q.Points,
		})
	}
	return sessionPayload{
		QuizID:        quiz.ID,
		Title:         quiz.Title,
		Description:   quiz.Description,
		TotalPoints:   quiz.TotalPoints,
		TimeRemaining: session.TimeRemaining(),
		Questions:     questions,
	}
}
