package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a submitted question ID does not belong to the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAttemptNotFound indicates the requested attempt does not exist.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrNotAuthenticated is returned when an operation requires a user identity.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrAttemptLimitReached means admission control refused a new attempt for the current cycle.
	ErrAttemptLimitReached = errors.New("maximum attempts reached for this quiz")
	// ErrSubmissionInProgress is returned for submit requests while one is already in flight.
	ErrSubmissionInProgress = errors.New("submission already in progress")
	// ErrSessionClosed is returned for operations on a finished or cancelled session.
	ErrSessionClosed = errors.New("session is closed")
	// ErrStoreUnavailable wraps data store failures; admission control fails closed on it.
	ErrStoreUnavailable = errors.New("data store unavailable")
)
