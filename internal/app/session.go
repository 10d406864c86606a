package app

import (
	"context"
	"errors"
	"time"

	"quiz-attempt-service/internal/domain"
)

type sessionState int

const (
	stateIdle sessionState = iota
	stateSubmitting
	stateFailed
	stateDone
)

// OutcomeStatus labels the result of a submission (or the session's end).
type OutcomeStatus string

const (
	OutcomeCompleted    OutcomeStatus = "completed"
	OutcomeLimitReached OutcomeStatus = "limit_reached"
	OutcomeFailed       OutcomeStatus = "failed"
	OutcomeCancelled    OutcomeStatus = "cancelled"
)

// Outcome is delivered on the session's outcome channel after each submission
// attempt and on cancellation. OutcomeFailed is retryable; the rest are terminal.
type Outcome struct {
	Status  OutcomeStatus
	Attempt *domain.Attempt
	Err     error
}

// Progress is a read-only snapshot pushed to the host UI on every tick and
// recorded answer.
type Progress struct {
	TimeRemaining int `json:"timeRemaining"`
	Answered      int `json:"answered"`
	Total         int `json:"total"`
}

type writeResult struct {
	attempt *domain.Attempt
	err     error
}

// Session governs one timed quiz-taking session for one user. All state lives
// on a single event-loop goroutine: answer recording, timer ticks, and both
// submission paths (manual and timer expiry) are serialized through it, which
// is what makes the submit single-flight guarantee structural rather than
// incidental. Sessions share nothing; each owns its answer map and ticker.
type Session struct {
	service *AttemptService
	ctx     context.Context
	quiz    domain.Quiz
	userID  string

	clock     func() time.Time
	startedAt time.Time
	tickC     <-chan time.Time
	stopTick  func()

	commands chan func()
	writes   chan writeResult
	outcomes chan Outcome
	progress chan Progress
	closed   chan struct{}

	state     sessionState
	remaining int
	expired   bool
	answers   map[string]domain.AnswerValue
	questions map[string]domain.Question
}

// SessionOption customizes a session; used by tests for deterministic time.
type SessionOption func(*Session)

// WithTicker replaces the one-second countdown ticker with a caller-driven
// tick channel.
func WithTicker(tick <-chan time.Time, stop func()) SessionOption {
	return func(s *Session) {
		s.tickC = tick
		s.stopTick = stop
	}
}

// WithClock replaces the wall clock used for elapsed-time measurement.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.clock = now }
}

func startSession(ctx context.Context, service *AttemptService, quiz domain.Quiz, userID string, opts ...SessionOption) *Session {
	s := &Session{
		service:   service,
		ctx:       ctx,
		quiz:      quiz,
		userID:    userID,
		clock:     service.clock,
		commands:  make(chan func()),
		writes:    make(chan writeResult, 1),
		outcomes:  make(chan Outcome, 4),
		progress:  make(chan Progress, 8),
		closed:    make(chan struct{}),
		answers:   make(map[string]domain.AnswerValue),
		questions: make(map[string]domain.Question, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		s.questions[q.ID] = q
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.clock()
	s.remaining = quiz.DurationMinutes * 60
	if s.tickC == nil {
		ticker := time.NewTicker(time.Second)
		s.tickC = ticker.C
		s.stopTick = ticker.Stop
	}
	go s.run()
	return s
}

func (s *Session) run() {
	defer func() {
		if s.stopTick != nil {
			s.stopTick()
		}
		close(s.closed)
	}()

	// A zero-duration quiz starts already expired and goes straight to
	// auto-submission.
	if s.remaining <= 0 {
		s.expire()
	}

	for {
		select {
		case <-s.tickC:
			s.handleTick()
		case cmd := <-s.commands:
			cmd()
		case res := <-s.writes:
			s.handleWriteResult(res)
		}
		if s.state == stateDone {
			return
		}
	}
}

func (s *Session) handleTick() {
	if s.expired || (s.state != stateIdle && s.state != stateFailed) {
		return
	}
	if s.remaining > 0 {
		s.remaining--
	}
	s.pushProgress()
	if s.remaining <= 0 {
		s.expire()
	}
}

// expire fires the auto-submission exactly once and silences the ticker.
func (s *Session) expire() {
	if s.expired {
		return
	}
	s.expired = true
	if s.stopTick != nil {
		s.stopTick()
		s.stopTick = nil
	}
	_ = s.beginSubmit()
}

// beginSubmit is the single entry into the submitting state. The answer map is
// snapshotted here; answers recorded after this point (there should be none,
// the UI is locked) do not affect the score.
func (s *Session) beginSubmit() error {
	switch s.state {
	case stateSubmitting:
		return domain.ErrSubmissionInProgress
	case stateDone:
		return domain.ErrSessionClosed
	}
	s.state = stateSubmitting

	answers := make(map[string]domain.AnswerValue, len(s.answers))
	for id, v := range s.answers {
		answers[id] = v
	}
	elapsed := s.clock().Sub(s.startedAt)

	go func() {
		attempt, err := s.service.finalize(s.ctx, s.quiz, s.userID, answers, elapsed)
		s.writes <- writeResult{attempt: attempt, err: err}
	}()
	return nil
}

func (s *Session) handleWriteResult(res writeResult) {
	if s.state != stateSubmitting {
		return
	}
	switch {
	case res.err == nil:
		s.state = stateDone
		s.emit(Outcome{Status: OutcomeCompleted, Attempt: res.attempt})
	case errors.Is(res.err, domain.ErrAttemptLimitReached):
		// Admission refused: the session ends without a write.
		s.state = stateDone
		s.emit(Outcome{Status: OutcomeLimitReached, Err: res.err})
	default:
		// Retryable: Submit() re-enters submitting and re-runs admission.
		s.state = stateFailed
		s.emit(Outcome{Status: OutcomeFailed, Err: res.err})
	}
}

// do runs fn on the session loop, returning false if the session is closed.
func (s *Session) do(fn func()) bool {
	done := make(chan struct{})
	select {
	case s.commands <- func() { fn(); close(done) }:
		<-done
		return true
	case <-s.closed:
		return false
	}
}

// RecordAnswer stores the challenger's current answer for a question. Allowed
// while idle or failed; rejected while a submission is in flight.
func (s *Session) RecordAnswer(questionID string, value domain.AnswerValue) error {
	var err error
	ok := s.do(func() {
		switch s.state {
		case stateSubmitting:
			err = domain.ErrSubmissionInProgress
			return
		case stateDone:
			err = domain.ErrSessionClosed
			return
		}
		if _, found := s.questions[questionID]; !found {
			err = domain.ErrQuestionNotFound
			return
		}
		if value.IsAbsent() {
			delete(s.answers, questionID)
		} else {
			s.answers[questionID] = value
		}
		s.pushProgress()
	})
	if !ok {
		return domain.ErrSessionClosed
	}
	return err
}

// Submit requests a manual submission. A request racing the timer's
// auto-submit (or a double click) gets ErrSubmissionInProgress and no second
// attempt is written.
func (s *Session) Submit() error {
	var err error
	ok := s.do(func() { err = s.beginSubmit() })
	if !ok {
		return domain.ErrSessionClosed
	}
	return err
}

// Cancel abandons the session: the ticker is released, answers are discarded,
// and no attempt record is written. An in-flight write is not waited for; its
// store call is bounded by the session context. Cancel after completion is a
// no-op.
func (s *Session) Cancel() {
	s.do(func() {
		if s.state == stateDone {
			return
		}
		s.state = stateDone
		s.emit(Outcome{Status: OutcomeCancelled})
	})
}

// TimeRemaining reports the countdown in seconds; 0 once the session is over.
func (s *Session) TimeRemaining() int {
	n := 0
	s.do(func() { n = s.remaining })
	return n
}

// AnsweredCount reports how many questions currently have an answer.
func (s *Session) AnsweredCount() int {
	n := 0
	s.do(func() { n = len(s.answers) })
	return n
}

// Quiz returns the session's quiz with its full question list. Immutable for
// the life of the session.
func (s *Session) Quiz() domain.Quiz { return s.quiz }

// Outcomes delivers submission results and cancellation. Buffered; the host
// should consume it promptly.
func (s *Session) Outcomes() <-chan Outcome { return s.outcomes }

// ProgressUpdates delivers countdown/answer-count snapshots. Stale updates are
// dropped rather than blocking the session loop.
func (s *Session) ProgressUpdates() <-chan Progress { return s.progress }

// Done is closed when the session loop has fully stopped.
func (s *Session) Done() <-chan struct{} { return s.closed }

func (s *Session) emit(o Outcome) {
	select {
	case s.outcomes <- o:
	default:
	}
}

func (s *Session) pushProgress() {
	p := Progress{TimeRemaining: s.remaining, Answered: len(s.answers), Total: len(s.quiz.Questions)}
	select {
	case s.progress <- p:
	default:
		// Dropping stale updates prevents a slow consumer from blocking the loop.
		select {
		case <-s.progress:
		default:
		}
		select {
		case s.progress <- p:
		default:
		}
	}
}
