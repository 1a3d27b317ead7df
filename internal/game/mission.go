package game

import (
	"errors"
	"time"

	"github.com/sigmahq/sigma/internal/catalog"
)

// ErrInvalidState marks a programming-contract violation, e.g. finishing a
// session twice. Call sites treat it defensively as a no-op.
var ErrInvalidState = errors.New("invalid state")

// Session is the live, mutable state of one mission attempt. It is owned
// exclusively by the Engine while in the playing state and folded into a
// CompletionRecord on exit.
type Session struct {
	detail      catalog.Detail
	started     time.Time
	elapsed     time.Duration
	step        int
	stepElapsed time.Duration
	finished    bool
}

// StartSession creates a fresh session for the mission: progress reset,
// start timestamp recorded. Re-playing a completed mission gets a brand
// new session with elapsed zero.
func StartSession(detail catalog.Detail) *Session {
	return &Session{
		detail:  detail,
		started: time.Now(),
	}
}

// stepDuration is how long one scripted objective takes to execute on its
// own. Par time is split evenly across the steps; missions with no steps
// resolve after par itself.
func (s *Session) stepDuration() time.Duration {
	n := len(s.detail.Steps)
	if n == 0 {
		n = 1
	}
	par := s.detail.Par
	if par <= 0 {
		par = 30 * time.Second
	}
	return par / time.Duration(n)
}

// Tick advances the session by dt. It returns the determined outcome and
// true once the scripted challenge has run to completion.
func (s *Session) Tick(dt time.Duration) (Outcome, bool) {
	if s.finished {
		return OutcomeUnset, false
	}
	s.elapsed += dt
	s.stepElapsed += dt
	for s.stepElapsed >= s.stepDuration() && s.step < s.stepCount() {
		s.stepElapsed -= s.stepDuration()
		s.step++
	}
	if s.step >= s.stepCount() {
		return OutcomeSuccess, true
	}
	return OutcomeUnset, false
}

// Advance completes the current objective immediately (the player executed
// it by hand). Returns the outcome once the last objective is done.
func (s *Session) Advance() (Outcome, bool) {
	if s.finished {
		return OutcomeUnset, false
	}
	s.stepElapsed = 0
	s.step++
	if s.step >= s.stepCount() {
		return OutcomeSuccess, true
	}
	return OutcomeUnset, false
}

func (s *Session) stepCount() int {
	if n := len(s.detail.Steps); n > 0 {
		return n
	}
	return 1
}

// Progress is the fraction of the scripted challenge already executed.
func (s *Session) Progress() float64 {
	total := s.stepCount()
	frac := float64(s.step) / float64(total)
	if s.step < total {
		frac += (s.stepElapsed.Seconds() / s.stepDuration().Seconds()) / float64(total)
	}
	if frac > 1 {
		frac = 1
	}
	return frac
}

// StepIndex is the current objective index.
func (s *Session) StepIndex() int { return s.step }

// Elapsed is the time spent in the session so far.
func (s *Session) Elapsed() time.Duration { return s.elapsed }

// Detail exposes the mission definition the session was started from.
func (s *Session) Detail() catalog.Detail { return s.detail }

// Finish freezes the session and returns its completion record. A session
// finishes exactly once; a second call is a contract violation and returns
// ErrInvalidState.
func (s *Session) Finish(outcome Outcome) (CompletionRecord, error) {
	if s.finished {
		return CompletionRecord{}, ErrInvalidState
	}
	s.finished = true
	return CompletionRecord{
		MissionID: s.detail.ID,
		Title:     s.detail.Title,
		Elapsed:   s.elapsed,
		Outcome:   outcome,
	}, nil
}
