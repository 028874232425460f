package client

import (
	"sync"

	"github.com/greenloop/greenloop/internal/entities"
)

// Session is the client-side view of the authenticated user. It starts in
// a "not ready" state until the first rehydration completes, so consumers
// can distinguish "still checking" from "checked, not signed in".
type Session struct {
	mu     sync.RWMutex
	user   *entities.PublicUser
	ready  bool
	subs   map[int]func(State)
	nextID int
}

// State is a snapshot of the session handed to subscribers.
type State struct {
	User  *entities.PublicUser
	Ready bool
}

// NewSession creates an empty, not-yet-rehydrated session.
func NewSession() *Session {
	return &Session{subs: make(map[int]func(State))}
}

// Current returns the signed-in user, if any.
func (s *Session) Current() (entities.PublicUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return entities.PublicUser{}, false
	}
	return *s.user, true
}

// Ready reports whether the initial rehydration has completed.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Set marks the session signed-in as the given user.
func (s *Session) Set(user entities.PublicUser) {
	s.mu.Lock()
	s.user = &user
	s.ready = true
	state := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, state)
}

// Clear marks the session signed-out. Also marks the session ready: a
// failed rehydration is still a completed one.
func (s *Session) Clear() {
	s.mu.Lock()
	s.user = nil
	s.ready = true
	state := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, state)
}

// Subscribe registers a callback for session changes and returns an
// unsubscribe function. The callback is invoked immediately with the
// current state.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	state := s.snapshotLocked()
	s.mu.Unlock()

	fn(state)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) snapshotLocked() State {
	state := State{Ready: s.ready}
	if s.user != nil {
		u := *s.user
		state.User = &u
	}
	return state
}

func (s *Session) subscribersLocked() []func(State) {
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(State), state State) {
	for _, fn := range subs {
		fn(state)
	}
}
