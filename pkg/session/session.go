// Package session tracks the signed-in identity and the local admin flag.
//
// The admin flag is UI state only. Nothing on the storage side checks it; it
// decides which controls are offered and which author name is stamped on
// submissions.
package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"tableflip.dev/board/pkg/entry"
	"tableflip.dev/board/pkg/identity"
	"tableflip.dev/board/pkg/logging"
)

// State is a point-in-time view of the identity.
type State struct {
	Ready  bool
	UserID string
}

// Authenticated reports whether a user id is present.
func (s State) Authenticated() bool {
	return s.UserID != ""
}

// Session establishes an identity at startup and notifies listeners of every
// identity change.
type Session struct {
	provider identity.Provider
	token    string
	log      *slog.Logger

	mu        sync.Mutex
	state     State
	ready     chan struct{}
	listeners map[int]func(State)
	nextID    int

	admin atomic.Bool
}

// New returns a session that will sign in with token, or anonymously when
// token is empty.
func New(provider identity.Provider, token string, log *slog.Logger) *Session {
	return &Session{
		provider:  provider,
		token:     token,
		log:       logging.OrDefault(log).With("component", "session"),
		ready:     make(chan struct{}),
		listeners: make(map[int]func(State)),
	}
}

// Start signs in. A failed sign-in is logged and the session still becomes
// ready, with no user id. The live store stays unsubscribed and writes are
// refused until a user signs in.
func (s *Session) Start(ctx context.Context) State {
	var (
		uid string
		err error
	)
	switch {
	case s.provider == nil:
		s.log.Warn("no identity provider configured, continuing signed out")
	case s.token != "":
		uid, err = s.provider.SignIn(ctx, s.token)
	default:
		uid, err = s.provider.SignInAnonymously(ctx)
	}
	if err != nil {
		s.log.Error("sign-in failed, continuing signed out", "error", err)
		uid = ""
	} else if uid != "" {
		s.log.Info("signed in", "user", uid, "anonymous", s.token == "")
	}
	return s.set(State{Ready: true, UserID: uid})
}

// SignOut clears the user id.
func (s *Session) SignOut() State {
	s.log.Info("signed out")
	return s.set(State{Ready: true})
}

func (s *Session) set(next State) State {
	s.mu.Lock()
	prev := s.state
	s.state = next
	if next.Ready && !prev.Ready {
		close(s.ready)
	}
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	if prev != next {
		for _, fn := range fns {
			fn(next)
		}
	}
	return next
}

// State returns the current identity state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ready reports whether Start has completed.
func (s *Session) Ready() bool {
	return s.State().Ready
}

// UserID returns the user id and whether one is present.
func (s *Session) UserID() (string, bool) {
	st := s.State()
	return st.UserID, st.Authenticated()
}

// WaitReady blocks until Start has completed or ctx is done.
func (s *Session) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnChange registers fn for identity changes. If the session is already
// ready, fn is called right away with the current state. The returned
// function unregisters fn.
func (s *Session) OnChange(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	current := s.state
	s.mu.Unlock()

	if current.Ready {
		fn(current)
	}
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Admin reports whether admin mode is on.
func (s *Session) Admin() bool {
	return s.admin.Load()
}

// SetAdmin switches admin mode.
func (s *Session) SetAdmin(on bool) {
	s.admin.Store(on)
}

// ToggleAdmin flips admin mode and returns the new value.
func (s *Session) ToggleAdmin() bool {
	for {
		old := s.admin.Load()
		if s.admin.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Author is the author name stamped on submissions made right now.
func (s *Session) Author() string {
	if s.Admin() {
		return entry.AuthorAdmin
	}
	return entry.AuthorAnonymous
}
