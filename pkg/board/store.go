// Package board keeps a live, in-memory mirror of every category collection.
//
// The mirror is never written to directly. Every change, including the
// user's own submissions, arrives as a full snapshot from the backend
// subscription and replaces the category's list wholesale.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/docstore"
	"tableflip.dev/board/pkg/entry"
	"tableflip.dev/board/pkg/logging"
	"tableflip.dev/board/pkg/session"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("board: store closed")

// Change notifies that a category's list or error state was replaced.
type Change struct {
	Category category.Category
	Err      error
}

// Identity is the part of a session the store follows.
type Identity interface {
	OnChange(fn func(session.State)) func()
}

// Store mirrors the four category collections.
type Store struct {
	backend docstore.Backend
	appID   string
	log     *slog.Logger

	mu         sync.Mutex
	entries    map[category.Category][]*entry.Entry
	errs       map[category.Category]error
	subs       map[category.Category]docstore.Unsubscribe
	pending    map[category.Category]bool
	generation int
	loading    bool
	closed     bool
	changes    chan Change
}

// New returns a store reading collections of appID from backend.
func New(backend docstore.Backend, appID string, log *slog.Logger) *Store {
	return &Store{
		backend: backend,
		appID:   appID,
		log:     logging.OrDefault(log).With("component", "board"),
		entries: make(map[category.Category][]*entry.Entry),
		errs:    make(map[category.Category]error),
		subs:    make(map[category.Category]docstore.Unsubscribe),
		pending: make(map[category.Category]bool),
		loading: true,
		changes: make(chan Change, 64),
	}
}

// Path returns the collection path of c.
func (s *Store) Path(c category.Category) string {
	d := category.MustDescribe(c)
	return docstore.CollectionPath(s.appID, d.Path)
}

// Run follows id: it subscribes every category once the session is ready with
// a user id and resubscribes whenever the user id changes. While signed out
// nothing is subscribed and Loading reports false. It returns after ctx is done,
// with every subscription released.
func (s *Store) Run(ctx context.Context, id Identity) error {
	states := newStateMailbox()
	cancel := id.OnChange(states.put)
	defer cancel()
	defer s.unsubscribeAll()

	var (
		started bool
		current string
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-states.signal:
			st := states.take()
			if !st.Ready {
				continue
			}
			if started && st.UserID == current {
				continue
			}
			if started {
				s.log.Info("identity changed, resubscribing", "user", st.UserID)
				s.unsubscribeAll()
			}
			started = true
			current = st.UserID
			if !st.Authenticated() {
				s.log.Info("signed out, no subscriptions")
				s.settleSignedOut()
				continue
			}
			if err := s.SubscribeAll(ctx); err != nil {
				if errors.Is(err, ErrClosed) {
					return err
				}
				s.log.Warn("some categories failed to subscribe", "error", err)
			}
		}
	}
}

// SubscribeAll subscribes every category concurrently. A failing category does
// not prevent the others; the first error is returned.
func (s *Store) SubscribeAll(ctx context.Context) error {
	var g errgroup.Group
	for _, c := range category.All() {
		c := c
		g.Go(func() error {
			return s.Subscribe(ctx, c)
		})
	}
	return g.Wait()
}

// Subscribe starts the live subscription for c. It is a no-op when one is
// already active, so there is never more than one per category.
func (s *Store) Subscribe(ctx context.Context, c category.Category) error {
	if !c.Valid() {
		return fmt.Errorf("board: unknown category %q", c)
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if _, ok := s.subs[c]; ok || s.pending[c] {
		s.mu.Unlock()
		return nil
	}
	s.pending[c] = true
	gen := s.generation
	s.mu.Unlock()

	unsub, err := s.backend.Subscribe(ctx, s.Path(c),
		func(docs []docstore.Document) { s.apply(gen, c, docs) },
		func(err error) { s.fail(gen, c, err) },
	)

	s.mu.Lock()
	delete(s.pending, c)
	if err != nil {
		s.mu.Unlock()
		s.fail(gen, c, err)
		return fmt.Errorf("board: subscribe %s: %w", c, err)
	}
	if gen != s.generation || s.closed {
		// Torn down while we were subscribing.
		s.mu.Unlock()
		unsub()
		return nil
	}
	s.subs[c] = unsub
	s.mu.Unlock()
	s.log.Debug("subscribed", "category", c, "path", s.Path(c))
	return nil
}

func (s *Store) apply(gen int, c category.Category, docs []docstore.Document) {
	list := entry.FromDocuments(c, docs)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.closed {
		return
	}
	s.entries[c] = list
	delete(s.errs, c)
	if c == category.Default {
		s.loading = false
	}
	s.emitLocked(Change{Category: c})
}

func (s *Store) fail(gen int, c category.Category, err error) {
	s.log.Error("subscription failed", "category", c, "error", err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.closed {
		return
	}
	s.errs[c] = err
	if c == category.Default {
		s.loading = false
	}
	s.emitLocked(Change{Category: c, Err: err})
}

// settleSignedOut resolves loading with empty lists, since nothing will arrive
// until a user signs in.
func (s *Store) settleSignedOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.loading = false
	s.emitLocked(Change{Category: category.Default})
}

func (s *Store) emitLocked(ch Change) {
	select {
	case s.changes <- ch:
	default:
		// The consumer is behind; the state it reads next is current anyway.
	}
}

// unsubscribeAll releases every subscription and forgets the mirrored lists.
// Callbacks still in flight from the released subscriptions are ignored.
func (s *Store) unsubscribeAll() {
	s.mu.Lock()
	s.generation++
	subs := s.subs
	s.subs = make(map[category.Category]docstore.Unsubscribe)
	s.entries = make(map[category.Category][]*entry.Entry)
	s.errs = make(map[category.Category]error)
	if !s.closed {
		s.loading = true
	}
	s.mu.Unlock()

	for _, unsub := range subs {
		unsub()
	}
}

// Entries returns a copy of the current list for c, newest first.
func (s *Store) Entries(c category.Category) []*entry.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.entries[c]
	out := make([]*entry.Entry, len(src))
	for i, e := range src {
		cp := *e
		out[i] = &cp
	}
	return out
}

// Find returns the entry with id in c.
func (s *Store) Find(c category.Category, id string) (*entry.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries[c] {
		if e.ID == id {
			cp := *e
			return &cp, true
		}
	}
	return nil, false
}

// Count returns the number of entries currently mirrored for c.
func (s *Store) Count(c category.Category) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries[c])
}

// Loading is true until the default category has delivered its first
// snapshot or failed.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last subscription error for c.
func (s *Store) Err(c category.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs[c]
}

// Subscribed reports whether c has a live subscription.
func (s *Store) Subscribed(c category.Category) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.subs[c]
	return ok
}

// Changes delivers a notification after every snapshot or error. Slow
// readers miss notifications, never state.
func (s *Store) Changes() <-chan Change {
	return s.changes
}

// Close releases every subscription. The Changes channel is closed.
func (s *Store) Close() error {
	s.unsubscribeAll()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.loading = false
	close(s.changes)
	return nil
}

// stateMailbox keeps only the latest identity state.
type stateMailbox struct {
	mu     sync.Mutex
	latest session.State
	signal chan struct{}
}

func newStateMailbox() *stateMailbox {
	return &stateMailbox{signal: make(chan struct{}, 1)}
}

func (m *stateMailbox) put(st session.State) {
	m.mu.Lock()
	m.latest = st
	m.mu.Unlock()
	select {
	case m.signal <- struct{}{}:
	default:
	}
}

func (m *stateMailbox) take() session.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest
}
