package docstore

import (
	"context"
	"sync"
)

// subscription delivers snapshots from a single goroutine. Change
// notifications are coalesced: if several arrive while a snapshot is being
// delivered, the next delivery reads the latest state once.
type subscription struct {
	load       func() ([]Document, error)
	onSnapshot SnapshotFunc
	onError    ErrorFunc

	changed chan struct{}
	done    chan struct{}
	once    sync.Once
	onStop  func()
}

func newSubscription(load func() ([]Document, error), onSnapshot SnapshotFunc, onError ErrorFunc) *subscription {
	return &subscription{
		load:       load,
		onSnapshot: onSnapshot,
		onError:    onError,
		changed:    make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
}

func (s *subscription) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *subscription) fail(err error) {
	if s.onError != nil && err != nil {
		s.onError(err)
	}
}

func (s *subscription) run(ctx context.Context) {
	s.deliver()
	for {
		select {
		case <-ctx.Done():
			s.stop()
			return
		case <-s.done:
			return
		case <-s.changed:
			s.deliver()
		}
	}
}

func (s *subscription) deliver() {
	select {
	case <-s.done:
		return
	default:
	}
	docs, err := s.load()
	if err != nil {
		s.fail(err)
		return
	}
	if s.onSnapshot != nil {
		s.onSnapshot(docs)
	}
}

func (s *subscription) stop() {
	s.once.Do(func() {
		close(s.done)
		if s.onStop != nil {
			s.onStop()
		}
	})
}
