package docstore

import (
	"context"
	"sync"
)

// Memory is an in-process Backend. It is used for demos and tests and shares
// state only within one process.
type Memory struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]any
	subs        map[string]map[*subscription]struct{}
	closed      bool
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]map[string]any),
		subs:        make(map[string]map[*subscription]struct{}),
	}
}

var _ Backend = (*Memory)(nil)

func (m *Memory) Subscribe(ctx context.Context, p string, onSnapshot SnapshotFunc, onError ErrorFunc) (Unsubscribe, error) {
	p, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	sub := newSubscription(func() ([]Document, error) {
		return m.list(p), nil
	}, onSnapshot, onError)
	sub.onStop = func() {
		m.mu.Lock()
		delete(m.subs[p], sub)
		m.mu.Unlock()
	}
	if m.subs[p] == nil {
		m.subs[p] = make(map[*subscription]struct{})
	}
	m.subs[p][sub] = struct{}{}

	go sub.run(ctx)
	return sub.stop, nil
}

func (m *Memory) list(p string) []Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := make([]Document, 0, len(m.collections[p]))
	for id, fields := range m.collections[p] {
		docs = append(docs, Document{ID: id, Fields: cloneFields(fields)})
	}
	sortDocuments(docs)
	return docs
}

// Get returns a copy of one document.
func (m *Memory) Get(_ context.Context, p, id string) (Document, error) {
	p, err := cleanPath(p)
	if err != nil {
		return Document{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fields, ok := m.collections[p][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Fields: cloneFields(fields)}, nil
}

func (m *Memory) Create(_ context.Context, p string, fields map[string]any) (string, error) {
	p, err := cleanPath(p)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", ErrClosed
	}
	id := newID()
	if m.collections[p] == nil {
		m.collections[p] = make(map[string]map[string]any)
	}
	m.collections[p][id] = mergeFields(nil, fields)
	m.notifyLocked(p)
	return id, nil
}

func (m *Memory) Merge(_ context.Context, p, id string, fields map[string]any) error {
	p, err := cleanPath(p)
	if err != nil {
		return err
	}
	if id == "" {
		return ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.collections[p] == nil {
		m.collections[p] = make(map[string]map[string]any)
	}
	m.collections[p][id] = mergeFields(m.collections[p][id], fields)
	m.notifyLocked(p)
	return nil
}

func (m *Memory) Delete(_ context.Context, p, id string) error {
	p, err := cleanPath(p)
	if err != nil {
		return err
	}
	if id == "" {
		return ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if _, ok := m.collections[p][id]; !ok {
		return ErrNotFound
	}
	delete(m.collections[p], id)
	m.notifyLocked(p)
	return nil
}

func (m *Memory) notifyLocked(p string) {
	for sub := range m.subs[p] {
		sub.notify()
	}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	var subs []*subscription
	for _, set := range m.subs {
		for sub := range set {
			subs = append(subs, sub)
		}
	}
	m.mu.Unlock()

	// stop re-acquires the lock to unregister.
	for _, sub := range subs {
		sub.stop()
	}
	return nil
}

// Subscribers returns the number of live subscriptions on path.
func (m *Memory) Subscribers(p string) int {
	p, err := cleanPath(p)
	if err != nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[p])
}
