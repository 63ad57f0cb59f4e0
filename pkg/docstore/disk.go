package docstore

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

const tempDir = ".tmp"

// Disk is a Backend that stores one JSON file per document under a base
// directory and uses filesystem notifications to feed subscribers, so several
// processes sharing the directory see each other's writes live.
type Disk struct {
	d        *diskv.Diskv
	basePath string

	// mu serializes read-modify-write cycles within this process.
	mu     sync.Mutex
	subsMu sync.Mutex
	subs   map[*subscription]struct{}
	closed bool
}

var _ Backend = (*Disk)(nil)

// OpenDisk returns a Disk rooted at basePath, creating it if needed.
func OpenDisk(basePath string) (*Disk, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("docstore: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("docstore: ensure base path: %w", err)
	}
	return &Disk{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			// Writes land via rename so watchers never read half a file.
			TempDir:           filepath.Join(basePath, tempDir),
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			// Other processes write to the same tree; a read cache would
			// serve stale documents.
			CacheSizeMax:      0,
		}),
		basePath: basePath,
		subs:     make(map[*subscription]struct{}),
	}, nil
}

// BasePath returns the root directory of the store.
func (s *Disk) BasePath() string {
	return s.basePath
}

func (s *Disk) Subscribe(ctx context.Context, p string, onSnapshot SnapshotFunc, onError ErrorFunc) (Unsubscribe, error) {
	p, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	dir := s.collectionDir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("docstore: ensure collection directory: %w", err)
	}

	sub := newSubscription(func() ([]Document, error) {
		return s.list(p)
	}, onSnapshot, onError)

	stopWatch, err := watchDir(dir, sub)
	if err != nil {
		return nil, err
	}
	sub.onStop = func() {
		stopWatch()
		s.subsMu.Lock()
		delete(s.subs, sub)
		s.subsMu.Unlock()
	}
	s.subs[sub] = struct{}{}

	go sub.run(ctx)
	return sub.stop, nil
}

// List reads the current contents of a collection.
func (s *Disk) List(_ context.Context, p string) ([]Document, error) {
	p, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	return s.list(p)
}

func (s *Disk) list(p string) ([]Document, error) {
	cancel := make(chan struct{})
	defer close(cancel)

	docs := make([]Document, 0)
	if _, err := os.Stat(s.collectionDir(p)); errors.Is(err, os.ErrNotExist) {
		return docs, nil
	}
	prefix := toCollection(p) + "-"
	for key := range s.d.KeysPrefix(prefix, cancel) {
		doc, err := s.read(key)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				// Deleted between walk and read.
				continue
			}
			return nil, fmt.Errorf("docstore: read %s: %w", key, err)
		}
		docs = append(docs, doc)
	}
	sortDocuments(docs)
	return docs, nil
}

func (s *Disk) read(key string) (Document, error) {
	val, err := s.d.Read(key)
	if err != nil {
		return Document{}, err
	}
	fields := map[string]any{}
	if len(val) > 0 {
		if err := json.Unmarshal(val, &fields); err != nil {
			return Document{}, err
		}
	}
	pk := keyToPathTransform(key)
	return Document{ID: pk.FileName, Fields: fields}, nil
}

func (s *Disk) write(key string, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return s.d.Write(key, data)
}

func (s *Disk) Create(_ context.Context, p string, fields map[string]any) (string, error) {
	p, err := cleanPath(p)
	if err != nil {
		return "", err
	}
	if s.isClosed() {
		return "", ErrClosed
	}
	id := newID()
	if err := s.write(toKey(p, id), mergeFields(nil, fields)); err != nil {
		return "", fmt.Errorf("docstore: create: %w", err)
	}
	return id, nil
}

func (s *Disk) Merge(_ context.Context, p, id string, fields map[string]any) error {
	p, err := cleanPath(p)
	if err != nil {
		return err
	}
	if !validID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if s.isClosed() {
		return ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := toKey(p, id)
	current := map[string]any{}
	if s.d.Has(key) {
		doc, err := s.read(key)
		if err != nil {
			return fmt.Errorf("docstore: merge: %w", err)
		}
		current = doc.Fields
	}
	if err := s.write(key, mergeFields(current, fields)); err != nil {
		return fmt.Errorf("docstore: merge: %w", err)
	}
	return nil
}

func (s *Disk) Delete(_ context.Context, p, id string) error {
	p, err := cleanPath(p)
	if err != nil {
		return err
	}
	if !validID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if s.isClosed() {
		return ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := toKey(p, id)
	if !s.d.Has(key) {
		return ErrNotFound
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("docstore: delete: %w", err)
	}
	return nil
}

func (s *Disk) isClosed() bool {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	return s.closed
}

func (s *Disk) Close() error {
	s.subsMu.Lock()
	if s.closed {
		s.subsMu.Unlock()
		return nil
	}
	s.closed = true
	subs := make([]*subscription, 0, len(s.subs))
	for sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
	return nil
}

func (s *Disk) collectionDir(p string) string {
	return filepath.Join(s.basePath, toCollection(p))
}

func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `-/\.`)
}

// Keys have the form `<hex collection path>-<id>`; the collection becomes a
// directory and the id the file name.
func keyToPathTransform(s string) *diskv.PathKey {
	i := strings.LastIndex(s, "-")
	if i < 0 {
		return &diskv.PathKey{FileName: s}
	}
	return &diskv.PathKey{
		Path:     []string{s[:i]},
		FileName: s[i+1:],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

func toKey(collection, id string) string {
	return fmt.Sprintf("%s-%s", toCollection(collection), id)
}

func toCollection(s string) string {
	return hex.EncodeToString([]byte(s))
}
