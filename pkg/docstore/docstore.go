// Package docstore is the document collection service the board reads and
// writes. Collections are addressed by slash separated paths and hold
// schemaless documents. Subscribers receive the full contents of a collection
// every time it changes.
package docstore

import (
	"context"
	"errors"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a document id does not exist.
	ErrNotFound = errors.New("docstore: document not found")
	// ErrClosed is returned by a backend after Close.
	ErrClosed = errors.New("docstore: backend closed")
	// ErrInvalidPath is returned for empty or malformed collection paths.
	ErrInvalidPath = errors.New("docstore: invalid collection path")
	// ErrInvalidID is returned for empty or malformed document ids.
	ErrInvalidID = errors.New("docstore: invalid document id")
)

// Document is one stored record. ID is assigned by the backend and is not part
// of Fields.
type Document struct {
	ID     string
	Fields map[string]any
}

// Unsubscribe releases a subscription. Calling it more than once is safe.
type Unsubscribe func()

// SnapshotFunc receives the whole collection, ordered by id.
type SnapshotFunc func(docs []Document)

// ErrorFunc receives subscription failures. The subscription stays
// registered; it may or may not deliver further snapshots.
type ErrorFunc func(err error)

// Backend is the contract of the document collection service.
type Backend interface {
	// Subscribe delivers a snapshot of the collection at path now and after
	// every change, until the returned Unsubscribe is called or ctx is done.
	// Snapshots for one subscription are delivered sequentially.
	Subscribe(ctx context.Context, path string, onSnapshot SnapshotFunc, onError ErrorFunc) (Unsubscribe, error)
	// Create stores a new document and returns its generated id.
	Create(ctx context.Context, path string, fields map[string]any) (string, error)
	// Merge overwrites the given fields of document id and leaves the rest
	// untouched. A missing document is created.
	Merge(ctx context.Context, path, id string, fields map[string]any) error
	// Delete removes document id.
	Delete(ctx context.Context, path, id string) error
	// Close releases every subscription and the underlying resources.
	Close() error
}

// Root returns the namespace shared by every collection of one application.
func Root(appID string) string {
	return path.Join("artifacts", appID, "public", "data")
}

// CollectionPath returns the path of sub under the namespace of appID.
func CollectionPath(appID, sub string) string {
	return path.Join(Root(appID), sub)
}

func cleanPath(p string) (string, error) {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return "", ErrInvalidPath
	}
	return path.Clean(p), nil
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func cloneFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// mergeFields overlays update onto base. The id key is never stored.
func mergeFields(base, update map[string]any) map[string]any {
	out := cloneFields(base)
	for k, v := range update {
		if k == "id" {
			continue
		}
		out[k] = v
	}
	return out
}

func sortDocuments(docs []Document) {
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})
}
