// Package dispatch turns submitted drafts and delete requests into writes
// against the category collections.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/docstore"
	"tableflip.dev/board/pkg/entry"
	"tableflip.dev/board/pkg/form"
	"tableflip.dev/board/pkg/logging"
)

var (
	// ErrUnauthenticated is returned for writes attempted without a user id.
	ErrUnauthenticated = errors.New("dispatch: not signed in")
	// ErrUnknownCategory is returned for categories outside the fixed four.
	ErrUnknownCategory = errors.New("dispatch: unknown category")
	// ErrMissingID is returned by Delete without an entry id.
	ErrMissingID = errors.New("dispatch: entry id required")
)

// Session is what the dispatcher needs to know about the current user.
type Session interface {
	UserID() (string, bool)
	Author() string
}

// Dispatcher commits creates, edits and deletes. It keeps no local copy of
// any collection; results come back through the subscriptions.
type Dispatcher struct {
	backend docstore.Backend
	session Session
	appID   string
	log     *slog.Logger

	// Clock stamps date and createdAt. Defaults to time.Now.
	Clock func() time.Time
}

// New returns a dispatcher writing to the collections of appID.
func New(backend docstore.Backend, sess Session, appID string, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		backend: backend,
		session: sess,
		appID:   appID,
		log:     logging.OrDefault(log).With("component", "dispatch"),
		Clock:   time.Now,
	}
}

func (d *Dispatcher) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock()
}

func (d *Dispatcher) path(c category.Category) (string, error) {
	desc, ok := category.Describe(c)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	return docstore.CollectionPath(d.appID, desc.Path), nil
}

func (d *Dispatcher) guard(op string, c category.Category) (string, error) {
	p, err := d.path(c)
	if err != nil {
		d.log.Error(op+" rejected", "category", c, "error", err)
		return "", err
	}
	if uid, ok := d.session.UserID(); !ok || uid == "" {
		d.log.Error(op+" rejected", "category", c, "error", ErrUnauthenticated)
		return "", ErrUnauthenticated
	}
	return p, nil
}

// Stamp returns a copy of draft with date, author and createdAt filled in.
// A draft date is kept; author and createdAt are always overwritten.
func (d *Dispatcher) Stamp(draft map[string]any) map[string]any {
	now := d.now()
	out := make(map[string]any, len(draft)+3)
	for k, v := range draft {
		if k == category.FieldID {
			continue
		}
		out[k] = v
	}
	if strings.TrimSpace(entry.String(out[category.FieldDate])) == "" {
		out[category.FieldDate] = entry.Today(now)
	}
	out[category.FieldAuthor] = d.session.Author()
	out[category.FieldCreatedAt] = entry.FormatTime(now)
	return out
}

// Submit writes draft into c. With an editingID the stored document is
// merge-overwritten: fields in draft replace stored ones, all others stay.
// Without one a new document is created and its id returned.
func (d *Dispatcher) Submit(ctx context.Context, c category.Category, draft map[string]any, editingID string) (string, error) {
	p, err := d.guard("submit", c)
	if err != nil {
		return "", err
	}
	fields := d.Stamp(draft)

	if editingID != "" {
		if err := d.backend.Merge(ctx, p, editingID, fields); err != nil {
			d.log.Error("update failed", "category", c, "id", editingID, "error", err)
			return "", fmt.Errorf("dispatch: update %s/%s: %w", c, editingID, err)
		}
		d.log.Info("entry updated", "category", c, "id", editingID)
		return editingID, nil
	}

	id, err := d.backend.Create(ctx, p, fields)
	if err != nil {
		d.log.Error("create failed", "category", c, "error", err)
		return "", fmt.Errorf("dispatch: create in %s: %w", c, err)
	}
	d.log.Info("entry created", "category", c, "id", id)
	return id, nil
}

// SubmitForm validates and submits the open form. The form is reset only when
// the write succeeded; on any error the draft is left intact.
func (d *Dispatcher) SubmitForm(ctx context.Context, f *form.Controller) (string, error) {
	fields, err := f.Normalized()
	if err != nil {
		return "", err
	}
	id, err := d.Submit(ctx, f.Category(), fields, f.EditingID())
	if err != nil {
		return "", err
	}
	f.Reset()
	return id, nil
}

// Delete removes entry id from c.
func (d *Dispatcher) Delete(ctx context.Context, c category.Category, id string) error {
	p, err := d.guard("delete", c)
	if err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		d.log.Error("delete rejected", "category", c, "error", ErrMissingID)
		return ErrMissingID
	}
	if err := d.backend.Delete(ctx, p, id); err != nil {
		d.log.Error("delete failed", "category", c, "id", id, "error", err)
		return fmt.Errorf("dispatch: delete %s/%s: %w", c, id, err)
	}
	d.log.Info("entry deleted", "category", c, "id", id)
	return nil
}
