package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/config"
	"tableflip.dev/board/pkg/dispatch"
	"tableflip.dev/board/pkg/docstore"
	"tableflip.dev/board/pkg/entry"
	"tableflip.dev/board/pkg/identity"
	"tableflip.dev/board/pkg/logging"
)

func openMemory(t *testing.T, cfg *config.Config) *Client {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{AppID: "test-app", Backend: config.BackendMemory}
	}
	c, err := Open(context.Background(), cfg, Options{Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestOpenNotConfigured(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Backend: config.BackendMemory}, Options{Logger: logging.Discard()})
	if !errors.Is(err, config.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestClientAddEditDelete(t *testing.T) {
	c := openMemory(t, nil)
	ctx := context.Background()

	id, err := c.Add(ctx, category.Announcements, map[string]any{"title": "Water outage", "content": "Tuesday 9-12"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	eventually(t, "entry in store", func() bool {
		_, ok := c.Store.Find(category.Announcements, id)
		return ok
	})
	e, _ := c.Store.Find(category.Announcements, id)
	if e.Priority != "medium" || e.Author != entry.AuthorAnonymous {
		t.Fatalf("unexpected entry: %+v", e)
	}

	if err := c.Edit(ctx, category.Announcements, id, map[string]any{"title": "Water outage moved"}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	eventually(t, "edit in store", func() bool {
		e, ok := c.Store.Find(category.Announcements, id)
		return ok && e.Title == "Water outage moved"
	})
	e, _ = c.Store.Find(category.Announcements, id)
	if e.Content != "Tuesday 9-12" {
		t.Fatalf("edit lost content: %+v", e)
	}

	if err := c.Delete(ctx, category.Announcements, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	eventually(t, "delete in store", func() bool {
		_, ok := c.Store.Find(category.Announcements, id)
		return !ok
	})
	if _, err := c.Find(ctx, category.Announcements, id); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClientAdminConfig(t *testing.T) {
	c := openMemory(t, &config.Config{AppID: "test-app", Backend: config.BackendMemory, Admin: true})
	ctx := context.Background()

	id, err := c.Add(ctx, category.Feedback, map[string]any{"title": "Great!", "content": "Loved it", "rating": "5"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	e, err := c.Find(ctx, category.Feedback, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if e.Author != entry.AuthorAdmin || e.Rating != 5 {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestClientTokenSignIn(t *testing.T) {
	tp := identity.NewTokenProvider("s3cret", "board")
	tok, err := tp.Issue("alice", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	c := openMemory(t, &config.Config{AppID: "test-app", Backend: config.BackendMemory, Secret: "s3cret", Issuer: "board", Token: tok})
	if uid, ok := c.Session.UserID(); !ok || uid != "alice" {
		t.Fatalf("expected alice, got %q", uid)
	}

	// A bad token leaves the client signed out and writes are refused.
	bad := openMemory(t, &config.Config{AppID: "test-app", Backend: config.BackendMemory, Secret: "other", Token: tok})
	if _, ok := bad.Session.UserID(); ok {
		t.Fatalf("expected no identity with a bad token")
	}
	if _, err := bad.Add(context.Background(), category.Events, map[string]any{"title": "t", "content": "c"}); !errors.Is(err, dispatch.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestClientDiskBackend(t *testing.T) {
	cfg := &config.Config{AppID: "test-app", Backend: config.BackendDisk, Path: t.TempDir()}
	c := openMemory(t, cfg)
	ctx := context.Background()

	id, err := c.Add(ctx, category.LostFound, map[string]any{"title": "Keys", "content": "Blue ring", "type": "found"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	reopened := openMemory(t, cfg)
	e, err := reopened.Find(ctx, category.LostFound, id)
	if err != nil {
		t.Fatalf("find after reopen: %v", err)
	}
	if e.Type != "found" || e.Title != "Keys" {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestClientEmptyBackendIsDisk(t *testing.T) {
	dir := t.TempDir()
	c := openMemory(t, &config.Config{AppID: "test-app", Path: dir})
	if _, ok := c.Backend.(*docstore.Disk); !ok {
		t.Fatalf("expected the disk backend, got %T", c.Backend)
	}
}

func TestSnapshotUnknownCategory(t *testing.T) {
	c := openMemory(t, nil)
	if _, err := c.Snapshot(context.Background(), category.Category("classifieds")); !errors.Is(err, dispatch.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}
