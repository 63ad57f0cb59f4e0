package add

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/board/pkg/app"
	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/config"
	"tableflip.dev/board/pkg/logging"
)

func openClient(t *testing.T) *app.Client {
	t.Helper()
	c, err := app.Open(context.Background(), &config.Config{AppID: "test-app", Backend: config.BackendMemory}, app.Options{Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestAddJSON(t *testing.T) {
	c := openClient(t)
	var buf bytes.Buffer
	a := &Add{
		Category: category.LostFound,
		Fields:   map[string]any{"title": "Keys", "content": "Blue keyring", "contact": "555-0100"},
		JSON:     true,
		Client:   c,
		Out:      &buf,
	}
	if err := a.Do(context.Background()); err != nil {
		t.Fatalf("add: %v", err)
	}
	var got Result
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode %s: %v", buf.String(), err)
	}
	if got.Category != category.LostFound || got.ID == "" {
		t.Fatalf("unexpected result: %+v", got)
	}
	e, err := c.Find(context.Background(), category.LostFound, got.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if e.Type != "lost" {
		t.Fatalf("expected default type lost, got %q", e.Type)
	}
}

func TestAddPrettyDefaultsCategory(t *testing.T) {
	color.NoColor = true
	c := openClient(t)
	var buf bytes.Buffer
	a := &Add{
		Fields: map[string]any{"title": "Road closed", "content": "Main St", "priority": "high"},
		Client: c,
		Out:    &buf,
	}
	if err := a.Do(context.Background()); err != nil {
		t.Fatalf("add: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Announcements - 1 entry", "Road closed", "high"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAddInvalid(t *testing.T) {
	c := openClient(t)
	a := &Add{
		Category: category.Feedback,
		Fields:   map[string]any{"title": "Meh", "content": "ok", "rating": 9},
		Client:   c,
		Out:      &bytes.Buffer{},
	}
	if err := a.Do(context.Background()); err == nil {
		t.Fatalf("expected a validation error")
	}
	all, err := c.Snapshot(context.Background(), category.Feedback)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected nothing written, got %d", len(all))
	}
}
