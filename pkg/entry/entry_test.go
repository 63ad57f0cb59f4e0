package entry

import (
	"encoding/json"
	"testing"
	"time"

	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/docstore"
)

func TestFromDocumentCoercesRating(t *testing.T) {
	// Ratings come back from JSON storage as float64.
	doc := docstore.Document{
		ID: "abc",
		Fields: map[string]any{
			"title":     "Great!",
			"content":   "Loved it",
			"rating":    float64(5),
			"author":    "Admin",
			"createdAt": "2026-10-19T10:00:00Z",
		},
	}
	e := FromDocument(category.Feedback, doc)
	if e.ID != "abc" || e.Rating != 5 || e.Author != AuthorAdmin {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt parsed")
	}
	if got := e.Stars(); got != "★★★★★" {
		t.Fatalf("Stars() = %q", got)
	}
}

func TestFieldsDropsForeignCategoryFields(t *testing.T) {
	e := &Entry{
		ID:       "ignored",
		Category: category.Events,
		Title:    "Picnic",
		Content:  "Bring food",
		Location: "Park",
		Rating:   4,
		Priority: "high",
	}
	f := e.Fields()
	if _, ok := f["id"]; ok {
		t.Fatalf("id must not be part of the document body")
	}
	if f["location"] != "Park" {
		t.Fatalf("expected location, got %v", f["location"])
	}
	if _, ok := f["rating"]; ok {
		t.Fatalf("rating does not belong to events")
	}
	if _, ok := f["priority"]; ok {
		t.Fatalf("priority does not belong to events")
	}
}

func TestSortNewestFirst(t *testing.T) {
	now := time.Now()
	entries := []*Entry{
		{ID: "old", CreatedAt: Timestamp{Time: now.Add(-time.Hour)}},
		{ID: "none"},
		{ID: "new", CreatedAt: Timestamp{Time: now}},
	}
	Sort(entries)
	got := []string{entries[0].ID, entries[1].ID, entries[2].ID}
	want := []string{"new", "old", "none"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestTimestampJSON(t *testing.T) {
	ts := Timestamp{Time: time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)}
	b, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Timestamp
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(ts.Time) {
		t.Fatalf("got %v, want %v", back, ts)
	}
	if !back.SameDay(ts.Time) {
		t.Fatalf("expected same day")
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{3, 3, true},
		{float64(4), 4, true},
		{float64(4.5), 0, false},
		{" 2 ", 2, true},
		{"x", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := Int(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("Int(%v) = %d, %v", tt.in, got, ok)
		}
	}
}
