package form

import (
	"errors"
	"testing"

	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/entry"
)

func TestStartCreateSeedsDefaults(t *testing.T) {
	f := New()
	if f.Visible() {
		t.Fatalf("new form must be closed")
	}
	if err := f.StartCreate(category.LostFound); err != nil {
		t.Fatalf("start: %v", err)
	}
	if f.Mode() != Create || f.Category() != category.LostFound || f.EditingID() != "" {
		t.Fatalf("unexpected state: %v %v %q", f.Mode(), f.Category(), f.EditingID())
	}
	if f.Field("type") != "lost" {
		t.Fatalf("expected type default, got %q", f.Field("type"))
	}
	if err := f.StartCreate(category.Category("classifieds")); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestStartEditSeedsEntry(t *testing.T) {
	f := New()
	e := &entry.Entry{ID: "e1", Title: "Lost keys", Content: "Blue keyring", Type: "lost", Contact: "555"}
	if err := f.StartEdit(category.LostFound, e); err != nil {
		t.Fatalf("start edit: %v", err)
	}
	if f.Mode() != Edit || f.EditingID() != "e1" {
		t.Fatalf("unexpected state: %v %q", f.Mode(), f.EditingID())
	}
	if f.Field("id") != "e1" || f.Field("contact") != "555" {
		t.Fatalf("draft not seeded: %v", f.Draft())
	}
	if err := f.StartEdit(category.LostFound, &entry.Entry{}); err == nil {
		t.Fatalf("expected error editing an unsaved entry")
	}
}

func TestSetFieldMergesOneField(t *testing.T) {
	f := New()
	f.SetField("title", "ignored while closed")
	if len(f.Draft()) != 0 {
		t.Fatalf("closed form accepted a field")
	}

	_ = f.StartCreate(category.Events)
	f.SetField("title", "Picnic")
	f.SetField("content", "Bring food")
	f.SetField("title", "Park picnic")
	d := f.Draft()
	if d["title"] != "Park picnic" || d["content"] != "Bring food" {
		t.Fatalf("unexpected draft: %v", d)
	}

	// Draft returns a copy.
	d["title"] = "mutated"
	if f.Field("title") != "Park picnic" {
		t.Fatalf("Draft leaked internal state")
	}
}

func TestCancelClearsDraft(t *testing.T) {
	f := New()
	_ = f.StartCreate(category.Feedback)
	f.SetField("title", "x")
	f.Cancel()
	if f.Visible() || len(f.Draft()) != 0 || f.Category() != "" {
		t.Fatalf("cancel did not clear: %v", f.Draft())
	}
}

func TestValidateRequiredFields(t *testing.T) {
	f := New()
	_ = f.StartCreate(category.Announcements)
	f.SetField("title", "   ")

	err := f.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Missing) != 2 || verr.Missing[0] != "title" || verr.Missing[1] != "content" {
		t.Fatalf("unexpected missing fields: %v", verr.Missing)
	}

	f.SetField("title", "Water outage")
	f.SetField("content", "Tuesday 9-12")
	if err := f.Validate(); err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		cat     category.Category
		draft   map[string]any
		want    map[string]any
		invalid string
	}{{
		name:  "feedback rating from text",
		cat:   category.Feedback,
		draft: map[string]any{"title": " Great! ", "content": "Loved it", "rating": "5", "author": "someone", "id": "x"},
		want:  map[string]any{"title": "Great!", "content": "Loved it", "rating": 5},
	}, {
		name:    "rating out of range",
		cat:     category.Feedback,
		draft:   map[string]any{"title": "t", "content": "c", "rating": 9},
		invalid: "rating",
	}, {
		name:  "priority lowercased",
		cat:   category.Announcements,
		draft: map[string]any{"title": "t", "content": "c", "priority": "HIGH"},
		want:  map[string]any{"title": "t", "content": "c", "priority": "high"},
	}, {
		name:    "bad priority",
		cat:     category.Announcements,
		draft:   map[string]any{"title": "t", "content": "c", "priority": "urgent"},
		invalid: "priority",
	}, {
		name:    "bad time",
		cat:     category.Events,
		draft:   map[string]any{"title": "t", "content": "c", "time": "late"},
		invalid: "time",
	}, {
		name:    "bad date",
		cat:     category.Events,
		draft:   map[string]any{"title": "t", "content": "c", "date": "19/10/2026"},
		invalid: "date",
	}, {
		name:  "cleared optional field kept as empty",
		cat:   category.Events,
		draft: map[string]any{"title": "t", "content": "c", "location": "  ", "time": "18:30"},
		want:  map[string]any{"title": "t", "content": "c", "location": "", "time": "18:30"},
	}, {
		name:  "foreign fields dropped",
		cat:   category.LostFound,
		draft: map[string]any{"title": "t", "content": "c", "type": "Found", "rating": 3},
		want:  map[string]any{"title": "t", "content": "c", "type": "found"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.cat, tt.draft)
			if tt.invalid != "" {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if _, ok := verr.Invalid[tt.invalid]; !ok {
					t.Fatalf("expected %s invalid, got %v", tt.invalid, verr)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Fatalf("%s: got %#v, want %#v", k, got[k], v)
				}
			}
		})
	}
}

func TestCheckField(t *testing.T) {
	d := category.MustDescribe(category.Feedback)
	rating, _ := d.Field("rating")
	title, _ := d.Field("title")
	tests := []struct {
		field category.Field
		value string
		ok    bool
	}{
		{rating, "5", true},
		{rating, "0", false},
		{rating, "", false},
		{title, "  ", false},
		{title, "Great!", true},
	}
	for _, tt := range tests {
		err := CheckField(tt.field, tt.value)
		if (err == nil) != tt.ok {
			t.Fatalf("%s=%q: got %v", tt.field.Name, tt.value, err)
		}
	}
	date := category.MustDescribe(category.Events)
	df, _ := date.Field("date")
	if err := CheckField(df, ""); err != nil {
		t.Fatalf("optional date should allow blank: %v", err)
	}
}
