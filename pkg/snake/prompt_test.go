package snake

import (
	"testing"

	"tableflip.dev/board/pkg/category"
)

func TestParseBool(t *testing.T) {
	tests := map[string]bool{"y": true, "Yes": true, "1": true, "n": false, "No": false, "false": false}
	for in, want := range tests {
		got, err := ParseBool(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %v, %v", in, got, err)
		}
	}
	if _, err := ParseBool("maybe"); err == nil {
		t.Fatalf("expected error for maybe")
	}
}

func TestFieldsSkipsFilledAndOptional(t *testing.T) {
	// Everything required is present, so no prompt is shown.
	p := &Prompter{}
	draft := map[string]any{"title": "t", "content": "c", "rating": 4}
	if err := p.Fields(category.Feedback, draft, false); err != nil {
		t.Fatalf("fields: %v", err)
	}
	if len(draft) != 3 {
		t.Fatalf("draft changed: %v", draft)
	}
	if err := p.Fields(category.Category("classifieds"), draft, false); err == nil {
		t.Fatalf("expected unknown category error")
	}
}
