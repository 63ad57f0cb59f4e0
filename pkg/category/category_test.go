package category

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"announcements", Announcements},
		{"  Events ", Events},
		{"lost-and-found", LostFound},
		{"Lost & Found", LostFound},
		{"f", Feedback},
		{"", Default},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := Parse("classifieds"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestEveryCategoryHasDescriptor(t *testing.T) {
	paths := map[string]bool{}
	for _, c := range All() {
		d, ok := Describe(c)
		if !ok {
			t.Fatalf("no descriptor for %q", c)
		}
		if d.Category != c {
			t.Fatalf("descriptor for %q reports %q", c, d.Category)
		}
		if paths[d.Path] {
			t.Fatalf("duplicate collection path %q", d.Path)
		}
		paths[d.Path] = true

		req := d.Required()
		if len(req) < 2 || !contains(req, FieldTitle) || !contains(req, FieldContent) {
			t.Fatalf("%q: title and content must be required, got %v", c, req)
		}
	}
	if Category("classifieds").Valid() {
		t.Fatalf("unexpected valid category")
	}
}

func TestIndex(t *testing.T) {
	if got := Feedback.Index(); got != 3 {
		t.Fatalf("Feedback.Index() = %d", got)
	}
	if got := Category("nope").Index(); got != -1 {
		t.Fatalf("unknown Index() = %d", got)
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
