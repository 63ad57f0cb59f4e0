// Package category defines the fixed content partitions of the board and the
// descriptor table that drives collection paths, form shapes and display.
package category

import (
	"fmt"
	"strings"
)

// Category identifies one of the four board partitions.
type Category string

const (
	// Announcements carries notices with a priority.
	Announcements Category = "announcements"
	// Events carries dated happenings with a time and location.
	Events Category = "events"
	// LostFound carries lost or found items with a contact.
	LostFound Category = "lost-found"
	// Feedback carries rated comments.
	Feedback Category = "feedback"
)

// Default is the category shown when the board opens.
const Default = Announcements

// All returns the categories in display order.
func All() []Category {
	return []Category{
		Announcements,
		Events,
		LostFound,
		Feedback,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := descriptors[c]
	return ok
}

func (c Category) String() string {
	return string(c)
}

// Index returns the position of c in All, or -1.
func (c Category) Index() int {
	for i, candidate := range All() {
		if candidate == c {
			return i
		}
	}
	return -1
}

// Parse converts user input into a Category. It accepts the canonical name,
// the display title and a few common aliases.
func Parse(raw string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return Default, nil
	}
	for _, c := range All() {
		d := descriptors[c]
		if key == string(c) || key == strings.ToLower(d.Title) {
			return c, nil
		}
		for _, alias := range d.Aliases {
			if key == alias {
				return c, nil
			}
		}
	}
	return "", fmt.Errorf("category: unknown category %q", raw)
}

// Names returns the canonical names, for completions and help text.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = string(c)
	}
	return names
}
