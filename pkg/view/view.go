// Package view tracks which category is on screen and whether the entry form
// is open, and maps categories and entries to their display metadata.
package view

import (
	"fmt"

	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/entry"
	"tableflip.dev/board/pkg/form"
)

// Meta is the display metadata of a category.
type Meta struct {
	Title  string
	Icon   string
	Accent string
}

// Badge is the per-entry marker shown next to a title.
type Badge struct {
	Text  string
	Color string
}

// Router owns the active category and drives the form controller.
type Router struct {
	active category.Category
	form   *form.Controller
}

// NewRouter starts on the default category. A nil controller gets a fresh one.
func NewRouter(f *form.Controller) *Router {
	if f == nil {
		f = form.New()
	}
	return &Router{active: category.Default, form: f}
}

func (r *Router) Active() category.Category { return r.active }
func (r *Router) Form() *form.Controller     { return r.form }
func (r *Router) FormVisible() bool          { return r.form.Visible() }

// Editing reports whether the open form edits an existing entry.
func (r *Router) Editing() bool {
	return r.form.Mode() == form.Edit
}

// Select switches the active category. An open form is closed and its draft
// discarded, even when c is already active.
func (r *Router) Select(c category.Category) error {
	if !c.Valid() {
		return fmt.Errorf("view: unknown category %q", c)
	}
	if r.form.Visible() {
		r.form.Cancel()
	}
	r.active = c
	return nil
}

// Next selects the category after the active one, wrapping around.
func (r *Router) Next() category.Category {
	return r.step(1)
}

// Prev selects the category before the active one, wrapping around.
func (r *Router) Prev() category.Category {
	return r.step(-1)
}

func (r *Router) step(d int) category.Category {
	all := category.All()
	i := (r.active.Index() + d + len(all)) % len(all)
	_ = r.Select(all[i])
	return r.active
}

// OpenCreate opens an empty form for the active category.
func (r *Router) OpenCreate() error {
	return r.form.StartCreate(r.active)
}

// OpenEdit opens the form on e within the active category.
func (r *Router) OpenEdit(e *entry.Entry) error {
	return r.form.StartEdit(r.active, e)
}

// CloseForm discards the draft.
func (r *Router) CloseForm() {
	r.form.Cancel()
}

// MetaFor returns the display metadata of c.
func MetaFor(c category.Category) Meta {
	d, ok := category.Describe(c)
	if !ok {
		return Meta{Title: string(c)}
	}
	return Meta{Title: d.Title, Icon: d.Icon, Accent: d.Accent}
}

// Meta returns the display metadata of c.
func (r *Router) Meta(c category.Category) Meta {
	return MetaFor(c)
}

var (
	priorityColors = map[string]string{
		"high":   "red",
		"medium": "yellow",
		"low":    "green",
	}
	lostFoundColors = map[string]string{
		"lost":  "red",
		"found": "green",
	}
)

// BadgeFor returns the badge of e in c. Events carry none.
func BadgeFor(c category.Category, e *entry.Entry) (Badge, bool) {
	if e == nil {
		return Badge{}, false
	}
	switch c {
	case category.Announcements:
		color, ok := priorityColors[e.Priority]
		if !ok {
			return Badge{}, false
		}
		return Badge{Text: e.Priority, Color: color}, true
	case category.LostFound:
		color, ok := lostFoundColors[e.Type]
		if !ok {
			return Badge{}, false
		}
		return Badge{Text: e.Type, Color: color}, true
	case category.Feedback:
		if e.Rating == 0 {
			return Badge{}, false
		}
		return Badge{Text: e.Stars(), Color: "yellow"}, true
	}
	return Badge{}, false
}

// Badge returns the badge of e in c.
func (r *Router) Badge(c category.Category, e *entry.Entry) (Badge, bool) {
	return BadgeFor(c, e)
}
