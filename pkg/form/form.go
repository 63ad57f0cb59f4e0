// Package form holds the edit buffer behind the create and edit screens.
package form

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/entry"
)

// Mode is the state of the form.
type Mode int

const (
	// Closed means no form is shown.
	Closed Mode = iota
	// Create means the draft will become a new entry.
	Create
	// Edit means the draft will be merged into an existing entry.
	Edit
)

func (m Mode) String() string {
	switch m {
	case Create:
		return "create"
	case Edit:
		return "edit"
	default:
		return "closed"
	}
}

// ValidationError lists the fields that keep a draft from being submitted.
type ValidationError struct {
	Category category.Category
	Missing  []string
	Invalid  map[string]string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	names := make([]string, 0, len(e.Invalid))
	for name := range e.Invalid {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, e.Invalid[name]))
	}
	return fmt.Sprintf("form: %s: %s", e.Category, strings.Join(parts, "; "))
}

// Controller is the draft of the entry under construction.
type Controller struct {
	mode      Mode
	category  category.Category
	editingID string
	draft     map[string]any
}

// New returns a closed form.
func New() *Controller {
	return &Controller{draft: map[string]any{}}
}

// StartCreate opens an empty form for c, seeded with the category defaults.
func (f *Controller) StartCreate(c category.Category) error {
	d, ok := category.Describe(c)
	if !ok {
		return fmt.Errorf("form: unknown category %q", c)
	}
	f.mode = Create
	f.category = c
	f.editingID = ""
	f.draft = map[string]any{}
	for _, field := range d.Fields {
		if field.Default != "" {
			f.draft[field.Name] = field.Default
		}
	}
	return nil
}

// StartEdit opens the form on a copy of e's fields, including its id.
func (f *Controller) StartEdit(c category.Category, e *entry.Entry) error {
	if !c.Valid() {
		return fmt.Errorf("form: unknown category %q", c)
	}
	if e == nil || e.ID == "" {
		return fmt.Errorf("form: edit requires a stored entry")
	}
	cp := *e
	cp.Category = c
	f.mode = Edit
	f.category = c
	f.editingID = e.ID
	f.draft = cp.Fields()
	f.draft[category.FieldID] = e.ID
	return nil
}

// SetField merges one value into the draft. It is ignored while the form is
// closed.
func (f *Controller) SetField(name string, value any) {
	if f.mode == Closed {
		return
	}
	f.draft[name] = value
}

// Cancel discards the draft and closes the form.
func (f *Controller) Cancel() {
	f.mode = Closed
	f.category = ""
	f.editingID = ""
	f.draft = map[string]any{}
}

// Reset closes the form after a successful submission.
func (f *Controller) Reset() {
	f.Cancel()
}

func (f *Controller) Mode() Mode                  { return f.mode }
func (f *Controller) Visible() bool               { return f.mode != Closed }
func (f *Controller) Category() category.Category { return f.category }

// EditingID is the id of the entry being edited, empty in create mode.
func (f *Controller) EditingID() string {
	return f.editingID
}

// Field returns the draft value of name as text.
func (f *Controller) Field(name string) string {
	return entry.String(f.draft[name])
}

// Draft returns a copy of the draft.
func (f *Controller) Draft() map[string]any {
	out := make(map[string]any, len(f.draft))
	for k, v := range f.draft {
		out[k] = v
	}
	return out
}

// Validate checks required fields and value constraints.
func (f *Controller) Validate() error {
	_, err := f.Normalized()
	return err
}

// Normalized returns the draft ready for submission: strings trimmed, enums
// lowercased, ratings as integers, and only the category's own fields kept.
// Fields never touched stay absent so an edit leaves them as stored.
func (f *Controller) Normalized() (map[string]any, error) {
	if f.mode == Closed {
		return nil, fmt.Errorf("form: not open")
	}
	return Normalize(f.category, f.draft)
}

// Normalize applies the per-category rules to draft.
func Normalize(c category.Category, draft map[string]any) (map[string]any, error) {
	d, ok := category.Describe(c)
	if !ok {
		return nil, fmt.Errorf("form: unknown category %q", c)
	}
	out := map[string]any{}
	verr := &ValidationError{Category: c, Invalid: map[string]string{}}

	for _, field := range d.Fields {
		raw, present := draft[field.Name]
		text := strings.TrimSpace(entry.String(raw))
		if text == "" {
			if field.Required {
				verr.Missing = append(verr.Missing, field.Name)
			} else if present {
				out[field.Name] = ""
			}
			continue
		}
		v, problem := normalizeValue(field, raw, text)
		if problem != "" {
			verr.Invalid[field.Name] = problem
			continue
		}
		out[field.Name] = v
	}

	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return nil, verr
	}
	return out, nil
}

func normalizeValue(field category.Field, raw any, text string) (any, string) {
	switch field.Kind {
	case category.KindDate:
		if _, err := entry.ParseDate(text); err != nil {
			return nil, "must be a date like 2006-01-02"
		}
		return text, ""
	case category.KindTime:
		if _, err := time.Parse("15:04", text); err != nil {
			return nil, "must be a time like 18:30"
		}
		return text, ""
	case category.KindEnum:
		v := strings.ToLower(text)
		for _, opt := range field.Options {
			if v == opt {
				return v, ""
			}
		}
		return nil, "must be one of " + strings.Join(field.Options, ", ")
	case category.KindRating:
		r, ok := entry.Int(raw)
		if !ok {
			r, ok = entry.Int(text)
		}
		if !ok || r < category.MinRating || r > category.MaxRating {
			return nil, fmt.Sprintf("must be between %d and %d", category.MinRating, category.MaxRating)
		}
		return r, ""
	default:
		return text, ""
	}
}

// CheckField validates one raw value against the rules of field. Blank values
// are only an error for required fields.
func CheckField(field category.Field, value string) error {
	text := strings.TrimSpace(value)
	if text == "" {
		if field.Required {
			return fmt.Errorf("%s is required", field.Name)
		}
		return nil
	}
	if _, problem := normalizeValue(field, text, text); problem != "" {
		return fmt.Errorf("%s %s", field.Name, problem)
	}
	return nil
}
