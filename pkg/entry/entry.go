package entry

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/docstore"
)

// Author values stamped at submission time.
const (
	AuthorAdmin     = "Admin"
	AuthorAnonymous = "Anonymous"
)

const layoutISO = "2006-01-02"

// Entry is one item posted to a category.
type Entry struct {
	ID       string            `json:"id,omitempty"`
	Category category.Category `json:"category"`

	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Date      string    `json:"date,omitempty"`
	Author    string    `json:"author,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`

	Priority string `json:"priority,omitempty"`
	Time     string `json:"time,omitempty"`
	Location string `json:"location,omitempty"`
	Type     string `json:"type,omitempty"`
	Contact  string `json:"contact,omitempty"`
	Rating   int    `json:"rating,omitempty"`
}

// Today formats now as an entry date.
func Today(now time.Time) string {
	return now.Format(layoutISO)
}

// ParseDate parses an entry date.
func ParseDate(v string) (time.Time, error) {
	return time.Parse(layoutISO, strings.TrimSpace(v))
}

// FromDocument decodes a stored document of category c.
func FromDocument(c category.Category, doc docstore.Document) *Entry {
	f := doc.Fields
	e := &Entry{
		ID:       doc.ID,
		Category: c,
		Title:    String(f[category.FieldTitle]),
		Content:  String(f[category.FieldContent]),
		Date:     String(f[category.FieldDate]),
		Author:   String(f[category.FieldAuthor]),
		Priority: String(f[category.FieldPriority]),
		Time:     String(f[category.FieldTime]),
		Location: String(f[category.FieldLocation]),
		Type:     String(f[category.FieldType]),
		Contact:  String(f[category.FieldContact]),
	}
	if r, ok := Int(f[category.FieldRating]); ok {
		e.Rating = r
	}
	if raw := String(f[category.FieldCreatedAt]); raw != "" {
		if t, err := ParseTime(raw); err == nil {
			e.CreatedAt = Timestamp{Time: t}
		}
	}
	return e
}

// FromDocuments decodes a snapshot and orders it newest first.
func FromDocuments(c category.Category, docs []docstore.Document) []*Entry {
	out := make([]*Entry, 0, len(docs))
	for _, doc := range docs {
		out = append(out, FromDocument(c, doc))
	}
	Sort(out)
	return out
}

// Fields returns the document body for e. Empty optional fields and fields
// that do not belong to the entry's category are left out; the id is never
// part of the body.
func (e *Entry) Fields() map[string]any {
	out := map[string]any{
		category.FieldTitle:   e.Title,
		category.FieldContent: e.Content,
	}
	put := func(name, v string) {
		if v != "" {
			out[name] = v
		}
	}
	put(category.FieldDate, e.Date)
	put(category.FieldAuthor, e.Author)
	if !e.CreatedAt.IsZero() {
		out[category.FieldCreatedAt] = FormatTime(e.CreatedAt.Time)
	}

	d, ok := category.Describe(e.Category)
	if !ok {
		return out
	}
	for _, field := range d.Fields {
		switch field.Name {
		case category.FieldPriority:
			put(field.Name, e.Priority)
		case category.FieldTime:
			put(field.Name, e.Time)
		case category.FieldLocation:
			put(field.Name, e.Location)
		case category.FieldType:
			put(field.Name, e.Type)
		case category.FieldContact:
			put(field.Name, e.Contact)
		case category.FieldRating:
			if e.Rating != 0 {
				out[field.Name] = e.Rating
			}
		}
	}
	return out
}

// Stars renders a rating as filled and empty stars.
func (e *Entry) Stars() string {
	if e.Rating < category.MinRating {
		return ""
	}
	r := e.Rating
	if r > category.MaxRating {
		r = category.MaxRating
	}
	return strings.Repeat("★", r) + strings.Repeat("☆", category.MaxRating-r)
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s [%s] %s", e.Date, e.Author, e.Title)
}

// Sort orders entries newest first by CreatedAt, then by ID. Entries without a
// timestamp sort last.
func Sort(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		left := entries[i]
		right := entries[j]
		if left == nil || right == nil {
			return left != nil
		}
		lt := left.CreatedAt.Time
		rt := right.CreatedAt.Time
		switch {
		case lt.IsZero() && rt.IsZero():
			return left.ID < right.ID
		case lt.IsZero():
			return false
		case rt.IsZero():
			return true
		default:
			if lt.Equal(rt) {
				return left.ID < right.ID
			}
			return lt.After(rt)
		}
	})
}

// String coerces a loosely typed field value to a string.
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Int coerces a loosely typed field value to an int. JSON decoding yields
// float64 for numbers, form input yields strings.
func Int(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t != float64(int(t)) {
			return 0, false
		}
		return int(t), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
