package category

import "fmt"

// Kind describes how a field is entered and normalized.
type Kind int

const (
	// KindText is a single line of text.
	KindText Kind = iota
	// KindLongText is free-form, possibly multi-line, text.
	KindLongText
	// KindDate is a YYYY-MM-DD calendar date.
	KindDate
	// KindTime is a wall-clock time such as 18:30.
	KindTime
	// KindEnum is one of Field.Options.
	KindEnum
	// KindRating is an integer between 1 and 5.
	KindRating
)

var kindNames = map[Kind]string{
	KindText:     "text",
	KindLongText: "long-text",
	KindDate:     "date",
	KindTime:     "time",
	KindEnum:     "enum",
	KindRating:   "rating",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("category: unknown field kind %q", b)
}

// Common field names shared by every category.
const (
	FieldID        = "id"
	FieldTitle     = "title"
	FieldContent   = "content"
	FieldDate      = "date"
	FieldAuthor    = "author"
	FieldCreatedAt = "createdAt"

	FieldPriority = "priority"
	FieldTime     = "time"
	FieldLocation = "location"
	FieldType     = "type"
	FieldContact  = "contact"
	FieldRating   = "rating"
)

// Rating bounds for feedback entries.
const (
	MinRating = 1
	MaxRating = 5
)

// Field is one editable input of a category form.
type Field struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Kind     Kind     `json:"kind"`
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
	Default  string   `json:"default,omitempty"`
}

// Descriptor holds everything that varies by category.
type Descriptor struct {
	Category Category `json:"category"`
	// Path is the collection sub-path under the application namespace.
	Path    string   `json:"path"`
	Title   string   `json:"title"`
	Icon    string   `json:"icon"`
	Accent  string   `json:"accent"`
	Aliases []string `json:"aliases,omitempty"`
	// Fields lists the form inputs in order.
	Fields []Field `json:"fields"`
}

// Required returns the names of the required fields.
func (d Descriptor) Required() []string {
	var out []string
	for _, f := range d.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// Field looks up a form field by name.
func (d Descriptor) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

var (
	titleField   = Field{Name: FieldTitle, Label: "Title", Kind: KindText, Required: true}
	contentField = Field{Name: FieldContent, Label: "Content", Kind: KindLongText, Required: true}
	dateField    = Field{Name: FieldDate, Label: "Date", Kind: KindDate}
)

var descriptors = map[Category]Descriptor{
	Announcements: {
		Category: Announcements,
		Path:     "announcements",
		Title:    "Announcements",
		Icon:     "📢",
		Accent:   "blue",
		Aliases:  []string{"announcement", "news", "a"},
		Fields: []Field{
			titleField,
			contentField,
			{Name: FieldPriority, Label: "Priority", Kind: KindEnum, Options: []string{"low", "medium", "high"}, Default: "medium"},
			dateField,
		},
	},
	Events: {
		Category: Events,
		Path:     "events",
		Title:    "Events",
		Icon:     "📅",
		Accent:   "green",
		Aliases:  []string{"event", "e"},
		Fields: []Field{
			titleField,
			contentField,
			dateField,
			{Name: FieldTime, Label: "Time", Kind: KindTime},
			{Name: FieldLocation, Label: "Location", Kind: KindText},
		},
	},
	LostFound: {
		Category: LostFound,
		Path:     "lost-found",
		Title:    "Lost & Found",
		Icon:     "🔍",
		Accent:   "yellow",
		Aliases:  []string{"lostfound", "lost-and-found", "lost", "found", "l"},
		Fields: []Field{
			{Name: FieldType, Label: "Type", Kind: KindEnum, Required: true, Options: []string{"lost", "found"}, Default: "lost"},
			titleField,
			contentField,
			{Name: FieldContact, Label: "Contact", Kind: KindText},
			dateField,
		},
	},
	Feedback: {
		Category: Feedback,
		Path:     "feedback",
		Title:    "Feedback",
		Icon:     "💬",
		Accent:   "magenta",
		Aliases:  []string{"f"},
		Fields: []Field{
			titleField,
			contentField,
			{Name: FieldRating, Label: "Rating", Kind: KindRating, Required: true, Default: "5"},
		},
	},
}

// Describe returns the descriptor for c. The zero Descriptor and false are
// returned for unknown categories.
func Describe(c Category) (Descriptor, bool) {
	d, ok := descriptors[c]
	return d, ok
}

// MustDescribe is Describe for callers that already validated c.
func MustDescribe(c Category) Descriptor {
	d, ok := descriptors[c]
	if !ok {
		panic("category: unknown category " + string(c))
	}
	return d
}
