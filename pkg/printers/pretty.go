package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/entry"
	"tableflip.dev/board/pkg/view"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

var accents = map[string]color.Attribute{
	"blue":    color.FgHiBlue,
	"green":   color.FgHiGreen,
	"yellow":  color.FgHiYellow,
	"red":     color.FgHiRed,
	"magenta": color.FgHiMagenta,
}

func accent(name string, extra ...color.Attribute) *color.Color {
	c := color.New(extra...)
	if a, ok := accents[name]; ok {
		c.Add(a)
	}
	return c
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

// TitleWithCount prints a category header like "📅 Events - 2 entries".
func (pp *PrettyPrint) TitleWithCount(c category.Category, count int) {
	m := view.MetaFor(c)
	t := accent(m.Accent, color.Bold, color.Underline)
	f := color.New(color.Faint)

	_, _ = fmt.Fprint(pp.out(), m.Icon+" ")
	_, _ = t.Fprint(pp.out(), m.Title)
	_, _ = f.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = f.Fprintln(pp.out(), " entry")
	default:
		_, _ = f.Fprintln(pp.out(), " entries")
	}
}

// Collection prints entries of c as a table, one row per entry with a second
// row for the content.
func (pp *PrettyPrint) Collection(c category.Category, entries ...*entry.Entry) {
	if len(entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	id := color.New(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 72

	for _, e := range entries {
		badge := ""
		if b, ok := view.BadgeFor(c, e); ok {
			badge = accent(b.Color).Sprint(b.Text)
		}
		row := []interface{}{faint.Sprint(e.Date), bold.Sprint(e.Title), badge, faint.Sprint(details(c, e))}
		if pp.ShowID {
			row = append([]interface{}{id.Sprint(e.ID)}, row...)
		}
		tbl.AddRow(row...)

		body := []interface{}{"", e.Content, "", faint.Sprint("by " + e.Author)}
		if pp.ShowID {
			body = append([]interface{}{""}, body...)
		}
		tbl.AddRow(body...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

func details(c category.Category, e *entry.Entry) string {
	var parts []string
	switch c {
	case category.Events:
		if e.Time != "" {
			parts = append(parts, e.Time)
		}
		if e.Location != "" {
			parts = append(parts, "@ "+e.Location)
		}
	case category.LostFound:
		if e.Contact != "" {
			parts = append(parts, "contact: "+e.Contact)
		}
	}
	return strings.Join(parts, " ")
}

// Error prints a failure in place of a collection.
func (pp *PrettyPrint) Error(err error) {
	r := color.New(color.FgHiRed)
	_, _ = r.Fprintf(pp.out(), " %v\n\n", err)
}

// Categories prints the category legend.
func (pp *PrettyPrint) Categories(cats ...category.Category) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("", bold.Sprint("Category"), bold.Sprint("Name"), bold.Sprint("Aliases"), bold.Sprint("Required"), bold.Sprint("Optional"))
	for _, c := range cats {
		d, ok := category.Describe(c)
		if !ok {
			continue
		}
		var optional []string
		for _, f := range d.Fields {
			if !f.Required {
				optional = append(optional, f.Name)
			}
		}
		tbl.AddRow(d.Icon, accent(d.Accent).Sprint(d.Title), string(d.Category),
			strings.Join(d.Aliases, ", "), strings.Join(d.Required(), ", "), strings.Join(optional, ", "))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// JSON writes v as one line of JSON.
func JSON(w io.Writer, v interface{}) error {
	if w == nil {
		w = color.Output
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
