package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/board/pkg/category"
)

// FieldOptions carries entry fields given as flags.
type FieldOptions struct {
	Title    string
	Content  string
	Date     string
	Priority string
	Time     string
	Location string
	Type     string
	Contact  string
	Rating   int
}

var fieldFlags = []string{
	category.FieldTitle, category.FieldContent, category.FieldDate,
	category.FieldPriority, category.FieldTime, category.FieldLocation,
	category.FieldType, category.FieldContact, category.FieldRating,
}

func AddFieldArgs(cmd *cobra.Command, o *FieldOptions) {
	f := cmd.Flags()
	f.StringVarP(&o.Title, category.FieldTitle, "t", "", "Entry title.")
	f.StringVarP(&o.Content, category.FieldContent, "m", "", "Entry content.")
	f.StringVar(&o.Date, category.FieldDate, "", `Entry date, example: --date="2026-10-19". Defaults to today.`)
	f.StringVar(&o.Priority, category.FieldPriority, "", "Announcement priority: low, medium or high.")
	f.StringVar(&o.Time, category.FieldTime, "", `Event time, example: --time="18:30".`)
	f.StringVar(&o.Location, category.FieldLocation, "", "Event location.")
	f.StringVar(&o.Type, category.FieldType, "", "Lost & found type: lost or found.")
	f.StringVar(&o.Contact, category.FieldContact, "", "Lost & found contact.")
	f.IntVar(&o.Rating, category.FieldRating, 0, "Feedback rating, 1 to 5.")
}

// Draft returns only the fields whose flags were set on cmd.
func (o *FieldOptions) Draft(cmd *cobra.Command) map[string]any {
	values := map[string]any{
		category.FieldTitle:    o.Title,
		category.FieldContent:  o.Content,
		category.FieldDate:     o.Date,
		category.FieldPriority: o.Priority,
		category.FieldTime:     o.Time,
		category.FieldLocation: o.Location,
		category.FieldType:     o.Type,
		category.FieldContact:  o.Contact,
		category.FieldRating:   o.Rating,
	}
	draft := map[string]any{}
	for _, name := range fieldFlags {
		if cmd.Flags().Changed(name) {
			draft[name] = values[name]
		}
	}
	return draft
}
