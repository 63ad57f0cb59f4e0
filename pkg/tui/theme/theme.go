package theme

import "github.com/charmbracelet/lipgloss"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Tabs   TabTheme
	List   ListTheme
	Form   FormTheme
	Footer FooterTheme
}

// TabTheme styles the category bar at the top.
type TabTheme struct {
	Active   lipgloss.Style
	Inactive lipgloss.Style
	Count    lipgloss.Style
	Bar      lipgloss.Style
}

// ListTheme styles the entry list.
type ListTheme struct {
	Title    lipgloss.Style
	Selected lipgloss.Style
	Content  lipgloss.Style
	Meta     lipgloss.Style
	Empty    lipgloss.Style
	Error    lipgloss.Style
}

// FormTheme styles the create and edit form.
type FormTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Required lipgloss.Style
	Hint     lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Admin  lipgloss.Style
}

var accents = map[string]lipgloss.Color{
	"blue":    lipgloss.Color("39"),
	"green":   lipgloss.Color("42"),
	"yellow":  lipgloss.Color("220"),
	"red":     lipgloss.Color("196"),
	"magenta": lipgloss.Color("170"),
}

// Accent maps a category or badge color name to a terminal color.
func Accent(name string) lipgloss.Color {
	if c, ok := accents[name]; ok {
		return c
	}
	return lipgloss.Color("252")
}

// Badge renders text in the named color.
func Badge(name, text string) string {
	return lipgloss.NewStyle().Foreground(Accent(name)).Bold(true).Render(text)
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	return Theme{
		Tabs: TabTheme{
			Active: lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true, true, false, true),
			Inactive: lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 1),
			Count: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			Bar:   lipgloss.NewStyle().MarginBottom(1),
		},
		List: ListTheme{
			Title:    lipgloss.NewStyle().Bold(true),
			Selected: lipgloss.NewStyle().Reverse(true).Bold(true),
			Content:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingLeft(2),
			Meta:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")).PaddingLeft(2),
			Empty:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
			Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		},
		Form: FormTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Title:    lipgloss.NewStyle().Bold(true).MarginBottom(1),
			Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10),
			Focused:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Width(10),
			Required: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
			Hint:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			Admin:  lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("212")).Padding(0, 1),
		},
	}
}
