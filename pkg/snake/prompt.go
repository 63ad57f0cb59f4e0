// Package snake prompts for command input that was not given as flags.
package snake

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/entry"
	"tableflip.dev/board/pkg/form"
)

// Prompter asks for values on In and echoes to Out. Nil streams mean the
// terminal.
type Prompter struct {
	In  io.ReadCloser
	Out io.WriteCloser
}

var templates = &promptui.PromptTemplates{
	Prompt:  "{{ . }}: ",
	Valid:   "{{ . | green }}: ",
	Invalid: "{{ . | red }}: ",
	Success: "{{ . | bold }}: ",
}

// Category asks which category to post to.
func (p *Prompter) Category() (category.Category, error) {
	cats := category.All()
	items := make([]string, len(cats))
	for i, c := range cats {
		d := category.MustDescribe(c)
		items[i] = d.Icon + " " + d.Title
	}
	sel := promptui.Select{
		Label:    "Category",
		Items:    items,
		HideHelp: true,
		Stdin:    p.In,
		Stdout:   p.Out,
	}
	i, _, err := sel.Run()
	if err != nil {
		return "", err
	}
	return cats[i], nil
}

// Fields fills every field of c missing from draft. Enums become a select,
// everything else a validated text prompt seeded with the field default.
// Optional fields are asked for only when all is set.
func (p *Prompter) Fields(c category.Category, draft map[string]any, all bool) error {
	d, ok := category.Describe(c)
	if !ok {
		return fmt.Errorf("unknown category %q", c)
	}
	for _, f := range d.Fields {
		if strings.TrimSpace(entry.String(draft[f.Name])) != "" {
			continue
		}
		if !f.Required && !all {
			continue
		}
		v, err := p.field(f)
		if err != nil {
			return err
		}
		if v != "" {
			draft[f.Name] = v
		}
	}
	return nil
}

func (p *Prompter) field(f category.Field) (string, error) {
	if f.Kind == category.KindEnum {
		sel := promptui.Select{
			Label:     f.Label,
			Items:     f.Options,
			HideHelp:  true,
			CursorPos: indexOf(f.Options, f.Default),
			Stdin:     p.In,
			Stdout:    p.Out,
		}
		_, v, err := sel.Run()
		return v, err
	}

	label := f.Label
	if !f.Required {
		label += " (optional)"
	}
	prompt := promptui.Prompt{
		Label:     label,
		Default:   f.Default,
		Templates: templates,
		Validate: func(input string) error {
			return form.CheckField(f, input)
		},
		Stdin:  p.In,
		Stdout: p.Out,
	}
	return prompt.Run()
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     p.In,
		Stdout:    p.Out,
	}
	result, err := prompt.Run()
	if err == promptui.ErrAbort {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ParseBool(result)
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return 0
}

// ParseBool is strconv.ParseBool with the addition of Yes/No parsing.
func ParseBool(str string) (bool, error) {
	switch str {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "NO", "No":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}
