// Package options defines shared flag helpers for CLI commands.
package options

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/board/pkg/category"
)

// CategoryOptions selects a category by name or alias.
type CategoryOptions struct {
	Raw      string
	Category category.Category
}

// AddCategoryArgs registers --category. An empty default means "all" for
// commands that accept it.
func AddCategoryArgs(cmd *cobra.Command, o *CategoryOptions, def string) {
	cmd.Flags().StringVarP(&o.Raw, "category", "c", def,
		"Category: "+strings.Join(category.Names(), ", ")+".")
}

// Resolve parses Raw. With allowAll, an empty value leaves Category empty.
func (o *CategoryOptions) Resolve(allowAll bool) error {
	if allowAll && strings.TrimSpace(o.Raw) == "" {
		o.Category = ""
		return nil
	}
	c, err := category.Parse(o.Raw)
	if err != nil {
		return err
	}
	o.Category = c
	return nil
}
