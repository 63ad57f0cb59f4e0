// Package remove deletes entries by id.
package remove

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/board/pkg/app"
	"tableflip.dev/board/pkg/category"
)

type Remove struct {
	Category category.Category
	IDs      []string

	Client *app.Client
	Out    io.Writer
}

// Do deletes each id in order and stops at the first failure.
func (r *Remove) Do(ctx context.Context) error {
	if r.Client == nil {
		return errors.New("can not delete, no client")
	}
	if len(r.IDs) == 0 {
		return errors.New("requires at least one entry id")
	}
	out := r.Out
	if out == nil {
		out = color.Output
	}
	faint := color.New(color.Faint)
	for _, id := range r.IDs {
		if err := r.Client.Delete(ctx, r.Category, id); err != nil {
			return err
		}
		_, _ = faint.Fprintln(out, fmt.Sprintf("deleted %s/%s", r.Category, id))
	}
	return nil
}
