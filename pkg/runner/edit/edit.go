package edit

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/board/pkg/app"
	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/printers"
)

// Edit merge-overwrites the named fields of one entry.
type Edit struct {
	Category category.Category
	ID       string
	Fields   map[string]any
	ShowID   bool

	Client *app.Client
	Out    io.Writer
}

func (n *Edit) Do(ctx context.Context) error {
	if n.Client == nil {
		return errors.New("can not edit, no client")
	}
	if len(n.Fields) == 0 {
		return errors.New("nothing to change, set at least one field")
	}
	if err := n.Client.Edit(ctx, n.Category, n.ID, n.Fields); err != nil {
		return err
	}
	e, err := n.Client.Find(ctx, n.Category, n.ID)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.Collection(n.Category, e)
	return nil
}
