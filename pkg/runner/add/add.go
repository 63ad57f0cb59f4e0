package add

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/board/pkg/app"
	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/printers"
)

type Add struct {
	Category category.Category
	Fields   map[string]any
	ShowID   bool
	JSON     bool

	Client *app.Client
	Out    io.Writer
}

// Result is the JSON shape printed after a successful add.
type Result struct {
	Category category.Category `json:"category"`
	ID       string            `json:"id"`
}

func (n *Add) Do(ctx context.Context) error {
	if n.Client == nil {
		return errors.New("can not add, no client")
	}
	c := n.Category
	if c == "" {
		c = category.Default
	}

	id, err := n.Client.Add(ctx, c, n.Fields)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, Result{Category: c, ID: id})
	}

	all, err := n.Client.Snapshot(ctx, c)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.TitleWithCount(c, len(all))
	pp.Collection(c, all...)
	return nil
}
