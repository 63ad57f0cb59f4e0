// Package watch streams category snapshots as they arrive.
package watch

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/board/pkg/app"
	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/entry"
	"tableflip.dev/board/pkg/printers"
)

type Watch struct {
	ShowID bool
	JSON   bool
	// Category limits the stream; empty means all four.
	Category category.Category
	Client   *app.Client
	Out      io.Writer
}

// Update is the JSON shape of one delivered snapshot.
type Update struct {
	Category category.Category `json:"category"`
	Entries  []*entry.Entry    `json:"entries"`
	Error    string            `json:"error,omitempty"`
}

// Do prints every change until ctx is done or the client closes.
func (w *Watch) Do(ctx context.Context) error {
	if w.Client == nil {
		return errors.New("can not watch, no client")
	}
	pp := printers.PrettyPrint{ShowID: w.ShowID, Out: w.Out}
	changes := w.Client.Store.Changes()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ch, ok := <-changes:
			if !ok {
				return nil
			}
			if w.Category != "" && ch.Category != w.Category {
				continue
			}
			if err := w.print(&pp, ch.Category, ch.Err); err != nil {
				return err
			}
		}
	}
}

func (w *Watch) print(pp *printers.PrettyPrint, c category.Category, failure error) error {
	all := w.Client.Store.Entries(c)
	if all == nil {
		all = []*entry.Entry{}
	}
	if w.JSON {
		u := Update{Category: c, Entries: all}
		if failure != nil {
			u.Error = failure.Error()
		}
		return printers.JSON(w.Out, u)
	}
	pp.TitleWithCount(c, len(all))
	if failure != nil {
		pp.Error(failure)
		return nil
	}
	pp.Collection(c, all...)
	return nil
}
