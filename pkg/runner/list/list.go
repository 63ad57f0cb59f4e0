// Package list prints the current entries of one or every category.
package list

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/board/pkg/app"
	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/entry"
	"tableflip.dev/board/pkg/printers"
)

type List struct {
	ShowID bool
	JSON   bool
	// Category limits the listing; empty means all four.
	Category category.Category
	Client   *app.Client
	Out      io.Writer
}

// Listing is the JSON shape of one category.
type Listing struct {
	Category category.Category `json:"category"`
	Entries  []*entry.Entry    `json:"entries"`
}

func (n *List) Do(ctx context.Context) error {
	if n.Client == nil {
		return errors.New("can not list, no client")
	}

	cats := category.All()
	if n.Category != "" {
		cats = []category.Category{n.Category}
	}

	var listings []Listing
	for _, c := range cats {
		all, err := n.Client.Snapshot(ctx, c)
		if err != nil {
			return err
		}
		if all == nil {
			all = []*entry.Entry{}
		}
		listings = append(listings, Listing{Category: c, Entries: all})
	}

	if n.JSON {
		if len(listings) == 1 {
			return printers.JSON(n.Out, listings[0])
		}
		return printers.JSON(n.Out, listings)
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.NewLine()
	for _, l := range listings {
		pp.TitleWithCount(l.Category, len(l.Entries))
		pp.Collection(l.Category, l.Entries...)
	}
	return nil
}
