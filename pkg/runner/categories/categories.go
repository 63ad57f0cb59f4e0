// Package categories prints the category legend.
package categories

import (
	"context"
	"io"

	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/printers"
)

type Categories struct {
	JSON bool
	Out  io.Writer
}

func (k *Categories) Do(_ context.Context) error {
	if k.JSON {
		descs := make([]category.Descriptor, 0, len(category.All()))
		for _, c := range category.All() {
			descs = append(descs, category.MustDescribe(c))
		}
		return printers.JSON(k.Out, descs)
	}
	pp := printers.PrettyPrint{Out: k.Out}
	pp.NewLine()
	pp.Categories(category.All()...)
	return nil
}
