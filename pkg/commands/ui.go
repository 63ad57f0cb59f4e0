package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/board/pkg/app"
	"tableflip.dev/board/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
board ui
board ui --admin --log-file /tmp/board.log
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), true, func(ctx context.Context, c *app.Client) error {
				i := ui.UI{Client: c}
				return i.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}
