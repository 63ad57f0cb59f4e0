package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tableflip.dev/board/pkg/app"
	"tableflip.dev/board/pkg/commands/options"
	"tableflip.dev/board/pkg/runner/watch"
)

func addWatch(topLevel *cobra.Command) {
	co := &options.CategoryOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "watch [category]",
		Short: "Print entries every time a category changes",
		Example: `
board watch
board watch lost-found --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				co.Raw = args[0]
			}
			if err := co.Resolve(true); err != nil {
				return output.HandleError(err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			err := withClient(ctx, output.JSON, func(ctx context.Context, c *app.Client) error {
				w := watch.Watch{
					ShowID:   io.ShowID,
					JSON:     output.JSON,
					Category: co.Category,
					Client:   c,
					Out:      cmd.OutOrStdout(),
				}
				return w.Do(ctx)
			})
			return output.HandleError(err)
		},
		ValidArgsFunction: categoryCompletions,
	}

	options.AddCategoryArgs(cmd, co, "")
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
