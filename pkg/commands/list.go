package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/board/pkg/app"
	"tableflip.dev/board/pkg/commands/options"
	"tableflip.dev/board/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	co := &options.CategoryOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list [category]",
		Aliases: []string{"ls", "get"},
		Short:   "List entries",
		Example: `
board list
board list events
board list --category feedback --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				co.Raw = args[0]
			}
			if err := co.Resolve(true); err != nil {
				return output.HandleError(err)
			}
			err := withClient(cmd.Context(), output.JSON, func(ctx context.Context, c *app.Client) error {
				l := list.List{
					ShowID:   io.ShowID,
					JSON:     output.JSON,
					Category: co.Category,
					Client:   c,
					Out:      cmd.OutOrStdout(),
				}
				return l.Do(ctx)
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
