package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/board/pkg/app"
	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/commands/options"
	"tableflip.dev/board/pkg/runner/remove"
	"tableflip.dev/board/pkg/snake"
)

func addDelete(topLevel *cobra.Command) {
	co := &options.CategoryOptions{}
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete entries",
		Example: `
board delete -c lost-found 3f2a...
board rm -c events -i 3f2a... 9b1c...
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := co.Resolve(false); err != nil {
				return output.HandleError(err)
			}
			if i.Interactive {
				ok, err := (&snake.Prompter{}).Confirm(fmt.Sprintf("Delete %d %s entries", len(args), co.Category))
				if err != nil || !ok {
					return err
				}
			}
			err := withClient(cmd.Context(), output.JSON, func(ctx context.Context, c *app.Client) error {
				r := remove.Remove{
					Category: co.Category,
					IDs:      args,
					Client:   c,
					Out:      cmd.OutOrStdout(),
				}
				return r.Do(ctx)
			})
			return output.HandleError(err)
		},
	}

	options.AddCategoryArgs(cmd, co, string(category.Default))
	options.InteractiveArgs(cmd, i, "Ask for confirmation before deleting.")
	options.AddOutputArg(cmd, output)
	_ = cmd.RegisterFlagCompletionFunc("category", categoryCompletions)
	topLevel.AddCommand(cmd)
}
