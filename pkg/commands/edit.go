package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/board/pkg/app"
	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/commands/options"
	"tableflip.dev/board/pkg/runner/edit"
)

func addEdit(topLevel *cobra.Command) {
	co := &options.CategoryOptions{}
	fo := &options.FieldOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an entry",
		Long: `Change fields of an entry. Only the fields given as flags are written;
everything else keeps its stored value.`,
		Example: `
board edit -c events 3f2a... --location "Town hall"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := co.Resolve(false); err != nil {
				return output.HandleError(err)
			}
			err := withClient(cmd.Context(), output.JSON, func(ctx context.Context, c *app.Client) error {
				e := edit.Edit{
					Category: co.Category,
					ID:       args[0],
					Fields:   fo.Draft(cmd),
					ShowID:   io.ShowID,
					Client:   c,
					Out:      cmd.OutOrStdout(),
				}
				return e.Do(ctx)
			})
			return output.HandleError(err)
		},
	}

	options.AddCategoryArgs(cmd, co, string(category.Default))
	options.AddFieldArgs(cmd, fo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	_ = cmd.RegisterFlagCompletionFunc("category", categoryCompletions)
	topLevel.AddCommand(cmd)
}
