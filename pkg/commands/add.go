package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/board/pkg/app"
	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/commands/options"
	"tableflip.dev/board/pkg/runner/add"
	"tableflip.dev/board/pkg/snake"
)

func addAdd(topLevel *cobra.Command) {
	co := &options.CategoryOptions{}
	fo := &options.FieldOptions{}
	io := &options.IDOptions{}
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Post a new entry",
		Long: `Post a new entry. Date, author and creation time are stamped on
submission; --admin posts as Admin, otherwise as Anonymous.`,
		Example: `
board add --category events "Park picnic" -m "Bring food" --time 12:00 --location "Main park"
board add -c feedback -t "Great!" -m "Loved it" --rating 5
board add -i
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if i.Interactive && !cmd.Flags().Changed("category") {
				c, err := (&snake.Prompter{}).Category()
				if err != nil {
					return err
				}
				co.Raw = string(c)
			}
			if err := co.Resolve(false); err != nil {
				return output.HandleError(err)
			}

			draft := fo.Draft(cmd)
			if len(args) > 0 {
				if _, ok := draft[category.FieldTitle]; ok {
					return output.HandleError(errors.New("title given twice, use either the argument or --title"))
				}
				draft[category.FieldTitle] = strings.Join(args, " ")
			}
			if i.Interactive {
				if err := (&snake.Prompter{}).Fields(co.Category, draft, true); err != nil {
					return err
				}
			}

			err := withClient(cmd.Context(), output.JSON, func(ctx context.Context, c *app.Client) error {
				a := add.Add{
					Category: co.Category,
					Fields:   draft,
					ShowID:   io.ShowID,
					JSON:     output.JSON,
					Client:   c,
					Out:      cmd.OutOrStdout(),
				}
				return a.Do(ctx)
			})
			return output.HandleError(err)
		},
	}

	options.AddCategoryArgs(cmd, co, string(category.Default))
	options.AddFieldArgs(cmd, fo)
	options.AddShowIDArgs(cmd, io)
	options.InteractiveArgs(cmd, i, "Prompt for the category and any field not given as a flag.")
	options.AddOutputArg(cmd, output)
	_ = cmd.RegisterFlagCompletionFunc("category", categoryCompletions)
	topLevel.AddCommand(cmd)
}
