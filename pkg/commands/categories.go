package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/board/pkg/commands/options"
	"tableflip.dev/board/pkg/runner/categories"
)

func addCategories(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Show the categories and their fields",
		Example: `
board categories
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			k := categories.Categories{JSON: output.JSON, Out: cmd.OutOrStdout()}
			err := k.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
