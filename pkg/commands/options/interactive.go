package options

import (
	"github.com/spf13/cobra"
)

// InteractiveOptions asks for missing input on the terminal.
type InteractiveOptions struct {
	Interactive bool
}

// InteractiveArgs registers -i. usage describes what gets asked for.
func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions, usage string) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false, usage)
}
