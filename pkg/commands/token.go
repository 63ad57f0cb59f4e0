package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/board/pkg/config"
	"tableflip.dev/board/pkg/runner/token"
	"tableflip.dev/board/pkg/timeutil"
)

func addToken(topLevel *cobra.Command) {
	ttl := timeutil.DefaultTTL

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a sign-in token",
		Long: `Mint a sign-in token signed with the configured secret. Pass it back
with --token or BOARD_TOKEN to sign in as that user.`,
		Example: `
BOARD_SECRET=s3cret board token alice --ttl 1w
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			d, err := timeutil.ParseTTL(ttl)
			if err != nil {
				return err
			}
			t := token.Token{
				Secret: cfg.Secret,
				Issuer: cfg.Issuer,
				UserID: args[0],
				TTL:    d,
				Out:    cmd.OutOrStdout(),
			}
			return t.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&ttl, "ttl", ttl, `How long the token is valid, example: --ttl="1w2d". "never" does not expire.`)
	topLevel.AddCommand(cmd)
}
