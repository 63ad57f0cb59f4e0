package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/board/pkg/app"
	"tableflip.dev/board/pkg/commands/options"
	"tableflip.dev/board/pkg/config"
	"tableflip.dev/board/pkg/logging"
)

var (
	output = &options.OutputOptions{}
	logs   = &logOptions{}
)

type logOptions struct {
	File string
	JSON bool
}

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "board",
		Short: base.Wrap80("A community bulletin board on the command line."),
		Long: base.Wrap80("Browse and post announcements, events, lost & found notices and " +
			"feedback. Changes from every viewer show up live."),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addGlobalFlags(cmd)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addList(topLevel)
	addWatch(topLevel)
	addAdd(topLevel)
	addEdit(topLevel)
	addDelete(topLevel)
	addCategories(topLevel)
	addToken(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
}

func addGlobalFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("path", "", "Directory of the disk backend. Defaults to ~/.board.db.")
	f.String("app-id", "", "Application id that namespaces the collections.")
	f.String("backend", "", "Backend: disk or memory.")
	f.String("token", "", "Sign-in token. Without one the session is anonymous.")
	f.Bool("admin", false, "Start in admin mode.")
	f.String("log-level", "", "Log level: debug, info, warn or error.")
	f.StringVar(&logs.File, "log-file", "", "Write logs to this file instead of stderr.")
	f.BoolVar(&logs.JSON, "log-json", false, "Write logs as JSON.")

	for key, flag := range map[string]string{
		config.KeyPath:     "path",
		config.KeyAppID:    "app-id",
		config.KeyBackend:  "backend",
		config.KeyToken:    "token",
		config.KeyAdmin:    "admin",
		config.KeyLogLevel: "log-level",
	} {
		_ = viper.BindPFlag(key, f.Lookup(flag))
	}
}

// newLogger builds the command logger. quiet sends logs nowhere unless a log
// file was given, for commands that own the terminal.
func newLogger(level string, quiet bool) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closer := func() {}
	switch {
	case logs.File != "":
		f, err := os.OpenFile(logs.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closer = func() { _ = f.Close() }
	case quiet:
		return logging.Discard(), closer, nil
	}
	return logging.New(w, level, logs.JSON), closer, nil
}

// withClient loads the config, opens a client, runs fn and closes the client.
func withClient(ctx context.Context, quiet bool, fn func(context.Context, *app.Client) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log, closeLog, err := newLogger(cfg.LogLevel, quiet)
	if err != nil {
		return err
	}
	defer closeLog()

	c, err := app.Open(ctx, cfg, app.Options{Logger: log})
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}
