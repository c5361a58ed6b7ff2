package cli

import (
	"bufio"
	"context"
	"errors"
	"os"
	"strings"

	"github.com/dmitrijs2005/readkeeper/internal/client/config"
	"github.com/dmitrijs2005/readkeeper/internal/client/services"
	"github.com/dmitrijs2005/readkeeper/internal/logging"
	"github.com/spf13/cobra"
)

// session carries the App built by the root command's pre-run hook to the
// subcommands.
type session struct {
	app *App
}

// NewRootCmd builds the readkeeper command tree. Without a subcommand it
// starts the interactive REPL.
func NewRootCmd() *cobra.Command {
	s := &session{}

	cmd := &cobra.Command{
		Use:          "readkeeper",
		Short:        "Read-it-later client with an offline cache",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive shell
  readkeeper

  # Scriptable commands
  readkeeper sync --archive
  readkeeper list --tag golang
  readkeeper add https://go.dev/blog golang,blog
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			return s.app.Root(cmd.Context())
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		log, err := logging.New(os.Stderr, cfg.LogLevel)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		app, err := NewApp(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), log)
		if err != nil {
			return err
		}
		s.app = app

		if err := app.Restore(ctx); err != nil {
			if !errors.Is(err, services.ErrAuthFailed) {
				return err
			}
			printlnFn("Stored session is no longer valid, please login again")
		}
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if s.app == nil {
			return nil
		}
		return s.app.Close()
	}

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(newLoginCmd(s))
	cmd.AddCommand(newLogoutCmd(s))
	cmd.AddCommand(newSyncCmd(s))
	cmd.AddCommand(newListCmd(s))
	cmd.AddCommand(newActionCmd(s, "read", "Archive an unread item or re-add an archived one"))
	cmd.AddCommand(newActionCmd(s, "fav", "Toggle the favourite flag of an item"))
	cmd.AddCommand(newActionCmd(s, "delete", "Delete an item"))
	cmd.AddCommand(newTagCmd(s))
	cmd.AddCommand(newTagsCmd(s))
	cmd.AddCommand(newAddCmd(s))
	cmd.AddCommand(newSettingsCmd(s))

	return cmd
}

// Root runs the interactive shell until the user exits or input ends.
func (a *App) Root(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn("Welcome to readkeeper (type 'help' for commands)")
	go a.StartSyncPoller(ctx)

	if a.isLoggedIn() {
		_, _ = a.syncer.Sync(ctx, a.currentCollection())
	} else {
		_ = a.syncer.Show(ctx, a.currentCollection())
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
	return nil
}
