package cli

import (
	"strings"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/client/services"
	"github.com/spf13/cobra"
)

func newLoginCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authorize readkeeper with your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.Login(cmd.Context())
		},
	}
}

func newLogoutCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session and remove cached data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.Logout(cmd.Context())
		},
	}
}

func newSyncCmd(s *session) *cobra.Command {
	var archive, full bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch changes from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.Sync(cmd.Context(), collectionFlag(archive), full)
		},
	}
	cmd.Flags().BoolVar(&archive, "archive", false, "sync the archive instead of the reading list")
	cmd.Flags().BoolVar(&full, "full", false, "discard the cursor and fetch a complete snapshot")
	return cmd
}

func newListCmd(s *session) *cobra.Command {
	var (
		archive     bool
		search, tag string
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l"},
		Short:   "Show cached items",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.List(cmd.Context(), collectionFlag(archive), search, tag)
		},
	}
	cmd.Flags().BoolVar(&archive, "archive", false, "show the archive")
	cmd.Flags().StringVar(&search, "search", "", "only items whose title or URL contains this text")
	cmd.Flags().StringVar(&tag, "tag", "", "only items with this tag")
	return cmd
}

func newActionCmd(s *session, use, short string) *cobra.Command {
	kind := intentKinds[use]
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.Act(cmd.Context(), kind, args[0], "")
		},
	}
}

func newTagCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <id> [tags]",
		Short: "Replace the tags of an item (comma separated, empty clears)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags := ""
			if len(args) == 2 {
				tags = args[1]
			}
			return s.app.Act(cmd.Context(), models.IntentTags, args[0], tags)
		},
	}
}

func newTagsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every known tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.Tags(cmd.Context())
		},
	}
}

func newAddCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "add <url> [tags]",
		Short: "Save a URL to the reading list",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags := ""
			if len(args) == 2 {
				tags = args[1]
			}
			return s.app.Add(cmd.Context(), args[0], tags)
		},
	}
}

func newSettingsCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show user preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.ShowSettings(cmd.Context())
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "set <name> <value>",
		Short:     "Change a preference (" + strings.Join(services.SettingNames, ", ") + ")",
		Args:      cobra.ExactArgs(2),
		ValidArgs: services.SettingNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.SetSetting(cmd.Context(), args[0], args[1])
		},
	})
	return cmd
}

func collectionFlag(archive bool) models.Collection {
	if archive {
		return models.Archive
	}
	return models.List
}
