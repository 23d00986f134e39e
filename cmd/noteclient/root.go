package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/anonto42/nano-midea/forum/internal/apiclient"
	"github.com/anonto42/nano-midea/forum/internal/feeditem"
	"github.com/anonto42/nano-midea/forum/internal/logger"
	"github.com/anonto42/nano-midea/forum/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "FORUM"

// app is the state shared by every subcommand.
type app struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:          "noteclient",
		Short:        "Read and react to forum notes from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.SetLevel(a.v.GetString("log-level"))
		},
	}

	root.PersistentFlags().String("api-url", apiclient.DefaultBaseURL, "notes API base URL ($FORUM_API_URL)")
	root.PersistentFlags().String("token", "", "session token from `noteclient login` ($FORUM_TOKEN)")
	root.PersistentFlags().String("log-level", "warn", "log level ($FORUM_LOG_LEVEL)")
	if err := a.v.BindPFlags(root.PersistentFlags()); err != nil {
		panic(err)
	}

	root.AddCommand(
		a.loginCmd(),
		a.showCmd(),
		a.toggleCmd("like", feeditem.Like),
		a.toggleCmd("bookmark", feeditem.Bookmark),
		a.followCmd(),
		a.commentsCmd(),
		a.commentCmd(),
		a.uncommentCmd(),
	)
	return root
}

func (a *app) client() *apiclient.Client {
	return apiclient.New(a.v.GetString("api-url")).WithToken(a.v.GetString("token"))
}

// mount loads note noteID and the signed-in actor and builds a feed item for them.
// Feedback goes to stderr.
func (a *app) mount(ctx context.Context, cmd *cobra.Command, noteID string) (*feeditem.FeedItem, error) {
	sessions := session.NewTokenProvider(a.v.GetString("token"))
	s, err := sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, fmt.Errorf("%w: run `noteclient login` and set FORUM_TOKEN", err)
		}
		return nil, err
	}

	client := a.client()
	note, err := client.GetNote(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("load note: %w", err)
	}
	actor, err := client.GetUser(ctx, s.ActorID)
	if err != nil {
		return nil, fmt.Errorf("load actor: %w", err)
	}

	stderr := cmd.ErrOrStderr()
	notifier := feeditem.NotifierFunc(func(_ context.Context, fb feeditem.Feedback) {
		fmt.Fprintln(stderr, fb.Message)
	})
	return feeditem.Mount(ctx, sessions, client, *note, *actor, feeditem.WithNotifier(notifier))
}

func printActions(w io.Writer, item *feeditem.FeedItem) {
	for _, action := range item.Actions() {
		d := action.Display()
		marker := " "
		if d.Active {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-8s %6s  [%s]\n", marker, d.Label, d.Info, d.Icon)
	}
}
