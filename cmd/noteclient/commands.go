package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/anonto42/nano-midea/forum/internal/feeditem"
	"github.com/anonto42/nano-midea/forum/internal/format"
	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Sign in and print a session token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.client().SignIn(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export %s_TOKEN=%s\n", envPrefix, token)
			return nil
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <noteId>",
		Short: "Print a note with its actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.mount(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}
			defer item.Unmount()

			w := cmd.OutOrStdout()
			note := item.Note
			fmt.Fprintf(w, "%s\n", note.Title)
			fmt.Fprintf(w, "by %s (%s) · %s\n", note.Author.Username, item.Follow().Label, format.Date(note.FirstPublicAt, time.Now()))
			if len(note.Tags) > 0 {
				fmt.Fprintf(w, "#%s\n", strings.Join(note.Tags, " #"))
			}
			fmt.Fprintln(w)
			printActions(w, item)
			return nil
		},
	}
}

func (a *app) toggleCmd(name string, kind feeditem.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <noteId>",
		Short: "Flip the " + name + " on a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.mount(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}
			defer item.Unmount()

			item.Toggles.Toggle(cmd.Context(), kind)
			item.Wait()
			printActions(cmd.OutOrStdout(), item)
			return nil
		},
	}
}

func (a *app) followCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "follow <noteId>",
		Short: "Follow or unfollow the author of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.mount(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}
			defer item.Unmount()

			item.ToggleFollow(cmd.Context())
			item.Wait()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", item.Note.Author.Username, item.Follow().Label)
			return nil
		},
	}
}

func (a *app) commentsCmd() *cobra.Command {
	var more int
	cmd := &cobra.Command{
		Use:   "comments <noteId>",
		Short: "List the comments of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.mount(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}
			defer item.Unmount()

			if err := item.Comments.OpenOrClose(cmd.Context()); err != nil {
				return err
			}
			for range more {
				if !item.Comments.ShowMore() {
					break
				}
			}
			printComments(cmd.OutOrStdout(), item.Comments)
			return nil
		},
	}
	cmd.Flags().IntVar(&more, "more", 0, "pages to load beyond the first")
	return cmd
}

func (a *app) commentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <noteId> <body...>",
		Short: "Comment on a note",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.mount(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}
			defer item.Unmount()

			comments := item.Comments
			if err := comments.OpenOrClose(cmd.Context()); err != nil {
				return err
			}
			comments.SetInput(strings.Join(args[1:], " "))
			if err := comments.SubmitInput(cmd.Context()); err != nil {
				return err
			}
			printComments(cmd.OutOrStdout(), comments)
			return nil
		},
	}
}

func (a *app) uncommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uncomment <noteId> <commentId>",
		Short: "Delete one of your comments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.mount(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}
			defer item.Unmount()

			if err := item.Comments.Remove(cmd.Context(), args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s comments\n", format.Count(item.Comments.Total()))
			return nil
		},
	}
}

func printComments(w io.Writer, comments *feeditem.CommentStream) {
	now := time.Now()
	shown := comments.Displayed()
	fmt.Fprintf(w, "%s comments\n", format.Count(comments.Total()))
	for _, c := range shown {
		fmt.Fprintf(w, "- %s (%s) [%s]: %s\n", c.Author.Username, format.Date(c.CreatedAt, now), c.ID, c.Content)
	}
	if comments.CanShowMore() {
		fmt.Fprintf(w, "... use --more to see older comments\n")
	}
}
