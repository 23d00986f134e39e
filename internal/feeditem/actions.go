package feeditem

import (
	"context"

	"github.com/anonto42/nano-midea/forum/internal/format"
)

// Action is one of the three buttons under a note. The set is closed: CommentAction,
// LikeAction and BookmarkAction are the only implementations.
type Action interface {
	Display() ActionDisplay
	Invoke(ctx context.Context) error
	action()
}

// ActionDisplay is everything needed to draw an action button.
type ActionDisplay struct {
	Label  string
	Info   string
	Icon   string
	Active bool
}

// CommentAction opens and closes the comment panel.
type CommentAction struct{ item *FeedItem }

// LikeAction flips the like relationship.
type LikeAction struct{ item *FeedItem }

// BookmarkAction flips the bookmark relationship.
type BookmarkAction struct{ item *FeedItem }

func (CommentAction) action()  {}
func (LikeAction) action()     {}
func (BookmarkAction) action() {}

func (a CommentAction) Display() ActionDisplay {
	return ActionDisplay{
		Label: "Comment",
		Info:  format.Count(a.item.Comments.Total()),
		Icon:  "chat-bubble-outline",
	}
}

func (a CommentAction) Invoke(ctx context.Context) error {
	return a.item.Comments.OpenOrClose(ctx)
}

func (a LikeAction) Display() ActionDisplay {
	t := a.item.Toggles.State(Like)
	d := ActionDisplay{Label: "Like", Info: format.Count(t.Count), Icon: "favorite-border", Active: t.Active}
	if t.Active {
		d.Icon = "favorite"
	}
	return d
}

func (a LikeAction) Invoke(ctx context.Context) error {
	a.item.Toggles.Toggle(ctx, Like)
	return nil
}

func (a BookmarkAction) Display() ActionDisplay {
	t := a.item.Toggles.State(Bookmark)
	d := ActionDisplay{Label: "Bookmark", Info: format.Count(t.Count), Icon: "bookmark-border", Active: t.Active}
	if t.Active {
		d.Icon = "bookmark"
	}
	return d
}

func (a BookmarkAction) Invoke(ctx context.Context) error {
	a.item.Toggles.Toggle(ctx, Bookmark)
	return nil
}

// Actions returns the note's action buttons in display order.
func (f *FeedItem) Actions() []Action {
	return []Action{CommentAction{f}, LikeAction{f}, BookmarkAction{f}}
}
