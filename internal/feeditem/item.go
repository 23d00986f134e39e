// Package feeditem keeps one note's interaction state (follow/like/bookmark toggles and the
// comment panel) consistent with the notes API across overlapping, independently failing
// round-trips.
package feeditem

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-midea/forum/internal/models"
	"github.com/anonto42/nano-midea/forum/internal/session"
)

type config struct {
	notifier Notifier
	observer Observer
	rollback bool
	initial  int
	step     int
}

type Option func(*config)

// WithNotifier routes user-visible feedback to n. The default logs it.
func WithNotifier(n Notifier) Option {
	return func(c *config) { c.notifier = n }
}

// WithObserver reports every state change to o.
func WithObserver(o Observer) Option {
	return func(c *config) { c.observer = o }
}

// WithoutRollback keeps the optimistic flag and counter of a toggle even when its remote calls
// fail, until the next full reload.
func WithoutRollback() Option {
	return func(c *config) { c.rollback = false }
}

// WithPagination overrides the initial number of visible fetched comments and the page step.
func WithPagination(initial, step int) Option {
	return func(c *config) {
		if initial > 0 {
			c.initial = initial
		}
		if step > 0 {
			c.step = step
		}
	}
}

// FeedItem is the interaction state of one mounted note. It lives from Mount to Unmount.
type FeedItem struct {
	Note     models.NoteInfo
	Actor    models.UserInfo
	Session  *session.Session
	Toggles  *Toggles
	Comments *CommentStream

	out *emitter
}

// Mount creates the state for note as seen by actor. Without a session there is nothing to
// render and Mount returns session.ErrNoSession.
func Mount(ctx context.Context, sessions session.Provider, remote Remote, note models.NoteInfo, actor models.UserInfo, opts ...Option) (*FeedItem, error) {
	s, err := sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, session.ErrNoSession
	}
	if actor.ID != s.ActorID {
		return nil, fmt.Errorf("actor %s does not match session actor %s", actor.ID, s.ActorID)
	}

	cfg := &config{
		notifier: logNotifier{},
		observer: nopObserver{},
		rollback: true,
		initial:  InitialVisibleComments,
		step:     CommentPageSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	out := &emitter{observer: cfg.observer, notifier: cfg.notifier}

	return &FeedItem{
		Note:     note,
		Actor:    actor,
		Session:  s,
		Toggles:  newToggles(remote, note, actor, cfg.rollback, out),
		Comments: newCommentStream(remote, note, actor, cfg.initial, cfg.step, out),
		out:      out,
	}, nil
}

// Wait blocks until every toggle issued so far has settled.
func (f *FeedItem) Wait() {
	f.Toggles.Wait()
}

// Unmount waits for in-flight toggles and then stops reporting events and feedback.
func (f *FeedItem) Unmount() {
	f.Toggles.Wait()
	f.out.detach()
}

// FollowDisplay is the state of the follow control next to the author's name.
type FollowDisplay struct {
	Label     string
	Following bool
}

func (f *FeedItem) Follow() FollowDisplay {
	if f.Toggles.State(Follow).Active {
		return FollowDisplay{Label: "Following", Following: true}
	}
	return FollowDisplay{Label: "Follow"}
}

// ToggleFollow flips the follow relationship with the note's author.
func (f *FeedItem) ToggleFollow(ctx context.Context) FollowDisplay {
	f.Toggles.Toggle(ctx, Follow)
	return f.Follow()
}
