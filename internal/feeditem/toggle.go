package feeditem

import (
	"context"
	"errors"
	"sync"

	"github.com/anonto42/nano-midea/forum/internal/logger"
	"github.com/anonto42/nano-midea/forum/internal/models"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

// Kind is one of the three actor→target relationships a feed item can flip.
type Kind int

const (
	Follow Kind = iota
	Like
	Bookmark
)

var kinds = [...]Kind{Follow, Like, Bookmark}

func (k Kind) String() string {
	switch k {
	case Follow:
		return "follow"
	case Like:
		return "like"
	case Bookmark:
		return "bookmark"
	}
	return "unknown"
}

func (k Kind) valid() bool { return k >= Follow && k <= Bookmark }

func (k Kind) set() models.MembershipSet {
	switch k {
	case Follow:
		return models.SetFollowing
	case Like:
		return models.SetLikes
	default:
		return models.SetBookmarks
	}
}

// property reports the note counter paired with k. Follow has none.
func (k Kind) property() (models.CounterProperty, bool) {
	switch k {
	case Like:
		return models.PropertyLike, true
	case Bookmark:
		return models.PropertyBookmark, true
	}
	return "", false
}

// Toggle is the displayed state of one relationship. Count is always zero for Follow.
type Toggle struct {
	Active bool
	Count  int
}

// Outcome records both halves of a settled toggle. The membership update and the counter
// adjustment are separate requests, so either may fail while the other succeeds.
type Outcome struct {
	Kind     Kind
	Activate bool
	// Delta is the counter change sent with the toggle; zero means no counter request was made.
	Delta      int
	Membership error
	Counter    error
}

func (o Outcome) Failed() bool { return o.Membership != nil || o.Counter != nil }

// Partial reports that exactly one of the two requests succeeded.
func (o Outcome) Partial() bool {
	if o.Delta == 0 {
		return false
	}
	return (o.Membership == nil) != (o.Counter == nil)
}

func (o Outcome) Err() error { return errors.Join(o.Membership, o.Counter) }

type relationship struct {
	toggle Toggle
	target string
	issued uint64
}

// Toggles owns the follow/like/bookmark flags and counters of one feed item.
//
// A toggle flips its flag and moves its counter immediately, then sends the membership update
// and the counter adjustment concurrently. Each settlement only ever undoes the delta its own
// toggle applied, so completions may arrive in any order; the flag follows the latest toggle.
type Toggles struct {
	remote   Remote
	actorID  string
	noteID   string
	rollback bool
	out      *emitter

	mu  sync.Mutex
	rel [len(kinds)]relationship

	inflight conc.WaitGroup
}

func newToggles(remote Remote, note models.NoteInfo, actor models.UserInfo, rollback bool, out *emitter) *Toggles {
	t := &Toggles{
		remote:   remote,
		actorID:  actor.ID,
		noteID:   note.ID,
		rollback: rollback,
		out:      out,
	}
	t.rel[Follow] = relationship{
		toggle: Toggle{Active: lo.Contains(actor.Following, note.Author.ID)},
		target: note.Author.ID,
	}
	t.rel[Like] = relationship{
		toggle: Toggle{Active: lo.Contains(actor.Likes, note.ID), Count: max(note.Like, 0)},
		target: note.ID,
	}
	t.rel[Bookmark] = relationship{
		toggle: Toggle{Active: lo.Contains(actor.Bookmarks, note.ID), Count: max(note.Bookmark, 0)},
		target: note.ID,
	}
	return t
}

// State returns the current displayed state of kind.
func (t *Toggles) State(kind Kind) Toggle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rel[kind].toggle
}

// Toggle flips kind and returns the new state. Remote calls run in the background; use Wait to
// block until they settle.
func (t *Toggles) Toggle(ctx context.Context, kind Kind) Toggle {
	if !kind.valid() {
		panic("feeditem: invalid toggle kind")
	}

	t.mu.Lock()
	r := &t.rel[kind]
	activate := !r.toggle.Active
	delta := 0
	if _, counted := kind.property(); counted {
		switch {
		case activate:
			delta = 1
		case r.toggle.Count > 0:
			delta = -1
		}
	}
	r.toggle.Active = activate
	r.toggle.Count += delta
	r.issued++
	generation := r.issued
	target := r.target
	view := r.toggle
	t.mu.Unlock()

	t.out.emit(ToggleApplied{Kind: kind, Toggle: view})

	ctx = context.WithoutCancel(ctx)
	t.inflight.Go(func() {
		outcome := t.send(ctx, kind, activate, delta, target)
		t.settle(ctx, outcome, generation)
	})

	return view
}

// send pushes or pulls the membership and, when delta is non-zero, adjusts the counter by delta.
// A deactivation at zero sends no counter request.
func (t *Toggles) send(ctx context.Context, kind Kind, activate bool, delta int, target string) Outcome {
	outcome := Outcome{Kind: kind, Activate: activate, Delta: delta}

	action := models.ActionPush
	if !activate {
		action = models.ActionPull
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		outcome.Membership = t.remote.UpdateMembership(ctx, t.actorID, models.UpdateMembershipRequest{
			Action: action,
			Value:  models.NewMembershipValue(kind.set(), target),
		})
	})
	if property, counted := kind.property(); counted && delta != 0 {
		wg.Go(func() {
			outcome.Counter = t.remote.AdjustCounter(ctx, t.noteID, models.AdjustCounterRequest{
				Property: property,
				Value:    delta,
			})
		})
	}
	wg.Wait()

	return outcome
}

func (t *Toggles) settle(ctx context.Context, outcome Outcome, generation uint64) {
	t.mu.Lock()
	r := &t.rel[outcome.Kind]
	if outcome.Failed() && t.rollback {
		r.toggle.Count = max(r.toggle.Count-outcome.Delta, 0)
		if r.issued == generation {
			r.toggle.Active = !outcome.Activate
		}
	}
	view := r.toggle
	t.mu.Unlock()

	if outcome.Failed() {
		logger.For(ctx).WithFields(logrus.Fields{
			"kind":     outcome.Kind.String(),
			"note_id":  t.noteID,
			"actor_id": t.actorID,
			"partial":  outcome.Partial(),
		}).WithError(outcome.Err()).Warn("toggle failed to sync")
		t.out.notify(ctx, remoteFailure(wrapRemote(outcome.Kind.String(), outcome.Err())))
	}

	t.out.emit(ToggleSettled{Outcome: outcome, Toggle: view})
}

// Wait blocks until every toggle issued so far has settled.
func (t *Toggles) Wait() {
	t.inflight.Wait()
}
