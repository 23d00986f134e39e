package feeditem

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/anonto42/nano-midea/forum/internal/logger"
	"github.com/anonto42/nano-midea/forum/internal/models"
)

// ErrorMessage is the single user-visible text for any failed remote call.
const ErrorMessage = "Internal error, please try later."

var (
	// ErrRemote wraps every failure of a remote call.
	ErrRemote = errors.New("remote call failed")
	// ErrEmptyComment is returned for a comment body that is blank after trimming.
	ErrEmptyComment = errors.New("comment body is empty")
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

// Feedback is a transient notification shown to the user.
type Feedback struct {
	Severity Severity
	Message  string
	Err      error
}

// Notifier surfaces Feedback to the user.
type Notifier interface {
	Notify(ctx context.Context, fb Feedback)
}

type NotifierFunc func(ctx context.Context, fb Feedback)

func (f NotifierFunc) Notify(ctx context.Context, fb Feedback) { f(ctx, fb) }

type logNotifier struct{}

func (logNotifier) Notify(ctx context.Context, fb Feedback) {
	logger.For(ctx).WithError(fb.Err).Warn(fb.Message)
}

func remoteFailure(err error) Feedback {
	return Feedback{Severity: SeverityError, Message: ErrorMessage, Err: err}
}

func wrapRemote(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrRemote, err)
}

// Event is a typed state change reported upward by a feed item.
type Event interface {
	event()
}

// ToggleApplied reports an optimistic flip, before any network call completes.
type ToggleApplied struct {
	Kind   Kind
	Toggle Toggle
}

// ToggleSettled reports that both remote calls of one toggle completed.
type ToggleSettled struct {
	Outcome Outcome
	Toggle  Toggle
}

type CommentCreated struct {
	Comment models.CommentRecord
}

type CommentRemoved struct {
	ID string
}

// CommentCountChanged reports the running total moving by Delta.
type CommentCountChanged struct {
	Delta int
	Total int
}

type PanelOpened struct {
	Fetched int
}

type PanelClosed struct{}

func (ToggleApplied) event()       {}
func (ToggleSettled) event()       {}
func (CommentCreated) event()      {}
func (CommentRemoved) event()      {}
func (CommentCountChanged) event() {}
func (PanelOpened) event()         {}
func (PanelClosed) event()         {}

// Observer receives events after the state they describe is already visible.
type Observer interface {
	Observe(ev Event)
}

type ObserverFunc func(ev Event)

func (f ObserverFunc) Observe(ev Event) { f(ev) }

type nopObserver struct{}

func (nopObserver) Observe(Event) {}

// emitter fans events and feedback out to the item's collaborators until it is detached.
type emitter struct {
	mu       sync.RWMutex
	observer Observer
	notifier Notifier
	detached bool
}

func (e *emitter) emit(evs ...Event) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.detached {
		return
	}
	for _, ev := range evs {
		e.observer.Observe(ev)
	}
}

func (e *emitter) notify(ctx context.Context, fb Feedback) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.detached {
		return
	}
	e.notifier.Notify(ctx, fb)
}

func (e *emitter) detach() {
	e.mu.Lock()
	e.detached = true
	e.mu.Unlock()
}
