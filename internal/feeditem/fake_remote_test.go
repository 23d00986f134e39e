package feeditem

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/nano-midea/forum/internal/models"
	"github.com/anonto42/nano-midea/forum/internal/session"
	"github.com/stretchr/testify/require"
)

const (
	opMembership = "membership"
	opCounter    = "counter"
	opFetch      = "fetch"
	opCreate     = "create"
	opDelete     = "delete"
)

// call is one request seen by fakeRemote. When the remote is gated the test completes it.
type call struct {
	op         string
	actorID    string
	noteID     string
	membership models.UpdateMembershipRequest
	counter    models.AdjustCounterRequest
	ids        []string
	create     models.CreateCommentRequest
	commentID  string
	done       chan error
}

func (c *call) complete(err error) { c.done <- err }

type fakeRemote struct {
	mu       sync.Mutex
	gated    bool
	pending  chan *call
	calls    []*call
	fail     map[string]error
	comments map[string]models.CommentRecord
	created  int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		pending:  make(chan *call, 64),
		fail:     map[string]error{},
		comments: map[string]models.CommentRecord{},
	}
}

func (f *fakeRemote) failing(op string, err error) {
	f.mu.Lock()
	f.fail[op] = err
	f.mu.Unlock()
}

func (f *fakeRemote) do(c *call) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	err, gated := f.fail[c.op], f.gated
	f.mu.Unlock()

	if !gated {
		return err
	}
	c.done = make(chan error, 1)
	f.pending <- c
	return <-c.done
}

func (f *fakeRemote) callsFor(op string) []*call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*call
	for _, c := range f.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

// next waits for n gated calls.
func (f *fakeRemote) next(t *testing.T, n int) []*call {
	t.Helper()
	out := make([]*call, 0, n)
	for len(out) < n {
		select {
		case c := <-f.pending:
			out = append(out, c)
		case <-time.After(2 * time.Second):
			require.FailNow(t, "timed out waiting for remote calls", "got %d of %d", len(out), n)
		}
	}
	return out
}

func (f *fakeRemote) UpdateMembership(_ context.Context, actorID string, req models.UpdateMembershipRequest) error {
	return f.do(&call{op: opMembership, actorID: actorID, membership: req})
}

func (f *fakeRemote) AdjustCounter(_ context.Context, noteID string, req models.AdjustCounterRequest) error {
	return f.do(&call{op: opCounter, noteID: noteID, counter: req})
}

func (f *fakeRemote) FetchComments(_ context.Context, ids []string) ([]models.CommentRecord, error) {
	if err := f.do(&call{op: opFetch, ids: ids}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.CommentRecord, 0, len(ids))
	for _, id := range ids {
		if c, ok := f.comments[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRemote) CreateComment(_ context.Context, req models.CreateCommentRequest) (*models.CommentRecord, error) {
	if err := f.do(&call{op: opCreate, create: req}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	rec := models.CommentRecord{
		ID:        fmt.Sprintf("new-%02d", f.created),
		Author:    models.Author{ID: req.UserID},
		Content:   req.Content,
		NoteID:    req.NoteID,
		CreatedAt: time.Now(),
	}
	f.comments[rec.ID] = rec
	return &rec, nil
}

func (f *fakeRemote) DeleteComment(_ context.Context, commentID string) error {
	if err := f.do(&call{op: opDelete, commentID: commentID}); err != nil {
		return err
	}
	f.mu.Lock()
	delete(f.comments, commentID)
	f.mu.Unlock()
	return nil
}

var _ Remote = (*fakeRemote)(nil)

// recorder collects feedback and events.
type recorder struct {
	mu       sync.Mutex
	feedback []Feedback
	events   []Event
}

func (r *recorder) Notify(_ context.Context, fb Feedback) {
	r.mu.Lock()
	r.feedback = append(r.feedback, fb)
	r.mu.Unlock()
}

func (r *recorder) Observe(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) notifications() []Feedback {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Feedback(nil), r.feedback...)
}

func (r *recorder) observed() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

const (
	testNoteID   = "64b7f0c2a1b2c3d4e5f60718"
	testAuthorID = "2"
	testActorID  = "1"
)

// testNote returns a note with like/bookmark counters and comments comment ids, all of which
// the remote knows about, newest first.
func testNote(remote *fakeRemote, like, bookmark, comments int) models.NoteInfo {
	ids := make([]string, 0, comments)
	for i := comments; i >= 1; i-- {
		id := fmt.Sprintf("c%02d", i)
		ids = append(ids, id)
		remote.comments[id] = models.CommentRecord{
			ID:      id,
			Author:  models.Author{ID: testAuthorID},
			Content: "comment " + id,
			NoteID:  testNoteID,
		}
	}
	return models.NoteInfo{
		ID:       testNoteID,
		Title:    "Channels",
		Like:     like,
		Bookmark: bookmark,
		Comment:  comments,
		Comments: ids,
		Author:   models.Author{ID: testAuthorID, Username: "rob"},
	}
}

func testActor() models.UserInfo {
	return models.UserInfo{ID: testActorID, Username: "ken", Following: []string{}, Likes: []string{}, Bookmarks: []string{}}
}

func mount(t *testing.T, remote *fakeRemote, note models.NoteInfo, actor models.UserInfo, opts ...Option) (*FeedItem, *recorder) {
	t.Helper()
	rec := &recorder{}
	sessions := session.Static{Session: &session.Session{ActorID: actor.ID}}
	opts = append([]Option{WithNotifier(rec), WithObserver(rec)}, opts...)
	item, err := Mount(context.Background(), sessions, remote, note, actor, opts...)
	require.NoError(t, err)
	t.Cleanup(item.Unmount)
	return item, rec
}
