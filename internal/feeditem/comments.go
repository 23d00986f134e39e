package feeditem

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/anonto42/nano-midea/forum/internal/logger"
	"github.com/anonto42/nano-midea/forum/internal/models"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const (
	// InitialVisibleComments is the pagination cursor right after the panel opens.
	InitialVisibleComments = 5
	// CommentPageSize is how far ShowMore advances the cursor.
	CommentPageSize = 5
)

// CommentStream owns the comment panel of one note.
//
// Fetched comments and comments created in this session live in two separate lists that are
// only concatenated when displayed, session comments first. The pagination cursor gates the
// fetched list alone. The running total is seeded from the note and moved by exactly one per
// create or delete, independent of how many records were ever fetched.
type CommentStream struct {
	remote  Remote
	actorID string
	noteID  string
	initial int
	step    int
	out     *emitter

	mu         sync.Mutex
	commentIDs []string
	fetched    []models.CommentRecord
	session    []models.CommentRecord
	visible    int
	total      int
	open       bool
	loading    bool
	input      string
}

func newCommentStream(remote Remote, note models.NoteInfo, actor models.UserInfo, initial, step int, out *emitter) *CommentStream {
	return &CommentStream{
		remote:     remote,
		actorID:    actor.ID,
		noteID:     note.ID,
		initial:    initial,
		step:       step,
		out:        out,
		commentIDs: slices.Clone(note.Comments),
		visible:    initial,
		total:      max(note.Comment, 0),
	}
}

func (s *CommentStream) log(ctx context.Context) *logrus.Entry {
	return logger.For(ctx).WithFields(logrus.Fields{"note_id": s.noteID, "actor_id": s.actorID})
}

// OpenOrClose toggles the panel. Opening refetches every known comment id in one call and
// replaces the fetched list; session comments whose ids were part of that fetch are dropped. Closing keeps everything in memory. A failed fetch leaves the panel closed.
func (s *CommentStream) OpenOrClose(ctx context.Context) error {
	s.mu.Lock()
	if s.open {
		s.open = false
		s.mu.Unlock()
		s.out.emit(PanelClosed{})
		return nil
	}
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	ids := slices.Clone(s.commentIDs)
	s.mu.Unlock()

	var (
		records []models.CommentRecord
		err     error
	)
	if len(ids) > 0 {
		records, err = s.remote.FetchComments(ctx, ids)
	}

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.mu.Unlock()
		s.log(ctx).WithError(err).Warn("failed to fetch comments")
		err = wrapRemote("fetch comments", err)
		s.out.notify(ctx, remoteFailure(err))
		return err
	}
	// Comments created while the fetch was running are not part of it and stay in the session list.
	s.session = slices.DeleteFunc(s.session, func(c models.CommentRecord) bool { return slices.Contains(ids, c.ID) })
	s.fetched = lo.UniqBy(records, func(c models.CommentRecord) string { return c.ID })
	s.fetched = slices.DeleteFunc(s.fetched, func(c models.CommentRecord) bool {
		return slices.ContainsFunc(s.session, func(held models.CommentRecord) bool { return held.ID == c.ID })
	})
	s.visible = s.initial
	s.open = true
	fetched := len(s.fetched)
	s.mu.Unlock()

	s.out.emit(PanelOpened{Fetched: fetched})
	return nil
}

// Submit creates a comment. Nothing visible changes until the server confirms it.
func (s *CommentStream) Submit(ctx context.Context, body string) error {
	content := strings.TrimSpace(body)
	if content == "" {
		return ErrEmptyComment
	}

	created, err := s.remote.CreateComment(ctx, models.CreateCommentRequest{
		UserID:  s.actorID,
		Content: content,
		NoteID:  s.noteID,
	})
	if err != nil {
		s.log(ctx).WithError(err).Warn("failed to create comment")
		err = wrapRemote("create comment", err)
		s.out.notify(ctx, remoteFailure(err))
		return err
	}

	s.mu.Lock()
	held := s.holds(created.ID)
	if !held {
		s.session = slices.Insert(s.session, 0, *created)
	}
	if !slices.Contains(s.commentIDs, created.ID) {
		s.commentIDs = slices.Insert(s.commentIDs, 0, created.ID)
	}
	s.total++
	s.input = ""
	total := s.total
	s.mu.Unlock()

	s.out.emit(CommentCreated{Comment: *created}, CommentCountChanged{Delta: 1, Total: total})
	return nil
}

// SubmitInput submits the input buffer.
func (s *CommentStream) SubmitInput(ctx context.Context) error {
	return s.Submit(ctx, s.Input())
}

// Remove deletes one of the note's comments, again only after the server confirms it.
func (s *CommentStream) Remove(ctx context.Context, commentID string) error {
	if err := s.remote.DeleteComment(ctx, commentID); err != nil {
		s.log(ctx).WithError(err).WithField("comment_id", commentID).Warn("failed to delete comment")
		err = wrapRemote("delete comment", err)
		s.out.notify(ctx, remoteFailure(err))
		return err
	}

	byID := func(c models.CommentRecord) bool { return c.ID == commentID }

	s.mu.Lock()
	s.session = slices.DeleteFunc(s.session, byID)
	s.fetched = slices.DeleteFunc(s.fetched, byID)
	s.commentIDs = slices.DeleteFunc(s.commentIDs, func(id string) bool { return id == commentID })
	s.total = max(s.total-1, 0)
	total := s.total
	s.mu.Unlock()

	s.out.emit(CommentRemoved{ID: commentID}, CommentCountChanged{Delta: -1, Total: total})
	return nil
}

// holds reports whether id is already in either list. Callers hold s.mu.
func (s *CommentStream) holds(id string) bool {
	byID := func(c models.CommentRecord) bool { return c.ID == id }
	return slices.ContainsFunc(s.session, byID) || slices.ContainsFunc(s.fetched, byID)
}

// ShowMore advances the cursor by one page. It does nothing once every fetched comment is visible.
func (s *CommentStream) ShowMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.fetched)-s.visible <= 0 {
		return false
	}
	s.visible += s.step
	return true
}

// CanShowMore reports whether the "show more" control should be offered.
func (s *CommentStream) CanShowMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open && len(s.fetched)-s.visible > 0
}

// Displayed returns what the open panel shows: every session comment, then the first visible
// fetched comments. It is empty while the panel is closed.
func (s *CommentStream) Displayed() []models.CommentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return nil
	}
	shown := make([]models.CommentRecord, 0, len(s.session)+min(s.visible, len(s.fetched)))
	shown = append(shown, s.session...)
	return append(shown, s.fetched[:min(s.visible, len(s.fetched))]...)
}

func (s *CommentStream) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Total is the running comment count.
func (s *CommentStream) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Visible is the pagination cursor.
func (s *CommentStream) Visible() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// CommentIDs returns the note's known comment ids, newest first.
func (s *CommentStream) CommentIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.commentIDs)
}

func (s *CommentStream) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()
}

func (s *CommentStream) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// CanSubmit reports whether the input buffer holds a non-blank comment.
func (s *CommentStream) CanSubmit() bool {
	return strings.TrimSpace(s.Input()) != ""
}
