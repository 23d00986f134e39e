package handlers

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/nano-midea/forum/internal/middleware"
	"github.com/anonto42/nano-midea/forum/internal/models"
	"github.com/anonto42/nano-midea/forum/internal/repositories"
	"github.com/anonto42/nano-midea/forum/internal/session"
	"github.com/anonto42/nano-midea/forum/validators"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

type memUsers struct {
	mu    sync.Mutex
	users map[uint]*models.User
	next  uint
}

func (r *memUsers) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	user.ID = r.next
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUsers) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) GetUsersByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUsers) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *memUsers) GetUserByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.FirebaseUID != nil && *u.FirebaseUID == uid })
}

func (r *memUsers) UpdateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

type memMemberships struct {
	mu   sync.Mutex
	rows []models.Membership
}

func (r *memMemberships) Push(_ context.Context, userID uint, set models.MembershipSet, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := models.Membership{UserID: userID, Set: set, TargetID: target}
	if !lo.ContainsBy(r.rows, func(x models.Membership) bool { return same(x, m) }) {
		r.rows = append(r.rows, m)
	}
	return nil
}

func (r *memMemberships) Pull(_ context.Context, userID uint, set models.MembershipSet, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := models.Membership{UserID: userID, Set: set, TargetID: target}
	r.rows = lo.Reject(r.rows, func(x models.Membership, _ int) bool { return same(x, m) })
	return nil
}

func (r *memMemberships) GetMemberships(_ context.Context, userID uint) ([]models.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Filter(r.rows, func(x models.Membership, _ int) bool { return x.UserID == userID }), nil
}

func same(a, b models.Membership) bool {
	return a.UserID == b.UserID && a.Set == b.Set && a.TargetID == b.TargetID
}

type memNotes struct {
	mu      sync.Mutex
	notes   map[string]*models.Note
	pushErr error
	pullErr error
}

func (r *memNotes) CreateNote(_ context.Context, note *models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	note.ID = primitive.NewObjectID()
	note.CreatedAt = time.Now()
	if note.Comments == nil {
		note.Comments = []string{}
	}
	cp := *note
	r.notes[note.ID.Hex()] = &cp
	return nil
}

func (r *memNotes) get(id string) (*models.Note, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, repositories.ErrInvalidID
	}
	n, ok := r.notes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return n, nil
}

func (r *memNotes) GetNoteByID(_ context.Context, id string) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, err := r.get(id)
	if err != nil {
		return nil, err
	}
	cp := *n
	cp.Comments = append([]string(nil), n.Comments...)
	return &cp, nil
}

func (r *memNotes) AdjustCounter(_ context.Context, id string, property models.CounterProperty, delta int) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, err := r.get(id)
	if err != nil {
		return nil, err
	}
	field := &n.Like
	if property == models.PropertyBookmark {
		field = &n.Bookmark
	}
	if *field+delta < 0 {
		return nil, repositories.ErrCounterUnderflow
	}
	*field += delta
	cp := *n
	return &cp, nil
}

func (r *memNotes) PushComment(_ context.Context, id, commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pushErr != nil {
		return r.pushErr
	}
	n, err := r.get(id)
	if err != nil {
		return err
	}
	n.Comments = append([]string{commentID}, n.Comments...)
	n.Comment++
	return nil
}

func (r *memNotes) PullComment(_ context.Context, id, commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pullErr != nil {
		return r.pullErr
	}
	n, err := r.get(id)
	if err != nil {
		return err
	}
	if lo.Contains(n.Comments, commentID) {
		n.Comments = lo.Without(n.Comments, commentID)
		n.Comment--
	}
	return nil
}

type memComments struct {
	mu       sync.Mutex
	comments map[string]models.Comment
}

func (r *memComments) CreateComment(_ context.Context, c *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[c.ID] = *c
	return nil
}

func (r *memComments) GetCommentByID(_ context.Context, id string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (r *memComments) GetCommentsByIDs(_ context.Context, ids []string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Map iteration order stands in for a store that ignores the requested order.
	var out []models.Comment
	for id, c := range r.comments {
		if lo.Contains(ids, id) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memComments) DeleteComment(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

var (
	_ repositories.UserRepository       = (*memUsers)(nil)
	_ repositories.MembershipRepository = (*memMemberships)(nil)
	_ repositories.NoteRepository       = (*memNotes)(nil)
	_ repositories.CommentRepository    = (*memComments)(nil)
)

// testServer wires every handler the way the router does, over in-memory repositories.
type testServer struct {
	e           *echo.Echo
	users       *memUsers
	memberships *memMemberships
	notes       *memNotes
	comments    *memComments
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := &testServer{
		e:           echo.New(),
		users:       &memUsers{users: map[uint]*models.User{}},
		memberships: &memMemberships{},
		notes:       &memNotes{notes: map[string]*models.Note{}},
		comments:    &memComments{comments: map[string]models.Comment{}},
	}
	s.e.Validator = validators.NewValidator()

	NewAuthHandler(s.users, nil, testSecret).RegisterAuthRoutes(s.e.Group("/api/auth"))

	api := s.e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(testSecret))
	NewUserHandler(s.users, s.memberships, s.notes).RegisterUserRoutes(api)
	NewNoteHandler(s.notes, s.users).RegisterNoteRoutes(api)
	NewCommentHandler(s.comments, s.notes, s.users).RegisterCommentRoutes(api)
	return s
}

func (s *testServer) addUser(t *testing.T, name string) (*models.User, string) {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com"}
	require.NoError(t, s.users.CreateUser(context.Background(), u))
	token, err := session.Issue(testSecret, u, time.Now())
	require.NoError(t, err)
	return u, token
}

func (s *testServer) addNote(t *testing.T, author *models.User, like, bookmark int) string {
	t.Helper()
	n := &models.Note{AuthorID: models.FormatID(author.ID), Title: "note", Like: like, Bookmark: bookmark}
	require.NoError(t, s.notes.CreateNote(context.Background(), n))
	return n.ID.Hex()
}

func (s *testServer) do(method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

var errStore = errors.New("store unavailable")
