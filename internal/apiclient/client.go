// Package apiclient talks to the notes API over HTTP.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anonto42/nano-midea/forum/internal/feeditem"
	"github.com/anonto42/nano-midea/forum/internal/models"
	"resty.dev/v3"
)

const (
	DefaultBaseURL = "http://localhost:3000/api"

	signInPath  = "/auth/signin"
	notesPath   = "/note"
	notePath    = "/note/{id}"
	userPath    = "/user/{id}"
	commentPath = "/comment"
	commentByID = "/comment/{id}"
)

// ErrUnexpectedStatus is wrapped by every non-2xx response.
var ErrUnexpectedStatus = errors.New("unexpected status")

// StatusError is a non-2xx response from the API.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, e.Message)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

type Client struct {
	client *resty.Client
}

var _ feeditem.Remote = (*Client)(nil)

// New creates a client for the API rooted at baseURL, e.g. http://localhost:3000/api.
func New(baseURL string) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)

	return &Client{client: client}
}

// WithToken authenticates every following request with a bearer token.
func (c *Client) WithToken(token string) *Client {
	c.client.SetAuthToken(token)
	return c
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.client.R().WithContext(ctx)
}

func check(res *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !res.IsError() {
		return nil
	}

	se := &StatusError{
		Method: res.Request.Method,
		Path:   res.Request.URL,
		Code:   res.StatusCode(),
	}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal([]byte(res.String()), &body) == nil && body.Message != "" {
		se.Message = body.Message
	} else {
		se.Message = http.StatusText(se.Code)
	}
	return se
}

// SignIn exchanges credentials for a token.
func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	res, err := c.r(ctx).
		SetBody(models.SignInRequest{Email: email, Password: password}).
		SetResult(&models.TokenResponse{}).
		Post(signInPath)
	if err := check(res, err); err != nil {
		return "", err
	}
	return res.Result().(*models.TokenResponse).Token, nil
}

func (c *Client) GetNote(ctx context.Context, noteID string) (*models.NoteInfo, error) {
	res, err := c.r(ctx).
		SetPathParam("id", noteID).
		SetResult(&models.NoteInfo{}).
		Get(notePath)
	if err := check(res, err); err != nil {
		return nil, err
	}
	return res.Result().(*models.NoteInfo), nil
}

func (c *Client) CreateNote(ctx context.Context, req models.CreateNoteRequest) (*models.NoteInfo, error) {
	res, err := c.r(ctx).
		SetBody(req).
		SetResult(&models.NoteInfo{}).
		Post(notesPath)
	if err := check(res, err); err != nil {
		return nil, err
	}
	return res.Result().(*models.NoteInfo), nil
}

func (c *Client) GetUser(ctx context.Context, userID string) (*models.UserInfo, error) {
	res, err := c.r(ctx).
		SetPathParam("id", userID).
		SetResult(&models.UserInfo{}).
		Get(userPath)
	if err := check(res, err); err != nil {
		return nil, err
	}
	return res.Result().(*models.UserInfo), nil
}

func (c *Client) UpdateMembership(ctx context.Context, actorID string, req models.UpdateMembershipRequest) error {
	res, err := c.r(ctx).
		SetPathParam("id", actorID).
		SetBody(req).
		Patch(userPath)
	return check(res, err)
}

func (c *Client) AdjustCounter(ctx context.Context, noteID string, req models.AdjustCounterRequest) error {
	res, err := c.r(ctx).
		SetPathParam("id", noteID).
		SetBody(req).
		Patch(notePath)
	return check(res, err)
}

func (c *Client) FetchComments(ctx context.Context, ids []string) ([]models.CommentRecord, error) {
	res, err := c.r(ctx).
		SetQueryParamsFromValues(url.Values{"commentIds": ids}).
		SetResult(&models.CommentsResponse{}).
		Get(commentPath)
	if err := check(res, err); err != nil {
		return nil, err
	}
	return res.Result().(*models.CommentsResponse).ConvertedComments, nil
}

// CreateComment posts a comment and returns the stored record without its version field.
func (c *Client) CreateComment(ctx context.Context, req models.CreateCommentRequest) (*models.CommentRecord, error) {
	type created struct {
		ReturnValue models.CommentRecord `json:"returnValue"`
	}

	res, err := c.r(ctx).
		SetBody(req).
		SetResult(&created{}).
		Post(commentPath)
	if err := check(res, err); err != nil {
		return nil, err
	}
	record := res.Result().(*created).ReturnValue
	return &record, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	res, err := c.r(ctx).
		SetPathParam("id", commentID).
		Delete(commentByID)
	return check(res, err)
}
