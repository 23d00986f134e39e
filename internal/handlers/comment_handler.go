package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/anonto42/nano-midea/forum/internal/logger"
	"github.com/anonto42/nano-midea/forum/internal/metrics"
	"github.com/anonto42/nano-midea/forum/internal/models"
	"github.com/anonto42/nano-midea/forum/internal/repositories"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	noteRepository    repositories.NoteRepository // To keep the note's comment list and count in step
	userRepository    repositories.UserRepository // To fetch user details for comments
	now               func() time.Time
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, noteRepo repositories.NoteRepository, userRepo repositories.UserRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		noteRepository:    noteRepo,
		userRepository:    userRepo,
		now:               time.Now,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/comment", h.GetComments)
	g.POST("/comment", h.CreateComment)
	g.DELETE("/comment/:id", h.DeleteComment)
}

// GetComments returns the comments named by the repeated commentIds query parameter, in that order.
// Unknown ids are skipped.
func (h *CommentHandler) GetComments(c echo.Context) error {
	ctx := c.Request().Context()
	params := c.QueryParams()
	ids := lo.Uniq(append(params["commentIds"], params["commentIds[]"]...))

	comments, err := h.commentRepository.GetCommentsByIDs(ctx, ids)
	if err != nil {
		return internalError(ctx, "get comments", err)
	}
	authors, err := authorsByID(ctx, h.userRepository, lo.Map(comments, func(cm models.Comment, _ int) uint { return cm.UserID }))
	if err != nil {
		return internalError(ctx, "get comment authors", err)
	}

	byID := lo.Associate(comments, func(cm models.Comment) (string, models.Comment) { return cm.ID, cm })
	records := make([]models.CommentRecord, 0, len(comments))
	for _, id := range ids {
		if cm, ok := byID[id]; ok {
			records = append(records, cm.Record(authorOf(authors, cm.UserID)))
		}
	}

	return c.JSON(http.StatusOK, models.CommentsResponse{ConvertedComments: records})
}

// CreateComment stores a comment and prepends it to its note
func (h *CommentHandler) CreateComment(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if req.UserID != models.FormatID(userID) {
		return echo.NewHTTPError(http.StatusForbidden, "You can only comment as yourself")
	}

	if _, err := h.noteRepository.GetNoteByID(ctx, req.NoteID); err != nil {
		return repositoryError(ctx, "get note", "Note", err)
	}
	author, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return repositoryError(ctx, "get author", "User", err)
	}

	comment := &models.Comment{
		ID:        uuid.NewString(),
		NoteID:    req.NoteID,
		UserID:    userID,
		Content:   req.Content,
		CreatedAt: h.now(),
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return internalError(ctx, "create comment", err)
	}

	if err := h.noteRepository.PushComment(ctx, req.NoteID, comment.ID); err != nil {
		// The note and the comment live in different stores; undo the insert so no orphan remains.
		if derr := h.commentRepository.DeleteComment(ctx, comment.ID); derr != nil {
			logger.For(ctx).WithError(derr).WithField("comment_id", comment.ID).Error("failed to remove orphaned comment")
		}
		return repositoryError(ctx, "push comment", "Note", err)
	}

	metrics.Comments.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, models.CreateCommentResponse{
		ReturnValue: models.CreatedComment{
			CommentRecord: comment.Record(author.AsAuthor()),
			Version:       comment.Version,
		},
	})
}

// DeleteComment deletes one of the caller's comments and drops it from its note
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	comment, err := h.commentRepository.GetCommentByID(ctx, c.Param("id"))
	if err != nil {
		return repositoryError(ctx, "get comment", "Comment", err)
	}
	if comment.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own comments")
	}

	// Pull from the note first; a failure here leaves both stores untouched.
	if err := h.noteRepository.PullComment(ctx, comment.NoteID, comment.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return internalError(ctx, "pull comment", err)
	}
	if err := h.commentRepository.DeleteComment(ctx, comment.ID); err != nil {
		if perr := h.noteRepository.PushComment(ctx, comment.NoteID, comment.ID); perr != nil {
			logger.For(ctx).WithError(perr).WithField("comment_id", comment.ID).Error("failed to restore comment on note")
		}
		return repositoryError(ctx, "delete comment", "Comment", err)
	}

	metrics.Comments.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
