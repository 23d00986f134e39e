package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/forum/internal/logger"
	"github.com/anonto42/nano-midea/forum/internal/metrics"
	"github.com/anonto42/nano-midea/forum/internal/models"
	"github.com/anonto42/nano-midea/forum/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// NoteHandler handles HTTP requests related to notes
type NoteHandler struct {
	noteRepository repositories.NoteRepository
	userRepository repositories.UserRepository
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(noteRepo repositories.NoteRepository, userRepo repositories.UserRepository) *NoteHandler {
	return &NoteHandler{
		noteRepository: noteRepo,
		userRepository: userRepo,
	}
}

// RegisterNoteRoutes registers note-related routes
func (h *NoteHandler) RegisterNoteRoutes(g *echo.Group) {
	g.POST("/note", h.CreateNote)
	g.GET("/note/:id", h.GetNote)
	g.PATCH("/note/:id", h.AdjustCounter)
}

// CreateNote creates a note authored by the caller
func (h *NoteHandler) CreateNote(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	author, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return repositoryError(ctx, "get author", "User", err)
	}

	note := &models.Note{
		AuthorID: models.FormatID(userID),
		Title:    req.Title,
		MdText:   req.MdText,
		Tags:     req.Tags,
	}
	if err := h.noteRepository.CreateNote(ctx, note); err != nil {
		return internalError(ctx, "create note", err)
	}

	return c.JSON(http.StatusCreated, note.Info(author.AsAuthor()))
}

// GetNote returns a note with its author
func (h *NoteHandler) GetNote(c echo.Context) error {
	ctx := c.Request().Context()
	note, err := h.noteRepository.GetNoteByID(ctx, c.Param("id"))
	if err != nil {
		return repositoryError(ctx, "get note", "Note", err)
	}
	return c.JSON(http.StatusOK, h.info(c, note))
}

// AdjustCounter increments or decrements the like/bookmark counter of a note
func (h *NoteHandler) AdjustCounter(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.AdjustCounterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	note, err := h.noteRepository.AdjustCounter(ctx, c.Param("id"), req.Property, req.Value)
	if err != nil {
		return repositoryError(ctx, "adjust counter", "Note", err)
	}

	metrics.CounterAdjustments.WithLabelValues(string(req.Property), metrics.Direction(req.Value)).Inc()
	logger.For(ctx).WithFields(logrus.Fields{
		"note_id":  c.Param("id"),
		"property": req.Property,
		"value":    req.Value,
	}).Debug("counter adjusted")

	return c.JSON(http.StatusOK, h.info(c, note))
}

func (h *NoteHandler) info(c echo.Context, note *models.Note) models.NoteInfo {
	author := models.Author{ID: note.AuthorID}
	if id, err := models.ParseID(note.AuthorID); err == nil {
		if u, err := h.userRepository.GetUserByID(c.Request().Context(), id); err == nil {
			author = u.AsAuthor()
		}
	}
	return note.Info(author)
}
