package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anonto42/nano-midea/forum/internal/logger"
	"github.com/anonto42/nano-midea/forum/internal/metrics"
	"github.com/anonto42/nano-midea/forum/internal/models"
	"github.com/anonto42/nano-midea/forum/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// UserHandler serves users together with their following/likes/bookmarks sets
type UserHandler struct {
	userRepository       repositories.UserRepository
	membershipRepository repositories.MembershipRepository
	noteRepository       repositories.NoteRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, membershipRepo repositories.MembershipRepository, noteRepo repositories.NoteRepository) *UserHandler {
	return &UserHandler{
		userRepository:       userRepo,
		membershipRepository: membershipRepo,
		noteRepository:       noteRepo,
	}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/user/:id", h.GetUser)
	g.PATCH("/user/:id", h.UpdateMembership)
}

// GetUser returns a user with its three membership sets
func (h *UserHandler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	info, err := h.userInfo(ctx, id)
	if err != nil {
		return repositoryError(ctx, "get user", "User", err)
	}
	return c.JSON(http.StatusOK, info)
}

// UpdateMembership pushes or pulls one element of the caller's following/likes/bookmarks set
func (h *UserHandler) UpdateMembership(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	if id != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only update your own relationships")
	}

	var req models.UpdateMembershipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	set, target, err := req.Value.Target()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Action == models.ActionPush {
		if err := h.checkTarget(ctx, userID, set, target); err != nil {
			return err
		}
		err = h.membershipRepository.Push(ctx, userID, set, target)
	} else {
		err = h.membershipRepository.Pull(ctx, userID, set, target)
	}
	if err != nil {
		return internalError(ctx, "update membership", err)
	}

	metrics.MembershipUpdates.WithLabelValues(string(set), string(req.Action)).Inc()
	logger.For(ctx).WithFields(logrus.Fields{
		"set":    set,
		"action": req.Action,
		"target": target,
	}).Debug("membership updated")

	info, err := h.userInfo(ctx, userID)
	if err != nil {
		return repositoryError(ctx, "get user", "User", err)
	}
	return c.JSON(http.StatusOK, info)
}

// checkTarget makes sure a pushed element refers to something that exists.
func (h *UserHandler) checkTarget(ctx context.Context, userID uint, set models.MembershipSet, target string) error {
	if set == models.SetFollowing {
		targetID, err := models.ParseID(target)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
		}
		if targetID == userID {
			return echo.NewHTTPError(http.StatusBadRequest, "You cannot follow yourself")
		}
		if _, err := h.userRepository.GetUserByID(ctx, targetID); err != nil {
			return repositoryError(ctx, "get followed user", "User", err)
		}
		return nil
	}

	if _, err := h.noteRepository.GetNoteByID(ctx, target); err != nil {
		return repositoryError(ctx, "get note", "Note", err)
	}
	return nil
}

func (h *UserHandler) userInfo(ctx context.Context, id uint) (*models.UserInfo, error) {
	user, err := h.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	memberships, err := h.membershipRepository.GetMemberships(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load memberships: %w", err)
	}

	info := &models.UserInfo{
		ID:          models.FormatID(user.ID),
		Username:    user.Username,
		Description: user.Description,
		Avatar:      user.Avatar,
		Following:   []string{},
		Likes:       []string{},
		Bookmarks:   []string{},
	}
	for _, m := range memberships {
		switch m.Set {
		case models.SetFollowing:
			info.Following = append(info.Following, m.TargetID)
		case models.SetLikes:
			info.Likes = append(info.Likes, m.TargetID)
		case models.SetBookmarks:
			info.Bookmarks = append(info.Bookmarks, m.TargetID)
		}
	}
	return info, nil
}
