package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/anonto42/nano-midea/forum/internal/logger"
	"github.com/anonto42/nano-midea/forum/internal/middleware"
	"github.com/anonto42/nano-midea/forum/internal/models"
	"github.com/anonto42/nano-midea/forum/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

// getUserIDFromContext returns the id of the authenticated caller.
func getUserIDFromContext(c echo.Context) (uint, error) {
	claims, ok := middleware.Claims(c)
	if !ok || claims.UserID == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return claims.UserID, nil
}

// internalError logs err and hides it from the client.
func internalError(ctx context.Context, op string, err error) error {
	logger.For(ctx).WithError(err).WithField("op", op).Error("request failed")
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

// repositoryError maps repository sentinels onto HTTP errors.
func repositoryError(ctx context.Context, op, what string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, what+" not found")
	case errors.Is(err, repositories.ErrInvalidID):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid "+what+" ID")
	case errors.Is(err, repositories.ErrCounterUnderflow):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return internalError(ctx, op, err)
	}
}

// authorsByID loads the public view of every user in ids. Unknown users are absent from the map.
func authorsByID(ctx context.Context, users repositories.UserRepository, ids []uint) (map[uint]models.Author, error) {
	found, err := users.GetUsersByIDs(ctx, lo.Uniq(ids))
	if err != nil {
		return nil, err
	}
	return lo.Associate(found, func(u models.User) (uint, models.Author) {
		return u.ID, u.AsAuthor()
	}), nil
}

// authorOf looks up the author for id, falling back to a bare id for deleted accounts.
func authorOf(authors map[uint]models.Author, id uint) models.Author {
	if a, ok := authors[id]; ok {
		return a
	}
	return models.Author{ID: models.FormatID(id)}
}
