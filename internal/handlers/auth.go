package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-midea/forum/internal/logger"
	"github.com/anonto42/nano-midea/forum/internal/models"
	"github.com/anonto42/nano-midea/forum/internal/repositories"
	"github.com/anonto42/nano-midea/forum/internal/session"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// IDTokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

var _ IDTokenVerifier = (*auth.Client)(nil)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	firebaseAuth   IDTokenVerifier
	jwtSecret      string
	now            func() time.Time
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil, which disables Firebase login.
func NewAuthHandler(userRepo repositories.UserRepository, firebaseAuth IDTokenVerifier, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		firebaseAuth:   firebaseAuth,
		jwtSecret:      jwtSecret,
		now:            time.Now,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.CreateLocalUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	_, err := h.userRepository.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User with this email already registered")
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return internalError(ctx, "lookup user by email", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Username:    req.Username,
		Description: req.Description,
		Avatar:      req.Avatar,
		Email:       req.Email,
		Password:    string(hashedPassword),
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return internalError(ctx, "create user", err)
	}

	return h.respondWithToken(c, http.StatusCreated, user)
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		}
		return internalError(ctx, "lookup user by email", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	return h.respondWithToken(c, http.StatusOK, user)
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT, linking or creating the user.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	ctx := c.Request().Context()
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}

	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	uid := token.UID
	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Firebase account has no email")
	}

	user, err := h.userRepository.GetUserByFirebaseUID(ctx, uid)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		user, err = h.userRepository.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			user.FirebaseUID = &uid
			if err := h.userRepository.UpdateUser(ctx, user); err != nil {
				return internalError(ctx, "link firebase uid", err)
			}
		case errors.Is(err, repositories.ErrNotFound):
			user = &models.User{Username: name, Email: email, FirebaseUID: &uid}
			if err := h.userRepository.CreateUser(ctx, user); err != nil {
				return internalError(ctx, "create firebase user", err)
			}
		default:
			return internalError(ctx, "lookup user by email", err)
		}
	default:
		return internalError(ctx, "lookup user by firebase uid", err)
	}

	return h.respondWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(c echo.Context, status int, user *models.User) error {
	token, err := session.Issue(h.jwtSecret, user, h.now())
	if err != nil {
		logger.For(c.Request().Context()).WithError(err).Error("failed to sign token")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(status, models.TokenResponse{Token: token})
}
