package router

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anonto42/nano-midea/forum/internal/handlers"
	"github.com/anonto42/nano-midea/forum/internal/logger"
	"github.com/anonto42/nano-midea/forum/internal/middleware"
	"github.com/anonto42/nano-midea/forum/internal/models"
	"github.com/anonto42/nano-midea/forum/internal/repositories"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			entry := logger.For(c.Request().Context()).WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))
	logger.For(context.Background()).Debug("Global middleware configured.")
}

// Dependencies are the stores and services the routes are built on
type Dependencies struct {
	Postgres     *gorm.DB
	Notes        *mongo.Database
	FirebaseAuth handlers.IDTokenVerifier // nil disables Firebase login
	JWTSecret    string
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	log := logger.For(context.Background())

	// AutoMigrate PostgreSQL models
	err := deps.Postgres.AutoMigrate(
		&models.User{},
		&models.Membership{},
		&models.Comment{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	log.Info("PostgreSQL auto-migrations completed for all models.")

	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "forum notes API"})
	})

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	membershipRepo := repositories.NewPostgresMembershipRepository(deps.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(deps.Postgres)
	noteRepo := repositories.NewMongoNoteRepository(deps.Notes)

	Register(e, userRepo, membershipRepo, noteRepo, commentRepo, deps.FirebaseAuth, deps.JWTSecret)
	log.Info("All routes configured.")
	return nil
}

// Register mounts the auth routes and the JWT protected API on e.
func Register(
	e *echo.Echo,
	userRepo repositories.UserRepository,
	membershipRepo repositories.MembershipRepository,
	noteRepo repositories.NoteRepository,
	commentRepo repositories.CommentRepository,
	firebaseAuth handlers.IDTokenVerifier,
	jwtSecret string,
) {
	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/auth")
	handlers.NewAuthHandler(userRepo, firebaseAuth, jwtSecret).RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(jwtSecret))

	handlers.NewUserHandler(userRepo, membershipRepo, noteRepo).RegisterUserRoutes(api)
	handlers.NewNoteHandler(noteRepo, userRepo).RegisterNoteRoutes(api)
	handlers.NewCommentHandler(commentRepo, noteRepo, userRepo).RegisterCommentRoutes(api)
}
