package repositories

import (
	"context"

	"github.com/anonto42/nano-midea/forum/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	GetCommentsByIDs(ctx context.Context, ids []string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

// GetCommentsByIDs retrieves the existing comments among ids, in no particular order
func (r *PostgresCommentRepository) GetCommentsByIDs(ctx context.Context, ids []string) ([]models.Comment, error) {
	var comments []models.Comment
	if len(ids) == 0 {
		return comments, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment deletes a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) DeleteComment(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
