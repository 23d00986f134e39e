package repositories

import (
	"context"

	"github.com/anonto42/nano-midea/forum/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MembershipRepository stores the following/likes/bookmarks sets of every user.
// Push and Pull touch a single element, so concurrent edits of the same set never overwrite each other.
type MembershipRepository interface {
	Push(ctx context.Context, userID uint, set models.MembershipSet, targetID string) error
	Pull(ctx context.Context, userID uint, set models.MembershipSet, targetID string) error
	GetMemberships(ctx context.Context, userID uint) ([]models.Membership, error)
}

// PostgresMembershipRepository implements MembershipRepository for PostgreSQL
type PostgresMembershipRepository struct {
	db *gorm.DB
}

// NewPostgresMembershipRepository creates a new PostgresMembershipRepository
func NewPostgresMembershipRepository(db *gorm.DB) *PostgresMembershipRepository {
	return &PostgresMembershipRepository{db: db}
}

// Push adds targetID to the set; pushing an existing member is a no-op
func (r *PostgresMembershipRepository) Push(ctx context.Context, userID uint, set models.MembershipSet, targetID string) error {
	m := &models.Membership{UserID: userID, Set: set, TargetID: targetID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error
}

// Pull removes targetID from the set; pulling a missing member is a no-op
func (r *PostgresMembershipRepository) Pull(ctx context.Context, userID uint, set models.MembershipSet, targetID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND set_name = ? AND target_id = ?", userID, set, targetID).
		Delete(&models.Membership{}).Error
}

// GetMemberships retrieves all set elements of a user, oldest first
func (r *PostgresMembershipRepository) GetMemberships(ctx context.Context, userID uint) ([]models.Membership, error) {
	var memberships []models.Membership
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}
