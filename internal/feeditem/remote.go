package feeditem

import (
	"context"

	"github.com/anonto42/nano-midea/forum/internal/models"
)

// Remote is the persistence service a feed item talks to. Every method is one network round-trip.
type Remote interface {
	// UpdateMembership adds or removes one target in one of the actor's sets.
	UpdateMembership(ctx context.Context, actorID string, req models.UpdateMembershipRequest) error
	// AdjustCounter moves a note counter by req.Value.
	AdjustCounter(ctx context.Context, noteID string, req models.AdjustCounterRequest) error
	// FetchComments returns full records for ids, in id order.
	FetchComments(ctx context.Context, ids []string) ([]models.CommentRecord, error)
	CreateComment(ctx context.Context, req models.CreateCommentRequest) (*models.CommentRecord, error)
	DeleteComment(ctx context.Context, commentID string) error
}
