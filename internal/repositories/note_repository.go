package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/nano-midea/forum/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NoteRepository defines the interface for note data operations
type NoteRepository interface {
	CreateNote(ctx context.Context, note *models.Note) error
	GetNoteByID(ctx context.Context, id string) (*models.Note, error)
	AdjustCounter(ctx context.Context, id string, property models.CounterProperty, delta int) (*models.Note, error)
	PushComment(ctx context.Context, id, commentID string) error
	PullComment(ctx context.Context, id, commentID string) error
}

// MongoNoteRepository implements NoteRepository for MongoDB
type MongoNoteRepository struct {
	collection *mongo.Collection
}

// NewMongoNoteRepository creates a new MongoNoteRepository
func NewMongoNoteRepository(db *mongo.Database) *MongoNoteRepository {
	return &MongoNoteRepository{collection: db.Collection("notes")}
}

func noteObjectID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: note %q", ErrInvalidID, id)
	}
	return objID, nil
}

// CreateNote creates a new note in MongoDB
func (r *MongoNoteRepository) CreateNote(ctx context.Context, note *models.Note) error {
	now := time.Now()
	note.ID = primitive.NewObjectID()
	note.CreatedAt = now
	note.LastModified = now
	note.FirstPublicAt = now
	if note.Comments == nil {
		note.Comments = []string{}
	}
	_, err := r.collection.InsertOne(ctx, note)
	return err
}

// GetNoteByID retrieves a note by ID from MongoDB
func (r *MongoNoteRepository) GetNoteByID(ctx context.Context, id string) (*models.Note, error) {
	objID, err := noteObjectID(id)
	if err != nil {
		return nil, err
	}

	var note models.Note
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

// AdjustCounter adds delta to one counter and returns the updated note.
// A decrement only matches while the counter is positive.
func (r *MongoNoteRepository) AdjustCounter(ctx context.Context, id string, property models.CounterProperty, delta int) (*models.Note, error) {
	objID, err := noteObjectID(id)
	if err != nil {
		return nil, err
	}

	field := string(property)
	filter := bson.M{"_id": objID}
	if delta < 0 {
		filter[field] = bson.M{"$gte": -delta}
	}
	update := bson.M{"$inc": bson.M{field: delta}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note models.Note
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&note)
	if err == nil {
		return &note, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if _, err := r.GetNoteByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrCounterUnderflow
}

// PushComment records commentID as the newest comment of the note
func (r *MongoNoteRepository) PushComment(ctx context.Context, id, commentID string) error {
	objID, err := noteObjectID(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$push": bson.M{"comments": bson.M{"$each": bson.A{commentID}, "$position": 0}},
		"$inc":  bson.M{"comment": 1},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PullComment removes commentID from the note. The count only drops if the id was present.
func (r *MongoNoteRepository) PullComment(ctx context.Context, id, commentID string) error {
	objID, err := noteObjectID(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$pull": bson.M{"comments": commentID},
		"$inc":  bson.M{"comment": -1},
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID, "comments": commentID}, update)
	return err
}
