package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is a forum post stored in MongoDB. Counters are adjusted with $inc only.
type Note struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID      string             `json:"author_id" bson:"author_id"`
	Title         string             `json:"title" bson:"title"`
	MdText        string             `json:"md_text" bson:"md_text"`
	Tags          []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Like          int                `json:"like" bson:"like"`
	Bookmark      int                `json:"bookmark" bson:"bookmark"`
	Comment       int                `json:"comment" bson:"comment"`
	Comments      []string           `json:"comments" bson:"comments"` // newest first
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	LastModified  time.Time          `json:"last_modified" bson:"last_modified"`
	FirstPublicAt time.Time          `json:"first_public_at" bson:"first_public_at"`
}

// NoteInfo is the wire representation of a note as a feed item receives it.
type NoteInfo struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	MdText        string    `json:"mdText"`
	Tags          []string  `json:"tags"`
	Like          int       `json:"like"`
	Bookmark      int       `json:"bookmark"`
	Comment       int       `json:"comment"`
	Comments      []string  `json:"comments"`
	Author        Author    `json:"author"`
	CreatedAt     time.Time `json:"createdAt"`
	LastModified  time.Time `json:"lastModified"`
	FirstPublicAt time.Time `json:"firstPublicAt"`
}

// Info converts n to its wire form with the given author.
func (n *Note) Info(author Author) NoteInfo {
	return NoteInfo{
		ID:            n.ID.Hex(),
		Title:         n.Title,
		MdText:        n.MdText,
		Tags:          nonNil(n.Tags),
		Like:          n.Like,
		Bookmark:      n.Bookmark,
		Comment:       n.Comment,
		Comments:      nonNil(n.Comments),
		Author:        author,
		CreatedAt:     n.CreatedAt,
		LastModified:  n.LastModified,
		FirstPublicAt: n.FirstPublicAt,
	}
}

// CounterProperty names a note counter adjustable through PATCH /note/:id.
type CounterProperty string

const (
	PropertyLike     CounterProperty = "like"
	PropertyBookmark CounterProperty = "bookmark"
)

// AdjustCounterRequest is the PATCH /note/:id body.
type AdjustCounterRequest struct {
	Property CounterProperty `json:"property" validate:"required,oneof=like bookmark"`
	Value    int             `json:"value" validate:"required,oneof=1 -1"`
}

type CreateNoteRequest struct {
	Title  string   `json:"title" validate:"required,min=1,max=200"`
	MdText string   `json:"mdText" validate:"required,min=1"`
	Tags   []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=30"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
