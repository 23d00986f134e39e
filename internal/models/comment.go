package models

import "time"

// Comment represents a comment on a note (PostgreSQL)
type Comment struct {
	ID        string    `json:"_id" gorm:"primaryKey;size:36"`
	NoteID    string    `json:"noteId" gorm:"index;size:24"` // MongoDB ObjectID hex of the parent note
	UserID    uint      `json:"-" gorm:"index"`
	Content   string    `json:"content" validate:"required,min=1,max=2000"`
	Version   int       `json:"__v" gorm:"default:0"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentRecord is a comment joined with its author. The client never sees Version.
type CommentRecord struct {
	ID        string    `json:"_id"`
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	NoteID    string    `json:"noteId"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreatedComment is the record returned by POST /comment, still carrying the store's version field.
type CreatedComment struct {
	CommentRecord
	Version int `json:"__v"`
}

// Record joins c with author.
func (c *Comment) Record(author Author) CommentRecord {
	return CommentRecord{
		ID:        c.ID,
		Author:    author,
		Content:   c.Content,
		NoteID:    c.NoteID,
		CreatedAt: c.CreatedAt,
	}
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	UserID  string `json:"userId" validate:"required"`
	Content string `json:"content" validate:"required,min=1,max=2000"`
	NoteID  string `json:"noteId" validate:"required,len=24,hexadecimal"`
}

// CommentsResponse is the GET /comment body.
type CommentsResponse struct {
	ConvertedComments []CommentRecord `json:"convertedComments"`
}

// CreateCommentResponse is the POST /comment body.
type CreateCommentResponse struct {
	ReturnValue CreatedComment `json:"returnValue"`
}
