package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is a forum account stored in PostgreSQL.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"size:50"`
	Description string    `json:"description"`
	Avatar      string    `json:"avatar"`
	Email       string    `json:"email" gorm:"uniqueIndex"`
	Password    string    `json:"-"` // bcrypt hash
	FirebaseUID *string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Author is the compact public view of a user embedded in notes and comments.
type Author struct {
	ID          string `json:"_id"`
	Username    string `json:"username"`
	Description string `json:"description,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

// UserInfo is the viewing actor as seen by a feed item: identity plus its three membership sets.
type UserInfo struct {
	ID          string   `json:"_id"`
	Username    string   `json:"username"`
	Description string   `json:"description,omitempty"`
	Avatar      string   `json:"avatar,omitempty"`
	Following   []string `json:"following"`
	Likes       []string `json:"likes"`
	Bookmarks   []string `json:"bookmarks"`
}

// AsAuthor converts u to its public view.
func (u *User) AsAuthor() Author {
	return Author{
		ID:          FormatID(u.ID),
		Username:    u.Username,
		Description: u.Description,
		Avatar:      u.Avatar,
	}
}

type CreateLocalUserRequest struct {
	Username    string `json:"username" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Description string `json:"description,omitempty" validate:"max=160"`
	Avatar      string `json:"avatar,omitempty" validate:"omitempty,url"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// TokenResponse is returned by every auth endpoint.
type TokenResponse struct {
	Token string `json:"token"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// FormatID renders a relational id the way it travels on the wire.
func FormatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseID is the inverse of FormatID.
func ParseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}
