package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/nano-midea/forum/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is the lifetime of tokens issued by the notes API.
const TokenTTL = 72 * time.Hour

var (
	// ErrNoSession means there is no signed-in actor. A feed item renders nothing in that case.
	ErrNoSession    = errors.New("no active session")
	ErrInvalidToken = errors.New("invalid token")
)

// Session identifies the viewing actor.
type Session struct {
	ActorID   string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// Provider supplies the current session, or ErrNoSession.
type Provider interface {
	Current(ctx context.Context) (*Session, error)
}

// TokenProvider derives the session from a bearer token issued by the notes API. The token is
// decoded without verifying its signature; the API verifies it on every request.
type TokenProvider struct {
	token string
	now   func() time.Time
}

func NewTokenProvider(token string) *TokenProvider {
	return &TokenProvider{token: token, now: time.Now}
}

func (p *TokenProvider) Current(ctx context.Context) (*Session, error) {
	if p == nil || p.token == "" {
		return nil, ErrNoSession
	}

	claims := &models.JwtCustomClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(p.token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	s := &Session{
		ActorID: models.FormatID(claims.UserID),
		Email:   claims.Email,
		Token:   p.token,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
		if !s.ExpiresAt.After(p.now()) {
			return nil, fmt.Errorf("%w: token expired at %s", ErrNoSession, s.ExpiresAt.Format(time.RFC3339))
		}
	}
	return s, nil
}

// Static always returns the same session; a nil Static means signed out.
type Static struct {
	Session *Session
}

func (s Static) Current(context.Context) (*Session, error) {
	if s.Session == nil {
		return nil, ErrNoSession
	}
	return s.Session, nil
}

// Issue signs an HS256 token for user.
func Issue(secret string, user *models.User, now time.Time) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verify checks the signature and expiry of token and returns its claims.
func Verify(secret, token string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
