package models

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session represents an active login. SessionID is also the token's jti.
type Session struct {
	SessionID string    `json:"sessionId"`
	UserID    int64     `json:"userId"`
	Email     string    `json:"email"`
	Host      string    `json:"host"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
	Expiry    time.Time `json:"expiry"`
}

// IsExpired checks if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().UTC().After(s.Expiry)
}

// SessionMeta describes the client opening a session.
type SessionMeta struct {
	Host      string
	UserAgent string
}

// Claims is the payload of an access token. Subject is the decimal user id
// and ID is the session id.
type Claims struct {
	jwt.RegisteredClaims
}

// NewClaims builds the registered claims for a session token.
func NewClaims(userID int64, sessionID, issuer string, issuedAt, expiresAt time.Time) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        sessionID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid token claims: bad subject")
	}
	return id, nil
}
