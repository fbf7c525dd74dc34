package repository

import (
	"context"
	"errors"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/models"
)

// ErrSessionNotFound is returned when a session ID is not found or has expired.
var ErrSessionNotFound = errors.New("session not found or expired")

// SessionRepository defines the interface for managing user login sessions.
type SessionRepository interface {
	// StoreSession saves a new session or updates an existing one.
	StoreSession(ctx context.Context, session *models.Session) error
	// GetSession retrieves a session by its ID.
	// It should return ErrSessionNotFound if the session doesn't exist or is expired.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	// DeleteSession removes a session, effectively logging the user out.
	DeleteSession(ctx context.Context, sessionID string) error
	// DeleteUserSessions deletes all session records for a given userID, optionally excluding some session IDs.
	DeleteUserSessions(ctx context.Context, userID int64, excludeSessionIDs ...string) (int64, error)
}
