package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/models"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/repository"
)

// MemorySessionRepository implements SessionRepository in memory.
// Suitable for a single instance; sessions are lost on restart.
type MemorySessionRepository struct {
	mutex        sync.RWMutex
	sessions     map[string]models.Session
	userSessions map[int64]map[string]struct{} // UserID -> {SessionID: {}}
	stopCleanup  chan struct{}
	stopOnce     sync.Once
}

// NewMemorySessionRepository creates a new in-memory session repository.
// cleanupInterval defines how often expired sessions are removed; zero disables the sweeper.
func NewMemorySessionRepository(cleanupInterval time.Duration) *MemorySessionRepository {
	r := &MemorySessionRepository{
		sessions:     make(map[string]models.Session),
		userSessions: make(map[int64]map[string]struct{}),
		stopCleanup:  make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go r.startCleanup(cleanupInterval)
	}
	return r
}

var _ repository.SessionRepository = (*MemorySessionRepository)(nil)

func (r *MemorySessionRepository) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.cleanupExpiredSessions()
		case <-r.stopCleanup:
			return
		}
	}
}

// cleanupExpiredSessions removes all expired sessions and updates user indexes.
func (r *MemorySessionRepository) cleanupExpiredSessions() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	removed := 0
	for id, session := range r.sessions {
		if session.IsExpired() {
			delete(r.sessions, id)
			r.removeUserSessionIndex(session.UserID, id)
			removed++
		}
	}
	return removed
}

// Close stops the background sweeper. Safe to call more than once.
func (r *MemorySessionRepository) Close() error {
	r.stopOnce.Do(func() {
		close(r.stopCleanup)
	})
	return nil
}

// StoreSession saves or updates a session.
func (r *MemorySessionRepository) StoreSession(_ context.Context, session *models.Session) error {
	if session == nil || session.SessionID == "" || session.UserID <= 0 {
		return errors.New("invalid session data: sessionID and userID must be set")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	if session.IsExpired() {
		r.deleteLocked(session.SessionID)
		return nil
	}
	r.sessions[session.SessionID] = *session
	r.addUserSessionIndex(session.UserID, session.SessionID)
	return nil
}

// GetSession retrieves a session by its ID.
func (r *MemorySessionRepository) GetSession(_ context.Context, sessionID string) (*models.Session, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	session, exists := r.sessions[sessionID]
	if !exists || session.IsExpired() {
		return nil, repository.ErrSessionNotFound
	}
	return &session, nil
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func (r *MemorySessionRepository) DeleteSession(_ context.Context, sessionID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.deleteLocked(sessionID)
	return nil
}

// DeleteUserSessions deletes all sessions for a user, optionally excluding some.
func (r *MemorySessionRepository) DeleteUserSessions(_ context.Context, userID int64, excludeSessionIDs ...string) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ids, exists := r.userSessions[userID]
	if !exists || len(ids) == 0 {
		return 0, nil
	}

	excludeMap := make(map[string]struct{}, len(excludeSessionIDs))
	for _, id := range excludeSessionIDs {
		excludeMap[id] = struct{}{}
	}

	var toDelete []string
	for id := range ids {
		if _, shouldExclude := excludeMap[id]; !shouldExclude {
			toDelete = append(toDelete, id)
		}
	}

	for _, id := range toDelete {
		r.deleteLocked(id)
	}
	return int64(len(toDelete)), nil
}

func (r *MemorySessionRepository) deleteLocked(sessionID string) {
	session, exists := r.sessions[sessionID]
	if !exists {
		return
	}
	delete(r.sessions, sessionID)
	r.removeUserSessionIndex(session.UserID, sessionID)
}

func (r *MemorySessionRepository) addUserSessionIndex(userID int64, sessionID string) {
	if _, ok := r.userSessions[userID]; !ok {
		r.userSessions[userID] = make(map[string]struct{})
	}
	r.userSessions[userID][sessionID] = struct{}{}
}

func (r *MemorySessionRepository) removeUserSessionIndex(userID int64, sessionID string) {
	if userSessions, ok := r.userSessions[userID]; ok {
		delete(userSessions, sessionID)
		if len(userSessions) == 0 {
			delete(r.userSessions, userID)
		}
	}
}
