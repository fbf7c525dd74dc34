package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/models"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/repository"
)

// RedisSessionRepository implements SessionRepository using Redis.
type RedisSessionRepository struct {
	client redis.UniversalClient
}

// Helper to construct session key
func makeSessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Helper to construct user index key
func makeUserSessionsKey(userID int64) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}

func NewRedisSessionRepository(client redis.UniversalClient) repository.SessionRepository {
	return &RedisSessionRepository{
		client: client,
	}
}

// StoreSession saves the session data and adds it to the user's session index.
func (r *RedisSessionRepository) StoreSession(ctx context.Context, session *models.Session) error {
	if session == nil || session.SessionID == "" || session.UserID <= 0 {
		return errors.New("invalid session data: sessionID and userID must be set")
	}

	ttl := time.Until(session.Expiry)
	if ttl <= 0 {
		return r.DeleteSession(ctx, session.SessionID)
	}

	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	userKey := makeUserSessionsKey(session.UserID)

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, makeSessionKey(session.SessionID), jsonData, ttl)
	pipe.SAdd(ctx, userKey, session.SessionID)
	// Sessions share one duration, so the newest one outlives the rest of the index.
	pipe.Expire(ctx, userKey, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute session store pipeline: %w", err)
	}
	return nil
}

// GetSession retrieves a session by its ID from Redis.
// It returns ErrSessionNotFound if the session doesn't exist or is expired.
func (r *RedisSessionRepository) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	sessionKey := makeSessionKey(sessionID)

	jsonData, err := r.client.Get(ctx, sessionKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET failed: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(jsonData, &session); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	if session.IsExpired() {
		pipe := r.client.Pipeline()
		pipe.Del(ctx, sessionKey)
		if session.UserID > 0 {
			pipe.SRem(ctx, makeUserSessionsKey(session.UserID), sessionID)
		}
		_, _ = pipe.Exec(ctx)
		return nil, repository.ErrSessionNotFound
	}

	return &session, nil
}

// DeleteSession removes a session and its index entry. Deleting a missing session is not an error.
func (r *RedisSessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	sessionKey := makeSessionKey(sessionID)

	jsonData, err := r.client.Get(ctx, sessionKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get session before delete: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(jsonData, &session); err != nil {
		r.client.Del(ctx, sessionKey)
		return fmt.Errorf("failed to unmarshal session before delete (key deleted): %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey)
	if session.UserID > 0 {
		pipe.SRem(ctx, makeUserSessionsKey(session.UserID), sessionID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute session delete pipeline: %w", err)
	}
	return nil
}

// DeleteUserSessions deletes all sessions for a user, optionally excluding some.
// It returns the count of sessions that were actually deleted.
func (r *RedisSessionRepository) DeleteUserSessions(ctx context.Context, userID int64, excludeSessionIDs ...string) (int64, error) {
	userKey := makeUserSessionsKey(userID)

	sessionIDs, err := r.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get user sessions with SMEMBERS: %w", err)
	}
	if len(sessionIDs) == 0 {
		return 0, nil
	}

	excludeMap := make(map[string]struct{}, len(excludeSessionIDs))
	for _, id := range excludeSessionIDs {
		excludeMap[id] = struct{}{}
	}

	var sessionKeysToDelete []string
	var idsToRemoveFromSet []any
	for _, id := range sessionIDs {
		if _, shouldExclude := excludeMap[id]; !shouldExclude {
			sessionKeysToDelete = append(sessionKeysToDelete, makeSessionKey(id))
			idsToRemoveFromSet = append(idsToRemoveFromSet, id)
		}
	}
	if len(sessionKeysToDelete) == 0 {
		return 0, nil
	}

	pipe := r.client.TxPipeline()
	delCmd := pipe.Del(ctx, sessionKeysToDelete...)
	pipe.SRem(ctx, userKey, idsToRemoveFromSet...)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to execute user sessions delete pipeline: %w", err)
	}

	return delCmd.Val(), nil
}
