package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/credential"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/models"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/repository"
)

// dummyPassword feeds the decoy verification run for unknown emails.
const dummyPassword = "decoy-password-for-unknown-users"

type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	tokenSvc    TokenGenerator
	hasher      PasswordHasher
	newID       func() string

	dummyMu     sync.Mutex
	dummyRecord string
}

var _ AuthGenerator = (*AuthService)(nil)

// NewAuthService creates an AuthService
func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, tokenSvc TokenGenerator, hasher PasswordHasher) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokenSvc:    tokenSvc,
		hasher:      hasher,
		newID:       uuid.NewString,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest, meta models.SessionMeta) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	record, err := s.hasher.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("[AuthService.Signup] failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, email, strings.TrimSpace(req.Name), record)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Int64("userID", user.ID).Msg("[AuthService.Signup] user registered")
	return s.openSession(ctx, user, meta)
}

func (s *AuthService) Signin(ctx context.Context, req models.SigninRequest, meta models.SessionMeta) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.verifyDummy(req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := s.hasher.Verify(req.Password, user.Password)
	if err != nil {
		if errors.Is(err, credential.ErrMalformedRecord) {
			log.Warn().Int64("userID", user.ID).Msg("[AuthService.Signin] stored credential record is malformed")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		log.Debug().Int64("userID", user.ID).Msg("[AuthService.Signin] password mismatch")
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, user, meta)
}

// verifyDummy spends the same derivation work as a real check so unknown
// emails are not told apart by response time.
func (s *AuthService) verifyDummy(password string) {
	record, err := s.decoyRecord()
	if err != nil {
		log.Error().Err(err).Msg("[AuthService] failed to prepare decoy credential record")
		return
	}
	_, _ = s.hasher.Verify(password, record)
}

// decoyRecord builds the decoy record on first use. A failed build is not
// cached, so the next unknown-email signin tries again.
func (s *AuthService) decoyRecord() (string, error) {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()

	if s.dummyRecord != "" {
		return s.dummyRecord, nil
	}
	record, err := s.hasher.Hash(dummyPassword)
	if err != nil {
		return "", err
	}
	s.dummyRecord = record
	return record, nil
}

func (s *AuthService) openSession(ctx context.Context, user *models.User, meta models.SessionMeta) (*models.AuthResponse, error) {
	sessionID := s.newID()
	token, expiresAt, err := s.tokenSvc.GenerateToken(user.ID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	session := &models.Session{
		SessionID: sessionID,
		UserID:    user.ID,
		Email:     user.Email,
		Host:      meta.Host,
		UserAgent: meta.UserAgent,
		CreatedAt: time.Now().UTC(),
		Expiry:    expiresAt.UTC(),
	}
	if err := s.sessionRepo.StoreSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &models.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.Info(),
	}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentSessionID string, req models.ChangePasswordRequest) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(req.CurrentPassword, user.Password)
	if err != nil && !errors.Is(err, credential.ErrMalformedRecord) {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if err != nil {
		log.Warn().Int64("userID", user.ID).Msg("[AuthService.ChangePassword] stored credential record is malformed")
	}
	if !ok {
		return ErrInvalidCredentials
	}

	record, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, record); err != nil {
		return err
	}

	removed, err := s.sessionRepo.DeleteUserSessions(ctx, userID, currentSessionID)
	if err != nil {
		return fmt.Errorf("failed to revoke other sessions: %w", err)
	}
	log.Info().Int64("userID", userID).Int64("revokedSessions", removed).Msg("[AuthService.ChangePassword] password changed")
	return nil
}

// Signout ends one session. A session that is already gone counts as signed out.
func (s *AuthService) Signout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("session id cannot be empty")
	}
	if err := s.sessionRepo.DeleteSession(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// SignoutAll ends every session of the user except keepSessionID, which may be empty.
func (s *AuthService) SignoutAll(ctx context.Context, userID int64, keepSessionID string) (int64, error) {
	var exclude []string
	if keepSessionID != "" {
		exclude = append(exclude, keepSessionID)
	}
	removed, err := s.sessionRepo.DeleteUserSessions(ctx, userID, exclude...)
	if err != nil {
		return 0, fmt.Errorf("failed to sign out sessions: %w", err)
	}
	return removed, nil
}

func (s *AuthService) VerifySession(ctx context.Context, claims *models.Claims) (*models.Session, error) {
	if claims == nil {
		return nil, repository.ErrSessionNotFound
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetSession(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		log.Warn().Int64("userID", userID).Msg("[AuthService.VerifySession] session belongs to a different user")
		return nil, repository.ErrSessionNotFound
	}
	return session, nil
}

func (s *AuthService) Me(ctx context.Context, userID int64) (*models.UserInfo, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Info(), nil
}
