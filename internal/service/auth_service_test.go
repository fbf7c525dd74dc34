package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/credential"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/mocks"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/models"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/repository"
	ent_repo "github.com/SimpnicServerTeam/scs-blog-server/internal/repository/ent"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/repository/memory"
)

type authDeps struct {
	userRepo    *mocks.MockUserRepository
	sessionRepo *mocks.MockSessionRepository
	tokenSvc    *mocks.MockTokenGenerator
	hasher      *mocks.MockPasswordHasher
	service     *AuthService
}

func setupAuthService() *authDeps {
	d := &authDeps{
		userRepo:    new(mocks.MockUserRepository),
		sessionRepo: new(mocks.MockSessionRepository),
		tokenSvc:    new(mocks.MockTokenGenerator),
		hasher:      new(mocks.MockPasswordHasher),
	}
	d.service = NewAuthService(d.userRepo, d.sessionRepo, d.tokenSvc, d.hasher)
	d.service.newID = func() string { return "session-1" }
	return d
}

func (d *authDeps) assertExpectations(t *testing.T) {
	d.userRepo.AssertExpectations(t)
	d.sessionRepo.AssertExpectations(t)
	d.tokenSvc.AssertExpectations(t)
	d.hasher.AssertExpectations(t)
}

var testMeta = models.SessionMeta{Host: "127.0.0.1", UserAgent: "go-test"}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)

	t.Run("Success", func(t *testing.T) {
		d := setupAuthService()
		user := &models.User{ID: 7, Email: "alice@example.com", Name: "Alice", Password: "record"}

		d.hasher.On("Hash", "password123").Return("record", nil).Once()
		d.userRepo.On("CreateUser", ctx, "alice@example.com", "Alice", "record").Return(user, nil).Once()
		d.tokenSvc.On("GenerateToken", int64(7), "session-1").Return("jwt-token", expiry, nil).Once()
		d.sessionRepo.On("StoreSession", ctx, mock.MatchedBy(func(s *models.Session) bool {
			return s.SessionID == "session-1" && s.UserID == 7 && s.Email == "alice@example.com" &&
				s.Host == testMeta.Host && s.UserAgent == testMeta.UserAgent && s.Expiry.Equal(expiry.UTC())
		})).Return(nil).Once()

		resp, err := d.service.Signup(ctx, models.SignupRequest{Email: "  Alice@Example.com ", Name: "Alice", Password: "password123"}, testMeta)

		require.NoError(t, err)
		assert.Equal(t, "jwt-token", resp.Token)
		assert.Equal(t, expiry, resp.ExpiresAt)
		assert.Equal(t, &models.UserInfo{ID: 7, Email: "alice@example.com", Name: "Alice"}, resp.User)
		d.assertExpectations(t)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		d := setupAuthService()
		d.hasher.On("Hash", "password123").Return("record", nil).Once()
		d.userRepo.On("CreateUser", ctx, "alice@example.com", "", "record").Return(nil, repository.ErrUserExists).Once()

		resp, err := d.service.Signup(ctx, models.SignupRequest{Email: "alice@example.com", Password: "password123"}, testMeta)

		assert.ErrorIs(t, err, repository.ErrUserExists)
		assert.Nil(t, resp)
		d.assertExpectations(t)
	})

	t.Run("CryptoUnavailable", func(t *testing.T) {
		d := setupAuthService()
		d.hasher.On("Hash", "password123").Return("", credential.ErrCryptoUnavailable).Once()

		_, err := d.service.Signup(ctx, models.SignupRequest{Email: "alice@example.com", Password: "password123"}, testMeta)

		assert.ErrorIs(t, err, credential.ErrCryptoUnavailable)
		d.userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		d.assertExpectations(t)
	})

	t.Run("SessionStoreFails", func(t *testing.T) {
		d := setupAuthService()
		user := &models.User{ID: 7, Email: "alice@example.com"}
		d.hasher.On("Hash", "password123").Return("record", nil).Once()
		d.userRepo.On("CreateUser", ctx, "alice@example.com", "", "record").Return(user, nil).Once()
		d.tokenSvc.On("GenerateToken", int64(7), "session-1").Return("jwt-token", expiry, nil).Once()
		d.sessionRepo.On("StoreSession", ctx, mock.Anything).Return(errors.New("redis down")).Once()

		_, err := d.service.Signup(ctx, models.SignupRequest{Email: "alice@example.com", Password: "password123"}, testMeta)

		assert.ErrorContains(t, err, "failed to store session")
		d.assertExpectations(t)
	})
}

func TestAuthService_Signin(t *testing.T) {
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)
	user := &models.User{ID: 7, Email: "alice@example.com", Name: "Alice", Password: "stored-record"}

	t.Run("Success", func(t *testing.T) {
		d := setupAuthService()
		d.userRepo.On("GetUserByEmail", ctx, "alice@example.com").Return(user, nil).Once()
		d.hasher.On("Verify", "password123", "stored-record").Return(true, nil).Once()
		d.tokenSvc.On("GenerateToken", int64(7), "session-1").Return("jwt-token", expiry, nil).Once()
		d.sessionRepo.On("StoreSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil).Once()

		resp, err := d.service.Signin(ctx, models.SigninRequest{Email: "ALICE@example.com", Password: "password123"}, testMeta)

		require.NoError(t, err)
		assert.Equal(t, "jwt-token", resp.Token)
		assert.Equal(t, int64(7), resp.User.ID)
		d.assertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		d := setupAuthService()
		d.userRepo.On("GetUserByEmail", ctx, "alice@example.com").Return(user, nil).Once()
		d.hasher.On("Verify", "nope", "stored-record").Return(false, nil).Once()

		resp, err := d.service.Signin(ctx, models.SigninRequest{Email: "alice@example.com", Password: "nope"}, testMeta)

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, resp)
		d.tokenSvc.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
		d.assertExpectations(t)
	})

	t.Run("UnknownUserRunsDecoyVerification", func(t *testing.T) {
		d := setupAuthService()
		d.userRepo.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound).Twice()
		d.hasher.On("Hash", dummyPassword).Return("decoy-record", nil).Once()
		d.hasher.On("Verify", "whatever", "decoy-record").Return(false, nil).Twice()

		for i := 0; i < 2; i++ {
			_, err := d.service.Signin(ctx, models.SigninRequest{Email: "ghost@example.com", Password: "whatever"}, testMeta)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		}
		d.assertExpectations(t)
	})

	t.Run("DecoyRebuiltAfterHashFailure", func(t *testing.T) {
		d := setupAuthService()
		d.userRepo.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound).Times(3)
		d.hasher.On("Hash", dummyPassword).Return("", credential.ErrCryptoUnavailable).Once()
		d.hasher.On("Hash", dummyPassword).Return("decoy-record", nil).Once()
		d.hasher.On("Verify", "whatever", "decoy-record").Return(false, nil).Twice()

		for i := 0; i < 3; i++ {
			_, err := d.service.Signin(ctx, models.SigninRequest{Email: "ghost@example.com", Password: "whatever"}, testMeta)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		}
		d.hasher.AssertNumberOfCalls(t, "Hash", 2)
		d.hasher.AssertNumberOfCalls(t, "Verify", 2)
		d.assertExpectations(t)
	})

	t.Run("MalformedRecord", func(t *testing.T) {
		d := setupAuthService()
		d.userRepo.On("GetUserByEmail", ctx, "alice@example.com").Return(user, nil).Once()
		d.hasher.On("Verify", "password123", "stored-record").
			Return(false, fmt.Errorf("bad salt: %w", credential.ErrMalformedRecord)).Once()

		_, err := d.service.Signin(ctx, models.SigninRequest{Email: "alice@example.com", Password: "password123"}, testMeta)

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		d.assertExpectations(t)
	})

	t.Run("RepositoryFailure", func(t *testing.T) {
		d := setupAuthService()
		d.userRepo.On("GetUserByEmail", ctx, "alice@example.com").Return(nil, errors.New("db gone")).Once()

		_, err := d.service.Signin(ctx, models.SigninRequest{Email: "alice@example.com", Password: "password123"}, testMeta)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
		d.assertExpectations(t)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: 7, Email: "alice@example.com", Password: "old-record"}
	req := models.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"}

	t.Run("Success", func(t *testing.T) {
		d := setupAuthService()
		d.userRepo.On("GetUserByID", ctx, int64(7)).Return(user, nil).Once()
		d.hasher.On("Verify", "old-password", "old-record").Return(true, nil).Once()
		d.hasher.On("Hash", "new-password").Return("new-record", nil).Once()
		d.userRepo.On("UpdatePassword", ctx, int64(7), "new-record").Return(nil).Once()
		d.sessionRepo.On("DeleteUserSessions", ctx, int64(7), []string{"current"}).Return(int64(2), nil).Once()

		err := d.service.ChangePassword(ctx, 7, "current", req)

		require.NoError(t, err)
		d.assertExpectations(t)
	})

	t.Run("WrongCurrentPassword", func(t *testing.T) {
		d := setupAuthService()
		d.userRepo.On("GetUserByID", ctx, int64(7)).Return(user, nil).Once()
		d.hasher.On("Verify", "old-password", "old-record").Return(false, nil).Once()

		err := d.service.ChangePassword(ctx, 7, "current", req)

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		d.userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
		d.assertExpectations(t)
	})

	t.Run("UserGone", func(t *testing.T) {
		d := setupAuthService()
		d.userRepo.On("GetUserByID", ctx, int64(7)).Return(nil, repository.ErrUserNotFound).Once()

		err := d.service.ChangePassword(ctx, 7, "current", req)

		assert.ErrorIs(t, err, repository.ErrUserNotFound)
		d.assertExpectations(t)
	})
}

func TestAuthService_Signout(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		d := setupAuthService()
		d.sessionRepo.On("DeleteSession", ctx, "session-1").Return(nil).Once()
		assert.NoError(t, d.service.Signout(ctx, "session-1"))
		d.assertExpectations(t)
	})

	t.Run("AlreadyGone", func(t *testing.T) {
		d := setupAuthService()
		d.sessionRepo.On("DeleteSession", ctx, "session-1").Return(repository.ErrSessionNotFound).Once()
		assert.NoError(t, d.service.Signout(ctx, "session-1"))
		d.assertExpectations(t)
	})

	t.Run("EmptySessionID", func(t *testing.T) {
		d := setupAuthService()
		assert.Error(t, d.service.Signout(ctx, ""))
	})

	t.Run("SignoutAllKeepsCurrent", func(t *testing.T) {
		d := setupAuthService()
		d.sessionRepo.On("DeleteUserSessions", ctx, int64(7), []string{"session-1"}).Return(int64(3), nil).Once()

		removed, err := d.service.SignoutAll(ctx, 7, "session-1")

		require.NoError(t, err)
		assert.Equal(t, int64(3), removed)
		d.assertExpectations(t)
	})

	t.Run("SignoutAllEverything", func(t *testing.T) {
		d := setupAuthService()
		d.sessionRepo.On("DeleteUserSessions", ctx, int64(7), []string(nil)).Return(int64(4), nil).Once()

		removed, err := d.service.SignoutAll(ctx, 7, "")

		require.NoError(t, err)
		assert.Equal(t, int64(4), removed)
		d.assertExpectations(t)
	})
}

func TestAuthService_VerifySession(t *testing.T) {
	ctx := context.Background()
	claims := models.NewClaims(7, "session-1", testIssuer, time.Now(), time.Now().Add(time.Hour))

	t.Run("Live", func(t *testing.T) {
		d := setupAuthService()
		session := &models.Session{SessionID: "session-1", UserID: 7}
		d.sessionRepo.On("GetSession", ctx, "session-1").Return(session, nil).Once()

		got, err := d.service.VerifySession(ctx, claims)

		require.NoError(t, err)
		assert.Equal(t, session, got)
	})

	t.Run("Revoked", func(t *testing.T) {
		d := setupAuthService()
		d.sessionRepo.On("GetSession", ctx, "session-1").Return(nil, repository.ErrSessionNotFound).Once()

		_, err := d.service.VerifySession(ctx, claims)
		assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	})

	t.Run("OtherUsersSession", func(t *testing.T) {
		d := setupAuthService()
		d.sessionRepo.On("GetSession", ctx, "session-1").Return(&models.Session{SessionID: "session-1", UserID: 8}, nil).Once()

		_, err := d.service.VerifySession(ctx, claims)
		assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	})

	t.Run("NilClaims", func(t *testing.T) {
		d := setupAuthService()
		_, err := d.service.VerifySession(ctx, nil)
		assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	})
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	d := setupAuthService()
	d.userRepo.On("GetUserByID", ctx, int64(7)).Return(&models.User{ID: 7, Email: "a@b.c", Name: "A", Password: "secret"}, nil).Once()

	info, err := d.service.Me(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, &models.UserInfo{ID: 7, Email: "a@b.c", Name: "A"}, info)
	d.assertExpectations(t)
}

// TestAuthService_Flow runs the service over sqlite, in-memory sessions and the real hasher.
func TestAuthService_Flow(t *testing.T) {
	ctx := context.Background()
	drv, err := ent_repo.Open("sqlite3", "file:auth_flow?mode=memory&cache=shared&_fk=1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = drv.Close() })
	require.NoError(t, ent_repo.Migrate(ctx, drv))

	sessions := memory.NewMemorySessionRepository(0)
	t.Cleanup(func() { _ = sessions.Close() })
	hasher := credential.New(credential.WithParams(credential.Params{
		Iterations: 1000, KeyLength: credential.KeyLength, SaltLength: credential.SaltLength, Digest: sha256.New,
	}))
	tokens := NewJWTService(testSecret, testIssuer, time.Hour)
	svc := NewAuthService(ent_repo.NewEntUserRepository(drv), sessions, tokens, hasher)

	signup, err := svc.Signup(ctx, models.SignupRequest{Email: "bob@example.com", Name: "Bob", Password: "password123"}, testMeta)
	require.NoError(t, err)

	_, err = svc.Signup(ctx, models.SignupRequest{Email: "BOB@example.com", Password: "password123"}, testMeta)
	assert.ErrorIs(t, err, repository.ErrUserExists)

	_, err = svc.Signin(ctx, models.SigninRequest{Email: "bob@example.com", Password: "wrong-password"}, testMeta)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Signin(ctx, models.SigninRequest{Email: "nobody@example.com", Password: "password123"}, testMeta)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	signin, err := svc.Signin(ctx, models.SigninRequest{Email: "bob@example.com", Password: "password123"}, testMeta)
	require.NoError(t, err)

	signupClaims, err := tokens.ValidateToken(signup.Token)
	require.NoError(t, err)
	signinClaims, err := tokens.ValidateToken(signin.Token)
	require.NoError(t, err)
	_, err = svc.VerifySession(ctx, signupClaims)
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, signup.User.ID, signinClaims.ID, models.ChangePasswordRequest{
		CurrentPassword: "password123", NewPassword: "new-password-456",
	})
	require.NoError(t, err)

	_, err = svc.VerifySession(ctx, signupClaims)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound, "other sessions are revoked")
	_, err = svc.VerifySession(ctx, signinClaims)
	assert.NoError(t, err, "the session that changed the password survives")

	_, err = svc.Signin(ctx, models.SigninRequest{Email: "bob@example.com", Password: "password123"}, testMeta)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Signin(ctx, models.SigninRequest{Email: "bob@example.com", Password: "new-password-456"}, testMeta)
	assert.NoError(t, err)

	require.NoError(t, svc.Signout(ctx, signinClaims.ID))
	_, err = svc.VerifySession(ctx, signinClaims)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}
