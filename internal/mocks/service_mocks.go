package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/models"
)

type MockTokenGenerator struct {
	mock.Mock
}

func (m *MockTokenGenerator) GenerateToken(userID int64, sessionID string) (string, time.Time, error) {
	args := m.Called(userID, sessionID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenGenerator) ValidateToken(token string) (*models.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Claims), args.Error(1)
}

type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Verify(password, stored string) (bool, error) {
	args := m.Called(password, stored)
	return args.Bool(0), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, req models.SignupRequest, meta models.SessionMeta) (*models.AuthResponse, error) {
	args := m.Called(ctx, req, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Signin(ctx context.Context, req models.SigninRequest, meta models.SessionMeta) (*models.AuthResponse, error) {
	args := m.Called(ctx, req, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID int64, currentSessionID string, req models.ChangePasswordRequest) error {
	args := m.Called(ctx, userID, currentSessionID, req)
	return args.Error(0)
}

func (m *MockAuthService) Signout(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockAuthService) SignoutAll(ctx context.Context, userID int64, keepSessionID string) (int64, error) {
	args := m.Called(ctx, userID, keepSessionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAuthService) VerifySession(ctx context.Context, claims *models.Claims) (*models.Session, error) {
	args := m.Called(ctx, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, userID int64) (*models.UserInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserInfo), args.Error(1)
}

type MockBlogService struct {
	mock.Mock
}

func (m *MockBlogService) CreatePost(ctx context.Context, authorID int64, req models.CreatePostRequest) (*models.Post, error) {
	args := m.Called(ctx, authorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockBlogService) GetPost(ctx context.Context, postID int64) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockBlogService) UpdatePost(ctx context.Context, authorID, postID int64, req models.UpdatePostRequest) (*models.Post, error) {
	args := m.Called(ctx, authorID, postID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockBlogService) DeletePost(ctx context.Context, authorID, postID int64) error {
	args := m.Called(ctx, authorID, postID)
	return args.Error(0)
}

func (m *MockBlogService) ListPosts(ctx context.Context, query models.ListPostsQuery) (*models.ListPostsResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ListPostsResponse), args.Error(1)
}
