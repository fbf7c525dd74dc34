package service

import (
	"context"
	"time"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/models"
)

// TokenGenerator issues and checks signed access tokens.
type TokenGenerator interface {
	GenerateToken(userID int64, sessionID string) (token string, expiresAt time.Time, err error)
	ValidateToken(token string) (*models.Claims, error)
}

// PasswordHasher produces and checks credential records.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, stored string) (bool, error)
}

type AuthGenerator interface {
	// Signup creates the user and opens a first session.
	Signup(ctx context.Context, req models.SignupRequest, meta models.SessionMeta) (*models.AuthResponse, error)
	// Signin checks the password and opens a session. Every failure to
	// authenticate is reported as ErrInvalidCredentials.
	Signin(ctx context.Context, req models.SigninRequest, meta models.SessionMeta) (*models.AuthResponse, error)
	// ChangePassword stores a fresh credential record and ends every other session.
	ChangePassword(ctx context.Context, userID int64, currentSessionID string, req models.ChangePasswordRequest) error
	Signout(ctx context.Context, sessionID string) error
	SignoutAll(ctx context.Context, userID int64, keepSessionID string) (int64, error)
	// VerifySession resolves token claims to a live session.
	VerifySession(ctx context.Context, claims *models.Claims) (*models.Session, error)
	Me(ctx context.Context, userID int64) (*models.UserInfo, error)
}

type BlogGenerator interface {
	CreatePost(ctx context.Context, authorID int64, req models.CreatePostRequest) (*models.Post, error)
	GetPost(ctx context.Context, postID int64) (*models.Post, error)
	// UpdatePost and DeletePost return ErrForbidden unless authorID owns the post.
	UpdatePost(ctx context.Context, authorID, postID int64, req models.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, authorID, postID int64) error
	ListPosts(ctx context.Context, query models.ListPostsQuery) (*models.ListPostsResponse, error)
}
