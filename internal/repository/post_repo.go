package repository

import (
	"context"
	"errors"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/models"
)

// ErrPostNotFound is returned when a post id does not exist.
var ErrPostNotFound = errors.New("post not found")

// PostRepository defines persistence for blog posts.
type PostRepository interface {
	// CreatePost stores the post and fills in ID and timestamps.
	CreatePost(ctx context.Context, post *models.Post) error
	// GetPost returns the post joined with its author's name, or ErrPostNotFound.
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	// UpdatePost applies the non-nil fields of update and returns the stored post.
	UpdatePost(ctx context.Context, id int64, update models.PostUpdate) (*models.Post, error)
	// DeletePost removes the post, or returns ErrPostNotFound.
	DeletePost(ctx context.Context, id int64) error
	// ListPosts returns one page of posts, newest first, and the total matching count.
	ListPosts(ctx context.Context, filter models.ListPostsFilter) ([]*models.Post, int, error)
}
