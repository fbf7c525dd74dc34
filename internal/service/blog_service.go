package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/config"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/models"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/repository"
)

type BlogService struct {
	postRepo repository.PostRepository
	paging   config.BlogConfig
}

var _ BlogGenerator = (*BlogService)(nil)

func NewBlogService(postRepo repository.PostRepository, paging config.BlogConfig) *BlogService {
	if paging.MaxPageSize <= 0 {
		paging.MaxPageSize = 100
	}
	if paging.DefaultPageSize <= 0 || paging.DefaultPageSize > paging.MaxPageSize {
		paging.DefaultPageSize = min(20, paging.MaxPageSize)
	}
	return &BlogService{postRepo: postRepo, paging: paging}
}

func (s *BlogService) CreatePost(ctx context.Context, authorID int64, req models.CreatePostRequest) (*models.Post, error) {
	now := time.Now().UTC()
	post := &models.Post{
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Published: req.Published,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	log.Info().Int64("postID", post.ID).Int64("authorID", authorID).Msg("[BlogService.CreatePost] post created")
	return post, nil
}

func (s *BlogService) GetPost(ctx context.Context, postID int64) (*models.Post, error) {
	return s.postRepo.GetPost(ctx, postID)
}

func (s *BlogService) UpdatePost(ctx context.Context, authorID, postID int64, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.ownedPost(ctx, authorID, postID)
	if err != nil {
		return nil, err
	}

	update := models.PostUpdate{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	}
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		update.Title = &title
	}
	if update.IsEmpty() {
		return post, nil
	}
	return s.postRepo.UpdatePost(ctx, postID, update)
}

func (s *BlogService) DeletePost(ctx context.Context, authorID, postID int64) error {
	if _, err := s.ownedPost(ctx, authorID, postID); err != nil {
		return err
	}
	if err := s.postRepo.DeletePost(ctx, postID); err != nil {
		return err
	}
	log.Info().Int64("postID", postID).Int64("authorID", authorID).Msg("[BlogService.DeletePost] post deleted")
	return nil
}

func (s *BlogService) ownedPost(ctx context.Context, authorID, postID int64) (*models.Post, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != authorID {
		return nil, ErrForbidden
	}
	return post, nil
}

// ListPosts returns one page, newest first. Page defaults to 1 and the page
// size is clamped to the configured maximum.
func (s *BlogService) ListPosts(ctx context.Context, query models.ListPostsQuery) (*models.ListPostsResponse, error) {
	page := max(query.Page, 1)
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = s.paging.DefaultPageSize
	}
	pageSize = min(pageSize, s.paging.MaxPageSize)

	posts, total, err := s.postRepo.ListPosts(ctx, models.ListPostsFilter{
		AuthorID: query.AuthorID,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return &models.ListPostsResponse{
		Posts:    posts,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}
