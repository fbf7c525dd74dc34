package ent_repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/models"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/repository"
)

// EntPostRepository implements PostRepository on top of the ent SQL driver.
type EntPostRepository struct {
	drv querier
	b   *entsql.DialectBuilder
}

func NewEntPostRepository(drv *entsql.Driver) repository.PostRepository {
	return &EntPostRepository{
		drv: drv,
		b:   entsql.Dialect(dialect.SQLite),
	}
}

func (r *EntPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post == nil || post.AuthorID <= 0 {
		return fmt.Errorf("invalid post: author must be set")
	}

	now := time.Now().UTC()
	query, args := r.b.Insert(postsTable).
		Columns("title", "content", "published", "created_at", "updated_at", "author_id").
		Values(post.Title, post.Content, post.Published, now, now, post.AuthorID).
		Query()

	res, err := exec(ctx, r.drv, query, args)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new post id: %w", err)
	}

	post.ID = id
	post.CreatedAt = now
	post.UpdatedAt = now
	return nil
}

func (r *EntPostRepository) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	p, s := r.selectPosts()
	query, args := s.Where(entsql.EQ(p.C("id"), id)).Limit(1).Query()

	posts, err := r.scanPosts(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, repository.ErrPostNotFound
	}
	return posts[0], nil
}

func (r *EntPostRepository) UpdatePost(ctx context.Context, id int64, update models.PostUpdate) (*models.Post, error) {
	if update.IsEmpty() {
		return r.GetPost(ctx, id)
	}

	u := r.b.Update(postsTable).Set("updated_at", time.Now().UTC())
	if update.Title != nil {
		u.Set("title", *update.Title)
	}
	if update.Content != nil {
		u.Set("content", *update.Content)
	}
	if update.Published != nil {
		u.Set("published", *update.Published)
	}
	query, args := u.Where(entsql.EQ("id", id)).Query()

	res, err := exec(ctx, r.drv, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return nil, repository.ErrPostNotFound
	}

	return r.GetPost(ctx, id)
}

func (r *EntPostRepository) DeletePost(ctx context.Context, id int64) error {
	query, args := r.b.Delete(postsTable).Where(entsql.EQ("id", id)).Query()

	res, err := exec(ctx, r.drv, query, args)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return repository.ErrPostNotFound
	}
	return nil
}

func (r *EntPostRepository) ListPosts(ctx context.Context, filter models.ListPostsFilter) ([]*models.Post, int, error) {
	p, s := r.selectPosts()

	var preds []*entsql.Predicate
	if filter.AuthorID > 0 {
		preds = append(preds, entsql.EQ(p.C("author_id"), filter.AuthorID))
	}
	if filter.Published != nil {
		preds = append(preds, entsql.EQ(p.C("published"), *filter.Published))
	}

	countSel := r.b.Select(entsql.Count("*")).From(p)
	if len(preds) > 0 {
		s.Where(entsql.And(preds...))
		countSel.Where(entsql.And(preds...))
	}

	countQuery, countArgs := countSel.Query()
	var total int
	err := queryEach(ctx, r.drv, countQuery, countArgs, func(rows *entsql.Rows) error {
		return rows.Scan(&total)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query, args := s.
		OrderBy(entsql.Desc(p.C("created_at")), entsql.Desc(p.C("id"))).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Query()

	posts, err := r.scanPosts(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// selectPosts builds the posts-with-author-name projection shared by reads.
func (r *EntPostRepository) selectPosts() (*entsql.SelectTable, *entsql.Selector) {
	p := r.b.Table(postsTable)
	// Aliased up front; LeftJoin would otherwise rename it after u.C is built.
	u := r.b.Table(usersTable).As("u")
	s := r.b.Select(
		p.C("id"), p.C("title"), p.C("content"), p.C("published"),
		p.C("author_id"), u.C("name"), p.C("created_at"), p.C("updated_at"),
	).
		From(p).
		LeftJoin(u).
		On(p.C("author_id"), u.C("id"))
	return p, s
}

func (r *EntPostRepository) scanPosts(ctx context.Context, query string, args []any) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := queryEach(ctx, r.drv, query, args, func(rows *entsql.Rows) error {
		post := &models.Post{}
		var authorName sql.NullString
		if err := rows.Scan(
			&post.ID, &post.Title, &post.Content, &post.Published,
			&post.AuthorID, &authorName, &post.CreatedAt, &post.UpdatedAt,
		); err != nil {
			return err
		}
		post.AuthorName = authorName.String
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("database query failed for posts: %w", err)
	}
	return posts, nil
}
