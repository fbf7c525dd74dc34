package models

import "time"

// Post is a blog post owned by a single author.
type Post struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Published  bool      `json:"published"`
	AuthorID   int64     `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PostUpdate carries the fields a partial update may change. Nil means unchanged.
type PostUpdate struct {
	Title     *string
	Content   *string
	Published *bool
}

// IsEmpty reports whether the update changes nothing.
func (u PostUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil && u.Published == nil
}

// ListPostsFilter narrows a post listing.
type ListPostsFilter struct {
	AuthorID  int64 // 0 means any author
	Published *bool
	Limit     int
	Offset    int
}
