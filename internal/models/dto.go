package models

import "time"

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Name     string `json:"name" validate:"max=100"`
	Password string `json:"password" validate:"required,password"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password"`
}

// AuthResponse is returned by signup and signin.
type AuthResponse struct {
	Token     string    `json:"jwt"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *UserInfo `json:"user"`
}

type CreatePostRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Content   string `json:"content" validate:"required"`
	Published bool   `json:"published"`
}

type UpdatePostRequest struct {
	Title     *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content   *string `json:"content" validate:"omitempty,min=1"`
	Published *bool   `json:"published"`
}

type ListPostsQuery struct {
	Page     int   `query:"page" validate:"omitempty,min=1"`
	PageSize int   `query:"pageSize" validate:"omitempty,min=1"`
	AuthorID int64 `query:"authorId" validate:"omitempty,min=1"`
}

type ListPostsResponse struct {
	Posts    []*Post `json:"posts"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
	Total    int     `json:"total"`
}

// ErrorResponse standard error format
type ErrorResponse struct {
	Message string `json:"message"`
}
