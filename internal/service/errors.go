package service

import "errors"

var (
	// ErrInvalidCredentials covers unknown emails, wrong passwords and unreadable records alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden is returned when the caller does not own the post.
	ErrForbidden = errors.New("caller is not the author")
)
