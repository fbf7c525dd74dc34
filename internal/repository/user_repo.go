package repository

import (
	"context"
	"errors"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/models"
)

// UserRepository defines operations for storing/retrieving users and their credential records.
type UserRepository interface {
	// CreateUser stores a new user with an already hashed credential record.
	// It should return ErrUserExists if the email is already taken.
	CreateUser(ctx context.Context, email, name, credential string) (*models.User, error)

	// GetUserByEmail returns ErrUserNotFound if no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrUserNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// UpdatePassword replaces the stored credential record.
	// It should return ErrUserNotFound if the user does not exist.
	UpdatePassword(ctx context.Context, id int64, credential string) error
}

// Common errors
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
