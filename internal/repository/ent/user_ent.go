package ent_repo

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/models"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/repository"
)

var userColumns = []string{"id", "email", "name", "password", "created_at"}

// EntUserRepository implements UserRepository on top of the ent SQL driver.
type EntUserRepository struct {
	drv querier
	b   *entsql.DialectBuilder
}

func NewEntUserRepository(drv *entsql.Driver) repository.UserRepository {
	return &EntUserRepository{
		drv: drv,
		b:   entsql.Dialect(dialect.SQLite),
	}
}

func (r *EntUserRepository) CreateUser(ctx context.Context, email, name, credential string) (*models.User, error) {
	now := time.Now().UTC()
	query, args := r.b.Insert(usersTable).
		Columns("email", "name", "password", "created_at").
		Values(email, name, credential, now).
		Query()

	res, err := exec(ctx, r.drv, query, args)
	if err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			return nil, repository.ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new user id: %w", err)
	}

	return &models.User{
		ID:        id,
		Email:     email,
		Name:      name,
		Password:  credential,
		CreatedAt: now,
	}, nil
}

func (r *EntUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, entsql.EQ("email", email))
}

func (r *EntUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, entsql.EQ("id", id))
}

func (r *EntUserRepository) UpdatePassword(ctx context.Context, id int64, credential string) error {
	query, args := r.b.Update(usersTable).
		Set("password", credential).
		Where(entsql.EQ("id", id)).
		Query()

	res, err := exec(ctx, r.drv, query, args)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (r *EntUserRepository) getOne(ctx context.Context, where *entsql.Predicate) (*models.User, error) {
	query, args := r.b.Select(userColumns...).
		From(r.b.Table(usersTable)).
		Where(where).
		Limit(1).
		Query()

	var found *models.User
	err := queryEach(ctx, r.drv, query, args, func(rows *entsql.Rows) error {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Password, &u.CreatedAt); err != nil {
			return err
		}
		found = u
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("database query failed for user: %w", err)
	}
	if found == nil {
		return nil, repository.ErrUserNotFound
	}
	return found, nil
}
