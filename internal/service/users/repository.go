package users

import (
	"context"

	"github.com/ignite/users-server/internal/domain"
)

// Repository defines the data access contract for user records.
type Repository interface {
	// Create inserts a user and sets u.ID to the store-assigned identifier.
	// Any ID already present on u is ignored.
	Create(ctx context.Context, u *domain.User) error

	// Get returns the user with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (domain.User, error)

	// List returns every user ordered by id.
	List(ctx context.Context) ([]domain.User, error)

	// Update overwrites name and email of the user with u.ID. It is a no-op,
	// not an error, when no such user exists.
	Update(ctx context.Context, u domain.User) error

	// Delete removes the user with the given id. Returns ErrNotFound if no
	// row was affected.
	Delete(ctx context.Context, id int64) error
}
