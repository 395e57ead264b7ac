package users

import (
	"context"

	"github.com/ignite/users-server/internal/domain"
)

// Service implements user record business logic. It is safe for concurrent
// use as long as the repository is.
type Service struct {
	repo Repository
}

// NewService creates a users service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new user. The store assigns the id; whatever id the caller
// supplied is discarded.
func (s *Service) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.ID = 0
	if err := s.repo.Create(ctx, &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// Get returns a single user or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (domain.User, error) {
	return s.repo.Get(ctx, id)
}

// List returns all users. The result is never nil so it always encodes as a
// collection.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.User{}
	}
	return out, nil
}

// Update replaces name and email of the user with the given id. Updating a
// missing id succeeds without effect; callers that need to know must Get first.
func (s *Service) Update(ctx context.Context, id int64, u domain.User) error {
	u.ID = id
	return s.repo.Update(ctx, u)
}

// Delete removes a user. Returns ErrNotFound when nothing was deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
