package memory

import (
	"context"
	"sort"
	"sync"

	"storefront/domain/shared"
	"storefront/domain/user"
)

// UserRepository In-memory user repository with a unique email index
type UserRepository struct {
	mu      sync.RWMutex
	users   map[string]user.ReconstructionDTO
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[string]user.ReconstructionDTO),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	email := u.Email().Value()
	if ownerID, taken := r.byEmail[email]; taken && ownerID != u.ID() {
		return user.NewEmailAlreadyExistsError(email)
	}

	existing, exists := r.users[u.ID()]
	switch {
	case u.IsNew() && exists:
		return user.NewConcurrentModificationError(u.ID())
	case !u.IsNew() && !exists:
		return user.NewUserNotFoundError(u.ID())
	case !u.IsNew() && existing.Version != u.Version():
		return user.NewConcurrentModificationError(u.ID())
	}

	snapshot := u.Snapshot()
	snapshot.Version++
	r.users[u.ID()] = snapshot
	r.byEmail[email] = u.ID()
	u.IncrementVersionForSave()
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dto, ok := r.users[id]
	if !ok {
		return nil, user.NewUserNotFoundError(id)
	}
	return user.RebuildFromDTO(dto), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[user.NormalizeEmail(email)]
	if !ok {
		return nil, user.NewUserNotFoundError(email)
	}
	return user.RebuildFromDTO(r.users[id]), nil
}

func (r *UserRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*user.User]) ([]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*user.User, 0)
	for _, dto := range r.users {
		u := user.RebuildFromDTO(dto)
		if spec.IsSatisfiedBy(ctx, u) {
			result = append(result, u)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt().After(result[j].CreatedAt())
	})
	return result, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

var _ user.Repository = (*UserRepository)(nil)
