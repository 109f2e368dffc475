// Package user 顾客资料查询与修改
package user

import (
	"context"

	"storefront/domain/identity"
	"storefront/domain/shared"
	"storefront/domain/user"
	"storefront/infrastructure/persistence/retry"
)

// ApplicationService User application service
type ApplicationService struct {
	userRepo    user.Repository
	uowFactory  shared.UnitOfWorkFactory
	retryConfig retry.Config
}

func NewApplicationService(userRepo user.Repository, uowFactory shared.UnitOfWorkFactory, retryConfig retry.Config) *ApplicationService {
	retryConfig.RetryOnConcurrentModification = true
	return &ApplicationService{userRepo: userRepo, uowFactory: uowFactory, retryConfig: retryConfig}
}

func (s *ApplicationService) GetProfile(ctx context.Context, caller identity.Identity) (*UserResponse, error) {
	u, err := s.userRepo.FindByID(ctx, caller.SubjectID)
	if err != nil {
		return nil, err
	}
	return ToResponse(u), nil
}

func (s *ApplicationService) UpdateProfile(ctx context.Context, caller identity.Identity, req UpdateProfileRequest) (*UserResponse, error) {
	var address user.Address
	if req.Address != nil {
		address = user.Address{
			Street:  req.Address.Street,
			City:    req.Address.City,
			State:   req.Address.State,
			ZipCode: req.Address.ZipCode,
		}
	}

	u, err := s.mutate(ctx, caller.SubjectID, func(u *user.User) error {
		return u.UpdateProfile(req.Name, req.Phone, address)
	})
	if err != nil {
		return nil, err
	}
	return ToResponse(u), nil
}

// mutate reloads the user on every attempt so optimistic-lock retries see fresh state.
func (s *ApplicationService) mutate(ctx context.Context, userID string, change func(*user.User) error) (*user.User, error) {
	return Mutate(ctx, s.userRepo, s.uowFactory, s.retryConfig, userID, change)
}

// Mutate loads userID, applies change and saves it inside a unit of work, retrying on conflicts.
func Mutate(
	ctx context.Context,
	repo user.Repository,
	uowFactory shared.UnitOfWorkFactory,
	retryConfig retry.Config,
	userID string,
	change func(*user.User) error,
) (*user.User, error) {
	var result *user.User
	err := retry.ExecuteWithRetry(ctx, retryConfig, func(ctx context.Context) error {
		uow := uowFactory.New()
		return uow.Execute(ctx, func(ctx context.Context) error {
			u, err := repo.FindByID(ctx, userID)
			if err != nil {
				return err
			}
			if err := change(u); err != nil {
				return err
			}
			if err := repo.Save(ctx, u); err != nil {
				return err
			}
			uow.RegisterDirty(u)
			result = u
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
