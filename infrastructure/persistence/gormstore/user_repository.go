package gormstore

import (
	"context"
	"errors"

	"storefront/domain/shared"
	"storefront/domain/user"
	"storefront/infrastructure/persistence"
	"storefront/infrastructure/persistence/gormstore/po"
	"storefront/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		if err := r.saveWithTx(tx, u); err != nil {
			return err
		}
		// 事务回滚重试时聚合必须保持原版本与 isNew
		persistence.AfterCommit(ctx, u.IncrementVersionForSave)
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, u)
	})
	if err != nil {
		return err
	}
	u.IncrementVersionForSave()
	return nil
}

func (r *UserRepository) saveWithTx(tx *gorm.DB, u *user.User) error {
	userPO := po.FromUserDomain(u)

	if u.IsNew() {
		userPO.Version = 1
		if err := tx.Create(userPO).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return user.NewEmailAlreadyExistsError(userPO.Email)
			}
			return err
		}
		return nil
	}

	// 严格乐观锁：必须使用聚合当前版本作为更新条件，避免静默覆盖并发写入。
	expectedVersion := u.Version()
	result := tx.Model(&po.UserPO{}).
		Where("id = ? AND version = ?", u.ID(), expectedVersion).
		Updates(map[string]any{
			"name":          userPO.Name,
			"phone":         userPO.Phone,
			"status":        userPO.Status,
			"address":       gorm.Expr("?", mustJSON(userPO.Address)),
			"last_login_at": userPO.LastLoginAt,
			"version":       expectedVersion + 1,
			"updated_at":    userPO.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&po.UserPO{}).Where("id = ?", u.ID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return user.NewUserNotFoundError(u.ID())
		}
		return user.NewConcurrentModificationError(u.ID())
	}

	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	var userPO po.UserPO
	if err := r.getDB(ctx).First(&userPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.NewUserNotFoundError(id)
		}
		return nil, err
	}
	return userPO.ToDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var userPO po.UserPO
	if err := r.getDB(ctx).First(&userPO, "email = ?", user.NormalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.NewUserNotFoundError(email)
		}
		return nil, err
	}
	return userPO.ToDomain(), nil
}

func (r *UserRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*user.User]) ([]*user.User, error) {
	db := r.getDB(ctx)
	query := specification.Apply(db.Model(&po.UserPO{}), specification.User(db, spec))

	var userPOs []po.UserPO
	if err := query.Order("created_at DESC").Find(&userPOs).Error; err != nil {
		return nil, err
	}

	users := make([]*user.User, 0, len(userPOs))
	for i := range userPOs {
		u := userPOs[i].ToDomain()
		if spec == nil || spec.IsSatisfiedBy(ctx, u) {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int64
	if err := r.getDB(ctx).Model(&po.UserPO{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

var _ user.Repository = (*UserRepository)(nil)
