package gormstore

import (
	"context"
	"errors"

	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence"
	"storefront/infrastructure/persistence/gormstore/po"
	"storefront/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

// OrderRepository GORM implementation of order repository
// GORM usage specification: Association features are prohibited to maintain aggregate boundaries
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save creates or updates an order.
// Line items are frozen at creation, so updates only touch the order row.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		if err := r.saveWithTx(tx, o); err != nil {
			return err
		}
		// 事务回滚重试时聚合必须保持原版本与 isNew
		persistence.AfterCommit(ctx, o.IncrementVersionForSave)
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, o)
	})
	if err != nil {
		return err
	}
	o.IncrementVersionForSave()
	return nil
}

func (r *OrderRepository) saveWithTx(tx *gorm.DB, o *order.Order) error {
	orderPO, itemPOs := po.FromOrderDomain(o)

	if o.IsNew() {
		orderPO.Version = 1
		if err := tx.Create(orderPO).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return order.NewConcurrentModificationError(o.ID())
			}
			return err
		}
		if len(itemPOs) > 0 {
			if err := tx.Create(&itemPOs).Error; err != nil {
				return err
			}
		}
		return nil
	}

	expectedVersion := o.Version()
	result := tx.Model(&po.OrderPO{}).
		Where("id = ? AND version = ?", o.ID(), expectedVersion).
		Updates(map[string]any{
			"status":          orderPO.Status,
			"tracking_number": orderPO.TrackingNumber,
			"payment_result":  gorm.Expr("?", mustJSON(orderPO.PaymentResult)),
			"history":         gorm.Expr("?", mustJSON(orderPO.History)),
			"paid_at":         orderPO.PaidAt,
			"version":         expectedVersion + 1,
			"updated_at":      orderPO.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&po.OrderPO{}).Where("id = ?", o.ID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return order.NewOrderNotFoundError(o.ID())
		}
		return order.NewConcurrentModificationError(o.ID())
	}

	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	db := r.getDB(ctx)
	var orderPO po.OrderPO
	if err := db.First(&orderPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, err
	}

	orders, err := r.attachItems(db, []po.OrderPO{orderPO})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

func (r *OrderRepository) FindByUserID(ctx context.Context, userID string) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.NewByUserIDSpecification(userID))
}

func (r *OrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	db := r.getDB(ctx)
	query := specification.Apply(db.Model(&po.OrderPO{}), specification.Order(db, spec))

	var orderPOs []po.OrderPO
	if err := query.Order("created_at DESC").Order("id DESC").Find(&orderPOs).Error; err != nil {
		return nil, err
	}

	orders, err := r.attachItems(db, orderPOs)
	if err != nil {
		return nil, err
	}

	// SQL 只做粗筛，最终以领域规格为准
	result := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if spec == nil || spec.IsSatisfiedBy(ctx, o) {
			result = append(result, o)
		}
	}
	return result, nil
}

// attachItems loads line items for all orders with one query.
func (r *OrderRepository) attachItems(db *gorm.DB, orderPOs []po.OrderPO) ([]*order.Order, error) {
	if len(orderPOs) == 0 {
		return []*order.Order{}, nil
	}
	ids := make([]string, len(orderPOs))
	for i, o := range orderPOs {
		ids[i] = o.ID
	}

	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id IN ?", ids).Order("order_id").Order("line_no").Find(&itemPOs).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[string][]po.OrderItemPO, len(orderPOs))
	for _, item := range itemPOs {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	orders := make([]*order.Order, len(orderPOs))
	for i := range orderPOs {
		orders[i] = orderPOs[i].ToDomain(byOrder[orderPOs[i].ID])
	}
	return orders, nil
}

var _ order.Repository = (*OrderRepository)(nil)
