package gormstore

import (
	"context"
	"fmt"
	"time"

	"storefront/domain/shared"
	"storefront/infrastructure/persistence"
	"storefront/infrastructure/persistence/gormstore/po"

	"gorm.io/gorm"
)

// OutboxRepository stores order and user events next to the aggregate rows
// so the worker can relay them after commit.
//
// Rows written by one Append share created_at and are told apart by sequence,
// which keeps "order.placed" ahead of the status change committed with it.
type OutboxRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db, now: time.Now}
}

func (r *OutboxRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Append writes events in the given order with one INSERT.
// Inside UnitOfWork.Execute it joins the open transaction.
func (r *OutboxRepository) Append(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	at := r.now()
	rows := make([]*po.OutboxEventPO, 0, len(events))
	for i, event := range events {
		if err := shared.ValidateEvent(event); err != nil {
			return fmt.Errorf("invalid domain event: %w", err)
		}
		row, err := po.FromDomainEvent(event)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", event.EventName(), err)
		}
		row.Sequence = i
		row.CreatedAt = at
		row.UpdatedAt = at
		rows = append(rows, row)
	}
	if err := r.getDB(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to save events to outbox: %w", err)
	}
	return nil
}

// Pending returns relayable rows in commit order.
func (r *OutboxRepository) Pending(ctx context.Context, limit int) ([]*po.OutboxEventPO, error) {
	var rows []*po.OutboxEventPO
	err := r.getDB(ctx).
		Where("status = ?", string(po.EventStatusPending)).
		Order("created_at ASC").
		Order("sequence ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load pending events: %w", err)
	}
	return rows, nil
}

// Claim moves a row from PENDING to PROCESSING.
// It reports false when another worker got there first.
func (r *OutboxRepository) Claim(ctx context.Context, id string) (bool, error) {
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", id, string(po.EventStatusPending)).
		Updates(map[string]any{
			"status":     string(po.EventStatusProcessing),
			"updated_at": r.now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, po.EventStatusPublished, nil)
}

// MarkFailed counts a delivery failure. The row goes back to PENDING until
// maxRetries is reached, then stays FAILED for manual replay.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id string, maxRetries int) (po.EventStatus, error) {
	var row po.OutboxEventPO
	if err := r.getDB(ctx).Select("retry_count").First(&row, "id = ?", id).Error; err != nil {
		return "", fmt.Errorf("failed to load outbox event %s: %w", id, err)
	}
	attempts := row.RetryCount + 1
	status := po.EventStatusFailed
	if attempts < maxRetries {
		status = po.EventStatusPending
	}
	if err := r.setStatus(ctx, id, status, map[string]any{"retry_count": attempts}); err != nil {
		return "", err
	}
	return status, nil
}

// ReleaseStale hands rows left in PROCESSING by a crashed worker back to the queue.
func (r *OutboxRepository) ReleaseStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Where("status = ? AND updated_at < ?", string(po.EventStatusProcessing), r.now().Add(-olderThan)).
		Updates(map[string]any{
			"status":     string(po.EventStatusPending),
			"updated_at": r.now(),
		})
	return result.RowsAffected, result.Error
}

func (r *OutboxRepository) setStatus(ctx context.Context, id string, status po.EventStatus, extra map[string]any) error {
	fields := map[string]any{"status": string(status), "updated_at": r.now()}
	for k, v := range extra {
		fields[k] = v
	}
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("outbox event not found: %s", id)
	}
	return nil
}

var _ shared.OutboxRepository = (*OutboxRepository)(nil)
